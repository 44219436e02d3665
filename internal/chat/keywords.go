package chat

import (
	"regexp"
	"sort"
	"strings"
)

var keywordPattern = regexp.MustCompile(`[a-z0-9_]{4,}`)

// Words too generic to say anything about the user's interests.
var keywordStopSet = map[string]struct{}{
	"what": {}, "your": {}, "about": {}, "this": {}, "that": {},
	"have": {}, "with": {}, "from": {}, "there": {}, "where": {},
}

// ExtractKeywords pulls topic keywords out of a message: lower-cased tokens
// of at least four characters, minus the stop-set, deduplicated. The result
// is sorted so callers see a stable order.
func ExtractKeywords(text string) []string {
	seen := make(map[string]struct{})
	for _, word := range keywordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := keywordStopSet[word]; stop {
			continue
		}
		seen[word] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
