package classify

// WordListProfanity flags messages containing any blocked word, matched on
// lowercased letter runs so punctuation and casing cannot dodge the filter.
type WordListProfanity struct {
	blocked map[string]struct{}
}

// NewWordListProfanity builds a filter from the given blocked words. With no
// words it falls back to a small built-in list.
func NewWordListProfanity(words ...string) *WordListProfanity {
	if len(words) == 0 {
		words = []string{
			"damn", "hell", "crap", "bastard", "idiot", "stupid",
			"moron", "jerk", "screw",
		}
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return &WordListProfanity{blocked: set}
}

// Profane reports whether text contains a blocked word.
func (p *WordListProfanity) Profane(text string) bool {
	for _, token := range fields(text) {
		if _, ok := p.blocked[token]; ok {
			return true
		}
	}
	return false
}
