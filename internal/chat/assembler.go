package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/store"
)

// View is the prefetched session state a context is assembled from. The
// assembler itself performs no store or network calls.
type View struct {
	Emotion     string
	Preferences map[string]string
	Topics      []string
	// Memories are recalled texts, most relevant first.
	Memories []string
	History  []store.Turn
	Message  string
}

// BuildContext composes the ordered prompt for the model call. The layout is
// fixed: a system entry with personality and emotion, then (each only when
// non-empty) a preference summary, a topic-interest entry, and one entry per
// recalled memory, then prior turns in chronological order, then the new
// user message. Identical input yields byte-identical output.
func BuildContext(view View) []Message {
	personality := view.Preferences["personality"]
	if personality == "" {
		personality = "neutral"
	}
	emotion := view.Emotion
	if emotion == "" {
		emotion = "neutral"
	}

	msgs := make([]Message, 0, 4+len(view.Memories)+2*len(view.History))
	msgs = append(msgs, Message{
		Role:    RoleSystem,
		Content: fmt.Sprintf("You are a %s chatbot. The user seems %s. Respond appropriately.", personality, emotion),
	})

	if len(view.Preferences) > 0 {
		keys := make([]string, 0, len(view.Preferences))
		for k := range view.Preferences {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+view.Preferences[k])
		}
		msgs = append(msgs, Message{
			Role:    RoleSystem,
			Content: "User preferences: " + strings.Join(parts, "; "),
		})
	}

	if len(view.Topics) > 0 {
		topics := make([]string, len(view.Topics))
		copy(topics, view.Topics)
		sort.Strings(topics)
		msgs = append(msgs, Message{
			Role:    RoleSystem,
			Content: "User is interested in: " + strings.Join(topics, ", "),
		})
	}

	// Recalled content is marked so the model does not mistake it for
	// prior dialogue.
	for _, mem := range view.Memories {
		msgs = append(msgs, Message{Role: RoleAssistant, Content: "Memory: " + mem})
	}

	for _, turn := range view.History {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: turn.User},
			Message{Role: RoleAssistant, Content: turn.Assistant},
		)
	}

	return append(msgs, Message{Role: RoleUser, Content: view.Message})
}
