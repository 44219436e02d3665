// Package chat is the core of the context-management engine: it assembles
// the model prompt from session state and semantic memory, runs the inbound
// request pipeline, and commits completed turns.
package chat

import (
	"context"
	"errors"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of the model prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is the outcome of a chat request.
type Reply struct {
	Text string
	// Cached is set when the reply was served from the reply cache.
	Cached bool
	// Refused is set when the message was rejected by the profanity screen.
	Refused bool
}

// ErrRateLimited is returned when a session sends requests faster than the
// configured minimum interval.
var ErrRateLimited = errors.New("too many requests")

// RefusalMessage is returned verbatim for profane input.
const RefusalMessage = "Please avoid using offensive language."

// Brain is the language-model backend: it turns an ordered message sequence
// into a reply. Failures surface to the caller without mutating any state.
type Brain interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// EmotionDetector labels the user's apparent emotion from message text.
type EmotionDetector interface {
	Detect(text string) string
}

// ProfanityFilter reports whether message text should be refused.
type ProfanityFilter interface {
	Profane(text string) bool
}
