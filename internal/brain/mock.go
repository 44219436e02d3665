package brain

import (
	"context"
	"fmt"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/chat"
)

// MockBrain is the local fallback backend used when no HTTP endpoint is
// configured. It echoes the last user message so the full pipeline stays
// exercisable without a model.
type MockBrain struct{}

func NewMockBrain() *MockBrain { return &MockBrain{} }

func (b *MockBrain) Complete(_ context.Context, messages []chat.Message) (string, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == chat.RoleUser {
			return fmt.Sprintf("You said: %s", messages[i].Content), nil
		}
	}
	return "Hello! How can I help?", nil
}
