// Package brain bridges the chat engine to a language-model backend.
package brain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/chat"
)

// Config controls adapter construction.
type Config struct {
	Mode  string
	URL   string
	Model string
}

// New builds a chat.Brain for the configured mode. In auto mode an HTTP URL
// wins when present, otherwise the mock backend serves local/dev runs.
func New(cfg Config) (chat.Brain, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.URL) != "" {
			return NewHTTPBrain(cfg.URL, cfg.Model), nil
		}
		return NewMockBrain(), nil
	case "http":
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, errors.New("brain HTTP url is required for http mode")
		}
		return NewHTTPBrain(cfg.URL, cfg.Model), nil
	case "mock":
		return NewMockBrain(), nil
	default:
		return nil, fmt.Errorf("unsupported brain mode %q", cfg.Mode)
	}
}
