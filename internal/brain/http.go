package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/chat"
)

// HTTPBrain forwards the assembled context to an OpenAI-compatible chat
// completion endpoint.
type HTTPBrain struct {
	url    string
	model  string
	client *http.Client
}

func NewHTTPBrain(url, model string) *HTTPBrain {
	return &HTTPBrain{
		url:   strings.TrimSpace(url),
		model: strings.TrimSpace(model),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type completionRequest struct {
	Model    string         `json:"model,omitempty"`
	Messages []chat.Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	// Fallback fields for non-OpenAI backends.
	Reply string `json:"reply"`
	Text  string `json:"text"`
}

func (b *HTTPBrain) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	payload, err := json.Marshal(completionRequest{Model: b.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", fmt.Errorf("brain http status %d: %s", res.StatusCode, string(body))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var obj completionResponse
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(obj.Choices) > 0 {
		if text := strings.TrimSpace(obj.Choices[0].Message.Content); text != "" {
			return text, nil
		}
	}
	if text := strings.TrimSpace(obj.Reply); text != "" {
		return text, nil
	}
	if text := strings.TrimSpace(obj.Text); text != "" {
		return text, nil
	}
	return "", fmt.Errorf("brain response carried no text")
}
