package brain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/chat"
)

func TestNew_ModeSelection(t *testing.T) {
	if _, err := New(Config{Mode: "http"}); err == nil {
		t.Error("http mode without URL should fail")
	}
	if _, err := New(Config{Mode: "weird"}); err == nil {
		t.Error("unknown mode should fail")
	}

	b, err := New(Config{Mode: "auto"})
	if err != nil {
		t.Fatalf("New(auto): %v", err)
	}
	if _, ok := b.(*MockBrain); !ok {
		t.Errorf("auto without URL = %T, want *MockBrain", b)
	}

	b, err = New(Config{Mode: "auto", URL: "http://localhost:9999/v1/chat/completions"})
	if err != nil {
		t.Fatalf("New(auto, url): %v", err)
	}
	if _, ok := b.(*HTTPBrain); !ok {
		t.Errorf("auto with URL = %T, want *HTTPBrain", b)
	}
}

func TestHTTPBrain_OpenAIShape(t *testing.T) {
	var gotReq completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": " paris is the capital "}},
			},
		})
	}))
	defer srv.Close()

	b := NewHTTPBrain(srv.URL, "gpt-4o-mini")
	reply, err := b.Complete(context.Background(), []chat.Message{
		{Role: chat.RoleSystem, Content: "be helpful"},
		{Role: chat.RoleUser, Content: "capital of france?"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "paris is the capital" {
		t.Errorf("reply = %q", reply)
	}
	if gotReq.Model != "gpt-4o-mini" || len(gotReq.Messages) != 2 {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestHTTPBrain_PlainReplyShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "hello"})
	}))
	defer srv.Close()

	reply, err := NewHTTPBrain(srv.URL, "").Complete(context.Background(), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hello" {
		t.Errorf("reply = %q, want hello", reply)
	}
}

func TestHTTPBrain_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPBrain(srv.URL, "").Complete(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("err = %v, want status error", err)
	}
}

func TestMockBrain_EchoesLastUserMessage(t *testing.T) {
	b := NewMockBrain()
	reply, err := b.Complete(context.Background(), []chat.Message{
		{Role: chat.RoleSystem, Content: "sys"},
		{Role: chat.RoleUser, Content: "first"},
		{Role: chat.RoleAssistant, Content: "mid"},
		{Role: chat.RoleUser, Content: "second"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "You said: second" {
		t.Errorf("reply = %q", reply)
	}

	reply, err = b.Complete(context.Background(), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply == "" {
		t.Error("empty context should still yield a greeting")
	}
}
