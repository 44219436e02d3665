package chat

import (
	"reflect"
	"testing"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/store"
)

func TestBuildContext_FullOrdering(t *testing.T) {
	view := View{
		Emotion: "happy",
		Preferences: map[string]string{
			"personality": "sarcastic",
			"language":    "en",
		},
		Topics:   []string{"mountains", "hiking"},
		Memories: []string{"I love hiking in the mountains", "my favorite food is lasagna"},
		History: []store.Turn{
			{User: "hi", Assistant: "hello!"},
			{User: "how are you", Assistant: "doing fine"},
		},
		Message: "recommend a trail",
	}

	got := BuildContext(view)
	want := []Message{
		{Role: RoleSystem, Content: "You are a sarcastic chatbot. The user seems happy. Respond appropriately."},
		{Role: RoleSystem, Content: "User preferences: language: en; personality: sarcastic"},
		{Role: RoleSystem, Content: "User is interested in: hiking, mountains"},
		{Role: RoleAssistant, Content: "Memory: I love hiking in the mountains"},
		{Role: RoleAssistant, Content: "Memory: my favorite food is lasagna"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello!"},
		{Role: RoleUser, Content: "how are you"},
		{Role: RoleAssistant, Content: "doing fine"},
		{Role: RoleUser, Content: "recommend a trail"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildContext =\n%+v\nwant\n%+v", got, want)
	}
}

func TestBuildContext_EmptySessionDefaults(t *testing.T) {
	got := BuildContext(View{Message: "hello"})
	want := []Message{
		{Role: RoleSystem, Content: "You are a neutral chatbot. The user seems neutral. Respond appropriately."},
		{Role: RoleUser, Content: "hello"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildContext = %+v, want %+v", got, want)
	}
}

func TestBuildContext_SkipsEmptySections(t *testing.T) {
	view := View{
		Emotion:  "sad",
		Topics:   []string{"music"},
		Message:  "play something",
		Memories: nil,
	}
	got := BuildContext(view)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (system, topics, user)", len(got))
	}
	if got[1].Content != "User is interested in: music" {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestBuildContext_Deterministic(t *testing.T) {
	view := View{
		Emotion: "neutral",
		Preferences: map[string]string{
			"b": "2", "a": "1", "c": "3", "personality": "warm",
		},
		Topics:  []string{"z", "a", "m"},
		Message: "hello",
	}
	first := BuildContext(view)
	for i := 0; i < 50; i++ {
		if next := BuildContext(view); !reflect.DeepEqual(first, next) {
			t.Fatalf("iteration %d differed:\n%+v\nvs\n%+v", i, first, next)
		}
	}
}
