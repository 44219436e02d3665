package protocol

import (
	"errors"
	"testing"
)

func TestParseClientMessage_Valid(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type":"client_message","text":"hello"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage: %v", err)
	}
	if msg.Text != "hello" {
		t.Errorf("text = %q, want hello", msg.Text)
	}
}

func TestParseClientMessage_Rejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty text", `{"type":"client_message","text":""}`},
		{"unknown type", `{"type":"mystery"}`},
		{"not json", `nope`},
	}
	for _, tc := range cases {
		if _, err := ParseClientMessage([]byte(tc.raw)); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestParseClientMessage_UnsupportedTypeSentinel(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"assistant_reply","text":"x"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}
