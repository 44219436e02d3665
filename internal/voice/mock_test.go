package voice

import (
	"bytes"
	"context"
	"testing"
)

func TestMockTranscriber(t *testing.T) {
	tr := NewMockTranscriber()

	text, err := tr.Transcribe(context.Background(), []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text == "" {
		t.Error("expected non-empty transcript")
	}

	if _, err := tr.Transcribe(context.Background(), nil); err == nil {
		t.Error("empty audio should fail")
	}
}

func TestMockSynthesizer_ProducesWAV(t *testing.T) {
	s := NewMockSynthesizer()

	audio, contentType, err := s.Synthesize(context.Background(), "hello there world")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if contentType != "audio/wav" {
		t.Errorf("content type = %q, want audio/wav", contentType)
	}
	if !bytes.HasPrefix(audio, []byte("RIFF")) {
		t.Error("output is not a RIFF container")
	}
	if !bytes.Contains(audio[:44], []byte("WAVE")) {
		t.Error("output is missing the WAVE marker")
	}

	if _, _, err := s.Synthesize(context.Background(), "   "); err == nil {
		t.Error("blank text should fail")
	}
}
