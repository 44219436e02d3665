// Package voice holds the speech collaborator contracts. Speech-to-text and
// text-to-speech are opaque capabilities consuming and producing audio
// bytes; the built-in mocks keep the endpoints exercisable without a real
// speech backend.
package voice

import "context"

// Transcriber converts spoken audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer renders text into audio bytes, returning the content type.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
}
