package voice

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"strings"
)

// MockTranscriber returns a fixed transcript for any non-empty audio input.
type MockTranscriber struct{}

func NewMockTranscriber() *MockTranscriber { return &MockTranscriber{} }

func (t *MockTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("empty audio")
	}
	return "simulated voice input", nil
}

// MockSynthesizer produces a short silent WAV clip whose length scales with
// the text, so clients exercising the audio path get a playable file.
type MockSynthesizer struct{}

func NewMockSynthesizer() *MockSynthesizer { return &MockSynthesizer{} }

const mockSampleRate = 16000

func (s *MockSynthesizer) Synthesize(_ context.Context, text string) ([]byte, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", errors.New("empty text")
	}

	// ~60ms of silence per word, mono PCM16.
	words := len(strings.Fields(text))
	samples := words * mockSampleRate * 60 / 1000
	pcm := make([]byte, samples*2)

	wav, err := encodeWAVPCM16(pcm, mockSampleRate)
	if err != nil {
		return nil, "", err
	}
	return wav, "audio/wav", nil
}

// encodeWAVPCM16 wraps raw mono PCM16LE bytes in a WAV container.
func encodeWAVPCM16(pcm []byte, sampleRate int) ([]byte, error) {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	dataSize := uint32(len(pcm))
	byteRate := uint32(sampleRate * numChannels * bitsPerSample / 8)
	blockAlign := uint16(numChannels * bitsPerSample / 8)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	if err := binary.Write(&buf, binary.LittleEndian, uint32(36)+dataSize); err != nil {
		return nil, err
	}
	buf.WriteString("WAVEfmt ")
	for _, v := range []any{
		uint32(16), uint16(1), uint16(numChannels), uint32(sampleRate),
		byteRate, blockAlign, uint16(bitsPerSample),
	} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	buf.WriteString("data")
	if err := binary.Write(&buf, binary.LittleEndian, dataSize); err != nil {
		return nil, err
	}
	buf.Write(pcm)
	return buf.Bytes(), nil
}
