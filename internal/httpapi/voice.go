package httpapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
)

// Speech endpoints delegate to the opaque voice collaborators; the service
// itself never inspects audio bytes.

const maxAudioBytes = 16 << 20

type ttsRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	if s.synthesizer == nil {
		respondError(w, http.StatusNotImplemented, "speech synthesis is not configured")
		return
	}

	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, contentType, err := s.synthesizer.Synthesize(r.Context(), req.Text)
	if err != nil {
		log.Printf("tts failed: %v", err)
		respondError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		log.Printf("tts write failed: %v", err)
	}
}

func (s *Server) handleSTT(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil {
		respondError(w, http.StatusNotImplemented, "speech recognition is not configured")
		return
	}

	audio, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read audio")
		return
	}
	if len(audio) == 0 {
		respondError(w, http.StatusBadRequest, "audio is required")
		return
	}

	text, err := s.transcriber.Transcribe(r.Context(), audio)
	if err != nil {
		log.Printf("stt failed: %v", err)
		respondError(w, http.StatusBadGateway, "speech recognition failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"text": strings.TrimSpace(text)})
}
