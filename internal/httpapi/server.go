package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/chat"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/config"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/observability"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/protocol"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/store"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/voice"
)

// Responder runs the chat pipeline for one inbound message.
type Responder interface {
	Respond(ctx context.Context, sessionID, message string) (chat.Reply, error)
}

type Server struct {
	cfg         config.Config
	engine      Responder
	sessions    *store.SessionStore
	metrics     *observability.Metrics
	transcriber voice.Transcriber
	synthesizer voice.Synthesizer
	upgrader    websocket.Upgrader
}

func New(cfg config.Config, engine Responder, sessions *store.SessionStore, metrics *observability.Metrics, transcriber voice.Transcriber, synthesizer voice.Synthesizer) *Server {
	return &Server{
		cfg:         cfg,
		engine:      engine,
		sessions:    sessions,
		metrics:     metrics,
		transcriber: transcriber,
		synthesizer: synthesizer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/v1/chat", s.handleChat)
		r.Put("/v1/sessions/{id}/preferences", s.handleSetPreferences)
		r.Get("/v1/sessions/{id}/topics", s.handleGetTopics)
		r.Post("/v1/tts", s.handleTTS)
		r.Post("/v1/stt", s.handleSTT)
	})

	// The ws handshake checks the key itself: browser clients cannot set
	// X-API-Key on the upgrade request, so ?api_key is accepted there too.
	r.Get("/ws/chat", s.handleChatWS)

	return r
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != s.cfg.APIKey {
			respondError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Reply   string `json:"reply"`
	Cached  bool   `json:"cached,omitempty"`
	Refused bool   `json:"refused,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "session_id and message are required")
		return
	}

	reply, err := s.engine.Respond(r.Context(), req.SessionID, req.Message)
	switch {
	case errors.Is(err, chat.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, "Too many requests. Slow down.")
		return
	case err != nil:
		log.Printf("chat request failed: %v", err)
		respondError(w, http.StatusBadGateway, "assistant is unavailable")
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{
		Reply:   reply.Text,
		Cached:  reply.Cached,
		Refused: reply.Refused,
	})
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	var prefs map[string]string
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(prefs) == 0 {
		respondError(w, http.StatusBadRequest, "no preferences provided")
		return
	}

	for k, v := range prefs {
		if err := s.sessions.SetPreference(r.Context(), sessionID, k, v); err != nil {
			log.Printf("set preference failed: %v", err)
			respondError(w, http.StatusInternalServerError, "store unavailable")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"updated": len(prefs)})
}

func (s *Server) handleGetTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.sessions.GetTopics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("get topics failed: %v", err)
		respondError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	if topics == nil {
		topics = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		apiKey = r.URL.Query().Get("api_key")
	}
	if apiKey != s.cfg.APIKey {
		respondError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = "default_user"
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.metrics.WSMessages.WithLabelValues("in", "client_message").Inc()

		msg, err := protocol.ParseClientMessage(raw)
		if err != nil {
			s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				Code:      protocol.CodeBadMessage,
				Retryable: true,
				Detail:    err.Error(),
			})
			continue
		}

		reply, err := s.engine.Respond(r.Context(), sessionID, msg.Text)
		switch {
		case errors.Is(err, chat.ErrRateLimited):
			s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				Code:      protocol.CodeRateLimited,
				Retryable: true,
				Detail:    "Too many requests. Slow down.",
			})
		case err != nil:
			log.Printf("ws chat request failed: %v", err)
			s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				Code:      protocol.CodeBrainFailure,
				Retryable: true,
				Detail:    "assistant is unavailable",
			})
		default:
			s.writeWS(conn, protocol.AssistantReply{
				Type:    protocol.TypeAssistantReply,
				TurnID:  uuid.NewString(),
				Text:    reply.Text,
				Cached:  reply.Cached,
				Refused: reply.Refused,
			})
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, payload any) {
	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("ws write failed: %v", err)
		return
	}
	switch payload.(type) {
	case protocol.AssistantReply:
		s.metrics.WSMessages.WithLabelValues("out", "assistant_reply").Inc()
	case protocol.ErrorEvent:
		s.metrics.WSMessages.WithLabelValues("out", "error_event").Inc()
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response failed: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"error": detail})
}
