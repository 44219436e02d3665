package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/brain"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/chat"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/classify"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/config"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/crypto"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/httpapi"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/observability"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/semantic"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/store"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/voice"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	codec, err := crypto.NewCodec(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("encryption key error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	kv, err := store.NewKV(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("kv store init failed: %v", err)
	}
	defer kv.Close()
	if cfg.DatabaseURL == "" {
		log.Printf("kv store: in-memory (set DATABASE_URL for persistence)")
	} else {
		log.Printf("kv store: postgres")
	}

	sessions := store.NewSessionStore(kv, codec, store.Options{
		MaxContextPairs: cfg.MaxContextPairs,
		RateWindow:      cfg.RateWindow,
		CacheTTL:        cfg.CacheTTL,
		AbuseLogPath:    cfg.AbuseLogPath,
	})

	index := semantic.NewIndex(kv, semantic.NewLocalEmbedder(cfg.EmbeddingDim))
	if err := index.Load(ctx); err != nil {
		log.Fatalf("memory index load failed: %v", err)
	}
	metrics.MemoryItems.Set(float64(index.Count()))

	adapter, err := brain.New(brain.Config{
		Mode:  cfg.BrainMode,
		URL:   cfg.BrainURL,
		Model: cfg.BrainModel,
	})
	if err != nil {
		log.Fatalf("brain init failed: %v", err)
	}
	if cfg.BrainURL == "" {
		log.Printf("brain: mock (set BRAIN_HTTP_URL for a real backend)")
	}

	committer := chat.NewCommitter(sessions, index, cfg.MemoryMinChars)
	engine := chat.NewEngine(sessions, index, committer, adapter,
		classify.NewLexiconEmotion(), classify.NewWordListProfanity(),
		metrics, cfg.RetrieveTopK)

	api := httpapi.New(cfg, engine, sessions, metrics,
		voice.NewMockTranscriber(), voice.NewMockSynthesizer())

	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
