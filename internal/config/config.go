package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the chatbot service.
type Config struct {
	BindAddr         string
	APIKey           string
	EncryptionKey    string
	DatabaseURL      string
	MetricsNamespace string
	ShutdownTimeout  time.Duration
	AllowAnyOrigin   bool

	MaxContextPairs int
	RateWindow      time.Duration
	CacheTTL        time.Duration
	MemoryMinChars  int
	RetrieveTopK    int
	EmbeddingDim    int

	BrainMode  string
	BrainURL   string
	BrainModel string

	AbuseLogPath string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		EncryptionKey:    strings.TrimSpace(os.Getenv("ENCRYPTION_KEY")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "chatbot"),
		ShutdownTimeout:  15 * time.Second,
		MaxContextPairs:  10,
		RateWindow:       1500 * time.Millisecond,
		CacheTTL:         time.Hour,
		MemoryMinChars:   20,
		RetrieveTopK:     3,
		EmbeddingDim:     256,
		BrainMode:        envOrDefault("BRAIN_MODE", "auto"),
		BrainURL:         strings.TrimSpace(os.Getenv("BRAIN_HTTP_URL")),
		BrainModel:       envOrDefault("BRAIN_MODEL", "gpt-4o-mini"),
		AbuseLogPath:     envOrDefault("ABUSE_LOG_FILE", "abuse_log.txt"),
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.RateWindow, err = durationFromEnv("RATE_LIMIT_WINDOW", cfg.RateWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheTTL, err = durationFromEnv("CACHE_TTL", cfg.CacheTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxContextPairs, err = intFromEnv("MAX_CONTEXT", cfg.MaxContextPairs)
	if err != nil {
		return Config{}, err
	}
	cfg.MemoryMinChars, err = intFromEnv("MEMORY_MIN_CHARS", cfg.MemoryMinChars)
	if err != nil {
		return Config{}, err
	}
	cfg.RetrieveTopK, err = intFromEnv("MEMORY_RETRIEVE_TOP_K", cfg.RetrieveTopK)
	if err != nil {
		return Config{}, err
	}
	cfg.EmbeddingDim, err = intFromEnv("MEMORY_EMBEDDING_DIM", cfg.EmbeddingDim)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.EncryptionKey == "" {
		return Config{}, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("API_KEY is required")
	}
	if cfg.MaxContextPairs <= 0 {
		return Config{}, fmt.Errorf("MAX_CONTEXT must be positive")
	}
	if cfg.RateWindow <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be positive")
	}
	if cfg.EmbeddingDim <= 0 {
		return Config{}, fmt.Errorf("MEMORY_EMBEDDING_DIM must be positive")
	}
	if cfg.RetrieveTopK <= 0 {
		return Config{}, fmt.Errorf("MEMORY_RETRIEVE_TOP_K must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
