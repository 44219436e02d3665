package config

import (
	"encoding/base64"
	"testing"
	"time"
)

func validEnv(t *testing.T) {
	t.Helper()
	key := make([]byte, 32)
	t.Setenv("ENCRYPTION_KEY", base64.StdEncoding.EncodeToString(key))
	t.Setenv("API_KEY", "test-api-key")
}

func TestLoad_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BindAddr != ":8080" {
		t.Errorf("BindAddr = %q, want :8080", cfg.BindAddr)
	}
	if cfg.MaxContextPairs != 10 {
		t.Errorf("MaxContextPairs = %d, want 10", cfg.MaxContextPairs)
	}
	if cfg.RateWindow != 1500*time.Millisecond {
		t.Errorf("RateWindow = %v, want 1.5s", cfg.RateWindow)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL)
	}
	if cfg.MemoryMinChars != 20 {
		t.Errorf("MemoryMinChars = %d, want 20", cfg.MemoryMinChars)
	}
	if cfg.BrainMode != "auto" {
		t.Errorf("BrainMode = %q, want auto", cfg.BrainMode)
	}
}

func TestLoad_Overrides(t *testing.T) {
	validEnv(t)
	t.Setenv("MAX_CONTEXT", "25")
	t.Setenv("RATE_LIMIT_WINDOW", "3s")
	t.Setenv("CACHE_TTL", "10m")
	t.Setenv("APP_ALLOW_ANY_ORIGIN", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxContextPairs != 25 {
		t.Errorf("MaxContextPairs = %d, want 25", cfg.MaxContextPairs)
	}
	if cfg.RateWindow != 3*time.Second {
		t.Errorf("RateWindow = %v, want 3s", cfg.RateWindow)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.CacheTTL)
	}
	if !cfg.AllowAnyOrigin {
		t.Error("AllowAnyOrigin not applied")
	}
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "")
	t.Setenv("API_KEY", "k")
	if _, err := Load(); err == nil {
		t.Error("missing ENCRYPTION_KEY should fail")
	}

	validEnv(t)
	t.Setenv("API_KEY", "")
	if _, err := Load(); err == nil {
		t.Error("missing API_KEY should fail")
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	validEnv(t)
	t.Setenv("MAX_CONTEXT", "zero")
	if _, err := Load(); err == nil {
		t.Error("non-numeric MAX_CONTEXT should fail")
	}

	validEnv(t)
	t.Setenv("MAX_CONTEXT", "-1")
	if _, err := Load(); err == nil {
		t.Error("negative MAX_CONTEXT should fail")
	}

	validEnv(t)
	t.Setenv("RATE_LIMIT_WINDOW", "soon")
	if _, err := Load(); err == nil {
		t.Error("bad duration should fail")
	}
}
