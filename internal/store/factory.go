package store

import (
	"context"
	"strings"
)

// NewKV creates a postgres-backed KV when configured, otherwise in-memory.
func NewKV(ctx context.Context, databaseURL string) (KV, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryKV(), nil
	}
	return NewPostgresKV(ctx, databaseURL)
}
