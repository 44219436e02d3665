// Package store provides the key-value persistence layer for session state,
// the reply cache, and the semantic memory mirror.
package store

import (
	"context"
	"time"
)

// KV is the minimal set of primitives the session store and memory index
// need from a backend. Every method must be safe for concurrent use, and
// ListAppendTrim and AcquireTicket must be atomic per key.
type KV interface {
	// ListAppend appends values to the end of the list at key.
	ListAppend(ctx context.Context, key string, values ...string) error
	// ListAppendTrim appends values, then drops the oldest entries so that
	// at most keep remain, as a single atomic step.
	ListAppendTrim(ctx context.Context, key string, keep int, values ...string) error
	// ListRange returns all list entries in insertion order.
	ListRange(ctx context.Context, key string) ([]string, error)

	SetAdd(ctx context.Context, key string, members ...string) error
	SetHas(ctx context.Context, key, member string) (bool, error)
	SetMembers(ctx context.Context, key string) ([]string, error)

	HashSet(ctx context.Context, key, field, value string) error
	HashGetAll(ctx context.Context, key string) (map[string]string, error)

	// Get returns the value at key, reporting false for absent or expired keys.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value; ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// AcquireTicket records now at key and reports true when at least window
	// has elapsed since the previous recording. On rejection the stored
	// timestamp is left untouched. Check and set are atomic.
	AcquireTicket(ctx context.Context, key string, now time.Time, window time.Duration) (bool, error)

	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Key layout shared by both backends.
func historyKey(sessionID string) string { return "session:" + sessionID }
func topicsKey(sessionID string) string  { return "session:" + sessionID + ":topics" }
func prefsKey(sessionID string) string   { return "session:" + sessionID + ":prefs" }
func abuseKey(sessionID string) string   { return "session:" + sessionID + ":abuse_log" }
func rateKey(sessionID string) string    { return "rate:" + sessionID }
func cacheKey(normalized string) string  { return "cache:" + normalized }

const (
	// MemoryTextsKey holds the ordered plaintext memory log.
	MemoryTextsKey = "memory:texts"
	// MemoryVectorsKey holds JSON float arrays aligned 1:1 with MemoryTextsKey.
	MemoryVectorsKey = "memory:vectors"
	// MemoryTextSetKey mirrors MemoryTextsKey membership for O(1) dedup.
	MemoryTextSetKey = "memory:text_set"
)
