package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/crypto"
)

// Turn is one (user message, assistant reply) exchange, decrypted.
type Turn struct {
	User      string
	Assistant string
}

// Options tunes the session store. Zero values take the defaults below.
type Options struct {
	// MaxContextPairs bounds the transcript per session; oldest pairs drop first.
	MaxContextPairs int
	// RateWindow is the minimum interval between accepted requests per session.
	RateWindow time.Duration
	// CacheTTL is the reply cache expiry.
	CacheTTL time.Duration
	// AbuseLogPath is the durable abuse trail file; empty disables file logging.
	AbuseLogPath string
}

const (
	DefaultMaxContextPairs = 10
	DefaultRateWindow      = 1500 * time.Millisecond
	DefaultCacheTTL        = time.Hour
)

// SessionStore owns all per-session state (transcript, topics, preferences,
// rate tickets, abuse trail) plus the shared reply cache. Turns and cached
// replies are encrypted before they reach the KV backend.
type SessionStore struct {
	kv    KV
	codec *crypto.Codec
	opts  Options

	abuseMu sync.Mutex
	now     func() time.Time
}

func NewSessionStore(kv KV, codec *crypto.Codec, opts Options) *SessionStore {
	if opts.MaxContextPairs <= 0 {
		opts.MaxContextPairs = DefaultMaxContextPairs
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = DefaultRateWindow
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &SessionStore{
		kv:    kv,
		codec: codec,
		opts:  opts,
		now:   time.Now,
	}
}

// SetClock replaces the wall clock used for rate tickets and abuse log
// timestamps. Tests use it to make timing deterministic.
func (s *SessionStore) SetClock(now func() time.Time) {
	s.now = now
}

// GetHistory returns the most recent turns in chronological order. Pairs
// that no longer decrypt (rotated key, tampered row) are skipped, not
// removed; the transcript stays best-effort readable.
func (s *SessionStore) GetHistory(ctx context.Context, sessionID string) ([]Turn, error) {
	entries, err := s.kv.ListRange(ctx, historyKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if max := 2 * s.opts.MaxContextPairs; len(entries) > max {
		entries = entries[len(entries)-max:]
	}

	turns := make([]Turn, 0, len(entries)/2)
	for i := 0; i+1 < len(entries); i += 2 {
		user, uerr := s.codec.Decrypt(entries[i])
		assistant, aerr := s.codec.Decrypt(entries[i+1])
		if errors.Is(uerr, crypto.ErrDecrypt) || errors.Is(aerr, crypto.ErrDecrypt) {
			continue
		}
		turns = append(turns, Turn{User: user, Assistant: assistant})
	}
	return turns, nil
}

// SaveHistory encrypts and appends one turn, trimming the transcript to the
// most recent MaxContextPairs pairs in the same atomic step.
func (s *SessionStore) SaveHistory(ctx context.Context, sessionID, userMsg, botMsg string) error {
	encUser, err := s.codec.Encrypt(userMsg)
	if err != nil {
		return fmt.Errorf("encrypt user message: %w", err)
	}
	encBot, err := s.codec.Encrypt(botMsg)
	if err != nil {
		return fmt.Errorf("encrypt reply: %w", err)
	}
	if err := s.kv.ListAppendTrim(ctx, historyKey(sessionID), 2*s.opts.MaxContextPairs, encUser, encBot); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// IsRateLimited reports whether the session sent a request within the rate
// window. An accepted request records its timestamp; a rejected one mutates
// nothing.
func (s *SessionStore) IsRateLimited(ctx context.Context, sessionID string) (bool, error) {
	ok, err := s.kv.AcquireTicket(ctx, rateKey(sessionID), s.now(), s.opts.RateWindow)
	if err != nil {
		return false, fmt.Errorf("rate check: %w", err)
	}
	return !ok, nil
}

// UpdateTopics unions keywords into the session's topic set.
func (s *SessionStore) UpdateTopics(ctx context.Context, sessionID string, keywords []string) error {
	if len(keywords) == 0 {
		return nil
	}
	if err := s.kv.SetAdd(ctx, topicsKey(sessionID), keywords...); err != nil {
		return fmt.Errorf("update topics: %w", err)
	}
	return nil
}

// GetTopics returns the session's topic keywords, sorted for stable output.
func (s *SessionStore) GetTopics(ctx context.Context, sessionID string) ([]string, error) {
	topics, err := s.kv.SetMembers(ctx, topicsKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}
	sort.Strings(topics)
	return topics, nil
}

func (s *SessionStore) SetPreference(ctx context.Context, sessionID, key, value string) error {
	if err := s.kv.HashSet(ctx, prefsKey(sessionID), key, value); err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	return nil
}

func (s *SessionStore) GetPreferences(ctx context.Context, sessionID string) (map[string]string, error) {
	prefs, err := s.kv.HashGetAll(ctx, prefsKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	return prefs, nil
}

// CacheGet looks up a previously cached reply for a normalized message.
// Absent, expired, and undecryptable entries all read as misses.
//
// The key deliberately carries no session id, matching the upstream design:
// identical messages from different sessions share one cached reply.
func (s *SessionStore) CacheGet(ctx context.Context, normalized string) (string, bool, error) {
	token, ok, err := s.kv.Get(ctx, cacheKey(normalized))
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	reply, err := s.codec.Decrypt(token)
	if errors.Is(err, crypto.ErrDecrypt) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return reply, true, nil
}

// CachePut stores an encrypted reply under the normalized message key with
// the configured TTL.
func (s *SessionStore) CachePut(ctx context.Context, normalized, reply string) error {
	token, err := s.codec.Encrypt(reply)
	if err != nil {
		return fmt.Errorf("encrypt cached reply: %w", err)
	}
	if err := s.kv.Set(ctx, cacheKey(normalized), token, s.opts.CacheTTL); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// LogAbuse appends the message to the session's abuse list and the durable
// audit file. It never fails: a broken audit trail must not block the
// response path, so failures are logged and dropped.
func (s *SessionStore) LogAbuse(ctx context.Context, sessionID, message string) {
	if err := s.kv.ListAppend(ctx, abuseKey(sessionID), message); err != nil {
		log.Printf("abuse log store append failed: %v", err)
	}
	if s.opts.AbuseLogPath == "" {
		return
	}

	line := fmt.Sprintf("[%s] [Session: %s] %s\n",
		s.now().UTC().Format("2006-01-02 15:04:05"), sessionID, message)

	s.abuseMu.Lock()
	defer s.abuseMu.Unlock()
	f, err := os.OpenFile(s.opts.AbuseLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("abuse log open failed: %v", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		log.Printf("abuse log write failed: %v", err)
	}
}

// Normalize derives the canonical cache key form of a message.
func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}
