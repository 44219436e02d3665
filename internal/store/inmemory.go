package store

import (
	"context"
	"sync"
	"time"
)

// InMemoryKV is the in-process backend used for local/dev runs and tests.
type InMemoryKV struct {
	mu      sync.RWMutex
	lists   map[string][]string
	sets    map[string]map[string]struct{}
	hashes  map[string]map[string]string
	values  map[string]expiringValue
	tickets map[string]time.Time

	now func() time.Time
}

type expiringValue struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{
		lists:   make(map[string][]string),
		sets:    make(map[string]map[string]struct{}),
		hashes:  make(map[string]map[string]string),
		values:  make(map[string]expiringValue),
		tickets: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *InMemoryKV) ListAppend(_ context.Context, key string, values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], values...)
	return nil
}

func (s *InMemoryKV) ListAppendTrim(_ context.Context, key string, keep int, values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.lists[key], values...)
	if keep >= 0 && len(list) > keep {
		trimmed := make([]string, keep)
		copy(trimmed, list[len(list)-keep:])
		list = trimmed
	}
	s.lists[key] = list
	return nil
}

func (s *InMemoryKV) ListRange(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.lists[key]
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

func (s *InMemoryKV) SetAdd(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

func (s *InMemoryKV) SetHas(_ context.Context, key, member string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sets[key][member]
	return ok, nil
}

func (s *InMemoryKV) SetMembers(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.sets[key]
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	return out, nil
}

func (s *InMemoryKV) HashSet(_ context.Context, key, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string)
		s.hashes[key] = h
	}
	h[field] = value
	return nil
}

func (s *InMemoryKV) HashGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.hashes[key]
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out, nil
}

func (s *InMemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.values[key]
	if !ok {
		return "", false, nil
	}
	if !ev.expiresAt.IsZero() && !s.now().Before(ev.expiresAt) {
		delete(s.values, key)
		return "", false, nil
	}
	return ev.value, true, nil
}

func (s *InMemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := expiringValue{value: value}
	if ttl > 0 {
		ev.expiresAt = s.now().Add(ttl)
	}
	s.values[key] = ev
	return nil
}

func (s *InMemoryKV) AcquireTicket(_ context.Context, key string, now time.Time, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.tickets[key]
	if ok && now.Sub(last) < window {
		return false, nil
	}
	s.tickets[key] = now
	return true, nil
}

func (s *InMemoryKV) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.lists, key)
		delete(s.sets, key)
		delete(s.hashes, key)
		delete(s.values, key)
		delete(s.tickets, key)
	}
	return nil
}

func (s *InMemoryKV) Close() error { return nil }
