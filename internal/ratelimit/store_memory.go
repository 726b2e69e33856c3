package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-process sliding window. Not
// distributed; use the Redis store when running more than one replica.
type MemoryStore struct {
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

type window struct {
	timestamps []time.Time
	span       time.Duration
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*window)}
}

// Allow admits the request if fewer than limit requests were seen for the key
// inside the sliding window.
func (s *MemoryStore) Allow(ctx context.Context, key string, limit int, span time.Duration) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.sweep(now, span)

	w := s.windows[key]
	if w == nil {
		w = &window{span: span}
		s.windows[key] = w
	}
	w.drop(now)

	if len(w.timestamps) >= limit {
		return &Result{
			Allowed: false,
			Limit:   limit,
			ResetAt: w.timestamps[0].Add(span),
		}, nil
	}

	w.timestamps = append(w.timestamps, now)
	return &Result{
		Allowed:   true,
		Remaining: limit - len(w.timestamps),
		Limit:     limit,
		ResetAt:   w.timestamps[0].Add(span),
	}, nil
}

// sweep evicts keys whose timestamps have all slid out of the window, so the
// map does not grow with every distinct client ever seen. Runs at most once
// per span; the per-key drop in Allow keeps admission decisions exact.
func (s *MemoryStore) sweep(now time.Time, span time.Duration) {
	if now.Sub(s.lastSweep) < span {
		return
	}
	for key, w := range s.windows {
		w.drop(now)
		if len(w.timestamps) == 0 {
			delete(s.windows, key)
		}
	}
	s.lastSweep = now
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// drop discards timestamps that have slid out of the window.
func (w *window) drop(now time.Time) {
	cutoff := now.Add(-w.span)
	i := 0
	for ; i < len(w.timestamps); i++ {
		if w.timestamps[i].After(cutoff) {
			break
		}
	}
	w.timestamps = w.timestamps[i:]
}
