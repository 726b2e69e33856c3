package session

import (
	"context"
	"fmt"
	"sync"

	"authlander/internal/auth/models"
	"authlander/pkg/platform/sentinel"
)

// InMemorySessionStore stores sessions in memory for tests/dev.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemory constructs an empty in-memory session store.
func NewMemory() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]models.Session)}
}

func (s *InMemorySessionStore) Create(_ context.Context, record *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[record.ID] = *record
	return nil
}

func (s *InMemorySessionStore) Find(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.sessions[id]; ok {
		copied := record
		return &copied, nil
	}
	return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
}

func (s *InMemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *InMemorySessionStore) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, record := range s.sessions {
		if record.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *InMemorySessionStore) DeleteExpired(_ context.Context, now int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, record := range s.sessions {
		if record.Expiry <= now {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of live sessions; used by cascade tests.
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
