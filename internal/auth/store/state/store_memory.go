package state

import (
	"context"
	"fmt"
	"sync"

	"authlander/internal/auth/models"
	"authlander/pkg/platform/sentinel"
)

// InMemoryStateStore stores authorization states in memory for tests/dev.
type InMemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]models.AuthState
}

// NewMemory constructs an empty in-memory state store.
func NewMemory() *InMemoryStateStore {
	return &InMemoryStateStore{states: make(map[string]models.AuthState)}
}

func (s *InMemoryStateStore) Create(_ context.Context, record *models.AuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[record.State] = *record
	return nil
}

func (s *InMemoryStateStore) Find(_ context.Context, state string) (*models.AuthState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.states[state]; ok {
		copied := record
		return &copied, nil
	}
	return nil, fmt.Errorf("state not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStateStore) Delete(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, state)
	return nil
}

// Len reports the number of live states; used by tests to assert consumption.
func (s *InMemoryStateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// All snapshots the live states; used by tests that need the stored nonce.
func (s *InMemoryStateStore) All() []models.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AuthState, 0, len(s.states))
	for _, record := range s.states {
		out = append(out, record)
	}
	return out
}
