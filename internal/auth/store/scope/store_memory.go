package scope

import (
	"context"
	"sync"

	"authlander/internal/auth/models"
)

// InMemoryScopeStore stores scope grants in memory for tests/dev.
type InMemoryScopeStore struct {
	mu     sync.RWMutex
	grants []models.Scope
}

// NewMemory constructs an empty in-memory scope store.
func NewMemory() *InMemoryScopeStore {
	return &InMemoryScopeStore{}
}

// Seed provisions a grant, standing in for out-of-band provisioning.
func (s *InMemoryScopeStore) Seed(userID string, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		s.grants = append(s.grants, models.Scope{
			ID:     int64(len(s.grants) + 1),
			Name:   name,
			UserID: userID,
		})
	}
}

func (s *InMemoryScopeStore) ListByUser(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scopes := []string{}
	for _, grant := range s.grants {
		if grant.UserID == userID {
			scopes = append(scopes, grant.Name)
		}
	}
	return scopes, nil
}
