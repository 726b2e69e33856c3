package apiuser

import (
	"context"
	"fmt"
	"sync"

	"authlander/internal/auth/models"
	"authlander/pkg/platform/sentinel"
)

// InMemoryAPIUserStore stores service credentials in memory for tests/dev.
type InMemoryAPIUserStore struct {
	mu    sync.RWMutex
	users map[string]models.APIUser
}

// NewMemory constructs an empty in-memory API user store.
func NewMemory() *InMemoryAPIUserStore {
	return &InMemoryAPIUserStore{users: make(map[string]models.APIUser)}
}

// Seed provisions a credential, standing in for out-of-band provisioning.
func (s *InMemoryAPIUserStore) Seed(record models.APIUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[record.Token] = record
}

func (s *InMemoryAPIUserStore) Find(_ context.Context, token string) (*models.APIUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.users[token]; ok {
		copied := record
		return &copied, nil
	}
	return nil, fmt.Errorf("api user not found: %w", sentinel.ErrNotFound)
}
