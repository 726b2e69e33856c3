package user

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"authlander/internal/auth/models"
	"authlander/pkg/platform/sentinel"
)

// InMemoryUserStore stores users in memory for tests/dev. It additionally
// counts update statements so reconciliation idempotence is assertable.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[string]models.User
	Updates int
}

// NewMemory constructs an empty in-memory user store.
func NewMemory() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]models.User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, record *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[record.ID]; ok {
		return fmt.Errorf("user %s already exists", record.ID)
	}
	s.users[record.ID] = *record
	return nil
}

func (s *InMemoryUserStore) Find(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.users[id]; ok {
		copied := record
		return &copied, nil
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryUserStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *InMemoryUserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, record := range s.users {
		users = append(users, record)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *InMemoryUserStore) UpdateRefreshToken(ctx context.Context, id, token string) error {
	return s.update(id, func(u *models.User) { u.RefreshToken = &token })
}

func (s *InMemoryUserStore) UpdateEmail(ctx context.Context, id, email string) error {
	return s.update(id, func(u *models.User) { u.Email = email })
}

func (s *InMemoryUserStore) UpdateName(ctx context.Context, id, name string) error {
	return s.update(id, func(u *models.User) { u.Name = &name })
}

func (s *InMemoryUserStore) UpdatePicture(ctx context.Context, id, picture string) error {
	return s.update(id, func(u *models.User) { u.Picture = &picture })
}

func (s *InMemoryUserStore) SetActive(ctx context.Context, id string, active bool) error {
	return s.update(id, func(u *models.User) { u.Active = active })
}

func (s *InMemoryUserStore) update(id string, mutate func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	mutate(&record)
	s.users[id] = record
	s.Updates++
	return nil
}

func (s *InMemoryUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}
