package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"authlander/internal/auth/models"
	"authlander/pkg/platform/sentinel"
)

type UserStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryUserStore
}

func (s *UserStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemory()
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) TestRoundTrip() {
	name := "Test User"
	record := &models.User{ID: "user-1", Active: true, Name: &name, Email: "user@example.com"}
	s.Require().NoError(s.store.Create(s.ctx, record))

	got, err := s.store.Find(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(record, got)
}

func (s *UserStoreSuite) TestDuplicateCreateFails() {
	record := &models.User{ID: "user-1", Active: true, Email: "user@example.com"}
	s.Require().NoError(s.store.Create(s.ctx, record))
	s.Error(s.store.Create(s.ctx, record))
}

func (s *UserStoreSuite) TestFindMissing() {
	_, err := s.store.Find(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *UserStoreSuite) TestUpdateCountsStatements() {
	s.Require().NoError(s.store.Create(s.ctx, &models.User{ID: "user-1", Active: true, Email: "user@example.com"}))
	s.Equal(0, s.store.Updates, "create is not an update")

	s.Require().NoError(s.store.UpdateEmail(s.ctx, "user-1", "renamed@example.com"))
	s.Require().NoError(s.store.SetActive(s.ctx, "user-1", false))
	s.Equal(2, s.store.Updates)
}

func (s *UserStoreSuite) TestUpdateMissingUser() {
	s.ErrorIs(s.store.UpdateEmail(s.ctx, "missing", "user@example.com"), sentinel.ErrNotFound)
}

func (s *UserStoreSuite) TestDeleteThenExists() {
	s.Require().NoError(s.store.Create(s.ctx, &models.User{ID: "user-1", Active: true, Email: "user@example.com"}))
	s.Require().NoError(s.store.Delete(s.ctx, "user-1"))

	exists, err := s.store.Exists(s.ctx, "user-1")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *UserStoreSuite) TestListIsSortedByID() {
	s.Require().NoError(s.store.Create(s.ctx, &models.User{ID: "b", Active: true, Email: "b@example.com"}))
	s.Require().NoError(s.store.Create(s.ctx, &models.User{ID: "a", Active: true, Email: "a@example.com"}))

	users, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal("a", users[0].ID)
	s.Equal("b", users[1].ID)
}
