package service

import (
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authlander/internal/auth/models"
	"authlander/pkg/platform/sentinel"
)

func (s *ServiceSuite) seedUser(id string) {
	s.Require().NoError(s.users.Create(s.ctx, &models.User{ID: id, Active: true, Email: id + "@example.com"}))
}

func (s *ServiceSuite) TestCheckSession() {
	s.Run("valid session is returned", func() {
		s.SetupTest()
		s.seedUser("user-1")
		created, err := s.svc.CreateSession(s.ctx, "user-1", time.Hour)
		require.NoError(s.T(), err)

		got, err := s.svc.CheckSession(s.ctx, created.ID)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "user-1", got.UserID)
	})

	s.Run("unknown session is not found", func() {
		s.SetupTest()
		_, err := s.svc.CheckSession(s.ctx, "missing")
		assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
	})

	s.Run("expired session answers expired exactly once", func() {
		s.SetupTest()
		s.seedUser("user-1")
		created, err := s.svc.CreateSession(s.ctx, "user-1", time.Hour)
		require.NoError(s.T(), err)

		s.advance(2 * time.Hour)

		_, err = s.svc.CheckSession(s.ctx, created.ID)
		assert.ErrorIs(s.T(), err, sentinel.ErrExpired)

		_, err = s.svc.CheckSession(s.ctx, created.ID)
		assert.ErrorIs(s.T(), err, sentinel.ErrNotFound, "the row must be gone after the first read")
	})

	s.Run("expiry boundary counts as expired", func() {
		s.SetupTest()
		s.seedUser("user-1")
		created, err := s.svc.CreateSession(s.ctx, "user-1", time.Hour)
		require.NoError(s.T(), err)

		s.advance(time.Hour)

		_, err = s.svc.CheckSession(s.ctx, created.ID)
		assert.ErrorIs(s.T(), err, sentinel.ErrExpired)
	})
}

func (s *ServiceSuite) TestResolveSessionUser() {
	s.Run("resolves the owning user", func() {
		s.SetupTest()
		s.seedUser("user-1")
		created, err := s.svc.CreateSession(s.ctx, "user-1", time.Hour)
		require.NoError(s.T(), err)

		user, err := s.svc.ResolveSessionUser(s.ctx, created)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "user-1", user.ID)
	})

	s.Run("dangling session is deleted and reported", func() {
		s.SetupTest()
		stray := &models.Session{ID: "stray", UserID: "vanished", Expiry: s.now.Add(time.Hour).Unix()}
		require.NoError(s.T(), s.sessions.Create(s.ctx, stray))

		_, err := s.svc.ResolveSessionUser(s.ctx, stray)
		assert.ErrorIs(s.T(), err, sentinel.ErrDangling)
		assert.Equal(s.T(), 0, s.sessions.Len(), "the stray row must be removed")
	})
}

func (s *ServiceSuite) TestSweepExpiredSessions() {
	s.SetupTest()
	s.seedUser("user-1")

	_, err := s.svc.CreateSession(s.ctx, "user-1", time.Minute)
	s.Require().NoError(err)
	keep, err := s.svc.CreateSession(s.ctx, "user-1", time.Hour)
	s.Require().NoError(err)

	s.advance(10 * time.Minute)

	n, err := s.svc.SweepExpiredSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	_, err = s.sessions.Find(s.ctx, keep.ID)
	s.NoError(err)
}
