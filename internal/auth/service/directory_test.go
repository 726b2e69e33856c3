package service

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authlander/internal/auth/models"
)

func (s *ServiceSuite) TestReconcile() {
	identity := &models.Identity{
		Sub:     "user-1",
		Name:    strPtr("Test User"),
		Email:   "user@example.com",
		Picture: strPtr("https://img.example/u1.png"),
	}

	s.Run("unknown subject is inserted active", func() {
		s.SetupTest()
		userID, err := s.svc.Reconcile(s.ctx, identity, strPtr("rt-1"))
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "user-1", userID)

		stored, err := s.users.Find(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.True(s.T(), stored.Active)
		assert.Equal(s.T(), "user@example.com", stored.Email)
		require.NotNil(s.T(), stored.RefreshToken)
		assert.Equal(s.T(), "rt-1", *stored.RefreshToken)
	})

	s.Run("identical assertion converges with zero writes", func() {
		s.SetupTest()
		_, err := s.svc.Reconcile(s.ctx, identity, strPtr("rt-1"))
		require.NoError(s.T(), err)

		before := s.users.Updates
		_, err = s.svc.Reconcile(s.ctx, identity, strPtr("rt-1"))
		require.NoError(s.T(), err)
		assert.Equal(s.T(), before, s.users.Updates, "repeat reconcile must be a no-op")
	})

	s.Run("withheld refresh token leaves the stored one alone", func() {
		s.SetupTest()
		_, err := s.svc.Reconcile(s.ctx, identity, strPtr("rt-1"))
		require.NoError(s.T(), err)

		_, err = s.svc.Reconcile(s.ctx, identity, nil)
		require.NoError(s.T(), err)

		stored, err := s.users.Find(s.ctx, "user-1")
		require.NoError(s.T(), err)
		require.NotNil(s.T(), stored.RefreshToken)
		assert.Equal(s.T(), "rt-1", *stored.RefreshToken)
	})

	s.Run("changed fields are updated individually", func() {
		s.SetupTest()
		_, err := s.svc.Reconcile(s.ctx, identity, strPtr("rt-1"))
		require.NoError(s.T(), err)

		changed := &models.Identity{
			Sub:     "user-1",
			Name:    strPtr("Renamed User"),
			Email:   "renamed@example.com",
			Picture: identity.Picture,
		}
		_, err = s.svc.Reconcile(s.ctx, changed, strPtr("rt-2"))
		require.NoError(s.T(), err)

		stored, err := s.users.Find(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "renamed@example.com", stored.Email)
		require.NotNil(s.T(), stored.Name)
		assert.Equal(s.T(), "Renamed User", *stored.Name)
		require.NotNil(s.T(), stored.RefreshToken)
		assert.Equal(s.T(), "rt-2", *stored.RefreshToken)
	})
}

func (s *ServiceSuite) TestMarkInactive() {
	s.SetupTest()
	_, err := s.svc.Reconcile(s.ctx, &models.Identity{Sub: "user-1", Email: "user@example.com"}, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.MarkInactive(s.ctx, "user-1"))

	stored, err := s.users.Find(s.ctx, "user-1")
	s.Require().NoError(err)
	s.False(stored.Active)
}
