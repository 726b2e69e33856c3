package service

import (
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authlander/internal/auth/models"
	"authlander/internal/idp"
	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/sentinel"
)

func (s *ServiceSuite) TestBrokerToken() {
	s.Run("unknown user is not found", func() {
		s.SetupTest()
		_, err := s.svc.BrokerToken(s.ctx, "missing")
		assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeNotFound))
		assert.Equal(s.T(), 0, s.provider.refreshCalls)
	})

	s.Run("missing refresh token marks the user inactive", func() {
		s.SetupTest()
		require.NoError(s.T(), s.users.Create(s.ctx, &models.User{
			ID: "user-1", Active: true, Email: "user@example.com",
		}))

		got, err := s.svc.BrokerToken(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.False(s.T(), got.Active)
		assert.Empty(s.T(), got.AccessToken)
		assert.Equal(s.T(), 0, s.provider.refreshCalls, "no provider call without a token")

		stored, err := s.users.Find(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.False(s.T(), stored.Active)
	})

	s.Run("refresh yields a token with absolute expiry", func() {
		s.SetupTest()
		require.NoError(s.T(), s.users.Create(s.ctx, &models.User{
			ID: "user-1", Active: true, Email: "user@example.com", RefreshToken: strPtr("rt-1"),
		}))
		s.provider.refreshResult = &idp.RefreshResult{AccessToken: "at-1", ExpiresIn: 3600}

		got, err := s.svc.BrokerToken(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.True(s.T(), got.Active)
		assert.Equal(s.T(), "at-1", got.AccessToken)
		assert.Equal(s.T(), s.now.Unix()+3600, got.Expiry)
	})

	s.Run("revocation cascades to user and sessions but not scopes", func() {
		s.SetupTest()
		require.NoError(s.T(), s.users.Create(s.ctx, &models.User{
			ID: "user-1", Active: true, Email: "user@example.com", RefreshToken: strPtr("rt-1"),
		}))
		_, err := s.svc.CreateSession(s.ctx, "user-1", time.Hour)
		require.NoError(s.T(), err)
		_, err = s.svc.CreateSession(s.ctx, "user-1", time.Hour)
		require.NoError(s.T(), err)
		s.scopes.Seed("user-1", "drive.readonly")
		s.provider.refreshErr = sentinel.ErrRevoked

		_, err = s.svc.BrokerToken(s.ctx, "user-1")
		assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeConflict))

		exists, err := s.users.Exists(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.False(s.T(), exists, "user row must be purged")
		assert.Equal(s.T(), 0, s.sessions.Len(), "all sessions must be purged")

		scopes, err := s.scopes.ListByUser(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.Equal(s.T(), []string{"drive.readonly"}, scopes, "scope grants survive revocation")
	})

	s.Run("provider transport failure is an external error and purges nothing", func() {
		s.SetupTest()
		require.NoError(s.T(), s.users.Create(s.ctx, &models.User{
			ID: "user-1", Active: true, Email: "user@example.com", RefreshToken: strPtr("rt-1"),
		}))
		s.provider.refreshErr = assert.AnError

		_, err := s.svc.BrokerToken(s.ctx, "user-1")
		assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeExternal))

		exists, err := s.users.Exists(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.True(s.T(), exists, "a transport failure must never cascade")
	})
}
