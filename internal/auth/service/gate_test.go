package service

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authlander/internal/auth/models"
)

func (s *ServiceSuite) TestValidateAPIToken() {
	s.SetupTest()
	s.apiUsers.Seed(models.APIUser{Token: "live-token", Active: true, Name: "demo"})
	s.apiUsers.Seed(models.APIUser{Token: "dead-token", Active: false, Name: "retired"})

	s.Run("active token passes", func() {
		ok, err := s.svc.ValidateAPIToken(s.ctx, "live-token")
		require.NoError(s.T(), err)
		assert.True(s.T(), ok)
	})

	s.Run("inactive token fails without error", func() {
		ok, err := s.svc.ValidateAPIToken(s.ctx, "dead-token")
		require.NoError(s.T(), err)
		assert.False(s.T(), ok)
	})

	s.Run("unknown token fails without error", func() {
		ok, err := s.svc.ValidateAPIToken(s.ctx, "never-issued")
		require.NoError(s.T(), err)
		assert.False(s.T(), ok)
	})
}

func (s *ServiceSuite) TestScopesOf() {
	s.SetupTest()
	s.scopes.Seed("user-1", "drive.readonly", "calendar.events")

	s.Run("lists granted scopes", func() {
		scopes, err := s.svc.ScopesOf(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.Equal(s.T(), []string{"drive.readonly", "calendar.events"}, scopes)
	})

	s.Run("no grants is an empty list, not an error", func() {
		scopes, err := s.svc.ScopesOf(s.ctx, "user-2")
		require.NoError(s.T(), err)
		assert.Empty(s.T(), scopes)
	})
}
