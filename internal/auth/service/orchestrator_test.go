package service

import (
	"net/url"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authlander/internal/idp"
	dErrors "authlander/pkg/domain-errors"
)

// beginLogin runs Login and returns the state and nonce it persisted.
func (s *ServiceSuite) beginLogin(returnURI string) (stateToken, nonce string) {
	authURL, err := s.svc.Login(s.ctx, "demo", encodeReturnURI(returnURI), nil)
	s.Require().NoError(err)

	parsed, err := url.Parse(authURL)
	s.Require().NoError(err)
	stateToken = parsed.Query().Get("state")
	s.Require().NotEmpty(stateToken)

	stored, err := s.states.Find(s.ctx, stateToken)
	s.Require().NoError(err)
	return stateToken, stored.Nonce
}

func (s *ServiceSuite) TestLogin() {
	s.Run("authorization URL carries the flow parameters", func() {
		authURL, err := s.svc.Login(s.ctx, "demo", encodeReturnURI("https://app.example/cb"), nil)
		require.NoError(s.T(), err)

		parsed, err := url.Parse(authURL)
		require.NoError(s.T(), err)
		query := parsed.Query()

		assert.Equal(s.T(), "test-client-id", query.Get("client_id"))
		assert.Equal(s.T(), "https://auth.example/oauth2/grant", query.Get("redirect_uri"))
		assert.Equal(s.T(), "code", query.Get("response_type"))
		assert.Equal(s.T(), "offline", query.Get("access_type"))
		assert.Equal(s.T(), "select_account", query.Get("prompt"))
		assert.Equal(s.T(), "openid profile email", query.Get("scope"))
		assert.Len(s.T(), query.Get("state"), 32)
		assert.Len(s.T(), query.Get("nonce"), 128)
	})

	s.Run("requested scopes are unioned with the base set", func() {
		requested := "https://www.googleapis.com/auth/drive.readonly"
		authURL, err := s.svc.Login(s.ctx, "demo", encodeReturnURI("https://app.example/cb"), &requested)
		require.NoError(s.T(), err)

		parsed, err := url.Parse(authURL)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "openid profile email "+requested, parsed.Query().Get("scope"))
	})

	s.Run("state and nonce are unique across calls", func() {
		stateA, nonceA := s.beginLogin("https://app.example/cb")
		stateB, nonceB := s.beginLogin("https://app.example/cb")
		assert.NotEqual(s.T(), stateA, stateB)
		assert.NotEqual(s.T(), nonceA, nonceB)
	})
}

func (s *ServiceSuite) TestGrantCode() {
	s.Run("matching nonce completes the flow end to end", func() {
		s.SetupTest()
		stateToken, nonce := s.beginLogin("https://app.example/cb")
		s.provider.exchangeResult = &idp.ExchangeResult{
			AccessToken:  "at-1",
			ExpiresIn:    3600,
			RefreshToken: strPtr("rt-1"),
			IDToken: mintIDToken(s.T(), jwt.MapClaims{
				"sub":   "user-1",
				"name":  "Test User",
				"email": "user@example.com",
				"nonce": nonce,
			}),
		}

		redirect, err := s.svc.Grant(s.ctx, GrantQuery{Code: strPtr("abc"), State: stateToken})
		require.NoError(s.T(), err)

		require.True(s.T(), strings.HasPrefix(redirect, "https://app.example/cb?session_id="), redirect)
		sessionID := strings.TrimPrefix(redirect, "https://app.example/cb?session_id=")
		assert.Len(s.T(), sessionID, 32)

		stored, err := s.sessions.Find(s.ctx, sessionID)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "user-1", stored.UserID)
		assert.Equal(s.T(), s.now.Add(SessionTTL).Unix(), stored.Expiry)

		created, err := s.users.Find(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.True(s.T(), created.Active)
		require.NotNil(s.T(), created.RefreshToken)
		assert.Equal(s.T(), "rt-1", *created.RefreshToken)

		assert.Equal(s.T(), 0, s.states.Len(), "state must not survive the grant")
	})

	s.Run("return URI with a query string gets an ampersand", func() {
		s.SetupTest()
		stateToken, nonce := s.beginLogin("https://app.example/cb?tab=settings")
		s.provider.exchangeResult = &idp.ExchangeResult{
			IDToken: mintIDToken(s.T(), jwt.MapClaims{"sub": "user-1", "email": "user@example.com", "nonce": nonce}),
		}

		redirect, err := s.svc.Grant(s.ctx, GrantQuery{Code: strPtr("abc"), State: stateToken})
		require.NoError(s.T(), err)
		assert.Contains(s.T(), redirect, "https://app.example/cb?tab=settings&session_id=")
	})

	s.Run("unknown state is a conflict and never reaches the provider", func() {
		s.SetupTest()
		_, err := s.svc.Grant(s.ctx, GrantQuery{Code: strPtr("abc"), State: "never-issued"})
		assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("nonce mismatch burns the state and creates nothing", func() {
		s.SetupTest()
		stateToken, _ := s.beginLogin("https://app.example/cb")
		s.provider.exchangeResult = &idp.ExchangeResult{
			IDToken: mintIDToken(s.T(), jwt.MapClaims{"sub": "user-1", "email": "user@example.com", "nonce": "forged"}),
		}

		_, err := s.svc.Grant(s.ctx, GrantQuery{Code: strPtr("abc"), State: stateToken})
		assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeUnauthorized))

		assert.Equal(s.T(), 0, s.states.Len(), "mismatched state must be deleted")
		assert.Equal(s.T(), 0, s.sessions.Len(), "no session may exist after a nonce mismatch")
		exists, err := s.users.Exists(s.ctx, "user-1")
		require.NoError(s.T(), err)
		assert.False(s.T(), exists)
	})

	s.Run("provider transport failure is an external error", func() {
		s.SetupTest()
		stateToken, _ := s.beginLogin("https://app.example/cb")
		s.provider.exchangeErr = assert.AnError

		_, err := s.svc.Grant(s.ctx, GrantQuery{Code: strPtr("abc"), State: stateToken})
		assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeExternal))
	})
}

func (s *ServiceSuite) TestGrantError() {
	cases := []struct {
		providerError string
		wantCode      dErrors.Code
	}{
		{"access_denied", dErrors.CodeUnauthorized},
		{"admin_policy_enforced", dErrors.CodeUnauthorized},
		{"org_internal", dErrors.CodeUnauthorized},
		{"disallowed_useragent", dErrors.CodeUnauthorized},
		{"redirect_uri_mismatch", dErrors.CodeConflict},
		{"something_else", dErrors.CodeBadRequest},
	}
	for _, tc := range cases {
		s.Run(tc.providerError, func() {
			s.SetupTest()
			stateToken, _ := s.beginLogin("https://app.example/cb")

			_, err := s.svc.Grant(s.ctx, GrantQuery{Error: &tc.providerError, State: stateToken})
			assert.True(s.T(), dErrors.HasCode(err, tc.wantCode), "got %v", err)
			assert.Equal(s.T(), 0, s.states.Len(), "state row must be gone after a denial")
		})
	}

	s.Run("neither code nor error is a bad request", func() {
		_, err := s.svc.Grant(s.ctx, GrantQuery{State: "whatever"})
		assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("both code and error is a bad request", func() {
		providerError := "access_denied"
		_, err := s.svc.Grant(s.ctx, GrantQuery{Code: strPtr("abc"), Error: &providerError, State: "whatever"})
		assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestAppendSessionID(t *testing.T) {
	t.Run("rejects a return URI that is not base64", func(t *testing.T) {
		_, err := appendSessionID("not!!base64", "sess")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
