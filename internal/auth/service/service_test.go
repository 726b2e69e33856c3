package service

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"authlander/internal/auth/store/apiuser"
	"authlander/internal/auth/store/scope"
	"authlander/internal/auth/store/session"
	"authlander/internal/auth/store/state"
	"authlander/internal/auth/store/user"
	"authlander/internal/idp"
	"authlander/internal/platform/metrics"
)

// stubProvider satisfies ProviderClient with canned answers. The real client
// is covered by its own tests against an httptest server.
type stubProvider struct {
	exchangeResult *idp.ExchangeResult
	exchangeErr    error
	refreshResult  *idp.RefreshResult
	refreshErr     error
	refreshCalls   int
}

func (p *stubProvider) ExchangeCode(_ context.Context, _, _ string) (*idp.ExchangeResult, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.exchangeResult, nil
}

func (p *stubProvider) Refresh(_ context.Context, _ string) (*idp.RefreshResult, error) {
	p.refreshCalls++
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}
	return p.refreshResult, nil
}

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	states   *state.InMemoryStateStore
	users    *user.InMemoryUserStore
	sessions *session.InMemorySessionStore
	apiUsers *apiuser.InMemoryAPIUserStore
	scopes   *scope.InMemoryScopeStore
	provider *stubProvider
	now      time.Time
	svc      *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.states = state.NewMemory()
	s.users = user.NewMemory()
	s.sessions = session.NewMemory()
	s.apiUsers = apiuser.NewMemory()
	s.scopes = scope.NewMemory()
	s.provider = &stubProvider{}
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.svc = New(
		s.states, s.users, s.sessions, s.apiUsers, s.scopes, s.provider,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics.New()),
		WithClock(func() time.Time { return s.now }),
		WithProviderConfig(ProviderConfig{
			ClientID:   "test-client-id",
			PublicHost: "https://auth.example",
		}),
	)
}

// advance moves the suite clock forward.
func (s *ServiceSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

// mintIDToken builds a signed three-segment assertion whose payload carries
// the given claims. The signature is irrelevant to the decoder, but a real
// token keeps the segment encoding honest.
func mintIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("mint id token: %v", err)
	}
	return token
}

func encodeReturnURI(uri string) string {
	return base64.StdEncoding.EncodeToString([]byte(uri))
}

func strPtr(v string) *string { return &v }

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
