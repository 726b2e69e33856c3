// Package service implements the authorization, session, and token-brokering
// state machine: CSRF-bound login initiation, grant-callback reconciliation,
// lazy session expiry, and the refresh/revocation-cascade flow.
package service

import (
	"context"
	"log/slog"
	"time"

	"authlander/internal/auth/models"
	"authlander/internal/idp"
	"authlander/internal/platform/metrics"
	"authlander/pkg/platform/audit"
	"authlander/pkg/platform/tx"
)

// StateStore persists one-time CSRF bindings.
type StateStore interface {
	Create(ctx context.Context, record *models.AuthState) error
	Find(ctx context.Context, state string) (*models.AuthState, error)
	Delete(ctx context.Context, state string) error
}

// UserStore persists reconciled user records. Updates are per-field so the
// reconciliation diff maps one-to-one onto statements.
type UserStore interface {
	Create(ctx context.Context, record *models.User) error
	Find(ctx context.Context, id string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRefreshToken(ctx context.Context, id, token string) error
	UpdateEmail(ctx context.Context, id, email string) error
	UpdateName(ctx context.Context, id, name string) error
	UpdatePicture(ctx context.Context, id, picture string) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// SessionStore persists opaque session handles.
type SessionStore interface {
	Create(ctx context.Context, record *models.Session) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

// APIUserStore reads service credentials.
type APIUserStore interface {
	Find(ctx context.Context, token string) (*models.APIUser, error)
}

// ScopeStore reads flat per-user scope grants.
type ScopeStore interface {
	ListByUser(ctx context.Context, userID string) ([]string, error)
}

// ProviderClient is the upstream token endpoint, satisfied by *idp.Client.
type ProviderClient interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*idp.ExchangeResult, error)
	Refresh(ctx context.Context, refreshToken string) (*idp.RefreshResult, error)
}

// SessionTTL is how long a session issued on grant completion lives.
const SessionTTL = 24 * time.Hour

// Token sizes. The nonce is longer because it round-trips through the
// provider inside the identity assertion.
const (
	stateTokenLength = 32
	nonceLength      = 128
	sessionIDLength  = 32
)

// Service composes the CSRF state manager, user directory, session manager,
// token broker, API token gate, and the login/grant orchestrator over one set
// of stores. All durable state lives in the stores; the service itself is
// immutable after construction and safe for concurrent use.
type Service struct {
	states   StateStore
	users    UserStore
	sessions SessionStore
	apiUsers APIUserStore
	scopes   ScopeStore
	provider ProviderClient

	runner     *tx.Runner
	logger     *slog.Logger
	metrics    *metrics.Metrics
	auditor    *audit.Publisher
	clock      func() time.Time
	sessionTTL time.Duration

	clientID     string
	publicHost   string
	authEndpoint string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditor attaches a security audit publisher.
func WithAuditor(a *audit.Publisher) Option {
	return func(s *Service) { s.auditor = a }
}

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithTxRunner enables transactional multi-statement mutations. Without it,
// multi-step flows run as sequential independent statements.
func WithTxRunner(runner *tx.Runner) Option {
	return func(s *Service) { s.runner = runner }
}

// New constructs the auth service.
func New(
	states StateStore,
	users UserStore,
	sessions SessionStore,
	apiUsers APIUserStore,
	scopes ScopeStore,
	provider ProviderClient,
	opts ...Option,
) *Service {
	s := &Service{
		states:     states,
		users:      users,
		sessions:   sessions,
		apiUsers:   apiUsers,
		scopes:     scopes,
		provider:   provider,
		logger:     slog.Default(),
		clock:      time.Now,
		sessionTTL: SessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) logAudit(ctx context.Context, action string, attrs ...any) {
	if s.auditor != nil {
		s.auditor.Emit(ctx, audit.NewEvent(action, attrs...))
	}
}
