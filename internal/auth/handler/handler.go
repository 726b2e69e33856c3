package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"authlander/internal/auth/models"
	"authlander/internal/auth/service"
	"authlander/internal/platform/metrics"
)

// Service defines the operations the HTTP layer dispatches to.
type Service interface {
	Login(ctx context.Context, apiName, returnURI string, requestedScopes *string) (string, error)
	Grant(ctx context.Context, query service.GrantQuery) (string, error)
	CheckSession(ctx context.Context, sessionID string) (*models.Session, error)
	ResolveSessionUser(ctx context.Context, session *models.Session) (*models.User, error)
	BrokerToken(ctx context.Context, userID string) (*service.BrokeredToken, error)
	ValidateAPIToken(ctx context.Context, token string) (bool, error)
	ScopesOf(ctx context.Context, userID string) ([]string, error)
	DescribeUser(ctx context.Context, userID string) (*models.User, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Handler exposes the authorization flow and the account endpoints over HTTP.
type Handler struct {
	logger  *slog.Logger
	auth    Service
	metrics *metrics.Metrics
}

// New creates a new auth Handler.
func New(auth Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		auth:    auth,
		metrics: metrics,
	}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	authRouter := chi.NewRouter()
	authRouter.Use(chimw.Recoverer)
	authRouter.Use(chimw.RequestID)
	authRouter.Use(chimw.Timeout(30 * time.Second))
	authRouter.Use(h.countRequests)

	authRouter.Get("/oauth2/login", h.handleLogin)
	authRouter.Get("/oauth2/grant", h.handleGrant)

	authRouter.Get("/session/check/{sessionID}", h.handleSessionCheck)
	authRouter.Get("/session/describe/{sessionID}", h.handleSessionDescribe)

	authRouter.Get("/user/scopes/{userID}", h.handleUserScopes)
	authRouter.Get("/user/exists/{userID}", h.handleUserExists)

	authRouter.Group(func(protected chi.Router) {
		protected.Use(RequireAPIToken(h.auth, h.logger))
		protected.Get("/token/get/{userID}", h.handleTokenGet)
		protected.Get("/user/describe/{userID}", h.handleUserDescribe)
		protected.Get("/user/list", h.handleUserList)
	})

	r.Mount("/", authRouter)
}
