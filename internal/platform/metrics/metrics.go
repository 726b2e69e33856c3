package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Each instance
// carries its own registry so construction is safe in tests.
type Metrics struct {
	Registry *prometheus.Registry

	LoginsStarted      prometheus.Counter
	GrantsCompleted    prometheus.Counter
	GrantsDenied       prometheus.Counter
	UsersCreated       prometheus.Counter
	TokensBrokered     prometheus.Counter
	RevocationCascades prometheus.Counter
	SessionsExpired    prometheus.Counter

	HTTPRequests *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		LoginsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "authlander_logins_started_total",
			Help: "Total number of OAuth2 login flows initiated",
		}),
		GrantsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "authlander_grants_completed_total",
			Help: "Total number of grant callbacks that issued a session",
		}),
		GrantsDenied: factory.NewCounter(prometheus.CounterOpts{
			Name: "authlander_grants_denied_total",
			Help: "Total number of grant callbacks denied by the provider",
		}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "authlander_users_created_total",
			Help: "Total number of users created in the system",
		}),
		TokensBrokered: factory.NewCounter(prometheus.CounterOpts{
			Name: "authlander_tokens_brokered_total",
			Help: "Total number of access tokens brokered from refresh tokens",
		}),
		RevocationCascades: factory.NewCounter(prometheus.CounterOpts{
			Name: "authlander_revocation_cascades_total",
			Help: "Total number of provider revocations that purged user records",
		}),
		SessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "authlander_sessions_expired_total",
			Help: "Total number of sessions removed on lazy expiry checks",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authlander_http_requests_total",
			Help: "HTTP requests handled, by method, route pattern, and status code",
		}, []string{"method", "route", "code"}),
	}
}
