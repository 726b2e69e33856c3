package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"authlander/internal/auth/handler"
	"authlander/internal/platform/metrics"
	"authlander/internal/ratelimit"
	"authlander/pkg/platform/httputil"
)

// Options carries the collaborators the router composes. Handlers stay thin;
// everything with behavior is injected.
type Options struct {
	Auth      *handler.Handler
	Metrics   *metrics.Metrics
	DB        *sql.DB
	Limiter   ratelimit.Store
	RateLimit int
	RateSpan  time.Duration
	Logger    *slog.Logger
}

// NewRouter wires all public endpoints plus the operational surface.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	if opts.Limiter != nil {
		r.Use(ratelimit.Middleware(opts.Limiter, opts.RateLimit, opts.RateSpan, opts.Logger))
	}

	opts.Auth.Register(r)

	r.Get("/healthz", handleHealth(opts.DB))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			opts.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	return r
}

func handleHealth(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
