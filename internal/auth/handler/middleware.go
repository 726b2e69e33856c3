package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/httputil"
)

// TokenValidator is the slice of Service the bearer middleware needs.
type TokenValidator interface {
	ValidateAPIToken(ctx context.Context, token string) (bool, error)
}

// countRequests records one observation per handled request, labelled with
// the matched chi route pattern rather than the raw path so user ids and
// session ids do not explode metric cardinality.
func (h *Handler) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if h.metrics == nil {
			return
		}
		route := chi.RouteContext(r.Context()).RoutePattern()
		h.metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
	})
}

// RequireAPIToken guards an endpoint with a service-account bearer credential.
// The authorization header value is matched verbatim against stored tokens;
// there is no scheme prefix to strip.
func RequireAPIToken(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("authorization")
			if token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing api token").WithField("authorization"))
				return
			}

			ok, err := validator.ValidateAPIToken(r.Context(), token)
			if err != nil {
				logger.ErrorContext(r.Context(), "api token validation failed", "error", err)
				httputil.WriteError(w, err)
				return
			}
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid api token").WithField("authorization"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
