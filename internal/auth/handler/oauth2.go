package handler

import (
	_ "embed"
	"html/template"
	"net/http"

	"authlander/internal/auth/device"
	"authlander/internal/auth/service"
	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/httputil"
)

//go:embed redirect.html
var redirectHTML string

var redirectTmpl = template.Must(template.New("redirect").Parse(redirectHTML))

// handleLogin starts an authorization flow and answers with an HTML page that
// immediately forwards the browser to the provider's consent screen.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	apiName := query.Get("api_name")
	returnURI := query.Get("return_uri")
	if apiName == "" || returnURI == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "api_name and return_uri are required"))
		return
	}
	var requestedScopes *string
	if query.Has("requested_scopes") {
		scopes := query.Get("requested_scopes")
		requestedScopes = &scopes
	}

	authURL, err := h.auth.Login(ctx, apiName, returnURI, requestedScopes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "login flow started",
		"api_name", apiName,
		"device", device.ParseUserAgent(r.UserAgent()),
	)
	h.renderRedirect(w, r, authURL)
}

// handleGrant is the provider's callback. Exactly one of code or error must be
// present alongside the state the provider echoed back.
func (h *Handler) handleGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	state := query.Get("state")
	hasCode := query.Has("code")
	hasError := query.Has("error")
	if state == "" || hasCode == hasError {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "exactly one of code or error is required alongside state"))
		return
	}

	grantQuery := service.GrantQuery{State: state}
	if hasCode {
		code := query.Get("code")
		grantQuery.Code = &code
	} else {
		providerError := query.Get("error")
		grantQuery.Error = &providerError
	}

	returnURL, err := h.auth.Grant(ctx, grantQuery)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.renderRedirect(w, r, returnURL)
}

func (h *Handler) renderRedirect(w http.ResponseWriter, r *http.Request, location string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := redirectTmpl.Execute(w, struct{ Location string }{Location: location}); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render redirect page", "error", err)
	}
}
