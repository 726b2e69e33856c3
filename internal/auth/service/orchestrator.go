package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"authlander/internal/idp"
	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/audit"
	"authlander/pkg/platform/sentinel"
)

const defaultAuthEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"

// defaultScopes are always requested; caller-requested scopes are appended.
const defaultScopes = "openid profile email"

// ProviderConfig identifies this service to the provider and anchors the
// callback URL the provider redirects back to.
type ProviderConfig struct {
	ClientID     string
	AuthEndpoint string // empty means the Google endpoint
	PublicHost   string // scheme://host this service is reachable at
}

// WithProviderConfig sets the OAuth2 app identity used to build authorization
// URLs.
func WithProviderConfig(cfg ProviderConfig) Option {
	return func(s *Service) {
		s.clientID = cfg.ClientID
		s.publicHost = strings.TrimRight(cfg.PublicHost, "/")
		if cfg.AuthEndpoint != "" {
			s.authEndpoint = cfg.AuthEndpoint
		}
	}
}

// GrantQuery is the provider's callback query. Exactly one of Code and Error
// must be present.
type GrantQuery struct {
	Code  *string
	Error *string
	State string
}

// Login allocates CSRF state for a client application and returns the
// provider authorization URL the user agent must visit.
func (s *Service) Login(ctx context.Context, apiName, returnURI string, requestedScopes *string) (string, error) {
	state, err := s.BeginState(ctx, returnURI)
	if err != nil {
		return "", err
	}

	scope := defaultScopes
	if requestedScopes != nil && *requestedScopes != "" {
		scope = defaultScopes + " " + *requestedScopes
	}

	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("redirect_uri", s.grantCallbackURI())
	params.Set("response_type", "code")
	params.Set("scope", scope)
	params.Set("access_type", "offline")
	params.Set("state", state.State)
	params.Set("include_granted_scopes", "true")
	params.Set("prompt", "select_account")
	params.Set("nonce", state.Nonce)

	if s.metrics != nil {
		s.metrics.LoginsStarted.Inc()
	}
	s.logAudit(ctx, audit.EventLoginStarted, "api_name", apiName)
	s.logger.InfoContext(ctx, "oauth2 login initiated", "api_name", apiName)

	endpoint := s.authEndpoint
	if endpoint == "" {
		endpoint = defaultAuthEndpoint
	}
	return endpoint + "?" + params.Encode(), nil
}

// Grant reconciles the provider's callback into a user record plus a fresh
// session and returns the client's return URI with the session id appended.
// Whatever the outcome, the state row does not survive the call.
func (s *Service) Grant(ctx context.Context, query GrantQuery) (string, error) {
	switch {
	case query.Code != nil && query.Error == nil:
		return s.grantCode(ctx, *query.Code, query.State)
	case query.Code == nil && query.Error != nil:
		return "", s.grantError(ctx, *query.Error, query.State)
	default:
		return "", dErrors.New(dErrors.CodeBadRequest,
			"expected either an 'error' or a 'code', neither or both were provided").WithField("query")
	}
}

func (s *Service) grantCode(ctx context.Context, code, stateToken string) (string, error) {
	state, err := s.ConsumeState(ctx, stateToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeConflict, "provided parameter 'state' does not exist").WithField("state")
		}
		s.logger.ErrorContext(ctx, "failed to look up authorization state", "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}

	exchange, err := s.provider.ExchangeCode(ctx, code, s.grantCallbackURI())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to exchange grant code", "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeExternal, "external API error")
	}

	identity, err := idp.DecodeAssertion(exchange.IDToken)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to decode identity assertion", "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}

	// The central security invariant: the nonce embedded in the assertion
	// must match the one stored at login. A mismatch is a replayed or forged
	// callback; the state is burned and no session is created.
	if identity.Nonce != state.Nonce {
		if err := s.DiscardState(ctx, stateToken); err != nil {
			return "", err
		}
		s.logAudit(ctx, audit.EventNonceMismatch, "state", stateToken)
		s.logger.WarnContext(ctx, "nonce mismatch on grant callback", "state", stateToken)
		return "", dErrors.New(dErrors.CodeUnauthorized, "nonce associated with state is invalid").WithField("state")
	}

	userID, err := s.Reconcile(ctx, identity, exchange.RefreshToken)
	if err != nil {
		return "", err
	}

	session, err := s.CreateSession(ctx, userID, s.sessionTTL)
	if err != nil {
		return "", err
	}

	if err := s.DiscardState(ctx, stateToken); err != nil {
		return "", err
	}

	redirect, err := appendSessionID(state.ReturnURI, session.ID)
	if err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.GrantsCompleted.Inc()
	}
	s.logAudit(ctx, audit.EventGrantCompleted, "user_id", userID, "session_id", session.ID)
	s.logger.InfoContext(ctx, "grant completed", "user_id", userID)
	return redirect, nil
}

func (s *Service) grantError(ctx context.Context, providerError, stateToken string) error {
	// The state is dead regardless of which denial this is.
	if err := s.DiscardState(ctx, stateToken); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.GrantsDenied.Inc()
	}
	s.logAudit(ctx, audit.EventGrantDenied, "provider_error", providerError)
	s.logger.WarnContext(ctx, "provider denied grant", "provider_error", providerError)

	switch providerError {
	case "access_denied":
		return dErrors.New(dErrors.CodeUnauthorized, "the user did not grant access").WithField("user")
	case "admin_policy_enforced", "org_internal":
		return dErrors.New(dErrors.CodeUnauthorized,
			"the user is not part of the organization owning this OAuth2 client, or admin policies prevent the user from granting access").WithField("organization")
	case "disallowed_useragent":
		return dErrors.New(dErrors.CodeUnauthorized, "the user agent is disallowed by the provider").WithField("useragent")
	case "redirect_uri_mismatch":
		return dErrors.New(dErrors.CodeConflict, "invalid redirect URI").WithField("configuration")
	default:
		return dErrors.New(dErrors.CodeBadRequest, "invalid error").WithField("query")
	}
}

func (s *Service) grantCallbackURI() string {
	return s.publicHost + "/oauth2/grant"
}

// appendSessionID decodes the base64 return URI stored at login and appends
// the session id, picking ? or & based on whether a query string exists.
func appendSessionID(encodedURI, sessionID string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(encodedURI)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest,
			"return URI provided at login is not valid base64").WithField("return_uri")
	}

	redirect := string(decoded)
	separator := "?"
	if strings.Contains(redirect, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%ssession_id=%s", redirect, separator, sessionID), nil
}
