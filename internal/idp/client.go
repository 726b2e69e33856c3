// Package idp talks to the upstream Google OAuth2 token endpoint. It is the
// only slow external dependency in the system, so every call runs under a
// bounded timeout and transport failures are kept distinguishable from the
// provider's application-level revocation signal.
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"authlander/pkg/platform/sentinel"
)

const defaultTokenEndpoint = "https://oauth2.googleapis.com/token"

const defaultTimeout = 10 * time.Second

// Client exchanges authorization codes and refresh tokens with the provider.
type Client struct {
	httpClient    *http.Client
	tokenEndpoint string
	clientID      string
	clientSecret  string
}

// Option configures a Client.
type Option func(*Client)

// WithTokenEndpoint overrides the provider token endpoint, used by tests to
// point the client at a stub server.
func WithTokenEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.tokenEndpoint = endpoint
		}
	}
}

// WithTimeout bounds the provider round-trip.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New constructs a provider client with the app's OAuth2 credentials.
func New(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: defaultTimeout},
		tokenEndpoint: defaultTokenEndpoint,
		clientID:      clientID,
		clientSecret:  clientSecret,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExchangeResult is the provider's answer to an authorization-code exchange.
type ExchangeResult struct {
	AccessToken  string  `json:"access_token"`
	ExpiresIn    int64   `json:"expires_in"`
	RefreshToken *string `json:"refresh_token"`
	IDToken      string  `json:"id_token"`
	Scope        string  `json:"scope"`
}

// RefreshResult is the provider's answer to a refresh-token exchange.
type RefreshResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

type exchangeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
	GrantType    string `json:"grant_type"`
	RedirectURI  string `json:"redirect_uri"`
}

type refreshRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

// ExchangeCode trades an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*ExchangeResult, error) {
	payload := exchangeRequest{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Code:         code,
		GrantType:    "authorization_code",
		RedirectURI:  redirectURI,
	}

	var result ExchangeResult
	if err := c.post(ctx, payload, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// Refresh trades a long-lived refresh token for a short-lived access token.
// A 401 or 403 from the provider means the user revoked the grant; that comes
// back as sentinel.ErrRevoked and nothing else ever does.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	payload := refreshRequest{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	}

	var result RefreshResult
	if err := c.post(ctx, payload, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, payload, result any, revokedOnAuthStatus bool) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failure: never conflated with revocation.
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if revokedOnAuthStatus && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		return fmt.Errorf("provider status %d: %w", resp.StatusCode, sentinel.ErrRevoked)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("provider status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	return nil
}
