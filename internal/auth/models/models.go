// Package models holds the durable records of the authorization flow and the
// provider-asserted identity claims.
package models

// AuthState is the one-time CSRF binding created at login and consumed on the
// grant callback. ReturnURI is stored exactly as the client supplied it
// (base64, opaque to us until the callback succeeds).
type AuthState struct {
	State     string
	Nonce     string
	ReturnURI string
}

// User is keyed by the provider subject; that subject is the stable external
// identity. A nil RefreshToken means the account cannot be re-authorized.
type User struct {
	ID           string
	Active       bool
	Name         *string
	Email        string
	Picture      *string
	RefreshToken *string
}

// Session is an opaque browser handle with an absolute expiry in epoch seconds.
// Expiry is enforced lazily on read, not by a background job.
type Session struct {
	ID     string
	UserID string
	Expiry int64
}

// APIUser is a service-to-service credential, provisioned out of band.
type APIUser struct {
	Token  string
	Active bool
	Name   string
}

// Scope grants a flat scope name to a user. Duplicates are not prevented here.
type Scope struct {
	ID     int64
	Name   string
	UserID string
}

// Identity is the claim set extracted from the provider's identity assertion.
// The payload is trusted without signature verification; the direct HTTPS
// channel to the provider is the security boundary.
type Identity struct {
	Sub     string  `json:"sub"`
	Name    *string `json:"name"`
	Email   string  `json:"email"`
	Picture *string `json:"picture"`
	Nonce   string  `json:"nonce"`
}
