package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and upstream clients return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrExpired: session reached its expiry and was removed
// - ErrRevoked: provider answered 401/403 on a refresh, the grant is gone upstream
// - ErrMissingToken: user record holds no refresh token
// - ErrDangling: session points at a user that no longer exists
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrRevoked      = errors.New("revoked")
	ErrMissingToken = errors.New("missing refresh token")
	ErrDangling     = errors.New("dangling session")
)
