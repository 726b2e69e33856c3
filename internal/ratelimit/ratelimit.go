// Package ratelimit provides per-client request limiting for the public
// endpoints. Two backends exist: an in-process sliding window for single
// instances and tests, and a Redis fixed window for deployments with more
// than one replica.
package ratelimit

import (
	"context"
	"time"
)

// Result describes one admission decision.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Store decides whether a keyed request is admitted within the window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
