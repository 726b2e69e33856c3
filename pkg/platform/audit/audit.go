// Package audit records security-relevant events of the authorization flow.
// Events go to a pluggable sink; the default sink is the structured logger,
// keeping the trail greppable without extra infrastructure.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actions emitted by the auth service.
const (
	EventLoginStarted   = "login_started"
	EventGrantCompleted = "grant_completed"
	EventGrantDenied    = "grant_denied"
	EventNonceMismatch  = "nonce_mismatch"
	EventUserCreated    = "user_created"
	EventGrantRevoked   = "grant_revoked"
)

// Event is one security-relevant occurrence. Attrs are alternating key/value
// pairs in slog convention.
type Event struct {
	ID     string
	Action string
	At     time.Time
	Attrs  []any
}

// NewEvent stamps an event with a fresh id; At is filled on emit.
func NewEvent(action string, attrs ...any) Event {
	return Event{
		ID:     uuid.NewString(),
		Action: action,
		Attrs:  attrs,
	}
}

// Sink receives emitted events.
type Sink interface {
	Write(ctx context.Context, event Event)
}
