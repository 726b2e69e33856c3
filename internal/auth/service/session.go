package service

import (
	"context"
	"errors"
	"time"

	"authlander/internal/auth/models"
	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/random"
	"authlander/pkg/platform/sentinel"
)

// CreateSession issues a fresh opaque session handle for the user with an
// absolute expiry ttl from now.
func (s *Service) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*models.Session, error) {
	record := &models.Session{
		ID:     random.Alphanumeric(sessionIDLength),
		UserID: userID,
		Expiry: s.clock().Add(ttl).Unix(),
	}
	if err := s.sessions.Create(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist session", "error", err, "user_id", userID)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return record, nil
}

// CheckSession enforces expiry lazily on read. An expired session is deleted
// on the spot and reported as sentinel.ErrExpired exactly once; the next call
// sees sentinel.ErrNotFound. There is no reliance on a background sweep.
func (s *Service) CheckSession(ctx context.Context, sessionID string) (*models.Session, error) {
	record, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.clock().Unix() >= record.Expiry {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete expired session", "error", err, "session_id", sessionID)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
		}
		if s.metrics != nil {
			s.metrics.SessionsExpired.Inc()
		}
		return nil, sentinel.ErrExpired
	}
	return record, nil
}

// ResolveSessionUser returns the user a checked session belongs to. A session
// whose user vanished is an anomaly, not a pass: the stray row is deleted and
// sentinel.ErrDangling raised so the caller answers Conflict.
func (s *Service) ResolveSessionUser(ctx context.Context, session *models.Session) (*models.User, error) {
	user, err := s.users.Find(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "found stray session for nonexistent user",
				"session_id", session.ID, "user_id", session.UserID)
			if delErr := s.sessions.Delete(ctx, session.ID); delErr != nil {
				s.logger.ErrorContext(ctx, "failed to delete stray session", "error", delErr, "session_id", session.ID)
				return nil, dErrors.Wrap(delErr, dErrors.CodeInternal, "internal error")
			}
			return nil, sentinel.ErrDangling
		}
		s.logger.ErrorContext(ctx, "failed to resolve session user", "error", err, "session_id", session.ID)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return user, nil
}

// SweepExpiredSessions is an additive optimization over lazy expiry: it
// removes rows that already count as invalid. Observable semantics do not
// depend on it running.
func (s *Service) SweepExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.clock().Unix())
	if err != nil {
		s.logger.ErrorContext(ctx, "session sweep failed", "error", err)
		return 0, err
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "swept expired sessions", "count", n)
	}
	return n, nil
}
