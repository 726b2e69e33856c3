package service

import (
	"context"
	"errors"

	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/audit"
	"authlander/pkg/platform/sentinel"
)

// BrokeredToken is the broker's answer for an account that could be serviced.
// Active false means the account holds no refresh token and was just marked
// inactive; no provider call was made.
type BrokeredToken struct {
	AccessToken string
	Expiry      int64
	Active      bool
}

// BrokerToken trades the user's stored refresh token for a short-lived access
// token.
//
// Outcomes, in order of evaluation:
//   - unknown user: NotFound
//   - stored refresh token missing: user marked inactive, inactive result
//   - provider refreshed: token plus absolute expiry
//   - provider signalled revocation (401/403): user row and every session for
//     the user are removed (scopes deliberately retained so a re-login does not
//     force a scope re-grant), Conflict
//   - anything else from the provider: ExternalDependency, no retry here
func (s *Service) BrokerToken(ctx context.Context, userID string) (*BrokeredToken, error) {
	refreshToken, err := s.RefreshTokenOf(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "no user exists for the provided user_id").WithField("user_id")
		case errors.Is(err, sentinel.ErrMissingToken):
			s.logger.WarnContext(ctx, "found user without refresh token", "user_id", userID)
			if err := s.MarkInactive(ctx, userID); err != nil {
				return nil, err
			}
			return &BrokeredToken{Active: false}, nil
		default:
			s.logger.ErrorContext(ctx, "failed to load refresh token", "error", err, "user_id", userID)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
		}
	}

	result, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrRevoked) {
			return nil, s.cascadeRevocation(ctx, userID)
		}
		s.logger.ErrorContext(ctx, "provider refresh failed", "error", err, "user_id", userID)
		return nil, dErrors.Wrap(err, dErrors.CodeExternal, "external API error")
	}

	if s.metrics != nil {
		s.metrics.TokensBrokered.Inc()
	}
	return &BrokeredToken{
		AccessToken: result.AccessToken,
		Expiry:      s.clock().Unix() + result.ExpiresIn,
		Active:      true,
	}, nil
}

// cascadeRevocation removes the user row and all of the user's sessions after
// the provider confirmed the grant is gone. Scope rows stay. The two deletes
// run in one transaction where the store supports it; the externally visible
// outcome is identical either way.
func (s *Service) cascadeRevocation(ctx context.Context, userID string) error {
	err := s.runner.Run(ctx, func(ctx context.Context) error {
		if err := s.users.Delete(ctx, userID); err != nil {
			return err
		}
		return s.sessions.DeleteByUser(ctx, userID)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "revocation cascade failed", "error", err, "user_id", userID)
		return dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}

	if s.metrics != nil {
		s.metrics.RevocationCascades.Inc()
	}
	s.logAudit(ctx, audit.EventGrantRevoked, "user_id", userID)
	s.logger.InfoContext(ctx, "user revoked provider access, records purged", "user_id", userID)
	return dErrors.New(dErrors.CodeConflict, "user has revoked access")
}
