package service

import (
	"context"
	"errors"

	"authlander/internal/auth/models"
	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/audit"
	"authlander/pkg/platform/sentinel"
)

// Reconcile folds a provider-asserted identity into the user directory and
// returns the user id (the provider subject).
//
// New subjects are inserted active with whatever the assertion carried. Known
// subjects get one update statement per field whose asserted value genuinely
// differs from the stored one, which makes a repeat grant with unchanged
// identity data a zero-write no-op. The refresh token is only ever overwritten
// when the provider supplied a new one; re-consent flows that withhold it keep
// the stored token untouched.
func (s *Service) Reconcile(ctx context.Context, identity *models.Identity, refreshToken *string) (string, error) {
	existing, err := s.users.Find(ctx, identity.Sub)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.insertUser(ctx, identity, refreshToken)
		}
		s.logger.ErrorContext(ctx, "failed to look up user for reconciliation", "error", err, "user_id", identity.Sub)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}

	if refreshToken != nil && (existing.RefreshToken == nil || *existing.RefreshToken != *refreshToken) {
		if err := s.users.UpdateRefreshToken(ctx, identity.Sub, *refreshToken); err != nil {
			return "", s.reconcileFailure(ctx, "refresh_token", identity.Sub, err)
		}
	}

	if identity.Email != existing.Email {
		if err := s.users.UpdateEmail(ctx, identity.Sub, identity.Email); err != nil {
			return "", s.reconcileFailure(ctx, "email", identity.Sub, err)
		}
	}

	if identity.Name != nil && (existing.Name == nil || *existing.Name != *identity.Name) {
		if err := s.users.UpdateName(ctx, identity.Sub, *identity.Name); err != nil {
			return "", s.reconcileFailure(ctx, "name", identity.Sub, err)
		}
	}

	if identity.Picture != nil && (existing.Picture == nil || *existing.Picture != *identity.Picture) {
		if err := s.users.UpdatePicture(ctx, identity.Sub, *identity.Picture); err != nil {
			return "", s.reconcileFailure(ctx, "picture", identity.Sub, err)
		}
	}

	return identity.Sub, nil
}

func (s *Service) insertUser(ctx context.Context, identity *models.Identity, refreshToken *string) (string, error) {
	record := &models.User{
		ID:           identity.Sub,
		Active:       true,
		Name:         identity.Name,
		Email:        identity.Email,
		Picture:      identity.Picture,
		RefreshToken: refreshToken,
	}
	if err := s.users.Create(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to insert new user", "error", err, "user_id", identity.Sub)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}

	if s.metrics != nil {
		s.metrics.UsersCreated.Inc()
	}
	s.logAudit(ctx, audit.EventUserCreated, "user_id", identity.Sub)
	return identity.Sub, nil
}

func (s *Service) reconcileFailure(ctx context.Context, field, userID string, err error) error {
	s.logger.ErrorContext(ctx, "failed to update user field during reconciliation",
		"error", err, "field", field, "user_id", userID)
	return dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
}

// MarkInactive flags an account that can no longer be brokered.
func (s *Service) MarkInactive(ctx context.Context, userID string) error {
	if err := s.users.SetActive(ctx, userID, false); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark user inactive", "error", err, "user_id", userID)
		return dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return nil
}

// RefreshTokenOf returns the stored refresh token for a user.
// sentinel.ErrNotFound means no such user; sentinel.ErrMissingToken means the
// user exists but cannot be re-authorized and should be marked inactive.
func (s *Service) RefreshTokenOf(ctx context.Context, userID string) (string, error) {
	record, err := s.users.Find(ctx, userID)
	if err != nil {
		return "", err
	}
	if record.RefreshToken == nil {
		return "", sentinel.ErrMissingToken
	}
	return *record.RefreshToken, nil
}
