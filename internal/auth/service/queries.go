package service

import (
	"context"
	"errors"

	"authlander/internal/auth/models"
	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/sentinel"
)

// Plain read-side lookups used by the CRUD endpoints. These do not take part
// in the security protocol; they only translate store errors.

// DescribeUser returns the stored user record.
func (s *Service) DescribeUser(ctx context.Context, userID string) (*models.User, error) {
	record, err := s.users.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no record exists for the provided user_id").WithField("user_id")
		}
		s.logger.ErrorContext(ctx, "failed to describe user", "error", err, "user_id", userID)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return record, nil
}

// UserExists reports presence without authorization semantics.
func (s *Service) UserExists(ctx context.Context, userID string) (bool, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to check user existence", "error", err, "user_id", userID)
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return exists, nil
}

// ListUsers returns every user record.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return users, nil
}
