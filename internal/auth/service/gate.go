package service

import (
	"context"
	"errors"

	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/sentinel"
)

// ValidateAPIToken reports whether a bearer credential identifies an active
// service account. The header value is compared verbatim against stored
// tokens; an unknown token and an inactive one both answer false, not error.
func (s *Service) ValidateAPIToken(ctx context.Context, token string) (bool, error) {
	record, err := s.apiUsers.Find(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		s.logger.ErrorContext(ctx, "failed to validate api token", "error", err)
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return record.Active, nil
}

// ScopesOf lists the scope names granted to a user; an empty list is a valid
// answer.
func (s *Service) ScopesOf(ctx context.Context, userID string) ([]string, error) {
	scopes, err := s.scopes.ListByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list scopes", "error", err, "user_id", userID)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return scopes, nil
}
