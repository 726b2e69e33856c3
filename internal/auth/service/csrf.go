package service

import (
	"context"

	"authlander/internal/auth/models"
	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/random"
)

// BeginState allocates a fresh (state, nonce) pair bound to the caller's
// return URI and persists it. The state token round-trips through the
// provider's redirect; the nonce round-trips inside the identity assertion.
func (s *Service) BeginState(ctx context.Context, returnURI string) (*models.AuthState, error) {
	record := &models.AuthState{
		State:     random.Alphanumeric(stateTokenLength),
		Nonce:     random.Alphanumeric(nonceLength),
		ReturnURI: returnURI,
	}

	if err := s.states.Create(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist authorization state", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return record, nil
}

// ConsumeState looks up the binding for a returning grant callback. It does
// not delete the row: the caller discards it once the round-trip outcome is
// known, so the error paths can clean up together with their own handling.
func (s *Service) ConsumeState(ctx context.Context, state string) (*models.AuthState, error) {
	record, err := s.states.Find(ctx, state)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DiscardState deletes the binding unconditionally. Idempotent; a state never
// survives past one grant round-trip regardless of outcome.
func (s *Service) DiscardState(ctx context.Context, state string) error {
	if err := s.states.Delete(ctx, state); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete authorization state", "error", err, "state", state)
		return dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	return nil
}
