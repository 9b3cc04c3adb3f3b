package checkout

import (
	"context"

	"github.com/google/uuid"
)

// CancelPayment handles the widget's dismiss/cancel callback. No charge
// is assumed and the cart is preserved; cancellation is an outcome, not
// an error.
func (s *Service) CancelPayment(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !CanTransitionTo(session.Status, StatusCancelled) {
		return ErrIllegalTransition
	}

	return s.repo.UpdateStatus(ctx, sessionID, StatusCancelled)
}

// FailPayment handles the widget's error callback. The cart is
// preserved so the user can retry with a fresh checkout.
func (s *Service) FailPayment(ctx context.Context, sessionID uuid.UUID, reason string) error {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !CanTransitionTo(session.Status, StatusFailed) {
		return ErrIllegalTransition
	}

	return s.repo.SetFailure(ctx, sessionID, reason)
}

// GetSession exposes a session for status polling.
func (s *Service) GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	return s.repo.GetSession(ctx, sessionID)
}
