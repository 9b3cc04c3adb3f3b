package submissions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores one submission, assigning its id.
func (s *Service) Create(ctx context.Context, sub Submission) (*Submission, error) {
	if errs := Validate(sub); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	sub.ID = uuid.New()
	if err := s.repo.Create(ctx, &sub); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return &sub, nil
}

// ListByKind returns the most recent submissions of one kind.
func (s *Service) ListByKind(ctx context.Context, kind string, limit int) ([]*Submission, error) {
	if !validKinds[kind] {
		return nil, ErrUnknownKind
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByKind(ctx, kind, limit)
}
