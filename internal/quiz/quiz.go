// Package quiz records quiz submissions.
//
// Attempts are append-only. Scoring happens on the client and is stored as sent:
// there is no bound check on score, no answer-shape check and no attempt limit.
package quiz

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

type Service struct {
	attempts storage.AttemptRepository
	now      func() time.Time
}

func NewService(attempts storage.AttemptRepository) *Service {
	return &Service{attempts: attempts, now: func() time.Time { return time.Now().UTC() }}
}

// RecordAttempt stores att as a new record and returns its id. Any id or
// createdAt on att is replaced.
func (s *Service) RecordAttempt(ctx context.Context, att models.QuizAttempt) (string, error) {
	att.ID = ""
	att.CreatedAt = s.now()
	id, err := s.attempts.InsertAttempt(ctx, att)
	return id, errors.Wrap(err, "insert attempt")
}

func (s *Service) ListAttempts(ctx context.Context, f storage.AttemptFilter) ([]models.QuizAttempt, error) {
	return s.attempts.ListAttempts(ctx, f)
}

func (s *Service) Count(ctx context.Context, f storage.AttemptFilter) (int64, error) {
	return s.attempts.CountAttempts(ctx, f)
}
