package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

type attemptRepository struct{ db *gorm.DB }

func (r attemptRepository) InsertAttempt(ctx context.Context, att models.QuizAttempt) (string, error) {
	att.ID = uuid.NewString()
	row := newAttemptRow(att)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", errors.Wrap(err, "insert attempt")
	}
	return row.ID, nil
}

func (r attemptRepository) query(ctx context.Context, f storage.AttemptFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&attemptRow{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.CourseID != "" {
		q = q.Where("course_id = ?", f.CourseID)
	}
	if f.ExamID != "" {
		q = q.Where("exam_id = ?", f.ExamID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", string(f.Type))
	}
	return q
}

func (r attemptRepository) ListAttempts(ctx context.Context, f storage.AttemptFilter) ([]models.QuizAttempt, error) {
	var rows []attemptRow
	if err := paged(r.query(ctx, f), f.Page, "created_at DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "find attempts")
	}
	atts := make([]models.QuizAttempt, 0, len(rows))
	for _, row := range rows {
		atts = append(atts, row.model())
	}
	return atts, nil
}

func (r attemptRepository) CountAttempts(ctx context.Context, f storage.AttemptFilter) (int64, error) {
	var n int64
	err := r.query(ctx, f).Count(&n).Error
	return n, errors.Wrap(err, "count attempts")
}
