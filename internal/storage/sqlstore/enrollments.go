package sqlstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

type enrollmentRepository struct{ db *gorm.DB }

func (r enrollmentRepository) PutEnrollment(ctx context.Context, enr models.Enrollment) error {
	row := newEnrollmentRow(enr)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&row).Error
	return errors.Wrap(err, "upsert enrollment")
}

func (r enrollmentRepository) GetEnrollment(ctx context.Context, id string) (models.Enrollment, error) {
	var row enrollmentRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return models.Enrollment{}, notFound(err)
	}
	return row.model(), nil
}

func (r enrollmentRepository) AddCompletedLesson(ctx context.Context, id, lessonID string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row enrollmentRow
		if err := forUpdate(tx).First(&row, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		enr := row.model()
		if !enr.HasCompleted(lessonID) {
			enr.CompletedLessons = append(enr.CompletedLessons, lessonID)
		}
		return tx.Model(&enrollmentRow{}).Where("id = ?", id).Updates(map[string]interface{}{
			"completed_lessons": newEnrollmentRow(enr).CompletedLessons,
			"last_accessed_at":  at,
		}).Error
	})
}

func (r enrollmentRepository) query(ctx context.Context, f storage.EnrollmentFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&enrollmentRow{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.CourseID != "" {
		q = q.Where("course_id = ?", f.CourseID)
	}
	return q
}

func (r enrollmentRepository) ListEnrollments(ctx context.Context, f storage.EnrollmentFilter) ([]models.Enrollment, error) {
	var rows []enrollmentRow
	if err := paged(r.query(ctx, f), f.Page, "enrolled_at DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "find enrollments")
	}
	enrs := make([]models.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrs = append(enrs, row.model())
	}
	return enrs, nil
}

func (r enrollmentRepository) CountEnrollments(ctx context.Context, f storage.EnrollmentFilter) (int64, error) {
	var n int64
	err := r.query(ctx, f).Count(&n).Error
	return n, errors.Wrap(err, "count enrollments")
}
