// Package enrollment links users to courses and tracks lesson completion.
package enrollment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

// CourseRef is the slice of course data copied onto the enrollment.
type CourseRef struct {
	ID    string
	Title string
	Slug  string
}

type Service struct {
	enrollments storage.EnrollmentRepository
	now         func() time.Time
}

func NewService(enrollments storage.EnrollmentRepository) *Service {
	return &Service{enrollments: enrollments, now: func() time.Time { return time.Now().UTC() }}
}

// ID is the enrollment document id for a user and course.
func ID(userID, courseID string) string {
	return userID + "_" + courseID
}

// Enroll writes a fresh active enrollment. An existing enrollment for the same
// pair is overwritten, which resets its progress.
func (s *Service) Enroll(ctx context.Context, userID string, course CourseRef) (models.Enrollment, error) {
	now := s.now()
	enr := models.Enrollment{
		ID:               ID(userID, course.ID),
		UserID:           userID,
		CourseID:         course.ID,
		CourseTitle:      course.Title,
		CourseSlug:       course.Slug,
		Status:           models.EnrollmentActive,
		CompletedLessons: []string{},
		EnrolledAt:       now,
		LastAccessedAt:   now,
	}
	if err := s.enrollments.PutEnrollment(ctx, enr); err != nil {
		return models.Enrollment{}, errors.Wrap(err, "put enrollment")
	}
	return enr, nil
}

// Check returns nil, nil when the user is not enrolled.
func (s *Service) Check(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	enr, err := s.enrollments.GetEnrollment(ctx, ID(userID, courseID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get enrollment")
	}
	return &enr, nil
}

// RecordLessonComplete adds lessonID to the completed set. progressPercentage is
// left as stored. Returns storage.ErrNotFound when the user is not enrolled.
func (s *Service) RecordLessonComplete(ctx context.Context, userID, courseID, lessonID string) error {
	return s.enrollments.AddCompletedLesson(ctx, ID(userID, courseID), lessonID, s.now())
}

func (s *Service) ListForUser(ctx context.Context, userID string, page storage.Page) ([]models.Enrollment, error) {
	return s.enrollments.ListEnrollments(ctx, storage.EnrollmentFilter{UserID: userID, Page: page})
}

func (s *Service) List(ctx context.Context, f storage.EnrollmentFilter) ([]models.Enrollment, error) {
	return s.enrollments.ListEnrollments(ctx, f)
}

func (s *Service) Count(ctx context.Context, f storage.EnrollmentFilter) (int64, error) {
	return s.enrollments.CountEnrollments(ctx, f)
}
