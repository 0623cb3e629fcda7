// Package storage declares the repositories backing users, enrollments and quiz attempts.
//
// Implementations live in the memstore, mongostore and sqlstore sub-packages and must
// return copies of stored documents, never references to internal state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/s/learnhub/internal/models"
)

var ErrNotFound = errors.New("document not found")

const DefaultLimit = 50

type (
	UserRepository interface {
		GetUser(ctx context.Context, uid string) (models.User, error)
		CreateUser(ctx context.Context, usr models.User) (models.User, error)
		// TouchLastLogin only sets lastLoginAt. Returns ErrNotFound for an unknown uid.
		TouchLastLogin(ctx context.Context, uid string, at time.Time) error
		SetRole(ctx context.Context, uid string, role models.Role) error
		// AddFavorite and RemoveFavorite have set semantics.
		AddFavorite(ctx context.Context, uid, courseID string) error
		RemoveFavorite(ctx context.Context, uid, courseID string) error
		ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
		CountUsers(ctx context.Context, filter UserFilter) (int64, error)
	}

	EnrollmentRepository interface {
		// PutEnrollment replaces the whole document (or creates it).
		PutEnrollment(ctx context.Context, enr models.Enrollment) error
		GetEnrollment(ctx context.Context, id string) (models.Enrollment, error)
		// AddCompletedLesson adds lessonID to completedLessons without duplicates and
		// sets lastAccessedAt. Returns ErrNotFound if the enrollment does not exist.
		AddCompletedLesson(ctx context.Context, id, lessonID string, at time.Time) error
		ListEnrollments(ctx context.Context, filter EnrollmentFilter) ([]models.Enrollment, error)
		CountEnrollments(ctx context.Context, filter EnrollmentFilter) (int64, error)
	}

	AttemptRepository interface {
		// InsertAttempt stores a new attempt and returns its id. Attempts are never updated.
		InsertAttempt(ctx context.Context, att models.QuizAttempt) (string, error)
		ListAttempts(ctx context.Context, filter AttemptFilter) ([]models.QuizAttempt, error)
		CountAttempts(ctx context.Context, filter AttemptFilter) (int64, error)
	}

	Store interface {
		Users() UserRepository
		Enrollments() EnrollmentRepository
		Attempts() AttemptRepository
		// Migrate prepares indexes or tables. Safe to run repeatedly.
		Migrate(ctx context.Context) error
		Close(ctx context.Context) error
	}
)

// Page is shared by all list filters. A zero Limit means DefaultLimit.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) Size() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}

func (p Page) Skip() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// UserFilter ANDs its set fields. Search is a case-insensitive substring match on
// display name or email. Results are ordered by createdAt, newest first.
type UserFilter struct {
	Role   models.Role
	Search string
	Page
}

// EnrollmentFilter results are ordered by enrolledAt, newest first.
type EnrollmentFilter struct {
	UserID   string
	CourseID string
	Page
}

// AttemptFilter results are ordered by createdAt, newest first.
type AttemptFilter struct {
	UserID   string
	CourseID string
	ExamID   string
	Type     models.AttemptType
	Page
}
