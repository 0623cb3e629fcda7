package sqlstore

import (
	"time"

	"gorm.io/datatypes"

	"github.com/s/learnhub/internal/models"
)

// Nested objects and sets are JSON columns so a row mirrors the document shape.

type userRow struct {
	UID         string `gorm:"primaryKey;column:uid"`
	DisplayName string
	Email       string `gorm:"index"`
	PhotoURL    string
	Role        string `gorm:"index;not null;default:student"`
	StudentInfo datatypes.JSONType[models.StudentInfo]
	Contact     datatypes.JSONType[models.Contact]
	Favorites   datatypes.JSONSlice[string]
	CreatedAt   time.Time `gorm:"index"`
	LastLoginAt time.Time
}

func (userRow) TableName() string { return "users" }

func newUserRow(u models.User) userRow {
	return userRow{
		UID:         u.UID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
		Role:        string(u.Role),
		StudentInfo: datatypes.NewJSONType(u.StudentInfo),
		Contact:     datatypes.NewJSONType(u.Contact),
		Favorites:   datatypes.JSONSlice[string](nonNil(u.Favorites)),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func (r userRow) model() models.User {
	return models.User{
		UID:         r.UID,
		DisplayName: r.DisplayName,
		Email:       r.Email,
		PhotoURL:    r.PhotoURL,
		Role:        models.Role(r.Role),
		StudentInfo: r.StudentInfo.Data(),
		Contact:     r.Contact.Data(),
		Favorites:   nonNil([]string(r.Favorites)),
		CreatedAt:   r.CreatedAt,
		LastLoginAt: r.LastLoginAt,
	}
}

type enrollmentRow struct {
	ID                 string `gorm:"primaryKey"`
	UserID             string `gorm:"index;not null"`
	CourseID           string `gorm:"index;not null"`
	CourseTitle        string
	CourseSlug         string
	Status             string
	ProgressPercentage int
	CompletedLessons   datatypes.JSONSlice[string]
	EnrolledAt         time.Time `gorm:"index"`
	LastAccessedAt     time.Time
}

func (enrollmentRow) TableName() string { return "enrollments" }

func newEnrollmentRow(e models.Enrollment) enrollmentRow {
	return enrollmentRow{
		ID:                 e.ID,
		UserID:             e.UserID,
		CourseID:           e.CourseID,
		CourseTitle:        e.CourseTitle,
		CourseSlug:         e.CourseSlug,
		Status:             string(e.Status),
		ProgressPercentage: e.ProgressPercentage,
		CompletedLessons:   datatypes.JSONSlice[string](nonNil(e.CompletedLessons)),
		EnrolledAt:         e.EnrolledAt,
		LastAccessedAt:     e.LastAccessedAt,
	}
}

func (r enrollmentRow) model() models.Enrollment {
	return models.Enrollment{
		ID:                 r.ID,
		UserID:             r.UserID,
		CourseID:           r.CourseID,
		CourseTitle:        r.CourseTitle,
		CourseSlug:         r.CourseSlug,
		Status:             models.EnrollmentStatus(r.Status),
		ProgressPercentage: r.ProgressPercentage,
		CompletedLessons:   nonNil([]string(r.CompletedLessons)),
		EnrolledAt:         r.EnrolledAt,
		LastAccessedAt:     r.LastAccessedAt,
	}
}

type attemptRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index:idx_attempt_user_exam;not null"`
	CourseID  string `gorm:"index"`
	ExamID    string `gorm:"index:idx_attempt_user_exam"`
	Type      string
	Score     int
	MaxScore  int
	Answers   datatypes.JSONSlice[models.Answer]
	CreatedAt time.Time `gorm:"index"`
}

func (attemptRow) TableName() string { return "quiz_attempts" }

func newAttemptRow(a models.QuizAttempt) attemptRow {
	answers := a.Answers
	if answers == nil {
		answers = []models.Answer{}
	}
	return attemptRow{
		ID:        a.ID,
		UserID:    a.UserID,
		CourseID:  a.CourseID,
		ExamID:    a.ExamID,
		Type:      string(a.Type),
		Score:     a.Score,
		MaxScore:  a.MaxScore,
		Answers:   datatypes.JSONSlice[models.Answer](answers),
		CreatedAt: a.CreatedAt,
	}
}

func (r attemptRow) model() models.QuizAttempt {
	answers := []models.Answer(r.Answers)
	if answers == nil {
		answers = []models.Answer{}
	}
	return models.QuizAttempt{
		ID:        r.ID,
		UserID:    r.UserID,
		CourseID:  r.CourseID,
		ExamID:    r.ExamID,
		Type:      models.AttemptType(r.Type),
		Score:     r.Score,
		MaxScore:  r.MaxScore,
		Answers:   answers,
		CreatedAt: r.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
