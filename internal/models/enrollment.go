package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment links one user to one course.
// ID is always "<userId>_<courseId>", so there is at most one document per pair.
type Enrollment struct {
	ID                 string           `json:"id" bson:"_id"`
	UserID             string           `json:"userId" bson:"userId"`
	CourseID           string           `json:"courseId" bson:"courseId"`
	CourseTitle        string           `json:"courseTitle" bson:"courseTitle"`
	CourseSlug         string           `json:"courseSlug" bson:"courseSlug"`
	Status             EnrollmentStatus `json:"status" bson:"status"`
	ProgressPercentage int              `json:"progressPercentage" bson:"progressPercentage"`
	CompletedLessons   []string         `json:"completedLessons" bson:"completedLessons"`
	EnrolledAt         time.Time        `json:"enrolledAt" bson:"enrolledAt"`
	LastAccessedAt     time.Time        `json:"lastAccessedAt" bson:"lastAccessedAt"`
}

// HasCompleted reports whether lessonID is in the completed set.
func (e Enrollment) HasCompleted(lessonID string) bool {
	for _, id := range e.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}
