package models

import "time"

type AttemptType string

const (
	AttemptPreTest  AttemptType = "pre_test"
	AttemptPostTest AttemptType = "post_test"
	AttemptExercise AttemptType = "exercise"
)

func (t AttemptType) Valid() bool {
	switch t {
	case AttemptPreTest, AttemptPostTest, AttemptExercise:
		return true
	}
	return false
}

// QuizAttempt is a write-once record of one quiz submission.
type QuizAttempt struct {
	ID        string      `json:"id" bson:"_id"`
	UserID    string      `json:"userId" bson:"userId"`
	CourseID  string      `json:"courseId" bson:"courseId"`
	ExamID    string      `json:"examId" bson:"examId"`
	Type      AttemptType `json:"type" bson:"type"`
	Score     int         `json:"score" bson:"score"`
	MaxScore  int         `json:"maxScore" bson:"maxScore"`
	Answers   []Answer    `json:"answers" bson:"answers"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
}

// Answer is one entry of an attempt, in question order.
type Answer struct {
	QuestionKey   string `json:"questionKey" bson:"questionKey"`
	SelectedIndex int    `json:"selectedIndex" bson:"selectedIndex"`
	IsCorrect     bool   `json:"isCorrect" bson:"isCorrect"`
}
