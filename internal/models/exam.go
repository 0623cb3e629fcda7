package models

// Exam is an authored question set attached to a course.
// MaxAttempts is informational only; nothing on the server enforces it.
type Exam struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	CourseID         string      `json:"courseId"`
	Type             AttemptType `json:"type"`
	PassingScore     int         `json:"passingScore"`
	MaxAttempts      int         `json:"maxAttempts"`
	TimeLimitMinutes int         `json:"timeLimitMinutes"`
	Questions        []Question  `json:"questions"`
}

type Question struct {
	Key         string   `json:"key" validate:"required"`
	Text        string   `json:"text" validate:"required"`
	Choices     []Choice `json:"choices" validate:"min=2,dive"`
	Explanation string   `json:"explanation"`
}

type Choice struct {
	Key       string `json:"key" validate:"required"`
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// MaxScore is one point per question.
func (e *Exam) MaxScore() int { return len(e.Questions) }
