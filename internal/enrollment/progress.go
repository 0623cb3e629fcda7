package enrollment

import "github.com/s/learnhub/internal/models"

// Progress is a read-only view of an enrollment against the current course content.
// StoredPercentage is whatever the document holds; the other fields are computed.
type Progress struct {
	StoredPercentage   int    `json:"progressPercentage"`
	CompletedCount     int    `json:"completedCount"`
	TotalLessons       int    `json:"totalLessons"`
	ComputedPercentage int    `json:"computedPercentage"`
	NextLessonKey      string `json:"nextLessonKey,omitempty"`
}

// Summarize ignores completed ids of lessons that no longer exist in course.
// A nil course yields only the stored percentage.
func Summarize(enr models.Enrollment, course *models.Course) Progress {
	p := Progress{StoredPercentage: enr.ProgressPercentage}
	if course == nil {
		return p
	}

	for _, l := range course.Lessons() {
		p.TotalLessons++
		if enr.HasCompleted(l.Key) {
			p.CompletedCount++
		} else if p.NextLessonKey == "" {
			p.NextLessonKey = l.Key
		}
	}
	if p.TotalLessons > 0 {
		p.ComputedPercentage = p.CompletedCount * 100 / p.TotalLessons
	}
	return p
}
