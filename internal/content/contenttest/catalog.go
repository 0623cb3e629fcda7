// Package contenttest provides an in-memory catalog for handler tests.
package contenttest

import (
	"context"
	"strings"
	"sync"

	"github.com/s/learnhub/internal/content"
	"github.com/s/learnhub/internal/models"
)

// Catalog serves fixed courses and exams. Exam question updates are applied in
// place so tests can read them back.
type Catalog struct {
	mu         sync.Mutex
	courses    []models.Course
	categories []models.Category
	exams      map[string]models.Exam

	// UpdateErr, when set, fails UpdateExamQuestions.
	UpdateErr error
}

func NewCatalog(courses []models.Course, exams ...models.Exam) *Catalog {
	c := &Catalog{courses: courses, exams: make(map[string]models.Exam)}
	seen := map[string]bool{}
	for _, course := range courses {
		for _, cat := range course.Categories {
			if !seen[cat.ID] {
				seen[cat.ID] = true
				c.categories = append(c.categories, cat)
			}
		}
	}
	for _, e := range exams {
		c.exams[e.ID] = e
	}
	return c
}

func (c *Catalog) Courses(_ context.Context, q content.CourseQuery) []models.Course {
	search := strings.ToLower(q.Search)
	out := make([]models.Course, 0)
	for _, course := range c.courses {
		if q.CategorySlug != "" && !inCategory(course, q.CategorySlug) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(course.Title), search) {
			continue
		}
		out = append(out, course)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func inCategory(course models.Course, slug string) bool {
	for _, cat := range course.Categories {
		if cat.Slug == slug {
			return true
		}
	}
	return false
}

func (c *Catalog) CourseBySlug(_ context.Context, slug string) *models.Course {
	for i := range c.courses {
		if c.courses[i].Slug == slug {
			course := c.courses[i]
			return &course
		}
	}
	return nil
}

func (c *Catalog) CourseByID(_ context.Context, id string) *models.Course {
	for i := range c.courses {
		if c.courses[i].ID == id {
			course := c.courses[i]
			return &course
		}
	}
	return nil
}

func (c *Catalog) Categories(context.Context) []models.Category {
	return append([]models.Category{}, c.categories...)
}

func (c *Catalog) ExamsForCourse(_ context.Context, courseID string) []models.Exam {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Exam, 0)
	for _, e := range c.exams {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) Exam(_ context.Context, id string) *models.Exam {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.exams[id]
	if !ok {
		return nil
	}
	return &e
}

func (c *Catalog) CountCourses(context.Context) int { return len(c.courses) }

func (c *Catalog) UpdateExamQuestions(_ context.Context, examID string, questions []models.Question) error {
	if c.UpdateErr != nil {
		return c.UpdateErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.exams[examID]
	if !ok {
		return content.ErrNotFound
	}
	e.Questions = questions
	c.exams[examID] = e
	return nil
}
