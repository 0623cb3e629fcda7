package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/s/learnhub/internal/models"
)

const DefaultCourseLimit = 50

// References are dereferenced in the projection so callers get embedded objects.
const courseProjection = `{
  "id": _id,
  title,
  "slug": slug.current,
  description,
  "imageUrl": image.asset->url,
  level,
  price,
  "instructor": instructor->{"id": _id, name, title, bio, "imageUrl": image.asset->url},
  "categories": categories[]->{"id": _id, title, "slug": slug.current},
  "modules": modules[]{
    "key": _key,
    title,
    "lessons": lessons[]{"key": _key, title, videoUrl, durationMinutes, isPreview}
  },
  "resources": resources[]{"key": _key, title, "fileUrl": file.asset->url, driveFileId},
  "createdAt": _createdAt
}`

const categoryProjection = `{"id": _id, title, "slug": slug.current}`

const examProjection = `{
  "id": _id,
  title,
  "courseId": course._ref,
  type,
  passingScore,
  maxAttempts,
  timeLimitMinutes,
  "questions": questions[]{
    "key": _key,
    text,
    "choices": choices[]{"key": _key, text, isCorrect},
    explanation
  }
}`

type CourseQuery struct {
	CategorySlug string
	Search       string
	Limit        int
}

func (q CourseQuery) limit() int {
	if q.Limit <= 0 || q.Limit > DefaultCourseLimit {
		return DefaultCourseLimit
	}
	return q.Limit
}

// Courses lists published courses, newest first.
func (c *Client) Courses(ctx context.Context, q CourseQuery) []models.Course {
	groq := fmt.Sprintf(`*[_type == "course"
  && ($category == "" || $category in categories[]->slug.current)
  && ($search == "" || title match $search)
] | order(_createdAt desc) [0...%d] %s`, q.limit(), courseProjection)

	search := strings.TrimSpace(q.Search)
	if search != "" {
		search += "*"
	}

	courses := make([]models.Course, 0)
	err := c.fetch(ctx, groq, map[string]interface{}{
		"category": strings.TrimSpace(q.CategorySlug),
		"search":   search,
	}, &courses)
	if err != nil {
		c.readFailed(err, "courses")
		return []models.Course{}
	}
	return courses
}

// CourseBySlug returns nil when the course is missing or the read fails.
func (c *Client) CourseBySlug(ctx context.Context, slug string) *models.Course {
	groq := `*[_type == "course" && slug.current == $slug][0]` + courseProjection
	return c.oneCourse(ctx, groq, map[string]interface{}{"slug": slug}, "course by slug")
}

func (c *Client) CourseByID(ctx context.Context, id string) *models.Course {
	groq := `*[_type == "course" && _id == $id][0]` + courseProjection
	return c.oneCourse(ctx, groq, map[string]interface{}{"id": id}, "course by id")
}

func (c *Client) oneCourse(ctx context.Context, groq string, params map[string]interface{}, name string) *models.Course {
	var course *models.Course
	if err := c.fetch(ctx, groq, params, &course); err != nil {
		c.readFailed(err, name)
		return nil
	}
	return course
}

func (c *Client) Categories(ctx context.Context) []models.Category {
	groq := `*[_type == "category"] | order(title asc) ` + categoryProjection
	cats := make([]models.Category, 0)
	if err := c.fetch(ctx, groq, nil, &cats); err != nil {
		c.readFailed(err, "categories")
		return []models.Category{}
	}
	return cats
}

func (c *Client) ExamsForCourse(ctx context.Context, courseID string) []models.Exam {
	groq := `*[_type == "exam" && course._ref == $courseId] | order(_createdAt asc) ` + examProjection
	exams := make([]models.Exam, 0)
	if err := c.fetch(ctx, groq, map[string]interface{}{"courseId": courseID}, &exams); err != nil {
		c.readFailed(err, "exams for course")
		return []models.Exam{}
	}
	return exams
}

func (c *Client) Exam(ctx context.Context, id string) *models.Exam {
	groq := `*[_type == "exam" && _id == $id][0]` + examProjection
	var exam *models.Exam
	if err := c.fetch(ctx, groq, map[string]interface{}{"id": id}, &exam); err != nil {
		c.readFailed(err, "exam")
		return nil
	}
	return exam
}

func (c *Client) CountCourses(ctx context.Context) int {
	var n int
	if err := c.fetch(ctx, `count(*[_type == "course"])`, nil, &n); err != nil {
		c.readFailed(err, "count courses")
		return 0
	}
	return n
}

type authoredChoice struct {
	Key       string `json:"_key"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type authoredQuestion struct {
	Key         string           `json:"_key"`
	Type        string           `json:"_type"`
	Text        string           `json:"text"`
	Choices     []authoredChoice `json:"choices"`
	Explanation string           `json:"explanation,omitempty"`
}

// UpdateExamQuestions replaces the exam's whole question list. There is no
// revision check; the last write wins.
func (c *Client) UpdateExamQuestions(ctx context.Context, examID string, questions []models.Question) error {
	authored := make([]authoredQuestion, 0, len(questions))
	for _, q := range questions {
		aq := authoredQuestion{
			Key:         q.Key,
			Type:        "question",
			Text:        q.Text,
			Choices:     make([]authoredChoice, 0, len(q.Choices)),
			Explanation: q.Explanation,
		}
		for _, ch := range q.Choices {
			aq.Choices = append(aq.Choices, authoredChoice{Key: ch.Key, Text: ch.Text, IsCorrect: ch.IsCorrect})
		}
		authored = append(authored, aq)
	}

	err := c.mutate(ctx, mutation{Patch: &patch{
		ID:  examID,
		Set: map[string]interface{}{"questions": authored},
	}})
	return errors.Wrapf(err, "update exam %s questions", examID)
}
