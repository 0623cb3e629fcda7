package content

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s/learnhub/internal/models"
)

const courseJSON = `{
  "id": "course-1",
  "title": "Go for Beginners",
  "slug": "go-basics",
  "price": 0,
  "instructor": {"id": "ins-1", "name": "Rob"},
  "categories": [{"id": "cat-1", "title": "Programming", "slug": "programming"}],
  "modules": [
    {"key": "m1", "title": "Intro", "lessons": [
      {"key": "L1", "title": "Hello", "durationMinutes": 30},
      {"key": "L2", "title": "Types", "durationMinutes": 35}
    ]}
  ],
  "createdAt": "2024-01-05T10:00:00Z"
}`

type fakeCMS struct {
	t        *testing.T
	queries  []*http.Request
	mutation []byte
	status   int
	body     string
}

func (f *fakeCMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/v2024-01-01/data/query/production":
		f.queries = append(f.queries, r)
	case r.URL.Path == "/v2024-01-01/data/mutate/production" && r.Method == http.MethodPost:
		assert.Equal(f.t, "Bearer write-token", r.Header.Get("Authorization"))
		f.mutation, _ = io.ReadAll(r.Body)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	_, _ = io.WriteString(w, f.body)
}

func newTestClient(t *testing.T, cms *fakeCMS, token string) *Client {
	cms.t = t
	srv := httptest.NewServer(cms)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.Out = io.Discard
	return NewClient(Options{
		BaseURL:    srv.URL,
		Dataset:    "production",
		APIVersion: "2024-01-01",
		Token:      token,
	}, log)
}

func TestCourseBySlug(t *testing.T) {
	cms := &fakeCMS{body: `{"result": ` + courseJSON + `}`}
	c := newTestClient(t, cms, "")

	course := c.CourseBySlug(context.Background(), "go-basics")
	require.NotNil(t, course)
	assert.Equal(t, "course-1", course.ID)
	assert.Equal(t, "Rob", course.Instructor.Name)
	assert.Equal(t, 2, course.LessonCount())
	assert.Equal(t, 65, course.TotalMinutes())
	assert.Equal(t, "programming", course.Categories[0].Slug)

	require.Len(t, cms.queries, 1)
	q := cms.queries[0].URL.Query()
	assert.Equal(t, `"go-basics"`, q.Get("$slug"))
	assert.Contains(t, q.Get("query"), "slug.current == $slug")
}

func TestCourseBySlug_NullResult(t *testing.T) {
	c := newTestClient(t, &fakeCMS{body: `{"result": null}`}, "")
	assert.Nil(t, c.CourseBySlug(context.Background(), "missing"))
}

func TestReads_FailuresBecomeEmpty(t *testing.T) {
	cms := &fakeCMS{status: http.StatusInternalServerError, body: `{"error": {"description": "boom"}}`}
	c := newTestClient(t, cms, "")
	ctx := context.Background()

	assert.Nil(t, c.CourseBySlug(ctx, "go-basics"))
	assert.Nil(t, c.CourseByID(ctx, "course-1"))
	assert.Nil(t, c.Exam(ctx, "exam-1"))
	assert.Equal(t, []models.Course{}, c.Courses(ctx, CourseQuery{}))
	assert.Equal(t, []models.Category{}, c.Categories(ctx))
	assert.Equal(t, []models.Exam{}, c.ExamsForCourse(ctx, "course-1"))
	assert.Equal(t, 0, c.CountCourses(ctx))
}

func TestReads_MalformedBody(t *testing.T) {
	c := newTestClient(t, &fakeCMS{body: `{"result": [`}, "")
	assert.Equal(t, []models.Course{}, c.Courses(context.Background(), CourseQuery{}))
}

func TestCourses_Params(t *testing.T) {
	cms := &fakeCMS{body: `{"result": [` + courseJSON + `]}`}
	c := newTestClient(t, cms, "")

	courses := c.Courses(context.Background(), CourseQuery{CategorySlug: "programming", Search: "go", Limit: 500})
	require.Len(t, courses, 1)

	q := cms.queries[0].URL.Query()
	assert.Equal(t, `"programming"`, q.Get("$category"))
	assert.Equal(t, `"go*"`, q.Get("$search"))
	assert.Contains(t, q.Get("query"), "[0...50]")
}

func TestCountCourses(t *testing.T) {
	c := newTestClient(t, &fakeCMS{body: `{"result": 12}`}, "")
	assert.Equal(t, 12, c.CountCourses(context.Background()))
}

func TestUpdateExamQuestions(t *testing.T) {
	cms := &fakeCMS{body: `{"transactionId": "tx-1"}`}
	c := newTestClient(t, cms, "write-token")

	err := c.UpdateExamQuestions(context.Background(), "exam-1", []models.Question{{
		Key:  "q1",
		Text: "2 + 2?",
		Choices: []models.Choice{
			{Key: "a", Text: "3"},
			{Key: "b", Text: "4", IsCorrect: true},
		},
	}})
	require.NoError(t, err)

	var body struct {
		Mutations []struct {
			Patch struct {
				ID  string `json:"id"`
				Set struct {
					Questions []map[string]interface{} `json:"questions"`
				} `json:"set"`
			} `json:"patch"`
		} `json:"mutations"`
	}
	require.NoError(t, json.Unmarshal(cms.mutation, &body))
	require.Len(t, body.Mutations, 1)
	assert.Equal(t, "exam-1", body.Mutations[0].Patch.ID)
	require.Len(t, body.Mutations[0].Patch.Set.Questions, 1)
	q := body.Mutations[0].Patch.Set.Questions[0]
	assert.Equal(t, "q1", q["_key"])
	assert.Equal(t, "2 + 2?", q["text"])
	assert.Len(t, q["choices"], 2)
}

func TestUpdateExamQuestions_Errors(t *testing.T) {
	c := newTestClient(t, &fakeCMS{}, "")
	err := c.UpdateExamQuestions(context.Background(), "exam-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")

	cms := &fakeCMS{status: http.StatusConflict, body: `{"error": {"description": "document is locked"}}`}
	c = newTestClient(t, cms, "write-token")
	err = c.UpdateExamQuestions(context.Background(), "exam-1", nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "document is locked"), err.Error())
}
