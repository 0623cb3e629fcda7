package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/s/learnhub/internal/auth"
	"github.com/s/learnhub/internal/content"
	"github.com/s/learnhub/internal/models"
)

// CourseView adds the derived totals the catalog pages display.
type CourseView struct {
	*models.Course
	LessonCount  int    `json:"lessonCount"`
	TotalMinutes int    `json:"totalMinutes"`
	DurationText string `json:"durationText"`
}

func NewCourseView(c *models.Course) CourseView {
	minutes := c.TotalMinutes()
	return CourseView{
		Course:       c,
		LessonCount:  c.LessonCount(),
		TotalMinutes: minutes,
		DurationText: content.FormatDuration(minutes),
	}
}

func CourseViews(courses []models.Course) []CourseView {
	views := make([]CourseView, 0, len(courses))
	for i := range courses {
		views = append(views, NewCourseView(&courses[i]))
	}
	return views
}

// GET /api/courses?category=&q=&limit=
func (h *Handler) ListCoursesAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	courses := h.Catalog.Courses(r.Context(), content.CourseQuery{
		CategorySlug: q.Get("category"),
		Search:       q.Get("q"),
		Limit:        limit,
	})
	JSON(w, http.StatusOK, CourseViews(courses))
}

// courseFromSlug answers 404 itself and returns nil when the slug is bad or unknown.
func (h *Handler) courseFromSlug(w http.ResponseWriter, r *http.Request) *models.Course {
	slug, err := content.ValidateSlug(mux.Vars(r)["slug"])
	if err != nil {
		h.HandleError(w, r, err)
		return nil
	}
	course := h.Catalog.CourseBySlug(r.Context(), slug)
	if course == nil {
		h.HandleError(w, r, content.ErrNotFound)
		return nil
	}
	return course
}

type courseDetail struct {
	Course          CourseView         `json:"course"`
	IsAuthenticated bool               `json:"isAuthenticated"`
	Enrollment      *models.Enrollment `json:"enrollment"`
}

// GET /api/courses/{slug}
// Signed-in visitors also get their enrollment, so the page can offer "resume".
func (h *Handler) GetCourseAPI(w http.ResponseWriter, r *http.Request) {
	course := h.courseFromSlug(w, r)
	if course == nil {
		return
	}

	resp := courseDetail{Course: NewCourseView(course)}
	if s, ok := auth.FromContext(r.Context()); ok {
		resp.IsAuthenticated = true
		enr, err := h.Enrollments.Check(r.Context(), s.UID, course.ID)
		if err != nil {
			h.HandleError(w, r, err)
			return
		}
		resp.Enrollment = enr
	}
	JSON(w, http.StatusOK, resp)
}

// GET /api/courses/{slug}/exams
func (h *Handler) CourseExamsAPI(w http.ResponseWriter, r *http.Request) {
	course := h.courseFromSlug(w, r)
	if course == nil {
		return
	}
	JSON(w, http.StatusOK, h.Catalog.ExamsForCourse(r.Context(), course.ID))
}

func (h *Handler) CategoriesAPI(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.Catalog.Categories(r.Context()))
}

// GET /api/exams/{id}
func (h *Handler) GetExamAPI(w http.ResponseWriter, r *http.Request) {
	exam := h.Catalog.Exam(r.Context(), mux.Vars(r)["id"])
	if exam == nil {
		h.HandleError(w, r, content.ErrNotFound)
		return
	}
	JSON(w, http.StatusOK, exam)
}
