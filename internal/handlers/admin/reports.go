package admin

import (
	"net/http"

	"github.com/s/learnhub/internal/handlers"
	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

// GET /api/admin/enrollments?courseId=&userId=&page=&limit=
func (s Service) EnrollmentsAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, page := handlers.PageParams(r)
	f := storage.EnrollmentFilter{
		UserID:   q.Get("userId"),
		CourseID: q.Get("courseId"),
		Page:     p,
	}

	total, err := s.Enrollments.Count(r.Context(), f)
	if err != nil {
		s.HandleError(w, r, err)
		return
	}
	enrs, err := s.Enrollments.List(r.Context(), f)
	if err != nil {
		s.HandleError(w, r, err)
		return
	}
	handlers.JSON(w, http.StatusOK, handlers.NewPaged(enrs, total, p, page))
}

// GET /api/admin/attempts?examId=&courseId=&userId=&type=&page=&limit=
func (s Service) AttemptsAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, page := handlers.PageParams(r)
	f := storage.AttemptFilter{
		UserID:   q.Get("userId"),
		CourseID: q.Get("courseId"),
		ExamID:   q.Get("examId"),
		Type:     models.AttemptType(q.Get("type")),
		Page:     p,
	}

	total, err := s.Quizzes.Count(r.Context(), f)
	if err != nil {
		s.HandleError(w, r, err)
		return
	}
	atts, err := s.Quizzes.ListAttempts(r.Context(), f)
	if err != nil {
		s.HandleError(w, r, err)
		return
	}
	handlers.JSON(w, http.StatusOK, handlers.NewPaged(atts, total, p, page))
}
