// Package personal serves the signed-in user's own course list and favorites.
package personal

import (
	"net/http"

	"github.com/s/learnhub/internal/auth"
	"github.com/s/learnhub/internal/handlers"
	"github.com/s/learnhub/internal/storage"
)

type Service struct {
	*handlers.Handler
}

func uid(r *http.Request) string {
	s, _ := auth.FromContext(r.Context())
	return s.UID
}

// GET /api/my/courses?page=&limit=
func (s Service) MyCoursesAPI(w http.ResponseWriter, r *http.Request) {
	p, page := handlers.PageParams(r)
	f := storage.EnrollmentFilter{UserID: uid(r), Page: p}

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
