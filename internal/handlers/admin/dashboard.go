// Package admin serves the back-office API: dashboard counts, user roles,
// enrollment and attempt reports, and exam question editing.
package admin

import (
	"net/http"

	"github.com/s/learnhub/internal/handlers"
	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

type Service struct {
	*handlers.Handler
}

type dashboard struct {
	Users       int64 `json:"users"`
	Students    int64 `json:"students"`
	Enrollments int64 `json:"enrollments"`
	Attempts    int64 `json:"attempts"`
	Courses     int   `json:"courses"`
}

// GET /api/admin/dashboard
func (s Service) DashboardAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		d   dashboard
		err error
	)

	if d.Users, err = s.Accounts.Count(ctx, storage.UserFilter{}); err != nil {
		s.HandleError(w, r, err)
		return
	}
	if d.Students, err = s.Accounts.Count(ctx, storage.UserFilter{Role: models.RoleStudent}); err != nil {
		s.HandleError(w, r, err)
		return
	}
	if d.Enrollments, err = s.Enrollments.Count(ctx, storage.EnrollmentFilter{}); err != nil {
		s.HandleError(w, r, err)
		return
	}
	if d.Attempts, err = s.Quizzes.Count(ctx, storage.AttemptFilter{}); err != nil {
		s.HandleError(w, r, err)
		return
	}
	d.Courses = s.Catalog.CountCourses(ctx)

	handlers.JSON(w, http.StatusOK, d)
}
