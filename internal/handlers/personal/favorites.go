package personal

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/s/learnhub/internal/handlers"
	"github.com/s/learnhub/internal/models"
)

type favorites struct {
	IDs     []string              `json:"ids"`
	Courses []handlers.CourseView `json:"courses"`
}

// GET /api/my/favorites
// Courses that no longer resolve in the catalog are left out of "courses" but stay in "ids".
func (s Service) FavoritesAPI(w http.ResponseWriter, r *http.Request) {
	usr, err := s.Accounts.Get(r.Context(), uid(r))
	if err != nil {
		s.HandleError(w, r, err)
		return
	}

	courses := make([]models.Course, 0, len(usr.Favorites))
	for _, id := range usr.Favorites {
		if c := s.Catalog.CourseByID(r.Context(), id); c != nil {
			courses = append(courses, *c)
		}
	}
	ids := usr.Favorites
	if ids == nil {
		ids = []string{}
	}
	handlers.JSON(w, http.StatusOK, favorites{IDs: ids, Courses: handlers.CourseViews(courses)})
}

// PUT /api/my/favorites/{courseId}
func (s Service) AddFavoriteAPI(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseId"]
	if s.Catalog.CourseByID(r.Context(), courseID) == nil {
		handlers.Error(w, http.StatusNotFound, "course not found")
		return
	}
	if err := s.Accounts.AddFavorite(r.Context(), uid(r), courseID); err != nil {
		s.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/my/favorites/{courseId}
func (s Service) RemoveFavoriteAPI(w http.ResponseWriter, r *http.Request) {
	if err := s.Accounts.RemoveFavorite(r.Context(), uid(r), mux.Vars(r)["courseId"]); err != nil {
		s.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
