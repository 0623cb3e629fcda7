package admin

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/s/learnhub/internal/handlers"
	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

// GET /api/admin/users?role=&search=&page=&limit=
func (s Service) UsersAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, page := handlers.PageParams(r)
	f := storage.UserFilter{
		Role:   models.Role(q.Get("role")),
		Search: q.Get("search"),
		Page:   p,
	}

	total, err := s.Accounts.Count(r.Context(), f)
	if err != nil {
		s.HandleError(w, r, err)
		return
	}
	users, err := s.Accounts.List(r.Context(), f)
	if err != nil {
		s.HandleError(w, r, err)
		return
	}
	handlers.JSON(w, http.StatusOK, handlers.NewPaged(users, total, p, page))
}

type roleRequest struct {
	Role models.Role `json:"role" validate:"role"`
}

// PUT /api/admin/users/{uid}/role
// The user's role cookie catches up on their next sign-in; access checks read the store.
func (s Service) SetRoleAPI(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := handlers.Decode(r, &req); err != nil {
		s.HandleError(w, r, err)
		return
	}
	uid := mux.Vars(r)["uid"]
	if err := s.Accounts.SetRole(r.Context(), uid, req.Role); err != nil {
		s.HandleError(w, r, err)
		return
	}
	handlers.JSON(w, http.StatusOK, map[string]string{"uid": uid, "role": string(req.Role)})
}
