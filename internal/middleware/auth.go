// Package middleware gates routes on the signed-in session and the user's role.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/s/learnhub/internal/auth"
	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

// UserSource is satisfied by *account.Service.
type UserSource interface {
	Get(ctx context.Context, uid string) (models.User, error)
}

func jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// LoadSession puts a valid session into the request context. Requests without
// one pass through unchanged.
func LoadSession(sessions *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, ok := sessions.Load(r); ok {
				r = r.WithContext(auth.WithSession(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			jsonError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// RequiredRole lets the request through only when the stored role of the
// signed-in user is one of roles. The role in the cookie is not trusted.
func RequiredRole(users UserSource, log logrus.FieldLogger, roles ...models.Role) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s, ok := auth.FromContext(r.Context())
			if !ok {
				jsonError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			usr, err := users.Get(r.Context(), s.UID)
			if errors.Is(err, storage.ErrNotFound) {
				jsonError(w, "user not found", http.StatusUnauthorized)
				return
			}
			if err != nil {
				log.WithError(err).WithField("uid", s.UID).Error("load user for role check")
				jsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if !allowed(usr.Role, roles) {
				jsonError(w, "access denied", http.StatusForbidden)
				return
			}

			s.Role = usr.Role
			next(w, r.WithContext(auth.WithSession(r.Context(), s)))
		}
	}
}

func allowed(role models.Role, roles []models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
