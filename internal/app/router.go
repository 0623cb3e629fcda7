package app

import (
	"net/http"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/s/learnhub/internal/handlers"
	"github.com/s/learnhub/internal/handlers/admin"
	"github.com/s/learnhub/internal/handlers/personal"
	"github.com/s/learnhub/internal/middleware"
	"github.com/s/learnhub/internal/models"
)

// NewRouter registers every route on h and wraps the result in session
// loading, CORS, access logging and panic recovery.
func NewRouter(h *handlers.Handler, corsOrigins []string, log *logrus.Logger) http.Handler {
	adminService := admin.Service{Handler: h}
	personalService := personal.Service{Handler: h}

	authed := middleware.RequireAuth
	adminOnly := middleware.RequiredRole(h.Accounts, log, models.RoleAdmin)
	editors := middleware.RequiredRole(h.Accounts, log, models.RoleAdmin, models.RoleInstructor)

	r := mux.NewRouter()

	// public
	r.HandleFunc("/", h.HandleRoot).Methods(http.MethodGet)
	r.HandleFunc("/auth/google/login", h.HandleGoogleLogin).Methods(http.MethodGet)
	r.HandleFunc("/auth/google/callback", h.HandleGoogleCallback).Methods(http.MethodGet)
	r.HandleFunc("/auth/logout", h.HandleLogout).Methods(http.MethodGet, http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/courses", h.ListCoursesAPI).Methods(http.MethodGet)
	api.HandleFunc("/courses/{slug}", h.GetCourseAPI).Methods(http.MethodGet)
	api.HandleFunc("/courses/{slug}/exams", h.CourseExamsAPI).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.CategoriesAPI).Methods(http.MethodGet)
	api.HandleFunc("/exams/{id}", h.GetExamAPI).Methods(http.MethodGet)
	api.HandleFunc("/pdf", h.ProxyPDF).Methods(http.MethodGet)

	// signed in
	api.HandleFunc("/me", authed(h.HandleMe)).Methods(http.MethodGet)
	api.HandleFunc("/enrollments", authed(h.EnrollAPI)).Methods(http.MethodPost)
	api.HandleFunc("/enrollments/{courseId}", authed(h.CheckEnrollmentAPI)).Methods(http.MethodGet)
	api.HandleFunc("/classroom/{slug}", authed(h.ClassroomAPI)).Methods(http.MethodGet)
	api.HandleFunc("/progress/{courseId}/lessons/{lessonId}", authed(h.CompleteLessonAPI)).Methods(http.MethodPost)
	api.HandleFunc("/attempts", authed(h.SaveAttemptAPI)).Methods(http.MethodPost)
	api.HandleFunc("/attempts", authed(h.ListAttemptsAPI)).Methods(http.MethodGet)

	api.HandleFunc("/my/courses", authed(personalService.MyCoursesAPI)).Methods(http.MethodGet)
	api.HandleFunc("/my/favorites", authed(personalService.FavoritesAPI)).Methods(http.MethodGet)
	api.HandleFunc("/my/favorites/{courseId}", authed(personalService.AddFavoriteAPI)).Methods(http.MethodPut)
	api.HandleFunc("/my/favorites/{courseId}", authed(personalService.RemoveFavoriteAPI)).Methods(http.MethodDelete)

	// back office
	api.HandleFunc("/admin/dashboard", adminOnly(adminService.DashboardAPI)).Methods(http.MethodGet)
	api.HandleFunc("/admin/users", adminOnly(adminService.UsersAPI)).Methods(http.MethodGet)
	api.HandleFunc("/admin/users/{uid}/role", adminOnly(adminService.SetRoleAPI)).Methods(http.MethodPut)
	api.HandleFunc("/admin/enrollments", adminOnly(adminService.EnrollmentsAPI)).Methods(http.MethodGet)
	api.HandleFunc("/admin/attempts", adminOnly(adminService.AttemptsAPI)).Methods(http.MethodGet)
	api.HandleFunc("/admin/exams/{id}/questions", editors(adminService.UpdateExamQuestionsAPI)).Methods(http.MethodPut)

	var handler http.Handler = r
	handler = middleware.LoadSession(h.Sessions)(handler)
	handler = ghandlers.CORS(
		ghandlers.AllowedOrigins(corsOrigins),
		ghandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		ghandlers.AllowedHeaders([]string{"Content-Type"}),
		ghandlers.AllowCredentials(),
	)(handler)
	handler = ghandlers.CombinedLoggingHandler(log.WriterLevel(logrus.InfoLevel), handler)
	handler = ghandlers.RecoveryHandler(ghandlers.RecoveryLogger(log), ghandlers.PrintRecoveryStack(true))(handler)
	return handler
}
