package handlers

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/s/learnhub/internal/account"
	"github.com/s/learnhub/internal/auth"
	"github.com/s/learnhub/internal/content"
	"github.com/s/learnhub/internal/enrollment"
	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/quiz"
)

// Catalog is the read side of the CMS plus the exam question write.
type Catalog interface {
	Courses(ctx context.Context, q content.CourseQuery) []models.Course
	CourseBySlug(ctx context.Context, slug string) *models.Course
	CourseByID(ctx context.Context, id string) *models.Course
	Categories(ctx context.Context) []models.Category
	ExamsForCourse(ctx context.Context, courseID string) []models.Exam
	Exam(ctx context.Context, id string) *models.Exam
	CountCourses(ctx context.Context) int
	UpdateExamQuestions(ctx context.Context, examID string, questions []models.Question) error
}

type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (account.Identity, error)
}

type Handler struct {
	Accounts    *account.Service
	Enrollments *enrollment.Service
	Quizzes     *quiz.Service
	Catalog     Catalog
	Sessions    *auth.SessionManager
	Identity    IdentityProvider
	// Files fetches documents for the PDF proxy.
	Files       *resty.Client
	Log         logrus.FieldLogger
	LandingPath string
	FileHostURL string
}

// currentUID is only meaningful behind middleware.RequireAuth.
func currentUID(r *http.Request) string {
	s, _ := auth.FromContext(r.Context())
	return s.UID
}

func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.LandingPath, http.StatusPermanentRedirect)
}

func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.Sessions.NewState(w, r)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	http.Redirect(w, r, h.Identity.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback signs the user in. Any failure after the state check
// clears both login cookies.
func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.CheckState(w, r, r.URL.Query().Get("state")) {
		Error(w, http.StatusUnauthorized, "invalid oauth state")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		Error(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	id, err := h.Identity.Exchange(r.Context(), code)
	if err != nil {
		h.Log.WithError(err).Warn("google token exchange failed")
		_ = h.Sessions.Clear(w, r)
		Error(w, http.StatusBadRequest, "token exchange failed")
		return
	}

	usr, err := h.Accounts.SyncOnLogin(r.Context(), id)
	if err != nil {
		h.Log.WithError(err).WithField("uid", id.UID).Error("sync user on login")
		_ = h.Sessions.Clear(w, r)
		Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	if err := h.Sessions.Start(w, r, auth.Session{UID: usr.UID, Role: usr.Role}); err != nil {
		h.HandleError(w, r, err)
		return
	}
	http.Redirect(w, r, h.LandingPath, http.StatusSeeOther)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Clear(w, r); err != nil {
		h.Log.WithError(err).Warn("clear session")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	usr, err := h.Accounts.Get(r.Context(), currentUID(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, usr)
}
