package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s/learnhub/internal/account"
	"github.com/s/learnhub/internal/auth"
	"github.com/s/learnhub/internal/config"
	"github.com/s/learnhub/internal/content/contenttest"
	"github.com/s/learnhub/internal/enrollment"
	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage/memstore"
)

type nopIdentity struct{}

func (nopIdentity) AuthCodeURL(state string) string { return "https://accounts.example/auth?state=" + state }
func (nopIdentity) Exchange(context.Context, string) (account.Identity, error) {
	return account.Identity{}, nil
}

type testServer struct {
	router  http.Handler
	store   *memstore.Store
	catalog *contenttest.Catalog
	cookies map[string][]*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	cfg := &config.Config{LandingPath: "/home", FileHostURL: "http://files.invalid/%s"}
	cfg.Session.Key = "0123456789abcdef0123456789abcdef"

	store := memstore.New()
	catalog := contenttest.NewCatalog(
		[]models.Course{{ID: "c-go", Title: "Go Basics", Slug: "go-basics"}},
		models.Exam{ID: "e-1", CourseID: "c-go", Title: "Final"},
	)
	log, _ := test.NewNullLogger()
	h := NewHandler(cfg, store, catalog, nopIdentity{}, log)

	srv := &testServer{
		router:  NewRouter(h, []string{"https://app.example"}, log),
		store:   store,
		catalog: catalog,
		cookies: map[string][]*http.Cookie{},
	}

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, u := range []models.User{
		{UID: "admin", DisplayName: "Boss", Email: "boss@uni.ac.th", Role: models.RoleAdmin},
		{UID: "stu", DisplayName: "Somchai", Email: "somchai@uni.ac.th", Role: models.RoleStudent},
	} {
		u.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		_, err := store.Users().CreateUser(context.Background(), u)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		require.NoError(t, h.Sessions.Start(rec, httptest.NewRequest(http.MethodGet, "/", nil), auth.Session{UID: u.UID, Role: u.Role}))
		srv.cookies[u.UID] = rec.Result().Cookies()
	}
	return srv
}

func (s *testServer) do(method, path, as, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, c := range s.cookies[as] {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestRouter_Access(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method, path, as string
		want             int
	}{
		{http.MethodGet, "/", "", http.StatusPermanentRedirect},
		{http.MethodGet, "/api/courses", "", http.StatusOK},
		{http.MethodGet, "/api/me", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/me", "stu", http.StatusOK},
		{http.MethodGet, "/api/my/courses", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/dashboard", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/dashboard", "stu", http.StatusForbidden},
		{http.MethodGet, "/api/admin/dashboard", "admin", http.StatusOK},
		{http.MethodPut, "/api/admin/exams/e-1/questions", "stu", http.StatusForbidden},
		{http.MethodDelete, "/api/courses", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" as "+tt.as, func(t *testing.T) {
			assert.Equal(t, tt.want, s.do(tt.method, tt.path, tt.as, "").Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/enrollments", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_Admin(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	enrollments := enrollment.NewService(s.store.Enrollments())
	_, err := enrollments.Enroll(ctx, "stu", enrollment.CourseRef{ID: "c-go", Title: "Go Basics", Slug: "go-basics"})
	require.NoError(t, err)

	rec := s.do(http.MethodGet, "/api/admin/dashboard", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users": 2, "students": 1, "enrollments": 1, "attempts": 0, "courses": 1}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/admin/users?role=student", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var users struct {
		Data  []models.User `json:"data"`
		Total int64         `json:"total"`
		Page  int           `json:"page"`
		Pages int           `json:"pages"`
	}
	decode(t, rec, &users)
	require.Len(t, users.Data, 1)
	assert.Equal(t, "stu", users.Data[0].UID)
	assert.EqualValues(t, 1, users.Total)
	assert.Equal(t, 1, users.Pages)

	rec = s.do(http.MethodGet, "/api/admin/enrollments?courseId=c-go", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stu_c-go"`)

	rec = s.do(http.MethodPut, "/api/admin/users/stu/role", "admin", `{"role": "owner"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role"`)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/admin/users/ghost/role", "admin", `{"role": "admin"}`).Code)

	rec = s.do(http.MethodPut, "/api/admin/users/stu/role", "admin", `{"role": "instructor"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// the student's cookie still says "student"; the stored role wins
	questions := `{"questions": [{"key": "q1", "text": "2+2?", "choices": [
		{"key": "a", "text": "4", "isCorrect": true}, {"key": "b", "text": "5"}]}]}`
	rec = s.do(http.MethodPut, "/api/admin/exams/e-1/questions", "stu", questions)
	require.Equal(t, http.StatusOK, rec.Code)

	exam := s.catalog.Exam(ctx, "e-1")
	require.NotNil(t, exam)
	require.Len(t, exam.Questions, 1)
	assert.Equal(t, "2+2?", exam.Questions[0].Text)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/admin/exams/e-404/questions", "admin", questions).Code)

	rec = s.do(http.MethodPut, "/api/admin/exams/e-1/questions", "admin", `{"questions": [{"key": "q1", "text": "x", "choices": [{"key": "a", "text": "only"}]}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "questions[0].choices")
}

func TestRouter_Personal(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/my/favorites/c-unknown", "stu", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPut, "/api/my/favorites/c-go", "stu", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPut, "/api/my/favorites/c-go", "stu", "").Code)

	rec := s.do(http.MethodGet, "/api/my/favorites", "stu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var favs struct {
		IDs     []string `json:"ids"`
		Courses []struct {
			ID           string `json:"id"`
			DurationText string `json:"durationText"`
		} `json:"courses"`
	}
	decode(t, rec, &favs)
	assert.Equal(t, []string{"c-go"}, favs.IDs)
	require.Len(t, favs.Courses, 1)
	assert.Equal(t, "0 นาที", favs.Courses[0].DurationText)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/my/favorites/c-go", "stu", "").Code)
	rec = s.do(http.MethodGet, "/api/my/favorites", "stu", "")
	assert.JSONEq(t, `{"ids": [], "courses": []}`, rec.Body.String())

	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/enrollments", "stu", `{"courseSlug": "go-basics"}`).Code)
	rec = s.do(http.MethodGet, "/api/my/courses?limit=10", "stu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mine struct {
		Data  []models.Enrollment `json:"data"`
		Total int64               `json:"total"`
	}
	decode(t, rec, &mine)
	require.Len(t, mine.Data, 1)
	assert.Equal(t, "go-basics", mine.Data[0].CourseSlug)

	rec = s.do(http.MethodGet, "/api/my/courses", "admin", "")
	assert.Contains(t, rec.Body.String(), `"total":0`)
}
