package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s/learnhub/internal/models"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestSessionManager_StartLoad(t *testing.T) {
	m := NewSessionManager(testKey, false)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(rec, httptest.NewRequest(http.MethodGet, "/", nil), Session{UID: "u-1", Role: models.RoleAdmin}))

	cookies := rec.Result().Cookies()
	sess := cookieByName(cookies, SessionCookie)
	require.NotNil(t, sess)
	assert.True(t, sess.HttpOnly)
	assert.Equal(t, MaxAge, sess.MaxAge)

	role := cookieByName(cookies, RoleCookie)
	require.NotNil(t, role)
	assert.Equal(t, "admin", role.Value)
	assert.False(t, role.HttpOnly)
	assert.Equal(t, 7*24*60*60, role.MaxAge)

	got, ok := m.Load(requestWith(cookies))
	require.True(t, ok)
	assert.Equal(t, Session{UID: "u-1", Role: models.RoleAdmin}, got)
}

func TestSessionManager_LoadRejectsForeignCookie(t *testing.T) {
	other := NewSessionManager([]byte("another-key-another-key-another-"), false)
	rec := httptest.NewRecorder()
	require.NoError(t, other.Start(rec, httptest.NewRequest(http.MethodGet, "/", nil), Session{UID: "u-1"}))

	m := NewSessionManager(testKey, false)
	_, ok := m.Load(requestWith(rec.Result().Cookies()))
	assert.False(t, ok)

	_, ok = m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestSessionManager_Clear(t *testing.T) {
	m := NewSessionManager(testKey, false)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(rec, httptest.NewRequest(http.MethodGet, "/", nil), Session{UID: "u-1"}))

	clearRec := httptest.NewRecorder()
	require.NoError(t, m.Clear(clearRec, requestWith(rec.Result().Cookies())))

	cookies := clearRec.Result().Cookies()
	for _, name := range []string{SessionCookie, RoleCookie} {
		c := cookieByName(cookies, name)
		require.NotNil(t, c, name)
		assert.True(t, c.MaxAge < 0, name)
	}
}

func TestSessionManager_State(t *testing.T) {
	m := NewSessionManager(testKey, false)

	rec := httptest.NewRecorder()
	state, err := m.NewState(rec, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))
	require.NoError(t, err)
	require.NotEmpty(t, state)
	cookies := rec.Result().Cookies()

	assert.True(t, m.CheckState(httptest.NewRecorder(), requestWith(cookies), state))
	assert.False(t, m.CheckState(httptest.NewRecorder(), requestWith(cookies), "forged"))
	assert.False(t, m.CheckState(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), state))
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{UID: "u-1"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-1", s.UID)
}
