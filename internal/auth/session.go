package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"

	"github.com/s/learnhub/internal/models"
)

const (
	SessionCookie = "session"
	// RoleCookie is readable by the front end for menu gating only. The server
	// always re-reads the role from the store.
	RoleCookie  = "user_role"
	stateCookie = "oauth_state"

	MaxAge      = 86400 * 7
	stateMaxAge = 10 * 60
)

// Session is the signed-in identity carried by the session cookie.
type Session struct {
	UID  string
	Role models.Role
}

type SessionManager struct {
	store  *sessions.CookieStore
	secure bool
}

func NewSessionManager(key []byte, secure bool) *SessionManager {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   MaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, secure: secure}
}

// Start writes both login cookies.
func (m *SessionManager) Start(w http.ResponseWriter, r *http.Request, s Session) error {
	// a stale or tampered cookie yields a fresh session, which is what we want here
	session, _ := m.store.Get(r, SessionCookie)
	session.Values["uid"] = s.UID
	session.Values["role"] = string(s.Role)
	session.Options.MaxAge = MaxAge
	if err := session.Save(r, w); err != nil {
		return errors.Wrap(err, "save session")
	}
	m.setRoleCookie(w, string(s.Role), MaxAge)
	return nil
}

func (m *SessionManager) setRoleCookie(w http.ResponseWriter, role string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     RoleCookie,
		Value:    role,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Load reads the session cookie. ok is false when there is no valid session.
func (m *SessionManager) Load(r *http.Request) (Session, bool) {
	session, err := m.store.Get(r, SessionCookie)
	if err != nil || session.IsNew {
		return Session{}, false
	}
	uid, _ := session.Values["uid"].(string)
	if uid == "" {
		return Session{}, false
	}
	role, _ := session.Values["role"].(string)
	return Session{UID: uid, Role: models.Role(role)}, true
}

// Clear expires both login cookies.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, SessionCookie)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	m.setRoleCookie(w, "", -1)
	return errors.Wrap(session.Save(r, w), "clear session")
}

// NewState stores a random OAuth state in a short-lived cookie and returns it.
func (m *SessionManager) NewState(w http.ResponseWriter, r *http.Request) (string, error) {
	state := uuid.NewString()
	session, _ := m.store.Get(r, stateCookie)
	session.Values["state"] = state
	session.Options.MaxAge = stateMaxAge
	if err := session.Save(r, w); err != nil {
		return "", errors.Wrap(err, "save oauth state")
	}
	return state, nil
}

// CheckState reports whether state matches the stored one. The stored state is
// consumed either way.
func (m *SessionManager) CheckState(w http.ResponseWriter, r *http.Request, state string) bool {
	session, err := m.store.Get(r, stateCookie)
	if err != nil {
		return false
	}
	want, _ := session.Values["state"].(string)
	session.Options.MaxAge = -1
	_ = session.Save(r, w)
	return want != "" && want == state
}
