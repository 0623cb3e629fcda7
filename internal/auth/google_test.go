package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/s/learnhub/internal/account"
)

func fakeGoogle(t *testing.T, idToken string) (*Google, *httptest.Server) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		body := map[string]interface{}{
			"access_token": "access-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		}
		if idToken != "" {
			body["id_token"] = idToken
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "g-42", "email": "ada@example.com", "name": "Ada", "picture": "https://img/ada"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := NewGoogleConfig("client", "secret", "http://localhost/auth/google/callback")
	cfg.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	g := NewGoogle(cfg)
	g.userInfoURL = srv.URL + "/userinfo"
	return g, srv
}

func TestGoogle_ExchangeIDToken(t *testing.T) {
	claims := idTokenClaims{
		Email:            "ada@example.com",
		Name:             "Ada",
		Picture:          "https://img/ada",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "g-1"},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unused"))
	require.NoError(t, err)

	g, _ := fakeGoogle(t, raw)
	id, err := g.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, account.Identity{UID: "g-1", DisplayName: "Ada", Email: "ada@example.com", PhotoURL: "https://img/ada"}, id)
}

func TestGoogle_ExchangeFallsBackToUserInfo(t *testing.T) {
	g, _ := fakeGoogle(t, "")
	id, err := g.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "g-42", id.UID)
	assert.Equal(t, "Ada", id.DisplayName)
}

func TestGoogle_AuthCodeURL(t *testing.T) {
	g, srv := fakeGoogle(t, "")
	u := g.AuthCodeURL("state-1")
	assert.Contains(t, u, srv.URL+"/auth?")
	assert.Contains(t, u, "state=state-1")
	assert.Contains(t, u, "scope=openid+email+profile")
}
