package auth

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/s/learnhub/internal/account"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

func NewGoogleConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

type Google struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogle(config *oauth2.Config) *Google {
	return &Google{config: config, userInfoURL: userInfoURL}
}

func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

type idTokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

type userInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Exchange trades the authorization code for the user's identity. The id_token
// comes straight from Google's token endpoint over TLS, so its claims are read
// without verifying the signature.
func (g *Google) Exchange(ctx context.Context, code string) (account.Identity, error) {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return account.Identity{}, errors.Wrap(err, "token exchange")
	}

	if raw, ok := tok.Extra("id_token").(string); ok && raw != "" {
		var claims idTokenClaims
		if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err == nil && claims.Subject != "" {
			return account.Identity{
				UID:         claims.Subject,
				DisplayName: claims.Name,
				Email:       claims.Email,
				PhotoURL:    claims.Picture,
			}, nil
		}
	}

	var info userInfo
	resp, err := resty.NewWithClient(g.config.Client(ctx, tok)).R().
		SetContext(ctx).
		SetResult(&info).
		Get(g.userInfoURL)
	if err != nil {
		return account.Identity{}, errors.Wrap(err, "fetch userinfo")
	}
	if resp.IsError() {
		return account.Identity{}, errors.Errorf("fetch userinfo: %s", resp.Status())
	}
	if info.ID == "" {
		return account.Identity{}, account.ErrInvalidIdentity
	}
	return account.Identity{
		UID:         info.ID,
		DisplayName: info.Name,
		Email:       info.Email,
		PhotoURL:    info.Picture,
	}, nil
}
