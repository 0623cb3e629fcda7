package app

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/s/learnhub/internal/account"
	"github.com/s/learnhub/internal/auth"
	"github.com/s/learnhub/internal/config"
	"github.com/s/learnhub/internal/content"
	"github.com/s/learnhub/internal/enrollment"
	"github.com/s/learnhub/internal/handlers"
	"github.com/s/learnhub/internal/quiz"
	"github.com/s/learnhub/internal/storage"
)

const fileTimeout = 30 * time.Second

// NewHandler builds the services over store and hands them to the HTTP layer.
func NewHandler(cfg *config.Config, store storage.Store, catalog handlers.Catalog, identity handlers.IdentityProvider, log *logrus.Logger) *handlers.Handler {
	files := resty.New().
		SetTimeout(fileTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("Accept", "application/pdf")

	return &handlers.Handler{
		Accounts:    account.NewService(store.Users()),
		Enrollments: enrollment.NewService(store.Enrollments()),
		Quizzes:     quiz.NewService(store.Attempts()),
		Catalog:     catalog,
		Sessions:    auth.NewSessionManager([]byte(cfg.Session.Key), cfg.Session.Secure),
		Identity:    identity,
		Files:       files,
		Log:         log,
		LandingPath: cfg.LandingPath,
		FileHostURL: cfg.FileHostURL,
	}
}

var (
	_ handlers.Catalog          = (*content.Client)(nil)
	_ handlers.IdentityProvider = (*auth.Google)(nil)
)
