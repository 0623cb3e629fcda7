package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/s/learnhub/internal/app"
	"github.com/s/learnhub/internal/auth"
	"github.com/s/learnhub/internal/config"
	"github.com/s/learnhub/internal/content"
	"github.com/s/learnhub/internal/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// =========================================================================
	// Configuration and logging

	boot := logrus.New()
	cfg, err := config.Load(boot)
	if err != nil {
		boot.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		boot.WithError(err).Fatal("invalid config")
	}

	log := logging.New(cfg)
	log.WithField("build", cfg.Build).WithField("env", cfg.Env).Info("application initializing")
	defer log.Info("application stopped")

	// =========================================================================
	// Storage

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.WithError(err).Error("close store")
		}
	}()
	if err := store.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("migrate store")
	}

	// =========================================================================
	// Services and routes

	catalog := content.NewClient(content.Options{
		BaseURL:    cfg.Content.BaseURL,
		Dataset:    cfg.Content.Dataset,
		APIVersion: cfg.Content.APIVersion,
		Token:      cfg.Content.Token,
		Timeout:    cfg.Content.Timeout,
	}, log)
	google := auth.NewGoogle(auth.NewGoogleConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL))

	h := app.NewHandler(cfg, store, catalog, google, log)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.NewRouter(h, cfg.CORSOrigins, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// =========================================================================
	// Start and shut down

	errs := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("server listening")
		errs <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		log.WithError(err).Error("server error")

	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("start shutdown")

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Error("could not stop server gracefully")
			if err := server.Close(); err != nil {
				log.WithError(err).Error("could not force stop server")
			}
		}
	}
}
