// Package app assembles the server: storage backend, services and routes.
package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/s/learnhub/internal/config"
	"github.com/s/learnhub/internal/database"
	"github.com/s/learnhub/internal/storage"
	"github.com/s/learnhub/internal/storage/memstore"
	"github.com/s/learnhub/internal/storage/mongostore"
	"github.com/s/learnhub/internal/storage/sqlstore"
)

// OpenStore connects the backend named by DB_DRIVER. The caller closes it.
func OpenStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (storage.Store, error) {
	switch cfg.Database.Driver {
	case "mongo":
		client, err := database.ConnectMongo(ctx, cfg.Database.MongoURI, log)
		if err != nil {
			return nil, err
		}
		return mongostore.New(client, cfg.Database.MongoDB), nil

	case "postgres", "sqlite":
		db, err := database.ConnectSQL(cfg.Database.Driver, cfg.Database.URL, log)
		if err != nil {
			return nil, err
		}
		return sqlstore.New(db), nil

	case "memory":
		log.Warn("using the in-memory store, data is lost on restart")
		return memstore.New(), nil
	}
	return nil, errors.Errorf("unknown database driver %q", cfg.Database.Driver)
}
