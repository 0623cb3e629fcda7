// Package database opens connections to the backing databases, retrying while the
// server is still starting (containers often need a few seconds).
package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// DefaultPostgresDSN is used when DATABASE_URL is empty for the postgres driver.
const DefaultPostgresDSN = "host=db user=postgres password=1234 dbname=learnhub port=5432 sslmode=disable"

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		if dsn == "" {
			dsn = DefaultPostgresDSN
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		if dsn == "" {
			dsn = "file:learnhub.db?_foreign_keys=on"
		}
		return sqlite.Open(dsn), nil
	}
	return nil, errors.Errorf("unsupported sql driver %q", driver)
}

// ConnectSQL opens a gorm connection for driver "postgres" or "sqlite".
// gorm's own logging goes through log.
func ConnectSQL(driver, dsn string, log *logrus.Logger) (*gorm.DB, error) {
	dial, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	cfg := &gorm.Config{
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
		}),
	}

	var db *gorm.DB
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dial, cfg)
		if err == nil {
			log.WithField("driver", driver).Info("connected to database")
			return db, nil
		}
		log.WithError(err).Warnf("database connection attempt %d failed, retrying", i+1)
		time.Sleep(connectBackoff)
	}
	return nil, errors.Wrapf(err, "connect %s after %d attempts", driver, connectAttempts)
}

func gormLevel(level logrus.Level) gormlogger.LogLevel {
	switch {
	case level >= logrus.DebugLevel:
		return gormlogger.Info
	case level >= logrus.WarnLevel:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

// ConnectMongo connects and pings the primary.
func ConnectMongo(ctx context.Context, uri string, log *logrus.Logger) (*mongo.Client, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var (
		client *mongo.Client
		err    error
	)
	for i := 0; i < connectAttempts; i++ {
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			if err = client.Ping(ctx, readpref.Primary()); err == nil {
				log.Info("connected to mongodb")
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}
		log.WithError(err).Warnf("mongodb connection attempt %d failed, retrying", i+1)

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "connect mongodb")
		case <-time.After(connectBackoff):
		}
	}
	return nil, errors.Wrapf(err, "connect mongodb after %d attempts", connectAttempts)
}
