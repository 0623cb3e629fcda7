package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/s/learnhub/internal/database"
	"github.com/s/learnhub/internal/storage/storagetest"
)

func freshStore(t *testing.T, db *gorm.DB) *Store {
	require.NoError(t, db.Migrator().DropTable(&userRow{}, &enrollmentRow{}, &attemptRow{}))
	return New(db)
}

func TestStore_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.ConnectSQL("postgres", dsn, logrus.New())
	require.NoError(t, err)

	store := freshStore(t, db)
	defer store.Close(context.Background())
	storagetest.Run(t, store)
}

// sqlite needs cgo, so it only runs when asked for.
func TestStore_SQLite(t *testing.T) {
	if os.Getenv("TEST_SQLITE") == "" {
		t.Skip("TEST_SQLITE not set")
	}
	dsn := filepath.Join(t.TempDir(), "learnhub.db")
	db, err := database.ConnectSQL("sqlite", dsn, logrus.New())
	require.NoError(t, err)

	store := freshStore(t, db)
	defer store.Close(context.Background())
	storagetest.Run(t, store)
}

func TestContainsPattern(t *testing.T) {
	require.Equal(t, `%ada\_100\%%`, containsPattern("Ada_100%"))
}
