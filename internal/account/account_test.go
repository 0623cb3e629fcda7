package account

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
	"github.com/s/learnhub/internal/storage/memstore"
	"github.com/s/learnhub/internal/validation"
)

var (
	t0 = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	t1 = t0.Add(48 * time.Hour)
)

func newTestService(users storage.UserRepository, now time.Time) *Service {
	svc := NewService(users)
	svc.now = func() time.Time { return now }
	return svc
}

func TestSyncOnLogin_FirstLogin(t *testing.T) {
	store := memstore.New()
	svc := newTestService(store.Users(), t0)

	usr, err := svc.SyncOnLogin(context.Background(), Identity{
		UID: "g-1", DisplayName: "Ada", Email: "ada@example.com", PhotoURL: "https://img/ada.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "g-1", usr.UID)
	assert.Equal(t, models.RoleStudent, usr.Role)
	assert.Equal(t, t0, usr.CreatedAt)
	assert.Equal(t, t0, usr.LastLoginAt)
	assert.Empty(t, usr.Favorites)
	assert.Equal(t, models.StudentInfo{}, usr.StudentInfo)

	stored, err := store.Users().GetUser(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, usr, stored)
}

func TestSyncOnLogin_ReturningUser(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	_, err := newTestService(store.Users(), t0).SyncOnLogin(ctx, Identity{UID: "g-1", DisplayName: "Ada"})
	require.NoError(t, err)
	require.NoError(t, store.Users().SetRole(ctx, "g-1", models.RoleAdmin))

	usr, err := newTestService(store.Users(), t1).SyncOnLogin(ctx, Identity{UID: "g-1", DisplayName: "Ada Lovelace"})
	require.NoError(t, err)

	assert.Equal(t, "Ada", usr.DisplayName, "profile is not refreshed")
	assert.Equal(t, models.RoleAdmin, usr.Role, "role is kept")
	assert.Equal(t, t0, usr.CreatedAt)
	assert.Equal(t, t1, usr.LastLoginAt)

	n, err := store.Users().CountUsers(ctx, storage.UserFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSyncOnLogin_InvalidIdentity(t *testing.T) {
	svc := NewService(memstore.New().Users())
	_, err := svc.SyncOnLogin(context.Background(), Identity{UID: "  "})
	assert.Equal(t, ErrInvalidIdentity, err)
}

type failingUsers struct {
	storage.UserRepository
	err error
}

func (f failingUsers) GetUser(context.Context, string) (models.User, error) {
	return models.User{}, f.err
}

func TestSyncOnLogin_StoreError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(failingUsers{err: boom})

	_, err := svc.SyncOnLogin(context.Background(), Identity{UID: "g-1"})
	require.Error(t, err)
	assert.Equal(t, boom, errors.Cause(err))
}

func TestSetRole(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	svc := newTestService(store.Users(), t0)
	_, err := svc.SyncOnLogin(ctx, Identity{UID: "g-1"})
	require.NoError(t, err)

	err = svc.SetRole(ctx, "g-1", "owner")
	flds, ok := validation.Fields(err)
	require.True(t, ok)
	assert.Contains(t, flds, "role")

	require.NoError(t, svc.SetRole(ctx, "g-1", models.RoleInstructor))
	usr, err := svc.Get(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, usr.Role)

	assert.ErrorIs(t, svc.SetRole(ctx, "nobody", models.RoleAdmin), storage.ErrNotFound)
}
