// Package account keeps the user document in step with sign-ins.
package account

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
	"github.com/s/learnhub/internal/validation"
)

var (
	ErrInvalidIdentity = errors.New("identity has no uid")
	errUnknownRole     = errors.New("unknown role")
)

// Identity is what the identity provider tells us about a signed-in user.
type Identity struct {
	UID         string
	DisplayName string
	Email       string
	PhotoURL    string
}

type Service struct {
	users storage.UserRepository
	now   func() time.Time
}

func NewService(users storage.UserRepository) *Service {
	return &Service{users: users, now: func() time.Time { return time.Now().UTC() }}
}

// SyncOnLogin fetches the user for id, creating a student record on first sign-in.
// For an existing user only lastLoginAt moves; profile fields and role are kept.
func (s *Service) SyncOnLogin(ctx context.Context, id Identity) (models.User, error) {
	if strings.TrimSpace(id.UID) == "" {
		return models.User{}, ErrInvalidIdentity
	}
	now := s.now()

	usr, err := s.users.GetUser(ctx, id.UID)
	switch {
	case err == nil:
		if err := s.users.TouchLastLogin(ctx, id.UID, now); err != nil {
			return models.User{}, errors.Wrap(err, "touch last login")
		}
		usr.LastLoginAt = now
		return usr, nil

	case errors.Is(err, storage.ErrNotFound):
		usr, err = s.users.CreateUser(ctx, models.User{
			UID:         id.UID,
			DisplayName: id.DisplayName,
			Email:       id.Email,
			PhotoURL:    id.PhotoURL,
			Role:        models.RoleStudent,
			Favorites:   []string{},
			CreatedAt:   now,
			LastLoginAt: now,
		})
		return usr, errors.Wrap(err, "create user")

	default:
		return models.User{}, errors.Wrap(err, "get user")
	}
}

func (s *Service) Get(ctx context.Context, uid string) (models.User, error) {
	return s.users.GetUser(ctx, uid)
}

func (s *Service) SetRole(ctx context.Context, uid string, role models.Role) error {
	if !role.Valid() {
		return validation.NewError(errUnknownRole, validation.FieldError{
			Field: "role", Error: "role must be one of admin, instructor, student",
		})
	}
	return s.users.SetRole(ctx, uid, role)
}

func (s *Service) AddFavorite(ctx context.Context, uid, courseID string) error {
	return s.users.AddFavorite(ctx, uid, courseID)
}

func (s *Service) RemoveFavorite(ctx context.Context, uid, courseID string) error {
	return s.users.RemoveFavorite(ctx, uid, courseID)
}

func (s *Service) List(ctx context.Context, f storage.UserFilter) ([]models.User, error) {
	return s.users.ListUsers(ctx, f)
}

func (s *Service) Count(ctx context.Context, f storage.UserFilter) (int64, error) {
	return s.users.CountUsers(ctx, f)
}
