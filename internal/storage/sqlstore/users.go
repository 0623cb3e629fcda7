package sqlstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

type userRepository struct{ db *gorm.DB }

func (r userRepository) GetUser(ctx context.Context, uid string) (models.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "uid = ?", uid).Error; err != nil {
		return models.User{}, notFound(err)
	}
	return row.model(), nil
}

func (r userRepository) CreateUser(ctx context.Context, usr models.User) (models.User, error) {
	row := newUserRow(usr)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.User{}, errors.Wrap(err, "insert user")
	}
	return row.model(), nil
}

// Role is managed by admins; login only moves lastLoginAt.
func (r userRepository) TouchLastLogin(ctx context.Context, uid string, at time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&userRow{}).Where("uid = ?", uid).Update("last_login_at", at))
}

func (r userRepository) SetRole(ctx context.Context, uid string, role models.Role) error {
	return affected(r.db.WithContext(ctx).Model(&userRow{}).Where("uid = ?", uid).Update("role", string(role)))
}

func (r userRepository) updateFavorites(ctx context.Context, uid string, fn func(models.User) []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userRow
		if err := forUpdate(tx).First(&row, "uid = ?", uid).Error; err != nil {
			return notFound(err)
		}
		favorites := fn(row.model())
		return tx.Model(&userRow{}).Where("uid = ?", uid).
			Update("favorites", newUserRow(models.User{Favorites: favorites}).Favorites).Error
	})
}

func (r userRepository) AddFavorite(ctx context.Context, uid, courseID string) error {
	return r.updateFavorites(ctx, uid, func(u models.User) []string {
		if u.HasFavorite(courseID) {
			return u.Favorites
		}
		return append(u.Favorites, courseID)
	})
}

func (r userRepository) RemoveFavorite(ctx context.Context, uid, courseID string) error {
	return r.updateFavorites(ctx, uid, func(u models.User) []string {
		kept := make([]string, 0, len(u.Favorites))
		for _, id := range u.Favorites {
			if id != courseID {
				kept = append(kept, id)
			}
		}
		return kept
	})
}

func (r userRepository) query(ctx context.Context, f storage.UserFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&userRow{})
	if f.Role != "" {
		q = q.Where("role = ?", string(f.Role))
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		q = q.Where(`(LOWER(display_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	return q
}

func (r userRepository) ListUsers(ctx context.Context, f storage.UserFilter) ([]models.User, error) {
	var rows []userRow
	if err := paged(r.query(ctx, f), f.Page, "created_at DESC, uid ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.model())
	}
	return users, nil
}

func (r userRepository) CountUsers(ctx context.Context, f storage.UserFilter) (int64, error) {
	var n int64
	err := r.query(ctx, f).Count(&n).Error
	return n, errors.Wrap(err, "count users")
}
