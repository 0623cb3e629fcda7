// Package sqlstore implements storage.Store on a relational database through gorm.
// Postgres is the production target; sqlite serves single-node setups.
package sqlstore

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/s/learnhub/internal/storage"
)

type Store struct {
	db *gorm.DB
}

var _ storage.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() storage.UserRepository             { return userRepository{s.db} }
func (s *Store) Enrollments() storage.EnrollmentRepository { return enrollmentRepository{s.db} }
func (s *Store) Attempts() storage.AttemptRepository       { return attemptRepository{s.db} }

func (s *Store) Migrate(ctx context.Context) error {
	return errors.Wrap(AutoMigrate(s.db.WithContext(ctx)), "auto migrate")
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// forUpdate locks the selected row until the transaction ends. sqlite has no
// row locks; its transactions already serialize writers.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func paged(q *gorm.DB, p storage.Page, order string) *gorm.DB {
	return q.Order(order).Limit(p.Size()).Offset(p.Skip())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
