// Package memstore keeps documents in process memory. It backs tests and the
// "memory" driver used for local development.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

type Store struct {
	mu          sync.RWMutex
	users       map[string]models.User
	enrollments map[string]models.Enrollment
	attempts    map[string]models.QuizAttempt
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:       make(map[string]models.User),
		enrollments: make(map[string]models.Enrollment),
		attempts:    make(map[string]models.QuizAttempt),
	}
}

func (s *Store) Users() storage.UserRepository             { return userRepository{s} }
func (s *Store) Enrollments() storage.EnrollmentRepository { return enrollmentRepository{s} }
func (s *Store) Attempts() storage.AttemptRepository       { return attemptRepository{s} }

func (s *Store) Migrate(context.Context) error { return nil }
func (s *Store) Close(context.Context) error   { return nil }

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func paginate(n int, p storage.Page) (int, int) {
	from := p.Skip()
	if from > n {
		from = n
	}
	to := from + p.Size()
	if to > n {
		to = n
	}
	return from, to
}

// users

type userRepository struct{ s *Store }

func cloneUser(u models.User) models.User {
	u.Favorites = copyStrings(u.Favorites)
	return u
}

func (r userRepository) GetUser(_ context.Context, uid string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	usr, ok := r.s.users[uid]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return cloneUser(usr), nil
}

func (r userRepository) CreateUser(_ context.Context, usr models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.users[usr.UID] = cloneUser(usr)
	return cloneUser(usr), nil
}

func (r userRepository) update(uid string, fn func(u *models.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	usr, ok := r.s.users[uid]
	if !ok {
		return storage.ErrNotFound
	}
	fn(&usr)
	r.s.users[uid] = usr
	return nil
}

func (r userRepository) TouchLastLogin(_ context.Context, uid string, at time.Time) error {
	return r.update(uid, func(u *models.User) { u.LastLoginAt = at })
}

func (r userRepository) SetRole(_ context.Context, uid string, role models.Role) error {
	return r.update(uid, func(u *models.User) { u.Role = role })
}

func (r userRepository) AddFavorite(_ context.Context, uid, courseID string) error {
	return r.update(uid, func(u *models.User) {
		if !u.HasFavorite(courseID) {
			u.Favorites = append(copyStrings(u.Favorites), courseID)
		}
	})
}

func (r userRepository) RemoveFavorite(_ context.Context, uid, courseID string) error {
	return r.update(uid, func(u *models.User) {
		kept := make([]string, 0, len(u.Favorites))
		for _, id := range u.Favorites {
			if id != courseID {
				kept = append(kept, id)
			}
		}
		u.Favorites = kept
	})
}

func (r userRepository) filter(f storage.UserFilter) []models.User {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.DisplayName), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].UID < users[j].UID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users
}

func (r userRepository) ListUsers(_ context.Context, f storage.UserFilter) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := r.filter(f)
	from, to := paginate(len(users), f.Page)
	return users[from:to], nil
}

func (r userRepository) CountUsers(_ context.Context, f storage.UserFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filter(f))), nil
}

// enrollments

type enrollmentRepository struct{ s *Store }

func cloneEnrollment(e models.Enrollment) models.Enrollment {
	e.CompletedLessons = copyStrings(e.CompletedLessons)
	return e
}

func (r enrollmentRepository) PutEnrollment(_ context.Context, enr models.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.enrollments[enr.ID] = cloneEnrollment(enr)
	return nil
}

func (r enrollmentRepository) GetEnrollment(_ context.Context, id string) (models.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	enr, ok := r.s.enrollments[id]
	if !ok {
		return models.Enrollment{}, storage.ErrNotFound
	}
	return cloneEnrollment(enr), nil
}

func (r enrollmentRepository) AddCompletedLesson(_ context.Context, id, lessonID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	enr, ok := r.s.enrollments[id]
	if !ok {
		return storage.ErrNotFound
	}
	if !enr.HasCompleted(lessonID) {
		enr.CompletedLessons = append(copyStrings(enr.CompletedLessons), lessonID)
	}
	enr.LastAccessedAt = at
	r.s.enrollments[id] = enr
	return nil
}

func (r enrollmentRepository) filter(f storage.EnrollmentFilter) []models.Enrollment {
	out := make([]models.Enrollment, 0)
	for _, e := range r.s.enrollments {
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.CourseID != "" && e.CourseID != f.CourseID {
			continue
		}
		out = append(out, cloneEnrollment(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EnrolledAt.Equal(out[j].EnrolledAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].EnrolledAt.After(out[j].EnrolledAt)
	})
	return out
}

func (r enrollmentRepository) ListEnrollments(_ context.Context, f storage.EnrollmentFilter) ([]models.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	enrs := r.filter(f)
	from, to := paginate(len(enrs), f.Page)
	return enrs[from:to], nil
}

func (r enrollmentRepository) CountEnrollments(_ context.Context, f storage.EnrollmentFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filter(f))), nil
}

// quiz attempts

type attemptRepository struct{ s *Store }

func cloneAttempt(a models.QuizAttempt) models.QuizAttempt {
	if a.Answers != nil {
		answers := make([]models.Answer, len(a.Answers))
		copy(answers, a.Answers)
		a.Answers = answers
	}
	return a
}

func (r attemptRepository) InsertAttempt(_ context.Context, att models.QuizAttempt) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	att.ID = uuid.NewString()
	r.s.attempts[att.ID] = cloneAttempt(att)
	return att.ID, nil
}

func (r attemptRepository) filter(f storage.AttemptFilter) []models.QuizAttempt {
	out := make([]models.QuizAttempt, 0)
	for _, a := range r.s.attempts {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.CourseID != "" && a.CourseID != f.CourseID {
			continue
		}
		if f.ExamID != "" && a.ExamID != f.ExamID {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		out = append(out, cloneAttempt(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r attemptRepository) ListAttempts(_ context.Context, f storage.AttemptFilter) ([]models.QuizAttempt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	atts := r.filter(f)
	from, to := paginate(len(atts), f.Page)
	return atts[from:to], nil
}

func (r attemptRepository) CountAttempts(_ context.Context, f storage.AttemptFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filter(f))), nil
}
