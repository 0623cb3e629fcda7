// Package storagetest holds behavioral tests shared by every storage.Store implementation.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

// Run exercises store against the repository contracts. The store must start empty.
func Run(t *testing.T, store storage.Store) {
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx), "migrate must be repeatable")

	t.Run("users", func(t *testing.T) { testUsers(t, store.Users()) })
	t.Run("favorites", func(t *testing.T) { testFavorites(t, store.Users()) })
	t.Run("list users", func(t *testing.T) { testListUsers(t, store.Users()) })
	t.Run("enrollments", func(t *testing.T) { testEnrollments(t, store.Enrollments()) })
	t.Run("list enrollments", func(t *testing.T) { testListEnrollments(t, store.Enrollments()) })
	t.Run("attempts", func(t *testing.T) { testAttempts(t, store.Attempts()) })
}

// ts truncates to milliseconds, the precision both databases keep.
func ts(offset time.Duration) time.Time {
	return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).Add(offset).Truncate(time.Millisecond)
}

func testUsers(t *testing.T, users storage.UserRepository) {
	ctx := context.Background()

	_, err := users.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, users.TouchLastLogin(ctx, "missing", ts(0)), storage.ErrNotFound)
	assert.ErrorIs(t, users.SetRole(ctx, "missing", models.RoleAdmin), storage.ErrNotFound)

	created, err := users.CreateUser(ctx, models.User{
		UID:         "u-1",
		DisplayName: "Ada",
		Email:       "ada@example.com",
		Role:        models.RoleStudent,
		StudentInfo: models.StudentInfo{StudentID: "6401", Year: 2},
		Contact:     models.Contact{Phone: "0800000000"},
		Favorites:   []string{},
		CreatedAt:   ts(0),
		LastLoginAt: ts(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", created.UID)

	require.NoError(t, users.TouchLastLogin(ctx, "u-1", ts(time.Hour)))
	require.NoError(t, users.SetRole(ctx, "u-1", models.RoleInstructor))

	got, err := users.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.DisplayName)
	assert.Equal(t, models.RoleInstructor, got.Role)
	assert.Equal(t, "6401", got.StudentInfo.StudentID)
	assert.Equal(t, 2, got.StudentInfo.Year)
	assert.Equal(t, "0800000000", got.Contact.Phone)
	assert.True(t, ts(0).Equal(got.CreatedAt), "createdAt must not change")
	assert.True(t, ts(time.Hour).Equal(got.LastLoginAt))
}

func testFavorites(t *testing.T, users storage.UserRepository) {
	ctx := context.Background()

	_, err := users.CreateUser(ctx, models.User{UID: "fav", Role: models.RoleStudent, CreatedAt: ts(0)})
	require.NoError(t, err)

	require.NoError(t, users.AddFavorite(ctx, "fav", "c1"))
	require.NoError(t, users.AddFavorite(ctx, "fav", "c1"))
	require.NoError(t, users.AddFavorite(ctx, "fav", "c2"))

	got, err := users.GetUser(ctx, "fav")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, got.Favorites)

	// mutating the returned copy must not leak into the store
	got.Favorites[0] = "tampered"

	require.NoError(t, users.RemoveFavorite(ctx, "fav", "c1"))
	require.NoError(t, users.RemoveFavorite(ctx, "fav", "unknown"))

	got, err = users.GetUser(ctx, "fav")
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, got.Favorites)

	assert.ErrorIs(t, users.AddFavorite(ctx, "missing", "c1"), storage.ErrNotFound)
}

func testListUsers(t *testing.T, users storage.UserRepository) {
	ctx := context.Background()

	seed := []models.User{
		{UID: "l-1", DisplayName: "Somchai", Email: "somchai@uni.ac.th", Role: models.RoleStudent, CreatedAt: ts(1 * time.Minute)},
		{UID: "l-2", DisplayName: "Malee", Email: "malee@uni.ac.th", Role: models.RoleStudent, CreatedAt: ts(2 * time.Minute)},
		{UID: "l-3", DisplayName: "Boss", Email: "boss@uni.ac.th", Role: models.RoleAdmin, CreatedAt: ts(3 * time.Minute)},
	}
	for _, u := range seed {
		_, err := users.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	admins, err := users.ListUsers(ctx, storage.UserFilter{Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "l-3", admins[0].UID)

	found, err := users.ListUsers(ctx, storage.UserFilter{Search: "MALEE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "l-2", found[0].UID)

	n, err := users.CountUsers(ctx, storage.UserFilter{Search: "uni.ac.th"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	page, err := users.ListUsers(ctx, storage.UserFilter{Search: "uni.ac.th", Page: storage.Page{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "l-3", page[0].UID, "newest first")
	assert.Equal(t, "l-2", page[1].UID)

	page, err = users.ListUsers(ctx, storage.UserFilter{Search: "uni.ac.th", Page: storage.Page{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "l-1", page[0].UID)
}

func testEnrollments(t *testing.T, enrollments storage.EnrollmentRepository) {
	ctx := context.Background()
	id := "u-1_c-1"

	_, err := enrollments.GetEnrollment(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, enrollments.AddCompletedLesson(ctx, id, "L1", ts(0)), storage.ErrNotFound)

	enr := models.Enrollment{
		ID:               id,
		UserID:           "u-1",
		CourseID:         "c-1",
		CourseTitle:      "Go",
		CourseSlug:       "go",
		Status:           models.EnrollmentActive,
		CompletedLessons: []string{},
		EnrolledAt:       ts(0),
		LastAccessedAt:   ts(0),
	}
	require.NoError(t, enrollments.PutEnrollment(ctx, enr))

	require.NoError(t, enrollments.AddCompletedLesson(ctx, id, "L1", ts(time.Minute)))
	require.NoError(t, enrollments.AddCompletedLesson(ctx, id, "L1", ts(2*time.Minute)))
	require.NoError(t, enrollments.AddCompletedLesson(ctx, id, "L2", ts(3*time.Minute)))

	got, err := enrollments.GetEnrollment(ctx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"L1", "L2"}, got.CompletedLessons)
	assert.True(t, ts(3*time.Minute).Equal(got.LastAccessedAt))
	assert.Equal(t, 0, got.ProgressPercentage, "lesson completion never touches progress")

	// a second put overwrites the whole document
	enr.EnrolledAt = ts(time.Hour)
	enr.LastAccessedAt = ts(time.Hour)
	require.NoError(t, enrollments.PutEnrollment(ctx, enr))

	got, err = enrollments.GetEnrollment(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.CompletedLessons)
	assert.True(t, ts(time.Hour).Equal(got.EnrolledAt))

	n, err := enrollments.CountEnrollments(ctx, storage.EnrollmentFilter{UserID: "u-1", CourseID: "c-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "one document per user and course")
}

func testListEnrollments(t *testing.T, enrollments storage.EnrollmentRepository) {
	ctx := context.Background()

	for i, course := range []string{"a", "b", "c"} {
		require.NoError(t, enrollments.PutEnrollment(ctx, models.Enrollment{
			ID:         "lister_" + course,
			UserID:     "lister",
			CourseID:   course,
			Status:     models.EnrollmentActive,
			EnrolledAt: ts(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, enrollments.PutEnrollment(ctx, models.Enrollment{
		ID: "other_a", UserID: "other", CourseID: "a", Status: models.EnrollmentActive, EnrolledAt: ts(0),
	}))

	mine, err := enrollments.ListEnrollments(ctx, storage.EnrollmentFilter{UserID: "lister"})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "c", mine[0].CourseID, "newest first")

	inA, err := enrollments.CountEnrollments(ctx, storage.EnrollmentFilter{CourseID: "a"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, inA)
}

func testAttempts(t *testing.T, attempts storage.AttemptRepository) {
	ctx := context.Background()

	ids := map[string]bool{}
	for i := 0; i < 3; i++ {
		id, err := attempts.InsertAttempt(ctx, models.QuizAttempt{
			UserID:   "u-1",
			CourseID: "c-1",
			ExamID:   "e-1",
			Type:     models.AttemptPostTest,
			Score:    i,
			MaxScore: 2,
			Answers: []models.Answer{
				{QuestionKey: "q1", SelectedIndex: i, IsCorrect: i > 0},
			},
			CreatedAt: ts(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)
		ids[id] = true
	}
	assert.Len(t, ids, 3, "every submission is a new record")

	_, err := attempts.InsertAttempt(ctx, models.QuizAttempt{
		UserID: "u-2", CourseID: "c-1", ExamID: "e-1", Type: models.AttemptPreTest, CreatedAt: ts(0),
	})
	require.NoError(t, err)

	mine, err := attempts.ListAttempts(ctx, storage.AttemptFilter{UserID: "u-1", ExamID: "e-1"})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, 2, mine[0].Score, "newest first")
	require.Len(t, mine[0].Answers, 1)
	assert.Equal(t, "q1", mine[0].Answers[0].QuestionKey)
	assert.True(t, mine[0].Answers[0].IsCorrect)

	for _, tc := range []struct {
		filter storage.AttemptFilter
		want   int64
	}{
		{storage.AttemptFilter{CourseID: "c-1"}, 4},
		{storage.AttemptFilter{Type: models.AttemptPreTest}, 1},
		{storage.AttemptFilter{UserID: "u-2", Type: models.AttemptPostTest}, 0},
	} {
		n, err := attempts.CountAttempts(ctx, tc.filter)
		require.NoError(t, err)
		assert.Equal(t, tc.want, n, fmt.Sprintf("%+v", tc.filter))
	}
}
