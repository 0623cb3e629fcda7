package enrollment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
	"github.com/s/learnhub/internal/storage/memstore"
)

var t0 = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService() (*Service, *clock, *memstore.Store) {
	store := memstore.New()
	c := &clock{now: t0}
	svc := NewService(store.Enrollments())
	svc.now = c.Now
	return svc, c, store
}

var goCourse = CourseRef{ID: "c-1", Title: "Go for Beginners", Slug: "go-for-beginners"}

func TestID(t *testing.T) {
	assert.Equal(t, "u-1_c-1", ID("u-1", "c-1"))
}

func TestEnroll(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	enr, err := svc.Enroll(ctx, "u-1", goCourse)
	require.NoError(t, err)
	assert.Equal(t, "u-1_c-1", enr.ID)
	assert.Equal(t, models.EnrollmentActive, enr.Status)
	assert.Equal(t, 0, enr.ProgressPercentage)
	assert.Empty(t, enr.CompletedLessons)
	assert.Equal(t, t0, enr.EnrolledAt)
	assert.Equal(t, t0, enr.LastAccessedAt)
	assert.Equal(t, "go-for-beginners", enr.CourseSlug)

	got, err := svc.Check(ctx, "u-1", "c-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, enr, *got)
}

func TestEnroll_TwiceResetsProgress(t *testing.T) {
	svc, c, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "u-1", goCourse)
	require.NoError(t, err)
	require.NoError(t, svc.RecordLessonComplete(ctx, "u-1", "c-1", "L1"))

	c.now = t0.Add(time.Hour)
	_, err = svc.Enroll(ctx, "u-1", goCourse)
	require.NoError(t, err)

	got, err := svc.Check(ctx, "u-1", "c-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.CompletedLessons)
	assert.Equal(t, t0.Add(time.Hour), got.EnrolledAt)

	n, err := svc.Count(ctx, storage.EnrollmentFilter{UserID: "u-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCheck_NotEnrolled(t *testing.T) {
	svc, _, _ := newTestService()
	got, err := svc.Check(context.Background(), "u-1", "c-9")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordLessonComplete(t *testing.T) {
	svc, c, _ := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.RecordLessonComplete(ctx, "u-1", "c-1", "L1"), storage.ErrNotFound)

	_, err := svc.Enroll(ctx, "u-1", goCourse)
	require.NoError(t, err)

	c.now = t0.Add(time.Minute)
	require.NoError(t, svc.RecordLessonComplete(ctx, "u-1", "c-1", "L1"))
	c.now = t0.Add(2 * time.Minute)
	require.NoError(t, svc.RecordLessonComplete(ctx, "u-1", "c-1", "L1"))

	got, err := svc.Check(ctx, "u-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"L1"}, got.CompletedLessons)
	assert.Equal(t, t0.Add(2*time.Minute), got.LastAccessedAt)
	assert.Equal(t, 0, got.ProgressPercentage)
}

func TestListForUser(t *testing.T) {
	svc, c, _ := newTestService()
	ctx := context.Background()

	for i, id := range []string{"c-1", "c-2"} {
		c.now = t0.Add(time.Duration(i) * time.Hour)
		_, err := svc.Enroll(ctx, "u-1", CourseRef{ID: id})
		require.NoError(t, err)
	}
	_, err := svc.Enroll(ctx, "u-2", CourseRef{ID: "c-1"})
	require.NoError(t, err)

	mine, err := svc.ListForUser(ctx, "u-1", storage.Page{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "c-2", mine[0].CourseID)
}
