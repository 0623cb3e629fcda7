// Package mongostore implements storage.Store on MongoDB.
package mongostore

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

const (
	usersCollection       = "users"
	enrollmentsCollection = "enrollments"
	attemptsCollection    = "quiz_attempts"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ storage.Store = (*Store)(nil)

func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

func (s *Store) Users() storage.UserRepository {
	return userRepository{c: s.db.Collection(usersCollection)}
}

func (s *Store) Enrollments() storage.EnrollmentRepository {
	return enrollmentRepository{c: s.db.Collection(enrollmentsCollection)}
}

func (s *Store) Attempts() storage.AttemptRepository {
	return attemptRepository{c: s.db.Collection(attemptsCollection)}
}

// Migrate creates the secondary indexes used by the list filters.
// CreateMany is a no-op for indexes that already exist.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		enrollmentsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "enrolledAt", Value: -1}}},
			{Keys: bson.D{{Key: "courseId", Value: 1}, {Key: "enrolledAt", Value: -1}}},
		},
		attemptsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "examId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "courseId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return errors.Wrapf(err, "create indexes on %s", name)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findOptions(p storage.Page, sortField string) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: sortField, Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(p.Size())).
		SetSkip(int64(p.Skip()))
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	return err
}

func matched(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// users

type userRepository struct{ c *mongo.Collection }

func (r userRepository) GetUser(ctx context.Context, uid string) (models.User, error) {
	var usr models.User
	err := r.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&usr)
	return usr, notFound(err)
}

func (r userRepository) CreateUser(ctx context.Context, usr models.User) (models.User, error) {
	if usr.Favorites == nil {
		usr.Favorites = []string{}
	}
	if _, err := r.c.InsertOne(ctx, usr); err != nil {
		return models.User{}, errors.Wrap(err, "insert user")
	}
	return usr, nil
}

func (r userRepository) set(ctx context.Context, uid string, fields bson.M) error {
	return matched(r.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": fields}))
}

func (r userRepository) TouchLastLogin(ctx context.Context, uid string, at time.Time) error {
	return r.set(ctx, uid, bson.M{"lastLoginAt": at})
}

func (r userRepository) SetRole(ctx context.Context, uid string, role models.Role) error {
	return r.set(ctx, uid, bson.M{"role": role})
}

func (r userRepository) AddFavorite(ctx context.Context, uid, courseID string) error {
	return matched(r.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$addToSet": bson.M{"favorites": courseID}}))
}

func (r userRepository) RemoveFavorite(ctx context.Context, uid, courseID string) error {
	return matched(r.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$pull": bson.M{"favorites": courseID}}))
}

func userQuery(f storage.UserFilter) bson.M {
	q := bson.M{}
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"displayName": pattern},
			bson.M{"email": pattern},
		}
	}
	return q
}

func (r userRepository) ListUsers(ctx context.Context, f storage.UserFilter) ([]models.User, error) {
	cur, err := r.c.Find(ctx, userQuery(f), findOptions(f.Page, "createdAt"))
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	users := make([]models.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return users, nil
}

func (r userRepository) CountUsers(ctx context.Context, f storage.UserFilter) (int64, error) {
	return r.c.CountDocuments(ctx, userQuery(f))
}

// enrollments

type enrollmentRepository struct{ c *mongo.Collection }

func (r enrollmentRepository) PutEnrollment(ctx context.Context, enr models.Enrollment) error {
	if enr.CompletedLessons == nil {
		enr.CompletedLessons = []string{}
	}
	_, err := r.c.ReplaceOne(ctx, bson.M{"_id": enr.ID}, enr, options.Replace().SetUpsert(true))
	return errors.Wrap(err, "replace enrollment")
}

func (r enrollmentRepository) GetEnrollment(ctx context.Context, id string) (models.Enrollment, error) {
	var enr models.Enrollment
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&enr)
	return enr, notFound(err)
}

func (r enrollmentRepository) AddCompletedLesson(ctx context.Context, id, lessonID string, at time.Time) error {
	return matched(r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"completedLessons": lessonID},
		"$set":      bson.M{"lastAccessedAt": at},
	}))
}

func enrollmentQuery(f storage.EnrollmentFilter) bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["userId"] = f.UserID
	}
	if f.CourseID != "" {
		q["courseId"] = f.CourseID
	}
	return q
}

func (r enrollmentRepository) ListEnrollments(ctx context.Context, f storage.EnrollmentFilter) ([]models.Enrollment, error) {
	cur, err := r.c.Find(ctx, enrollmentQuery(f), findOptions(f.Page, "enrolledAt"))
	if err != nil {
		return nil, errors.Wrap(err, "find enrollments")
	}
	enrs := make([]models.Enrollment, 0)
	if err := cur.All(ctx, &enrs); err != nil {
		return nil, errors.Wrap(err, "decode enrollments")
	}
	return enrs, nil
}

func (r enrollmentRepository) CountEnrollments(ctx context.Context, f storage.EnrollmentFilter) (int64, error) {
	return r.c.CountDocuments(ctx, enrollmentQuery(f))
}

// quiz attempts

type attemptRepository struct{ c *mongo.Collection }

func (r attemptRepository) InsertAttempt(ctx context.Context, att models.QuizAttempt) (string, error) {
	att.ID = primitive.NewObjectID().Hex()
	if att.Answers == nil {
		att.Answers = []models.Answer{}
	}
	if _, err := r.c.InsertOne(ctx, att); err != nil {
		return "", errors.Wrap(err, "insert attempt")
	}
	return att.ID, nil
}

func attemptQuery(f storage.AttemptFilter) bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["userId"] = f.UserID
	}
	if f.CourseID != "" {
		q["courseId"] = f.CourseID
	}
	if f.ExamID != "" {
		q["examId"] = f.ExamID
	}
	if f.Type != "" {
		q["type"] = f.Type
	}
	return q
}

func (r attemptRepository) ListAttempts(ctx context.Context, f storage.AttemptFilter) ([]models.QuizAttempt, error) {
	cur, err := r.c.Find(ctx, attemptQuery(f), findOptions(f.Page, "createdAt"))
	if err != nil {
		return nil, errors.Wrap(err, "find attempts")
	}
	atts := make([]models.QuizAttempt, 0)
	if err := cur.All(ctx, &atts); err != nil {
		return nil, errors.Wrap(err, "decode attempts")
	}
	return atts, nil
}

func (r attemptRepository) CountAttempts(ctx context.Context, f storage.AttemptFilter) (int64, error) {
	return r.c.CountDocuments(ctx, attemptQuery(f))
}
