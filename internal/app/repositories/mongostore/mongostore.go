// Package mongostore implements the repository interfaces on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/dberrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

const (
	coursesCollection  = "courses"
	studentsCollection = "students"
	usersCollection    = "admin_users"
)

// EnsureIndexes creates the unique email indexes and list ordering indexes
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		coursesCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		studentsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "courseId", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// NewRepositories builds the repository set over a Mongo database
func NewRepositories(db *mongo.Database) *repositories.Repositories {
	return &repositories.Repositories{
		CourseRepository:  &CourseRepository{coll: db.Collection(coursesCollection)},
		StudentRepository: &StudentRepository{coll: db.Collection(studentsCollection)},
		UserRepository:    &UserRepository{coll: db.Collection(usersCollection)},
	}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

// CourseRepository is the MongoDB course store
type CourseRepository struct {
	coll *mongo.Collection
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if _, err := r.coll.InsertOne(ctx, course); err != nil {
		logger.Error().Err(err).Str("courseID", course.ID).Msg("Error inserting course document")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course := &models.Course{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(course); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return course, nil
}

// List retrieves all courses, newest first
func (r *CourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing courses")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	courses := []*models.Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("error decoding courses: %w", err)
	}
	return courses, nil
}

// Update replaces the mutable fields of a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": course.ID}, bson.M{"$set": bson.M{
		"courseName": course.CourseName,
		"sessions":   course.Sessions,
		"chatId":     course.ChatID,
		"updatedAt":  course.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// StudentRepository is the MongoDB student store
type StudentRepository struct {
	coll *mongo.Collection
}

// Create inserts a student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if _, err := r.coll.InsertOne(ctx, student); err != nil {
		if dberrors.IsMongoDuplicateKeyError(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("studentID", student.ID).Msg("Error inserting student document")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	student := &models.Student{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return student, nil
}

// List retrieves all students, newest first
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	students := []*models.Student{}
	if err := cur.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("error decoding students: %w", err)
	}
	return students, nil
}

// Update replaces the mutable fields of a student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": student.ID}, bson.M{"$set": bson.M{
		"name":             student.Name,
		"email":            student.Email,
		"university":       student.University,
		"phoneNumber":      student.PhoneNumber,
		"courseId":         student.CourseID,
		"selectedSessions": repositories.NonNilSessions(student.SelectedSessions),
		"updatedAt":        student.UpdatedAt,
	}})
	if err != nil {
		if dberrors.IsMongoDuplicateKeyError(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UserRepository is the MongoDB admin account store
type UserRepository struct {
	coll *mongo.Collection
}

// Create inserts an admin user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if dberrors.IsMongoDuplicateKeyError(err) {
			return apperrors.NewConflictError("a user with this email already exists")
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, filter bson.M) (*models.User, error) {
	user := &models.User{}
	if err := r.coll.FindOne(ctx, filter).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetByID retrieves an admin user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves an admin user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, bson.M{"email": email})
}

// UpdateLastLogin stamps a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLoginAt": at}})
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
