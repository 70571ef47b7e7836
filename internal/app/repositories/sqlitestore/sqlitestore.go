// Package sqlitestore implements the repository interfaces on SQLite through sqlx.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/dberrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

var (
	courseColumns  = []string{"id", "course_name", "kind", "sessions", "chat_id", "created_at", "updated_at"}
	studentColumns = []string{"id", "name", "email", "university", "phone_number", "course_id", "selected_sessions", "created_at", "updated_at"}
	userColumns    = []string{"id", "email", "name", "password_hash", "created_at", "last_login_at"}
)

// NewRepositories builds the repository set over an open SQLite handle
func NewRepositories(db *sqlx.DB) *repositories.Repositories {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	return &repositories.Repositories{
		CourseRepository:  &CourseRepository{db: db, sb: sb},
		StudentRepository: &StudentRepository{db: db, sb: sb},
		UserRepository:    &UserRepository{db: db, sb: sb},
	}
}

func exec(ctx context.Context, db *sqlx.DB, q squirrel.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func get(ctx context.Context, db *sqlx.DB, dest interface{}, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return db.GetContext(ctx, dest, query, args...)
}

func list(ctx context.Context, db *sqlx.DB, dest interface{}, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return db.SelectContext(ctx, dest, query, args...)
}

// CourseRepository is the SQLite course store
type CourseRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	_, err := exec(ctx, r.db, r.sb.Insert("courses").
		Columns(courseColumns...).
		Values(course.ID, course.CourseName, string(course.Kind), repositories.NonNilSessions(course.Sessions),
			course.ChatID, course.CreatedAt, course.UpdatedAt))
	if err != nil {
		logger.Error().Err(err).Str("courseID", course.ID).Msg("Error creating course")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course := &models.Course{}
	err := get(ctx, r.db, course, r.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id}).Limit(1))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return course, nil
}

// List retrieves all courses, newest first
func (r *CourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	courses := []*models.Course{}
	if err := list(ctx, r.db, &courses, r.sb.Select(courseColumns...).From("courses").OrderBy("created_at DESC")); err != nil {
		logger.Error().Err(err).Msg("Error listing courses")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	return courses, nil
}

// Update replaces the mutable fields of a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	n, err := exec(ctx, r.db, r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"course_name": course.CourseName,
			"sessions":    repositories.NonNilSessions(course.Sessions),
			"chat_id":     course.ChatID,
			"updated_at":  course.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": course.ID}))
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if n == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.db, r.sb.Delete("courses").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if n == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// StudentRepository is the SQLite student store
type StudentRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// Create inserts a student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	_, err := exec(ctx, r.db, r.sb.Insert("students").
		Columns(studentColumns...).
		Values(student.ID, student.Name, student.Email, student.University, student.PhoneNumber, student.CourseID,
			repositories.NonNilSessions(student.SelectedSessions), student.CreatedAt, student.UpdatedAt))
	if err != nil {
		if dberrors.IsSQLiteUniqueError(err, "students.email") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("studentID", student.ID).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	student := &models.Student{}
	err := get(ctx, r.db, student, r.sb.Select(studentColumns...).From("students").Where(squirrel.Eq{"id": id}).Limit(1))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return student, nil
}

// List retrieves all students, newest first
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	students := []*models.Student{}
	if err := list(ctx, r.db, &students, r.sb.Select(studentColumns...).From("students").OrderBy("created_at DESC")); err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	return students, nil
}

// Update replaces the mutable fields of a student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	n, err := exec(ctx, r.db, r.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":              student.Name,
			"email":             student.Email,
			"university":        student.University,
			"phone_number":      student.PhoneNumber,
			"course_id":         student.CourseID,
			"selected_sessions": repositories.NonNilSessions(student.SelectedSessions),
			"updated_at":        student.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": student.ID}))
	if err != nil {
		if dberrors.IsSQLiteUniqueError(err, "students.email") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	if n == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.db, r.sb.Delete("students").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if n == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UserRepository is the SQLite admin account store
type UserRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// Create inserts an admin user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := exec(ctx, r.db, r.sb.Insert("admin_users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.LastLoginAt))
	if err != nil {
		if dberrors.IsSQLiteUniqueError(err, "admin_users.email") {
			return apperrors.NewConflictError("a user with this email already exists")
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	user := &models.User{}
	err := get(ctx, r.db, user, r.sb.Select(userColumns...).From("admin_users").Where(where).Limit(1))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetByID retrieves an admin user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves an admin user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// UpdateLastLogin stamps a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	n, err := exec(ctx, r.db, r.sb.Update("admin_users").Set("last_login_at", at).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
