package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursedesk/internal/app/models"
)

// ICourseRepository defines course persistence. Lists are ordered newest first.
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// IStudentRepository defines student persistence. Create and Update return
// apperrors.ErrEmailAlreadyExists when the email is taken.
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// IUserRepository defines admin account persistence
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository  ICourseRepository
	StudentRepository IStudentRepository
	UserRepository    IUserRepository
}

// NewRepositories initializes the PostgreSQL repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseRepository:  NewCourseRepository(db),
		StudentRepository: NewStudentRepository(db),
		UserRepository:    NewUserRepository(db),
	}
}

// NonNilSessions substitutes an empty list for nil so stores never see NULL
func NonNilSessions(l models.SessionList) models.SessionList {
	if l == nil {
		return models.SessionList{}
	}
	return l
}
