package services

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/pkg/auth"
)

// Services holds the application services
type Services struct {
	CourseService  *CourseService
	StudentService *StudentService
	GroupService   *GroupService
	AuthService    *AuthService
}

// NewServices wires the services over a repository set
func NewServices(
	repos *repositories.Repositories,
	provider GroupProvider,
	jwtService *auth.JWTService,
	groupsCacheTTL time.Duration,
	logger zerolog.Logger,
) (*Services, error) {
	groupService, err := NewGroupService(provider, groupsCacheTTL, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		CourseService:  NewCourseService(repos.CourseRepository),
		StudentService: NewStudentService(repos.StudentRepository, repos.CourseRepository),
		GroupService:   groupService,
		AuthService:    NewAuthService(repos.UserRepository, jwtService, logger),
	}, nil
}
