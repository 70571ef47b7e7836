package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
	"github.com/yigit/coursedesk/internal/pkg/validation"
)

// CourseService handles course-related operations
type CourseService struct {
	courseRepo repositories.ICourseRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo repositories.ICourseRepository) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
	}
}

func parseKind(raw string) models.CourseKind {
	return models.CourseKind(strings.ToUpper(strings.TrimSpace(raw)))
}

// inferKind picks GROUP when a chatId is given and SESSIONS otherwise
func inferKind(explicit *string, chatID string) models.CourseKind {
	if explicit != nil {
		return parseKind(*explicit)
	}
	if strings.TrimSpace(chatID) != "" {
		return models.CourseKindGroup
	}
	return models.CourseKindSessions
}

// ListCourses returns all courses, newest first
func (s *CourseService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// GetCourse retrieves a course by ID
func (s *CourseService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// CreateCourse validates and stores a new course
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("course is required")
	}

	now := helpers.NowUTC()
	course := &models.Course{
		ID:         uuid.NewString(),
		CourseName: strings.TrimSpace(req.CourseName),
		Kind:       inferKind(req.Kind, req.ChatID),
		Sessions:   models.SessionList(req.Sessions),
		ChatID:     strings.TrimSpace(req.ChatID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := validation.ValidateCourse(course); err != nil {
		return nil, err
	}
	course.Sessions = repositories.NonNilSessions(course.Sessions)

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	return course, nil
}

// UpdateCourse applies the supplied fields and validates the merged course.
// The kind of a course cannot change.
func (s *CourseService) UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*models.Course, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("course is required")
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Kind != nil && parseKind(*req.Kind) != course.Kind {
		return nil, apperrors.NewValidationError("kind cannot be changed after creation")
	}
	if req.CourseName != nil {
		course.CourseName = strings.TrimSpace(*req.CourseName)
	}
	if req.Sessions != nil {
		course.Sessions = models.SessionList(*req.Sessions)
	}
	if req.ChatID != nil {
		course.ChatID = strings.TrimSpace(*req.ChatID)
	}

	if err := validation.ValidateCourse(course); err != nil {
		return nil, err
	}
	course.Sessions = repositories.NonNilSessions(course.Sessions)
	course.UpdatedAt = helpers.NowUTC()

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	return course, nil
}

// DeleteCourse removes a course. Students registered for it are kept.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	return s.courseRepo.Delete(ctx, id)
}
