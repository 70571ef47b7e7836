package services

import (
	"context"
	"errors"
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

// ErrUnknownCourse is returned when a student references a course that does not exist
var ErrUnknownCourse = apperrors.NewValidationError("courseId does not reference an existing course")

// StudentService handles student registration
type StudentService struct {
	studentRepo repositories.IStudentRepository
	courseRepo  repositories.ICourseRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo repositories.IStudentRepository, courseRepo repositories.ICourseRepository) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
	}
}

// resolveCourse loads the course a student points at
func (s *StudentService) resolveCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrUnknownCourse
		}
		return nil, fmt.Errorf("error checking course: %w", err)
	}
	return course, nil
}

// lookupCourse returns nil for orphaned students
func (s *StudentService) lookupCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

func copySessions(src []models.Session) models.SessionList {
	out := make(models.SessionList, len(src))
	copy(out, src)
	return out
}

func studentResponse(student *models.Student, course *models.Course) *dto.StudentResponse {
	return &dto.StudentResponse{
		Student: *student,
		Course:  dto.NewCourseSummary(course),
	}
}

// ListStudents returns all students newest first, each joined with its course.
// Students whose course was deleted are listed with a nil course.
func (s *StudentService) ListStudents(ctx context.Context) ([]*dto.StudentResponse, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	byID := make(map[string]*models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	out := make([]*dto.StudentResponse, 0, len(students))
	for _, st := range students {
		out = append(out, studentResponse(st, byID[st.CourseID]))
	}
	return out, nil
}

// GetStudent retrieves a student by ID
func (s *StudentService) GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course, err := s.lookupCourse(ctx, student.CourseID)
	if err != nil {
		return nil, err
	}
	return studentResponse(student, course), nil
}

// CreateStudent registers a student for an existing course. The selected
// sessions are copied from the request and must belong to the course.
func (s *StudentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("student is required")
	}

	now := helpers.NowUTC()
	student := &models.Student{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(req.Name),
		Email:            validation.NormalizeEmail(req.Email),
		University:       strings.TrimSpace(req.University),
		PhoneNumber:      strings.TrimSpace(req.PhoneNumber),
		CourseID:         strings.TrimSpace(req.CourseID),
		SelectedSessions: copySessions(req.SelectedSessions),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := validation.ValidateStudent(student); err != nil {
		return nil, err
	}

	course, err := s.resolveCourse(ctx, student.CourseID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateSessionSelection(student.SelectedSessions, course); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return studentResponse(student, course), nil
}

// UpdateStudent applies the supplied fields. The course and session selection
// are re-checked only when one of them is supplied.
func (s *StudentService) UpdateStudent(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("student is required")
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		student.Email = validation.NormalizeEmail(*req.Email)
	}
	if req.University != nil {
		student.University = strings.TrimSpace(*req.University)
	}
	if req.PhoneNumber != nil {
		student.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.CourseID != nil {
		student.CourseID = strings.TrimSpace(*req.CourseID)
	}
	if req.SelectedSessions != nil {
		student.SelectedSessions = copySessions(*req.SelectedSessions)
	}

	if err := validation.ValidateStudent(student); err != nil {
		return nil, err
	}

	var course *models.Course
	if req.CourseID != nil || req.SelectedSessions != nil {
		course, err = s.resolveCourse(ctx, student.CourseID)
		if err != nil {
			return nil, err
		}
		if err := validation.ValidateSessionSelection(student.SelectedSessions, course); err != nil {
			return nil, err
		}
	} else {
		course, err = s.lookupCourse(ctx, student.CourseID)
		if err != nil {
			return nil, err
		}
	}

	student.SelectedSessions = repositories.NonNilSessions(student.SelectedSessions)
	student.UpdatedAt = helpers.NowUTC()

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return studentResponse(student, course), nil
}

// DeleteStudent removes a student
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	return s.studentRepo.Delete(ctx, id)
}
