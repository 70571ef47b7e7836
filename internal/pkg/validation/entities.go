package validation

import (
	"fmt"
	"strings"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
)

// The checks below are pure and ordered; the first violated rule is returned.

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(field + " is required")
	}
	return nil
}

func requiredMax(field, value string, max int) error {
	if err := required(field, value); err != nil {
		return err
	}
	if !NewStringValidation(strings.TrimSpace(value)).WithMaxLength(max).Validate() {
		return apperrors.NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

func requiredName(field, value string) error {
	return requiredMax(field, value, NameMaxLength)
}

// ValidateSessions requires a non-empty list whose slots have both ends set
func ValidateSessions(field string, sessions []models.Session) error {
	if len(sessions) == 0 {
		return apperrors.NewValidationError(field + " must contain at least one session")
	}
	for i, s := range sessions {
		if err := required(fmt.Sprintf("%s[%d].startTime", field, i), s.StartTime); err != nil {
			return err
		}
		if err := required(fmt.Sprintf("%s[%d].endTime", field, i), s.EndTime); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCourse checks a fully merged course record
func ValidateCourse(course *models.Course) error {
	if course == nil {
		return apperrors.NewValidationError("course is required")
	}

	if err := requiredName("courseName", course.CourseName); err != nil {
		return err
	}

	switch course.Kind {
	case models.CourseKindSessions:
		if strings.TrimSpace(course.ChatID) != "" {
			return apperrors.NewValidationError("chatId cannot be combined with sessions")
		}
		return ValidateSessions("sessions", course.Sessions)
	case models.CourseKindGroup:
		if len(course.Sessions) > 0 {
			return apperrors.NewValidationError("sessions cannot be combined with chatId")
		}
		return requiredMax("chatId", course.ChatID, ChatIDMaxLength)
	default:
		return apperrors.NewValidationError(fmt.Sprintf("kind must be one of: %s, %s", models.CourseKindSessions, models.CourseKindGroup))
	}
}

// ValidateStudent checks the student's own fields. Email is expected to be
// normalised already.
func ValidateStudent(student *models.Student) error {
	if student == nil {
		return apperrors.NewValidationError("student is required")
	}

	if err := requiredName("name", student.Name); err != nil {
		return err
	}
	if err := requiredMax("email", student.Email, EmailMaxLength); err != nil {
		return err
	}
	if !IsEmail(student.Email) {
		return apperrors.NewValidationError("email must be a valid email address")
	}
	if err := requiredName("university", student.University); err != nil {
		return err
	}
	if err := requiredMax("phoneNumber", student.PhoneNumber, PhoneMaxLength); err != nil {
		return err
	}
	return required("courseId", student.CourseID)
}

// ValidateSessionSelection checks selected slots against the course they were
// picked from. Session courses need at least one matching slot; group courses
// take none.
func ValidateSessionSelection(selected []models.Session, course *models.Course) error {
	if course.IsGroup() {
		if len(selected) > 0 {
			return apperrors.NewValidationError("selectedSessions must be empty for a group course")
		}
		return nil
	}

	if err := ValidateSessions("selectedSessions", selected); err != nil {
		return err
	}
	for i, s := range selected {
		if !course.Sessions.Contains(s) {
			return apperrors.NewValidationError(fmt.Sprintf("selectedSessions[%d] is not a session of the selected course", i))
		}
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateParticipantIDs requires a non-blank first participant; the rest are ignored
func ValidateParticipantIDs(ids []string) error {
	if len(ids) == 0 {
		return apperrors.NewValidationError("participants must contain at least one participant")
	}
	return required("participants[0].id", ids[0])
}
