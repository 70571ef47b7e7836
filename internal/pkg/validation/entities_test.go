package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
)

func sessionsCourse() *models.Course {
	return &models.Course{
		CourseName: "Go Basics",
		Kind:       models.CourseKindSessions,
		Sessions:   models.SessionList{{StartTime: "8:00", EndTime: "10:00"}, {StartTime: "14:00", EndTime: "16:00"}},
	}
}

func validStudent() *models.Student {
	return &models.Student{
		Name:        "Ada",
		Email:       "ada@example.com",
		University:  "MIT",
		PhoneNumber: "+1555",
		CourseID:    "c-1",
	}
}

func assertRule(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Equal(t, msg, apperrors.Message(err))
}

func TestIsEmail(t *testing.T) {
	valid := []string{"a@b.c", "first.last@uni.edu.tr", "x+tag@sub.domain.io"}
	invalid := []string{"", "plain", "a@b", "a b@c.d", "@b.c", "a@.c x"}

	for _, v := range valid {
		assert.True(t, IsEmail(v), v)
	}
	for _, v := range invalid {
		assert.False(t, IsEmail(v), v)
	}
}

func TestValidateCourse(t *testing.T) {
	require.NoError(t, ValidateCourse(sessionsCourse()))
	require.NoError(t, ValidateCourse(&models.Course{CourseName: "Chat", Kind: models.CourseKindGroup, ChatID: "123@g.us"}))

	tests := []struct {
		name   string
		mutate func(c *models.Course)
		want   string
	}{
		{"blank name", func(c *models.Course) { c.CourseName = "   " }, "courseName is required"},
		{"empty sessions", func(c *models.Course) { c.Sessions = nil }, "sessions must contain at least one session"},
		{"missing end", func(c *models.Course) { c.Sessions[1].EndTime = "" }, "sessions[1].endTime is required"},
		{"chat on sessions course", func(c *models.Course) { c.ChatID = "x" }, "chatId cannot be combined with sessions"},
		{"group with sessions", func(c *models.Course) { c.Kind = models.CourseKindGroup }, "sessions cannot be combined with chatId"},
		{"group without chat", func(c *models.Course) { c.Kind = models.CourseKindGroup; c.Sessions = nil }, "chatId is required"},
		{"unknown kind", func(c *models.Course) { c.Kind = "HYBRID" }, "kind must be one of: SESSIONS, GROUP"},
		{"long name", func(c *models.Course) { c.CourseName = strings.Repeat("a", 201) }, "courseName must be at most 200 characters"},
		{"long chat id", func(c *models.Course) {
			c.Kind = models.CourseKindGroup
			c.Sessions = nil
			c.ChatID = strings.Repeat("1", 256) + "@g.us"
		}, "chatId must be at most 255 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sessionsCourse()
			tt.mutate(c)
			assertRule(t, ValidateCourse(c), tt.want)
		})
	}
}

func TestValidateCourse_FirstViolationWins(t *testing.T) {
	c := &models.Course{Kind: models.CourseKindSessions}
	assertRule(t, ValidateCourse(c), "courseName is required")
}

func TestValidateStudent(t *testing.T) {
	require.NoError(t, ValidateStudent(validStudent()))

	tests := []struct {
		name   string
		mutate func(s *models.Student)
		want   string
	}{
		{"no name", func(s *models.Student) { s.Name = "" }, "name is required"},
		{"bad email", func(s *models.Student) { s.Email = "not-an-email" }, "email must be a valid email address"},
		{"no email", func(s *models.Student) { s.Email = " " }, "email is required"},
		{"no university", func(s *models.Student) { s.University = "" }, "university is required"},
		{"no phone", func(s *models.Student) { s.PhoneNumber = "" }, "phoneNumber is required"},
		{"no course", func(s *models.Student) { s.CourseID = "" }, "courseId is required"},
		{"long email", func(s *models.Student) { s.Email = strings.Repeat("a", 315) + "@ex.io" }, "email must be at most 320 characters"},
		{"long phone", func(s *models.Student) { s.PhoneNumber = "+" + strings.Repeat("5", 64) }, "phoneNumber must be at most 64 characters"},
		{"long university", func(s *models.Student) { s.University = strings.Repeat("ü", 201) }, "university must be at most 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStudent()
			tt.mutate(s)
			assertRule(t, ValidateStudent(s), tt.want)
		})
	}
}

func TestValidateStudent_LimitsCountCharacters(t *testing.T) {
	s := validStudent()
	s.Name = strings.Repeat("ş", 200)
	s.PhoneNumber = strings.Repeat("٥", 64)
	require.NoError(t, ValidateStudent(s))

	s.Name += "ş"
	assertRule(t, ValidateStudent(s), "name must be at most 200 characters")
}

func TestValidateSessionSelection(t *testing.T) {
	course := sessionsCourse()

	require.NoError(t, ValidateSessionSelection([]models.Session{{StartTime: "14:00", EndTime: "16:00"}}, course))
	assertRule(t, ValidateSessionSelection(nil, course), "selectedSessions must contain at least one session")
	assertRule(t,
		ValidateSessionSelection([]models.Session{{StartTime: "8:00", EndTime: "9:00"}}, course),
		"selectedSessions[0] is not a session of the selected course")

	group := &models.Course{CourseName: "Chat", Kind: models.CourseKindGroup, ChatID: "1@g.us"}
	require.NoError(t, ValidateSessionSelection(nil, group))
	assertRule(t,
		ValidateSessionSelection([]models.Session{{StartTime: "8:00", EndTime: "10:00"}}, group),
		"selectedSessions must be empty for a group course")
}

func TestValidateParticipantIDs(t *testing.T) {
	require.NoError(t, ValidateParticipantIDs([]string{"15551234567@c.us"}))
	assertRule(t, ValidateParticipantIDs(nil), "participants must contain at least one participant")
	assertRule(t, ValidateParticipantIDs([]string{" "}), "participants[0].id is required")
	require.NoError(t, ValidateParticipantIDs([]string{"15551234567@c.us", ""}), "only the first participant is used")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}
