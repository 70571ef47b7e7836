package dto

import "github.com/yigit/coursedesk/internal/app/models"

// CreateCourseRequest carries either sessions or a chatId. Kind is inferred
// when omitted.
type CreateCourseRequest struct {
	CourseName string           `json:"courseName" example:"Intro to Go"`
	Kind       *string          `json:"kind,omitempty" enums:"SESSIONS,GROUP"`
	Sessions   []models.Session `json:"sessions,omitempty"`
	ChatID     string           `json:"chatId,omitempty" example:"120363025@g.us"`
}

// UpdateCourseRequest is a partial update; nil fields are left unchanged
type UpdateCourseRequest struct {
	CourseName *string           `json:"courseName,omitempty"`
	Kind       *string           `json:"kind,omitempty" enums:"SESSIONS,GROUP"`
	Sessions   *[]models.Session `json:"sessions,omitempty"`
	ChatID     *string           `json:"chatId,omitempty"`
}

// CourseSummary is the slice of a course shown next to its students
type CourseSummary struct {
	ID         string            `json:"id"`
	CourseName string            `json:"courseName"`
	Kind       models.CourseKind `json:"kind"`
}

// NewCourseSummary returns nil for a missing course
func NewCourseSummary(course *models.Course) *CourseSummary {
	if course == nil {
		return nil
	}
	return &CourseSummary{
		ID:         course.ID,
		CourseName: course.CourseName,
		Kind:       course.Kind,
	}
}
