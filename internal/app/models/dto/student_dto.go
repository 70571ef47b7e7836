package dto

import "github.com/yigit/coursedesk/internal/app/models"

// CreateStudentRequest represents a student registration
type CreateStudentRequest struct {
	Name             string           `json:"name" example:"Ada Lovelace"`
	Email            string           `json:"email" example:"ada@example.com"`
	University       string           `json:"university" example:"Boğaziçi University"`
	PhoneNumber      string           `json:"phoneNumber" example:"+905551234567"`
	CourseID         string           `json:"courseId"`
	SelectedSessions []models.Session `json:"selectedSessions"`
}

// UpdateStudentRequest is a partial update; nil fields are left unchanged
type UpdateStudentRequest struct {
	Name             *string           `json:"name,omitempty"`
	Email            *string           `json:"email,omitempty"`
	University       *string           `json:"university,omitempty"`
	PhoneNumber      *string           `json:"phoneNumber,omitempty"`
	CourseID         *string           `json:"courseId,omitempty"`
	SelectedSessions *[]models.Session `json:"selectedSessions,omitempty"`
}

// StudentResponse is a student joined with a summary of its course.
// Course is null when the course has been deleted.
type StudentResponse struct {
	models.Student
	Course *CourseSummary `json:"course"`
}
