package models

import "time"

// Student is a registrant linked to one Course. SelectedSessions is a snapshot
// copied from the course when supplied and never re-checked afterwards.
type Student struct {
	ID               string      `json:"id" db:"id" bson:"_id"`
	Name             string      `json:"name" db:"name" bson:"name" example:"Ada Lovelace"`
	Email            string      `json:"email" db:"email" bson:"email" example:"ada@example.com"`
	University       string      `json:"university" db:"university" bson:"university"`
	PhoneNumber      string      `json:"phoneNumber" db:"phone_number" bson:"phoneNumber" example:"+15551234567"`
	CourseID         string      `json:"courseId" db:"course_id" bson:"courseId"`
	SelectedSessions SessionList `json:"selectedSessions" db:"selected_sessions" bson:"selectedSessions"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}
