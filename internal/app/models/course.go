package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// CourseKind tags which variant a Course is
type CourseKind string

const (
	CourseKindSessions CourseKind = "SESSIONS" // scheduled time slots
	CourseKindGroup    CourseKind = "GROUP"    // linked to one messaging group
)

// Valid reports whether k is a known variant
func (k CourseKind) Valid() bool {
	return k == CourseKindSessions || k == CourseKindGroup
}

// Session is a start/end time slot. Values are kept exactly as entered.
type Session struct {
	StartTime string `json:"startTime" bson:"startTime" example:"8:00"`
	EndTime   string `json:"endTime" bson:"endTime" example:"10:00"`
}

// SessionList is stored as a JSON document in SQL stores
type SessionList []Session

// Value implements driver.Valuer
func (l SessionList) Value() (driver.Value, error) {
	if l == nil {
		l = SessionList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *SessionList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = SessionList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SessionList", src)
	}

	out := SessionList{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("decode sessions: %w", err)
		}
	}
	*l = out
	return nil
}

// Contains reports whether s matches one of the slots exactly
func (l SessionList) Contains(s Session) bool {
	for _, candidate := range l {
		if candidate == s {
			return true
		}
	}
	return false
}

// Course is a tagged variant: a SESSIONS course carries Sessions and no ChatID,
// a GROUP course carries ChatID and no Sessions.
type Course struct {
	ID         string      `json:"id" db:"id" bson:"_id"`
	CourseName string      `json:"courseName" db:"course_name" bson:"courseName" example:"Intro to Go"`
	Kind       CourseKind  `json:"kind" db:"kind" bson:"kind" example:"SESSIONS"`
	Sessions   SessionList `json:"sessions,omitempty" db:"sessions" bson:"sessions"`
	ChatID     string      `json:"chatId,omitempty" db:"chat_id" bson:"chatId,omitempty" example:"120363025@g.us"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// IsGroup reports whether the course is linked to a messaging group
func (c *Course) IsGroup() bool {
	return c.Kind == CourseKindGroup
}
