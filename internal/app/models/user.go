package models

import (
	"time"
)

// User is an administrator allowed to use the API
type User struct {
	ID           string     `json:"id" db:"id" bson:"_id"`
	Email        string     `json:"email" db:"email" bson:"email" example:"admin@example.com"`
	Name         string     `json:"name" db:"name" bson:"name"`
	PasswordHash string     `json:"-" db:"password_hash" bson:"passwordHash"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at" bson:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" bson:"lastLoginAt,omitempty"` // nil until first login
}
