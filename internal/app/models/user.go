package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"teacher@school.edu"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Name      string    `json:"name" db:"name" example:"Jane Doe"`
	Role      Role      `json:"role" db:"role" example:"teacher"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
