package dto

import "github.com/yigit/schoolhub/internal/app/models"

// LoginRequest represents login credentials. Role, when given, must match the account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=student teacher admin"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID    int64       `json:"id" example:"1"`
	Email string      `json:"email" example:"teacher@school.edu"`
	Name  string      `json:"name" example:"Jane Doe"`
	Role  models.Role `json:"role" example:"teacher"`
}

// NewUserResponse strips credentials from a user
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// LoginResponse is returned with the session cookie
type LoginResponse struct {
	User UserResponse `json:"user"`
}
