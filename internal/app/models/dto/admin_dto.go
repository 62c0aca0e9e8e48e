package dto

// CreateUserRequest is the admin payload for a new account
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=student teacher admin"`
}

// UpdateUserRequest replaces name, email and role; password only when non-empty
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"required,oneof=student teacher admin"`
}

// ClassRequest creates or updates a class
type ClassRequest struct {
	Name       string `json:"name" binding:"required"`
	GradeLevel *int   `json:"gradeLevel" binding:"required"`
	TeacherID  *int64 `json:"teacherId"`
}

// SubjectRequest creates a subject
type SubjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required,max=20"`
	Description *string `json:"description"`
}

// EnrollmentRequest enrolls a student in a class
type EnrollmentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1"`
	ClassID   int64 `json:"classId" binding:"required,min=1"`
}
