package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/helpers"
	"github.com/yigit/schoolhub/internal/pkg/validation"
)

// UserService handles admin account management
type UserService struct {
	userRepo repositories.IUserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func validateAccount(name, email, role string) (models.Role, error) {
	if err := validation.ValidateName(name); err != nil {
		return "", apperrors.NewFieldValidationError("name", err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return "", apperrors.NewFieldValidationError("email", err.Error())
	}
	r, err := models.ParseRole(role)
	if err != nil {
		return "", apperrors.NewFieldValidationError("role", "role must be one of student, teacher, admin")
	}
	return r, nil
}

// List returns users ordered by role then name
func (s *UserService) List(ctx context.Context, role string) ([]dto.UserResponse, error) {
	var filter *models.Role
	if role != "" {
		r, err := models.ParseRole(role)
		if err != nil {
			return nil, apperrors.NewFieldValidationError("role", "role must be one of student, teacher, admin")
		}
		filter = &r
	}

	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.NewUserResponse(u))
	}
	return resp, nil
}

// Create adds an account with a hashed password
func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := helpers.NormalizeEmail(req.Email)
	role, err := validateAccount(req.Name, email, req.Role)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewFieldValidationError("password", err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Email: email, Password: hash, Name: strings.TrimSpace(req.Name), Role: role}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Update changes name, email, role and optionally the password.
// Admins cannot change their own role.
func (s *UserService) Update(ctx context.Context, actor *auth.Identity, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	email := helpers.NormalizeEmail(req.Email)
	role, err := validateAccount(req.Name, email, req.Role)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor != nil && actor.ID == id && role != existing.Role {
		return nil, apperrors.NewFieldValidationError("role", "you cannot change your own role")
	}

	taken, err := s.userRepo.EmailTakenByOther(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	var hash *string
	if req.Password != "" {
		if err := validation.ValidatePassword(req.Password); err != nil {
			return nil, apperrors.NewFieldValidationError("password", err.Error())
		}
		h, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		hash = &h
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Email = email
	existing.Role = role
	if err := s.userRepo.Update(ctx, existing, hash); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(existing)
	return &resp, nil
}

// Delete removes an account other than the caller's own
func (s *UserService) Delete(ctx context.Context, actor *auth.Identity, id int64) error {
	if actor != nil && actor.ID == id {
		return apperrors.ErrSelfDeletion
	}
	return s.userRepo.Delete(ctx, id)
}
