package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

// ClassService handles class administration
type ClassService struct {
	classRepo repositories.IClassRepository
	userRepo  repositories.IUserRepository
}

// NewClassService creates a new ClassService
func NewClassService(classRepo repositories.IClassRepository, userRepo repositories.IUserRepository) *ClassService {
	return &ClassService{classRepo: classRepo, userRepo: userRepo}
}

// ValidateGradeLevel accepts 1 through 12 inclusive
func ValidateGradeLevel(level int) error {
	if level < models.MinGradeLevel || level > models.MaxGradeLevel {
		return apperrors.ErrInvalidGradeLevel
	}
	return nil
}

// validateClass normalizes the request and checks the optional class teacher
func (s *ClassService) validateClass(ctx context.Context, req *dto.ClassRequest) (*models.Class, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewFieldValidationError("name", "class name is required")
	}
	if req.GradeLevel == nil {
		return nil, apperrors.NewFieldValidationError("gradeLevel", "grade level is required")
	}
	if err := ValidateGradeLevel(*req.GradeLevel); err != nil {
		return nil, err
	}

	class := &models.Class{Name: name, GradeLevel: *req.GradeLevel}

	if req.TeacherID != nil && *req.TeacherID > 0 {
		teacher, err := s.userRepo.GetByID(ctx, *req.TeacherID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, apperrors.NewFieldValidationError("teacherId", "class teacher does not exist")
			}
			return nil, err
		}
		if teacher.Role != models.RoleTeacher {
			return nil, apperrors.NewFieldValidationError("teacherId", "class teacher must have the teacher role")
		}
		class.TeacherID = &teacher.ID
	}

	return class, nil
}

// List returns all classes with class teacher names and student counts
func (s *ClassService) List(ctx context.Context) ([]*models.Class, error) {
	return s.classRepo.List(ctx)
}

// Create adds a class
func (s *ClassService) Create(ctx context.Context, req *dto.ClassRequest) (*models.Class, error) {
	class, err := s.validateClass(ctx, req)
	if err != nil {
		return nil, err
	}

	id, err := s.classRepo.Create(ctx, class)
	if err != nil {
		return nil, err
	}
	return s.classRepo.GetByID(ctx, id)
}

// Update replaces a class's name, grade level and class teacher
func (s *ClassService) Update(ctx context.Context, id int64, req *dto.ClassRequest) (*models.Class, error) {
	class, err := s.validateClass(ctx, req)
	if err != nil {
		return nil, err
	}
	class.ID = id

	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}
	return s.classRepo.GetByID(ctx, id)
}

// Delete removes a class that no enrollment or timetable entry references
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	return s.classRepo.Delete(ctx, id)
}
