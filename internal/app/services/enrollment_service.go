package services

import (
	"context"
	"errors"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

// EnrollmentService handles student-class membership
type EnrollmentService struct {
	enrollmentRepo repositories.IEnrollmentRepository
	userRepo       repositories.IUserRepository
	classRepo      repositories.IClassRepository
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(enrollmentRepo repositories.IEnrollmentRepository, userRepo repositories.IUserRepository, classRepo repositories.IClassRepository) *EnrollmentService {
	return &EnrollmentService{enrollmentRepo: enrollmentRepo, userRepo: userRepo, classRepo: classRepo}
}

// List returns enrollments, optionally for one class or one student
func (s *EnrollmentService) List(ctx context.Context, filter repositories.EnrollmentFilter) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.List(ctx, filter)
}

// Create enrolls a student account in an existing class
func (s *EnrollmentService) Create(ctx context.Context, req *dto.EnrollmentRequest) (*models.Enrollment, error) {
	student, err := s.userRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("student not found")
		}
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.NewFieldValidationError("studentId", "only users with the student role can be enrolled")
	}

	class, err := s.classRepo.GetByID(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.Create(ctx, student.ID, class.ID)
	if err != nil {
		return nil, err
	}
	enrollment.StudentName = student.Name
	enrollment.StudentMail = student.Email
	enrollment.ClassName = class.Name
	enrollment.GradeLevel = class.GradeLevel
	return enrollment, nil
}

// Delete removes an enrollment
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	return s.enrollmentRepo.Delete(ctx, id)
}
