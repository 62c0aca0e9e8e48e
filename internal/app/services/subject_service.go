package services

import (
	"context"
	"strings"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/helpers"
)

// SubjectService handles the subject catalogue
type SubjectService struct {
	subjectRepo repositories.ISubjectRepository
}

// NewSubjectService creates a new SubjectService
func NewSubjectService(subjectRepo repositories.ISubjectRepository) *SubjectService {
	return &SubjectService{subjectRepo: subjectRepo}
}

// List returns every subject ordered by name
func (s *SubjectService) List(ctx context.Context) ([]*models.Subject, error) {
	return s.subjectRepo.List(ctx)
}

// Create adds a subject; codes are stored upper-case
func (s *SubjectService) Create(ctx context.Context, req *dto.SubjectRequest) (*models.Subject, error) {
	subject := &models.Subject{
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Description: helpers.NilIfBlank(req.Description),
	}
	if subject.Name == "" {
		return nil, apperrors.NewFieldValidationError("name", "subject name is required")
	}
	if subject.Code == "" {
		return nil, apperrors.NewFieldValidationError("code", "subject code is required")
	}

	id, err := s.subjectRepo.Create(ctx, subject)
	if err != nil {
		return nil, err
	}
	subject.ID = id
	return subject, nil
}
