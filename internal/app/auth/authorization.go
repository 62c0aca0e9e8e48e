package auth

import (
	"context"
	"fmt"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// AuthorizationService answers ownership and teaching-assignment questions
type AuthorizationService struct {
	timetableRepo repositories.ITimetableRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(timetableRepo repositories.ITimetableRepository) *AuthorizationService {
	return &AuthorizationService{timetableRepo: timetableRepo}
}

// RequireRole is the error-returning form of auth.RequireRole
func RequireRole(identity *auth.Identity, allowed ...models.Role) error {
	if identity == nil {
		return apperrors.ErrUnauthenticated
	}
	if !auth.RequireRole(identity, allowed...) {
		return apperrors.NewForbiddenError("you don't have permission for this action")
	}
	return nil
}

// CanModifyEntry allows admins and the teacher who owns the entry
func (s *AuthorizationService) CanModifyEntry(identity *auth.Identity, entry *models.TimetableEntry) error {
	if identity == nil {
		return apperrors.ErrUnauthenticated
	}

	switch identity.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTeacher:
		if entry.TeacherID == identity.ID {
			return nil
		}
		return apperrors.NewForbiddenError("you can only modify your own timetable entries")
	case models.RoleStudent:
		return apperrors.NewForbiddenError("students cannot modify timetable entries")
	default:
		return apperrors.NewForbiddenError("unknown role")
	}
}

// ValidateTeachingAssignment requires a timetable entry for the teacher, class and subject
func (s *AuthorizationService) ValidateTeachingAssignment(ctx context.Context, teacherID, classID, subjectID int64) error {
	ok, err := s.timetableRepo.TeachesSubjectInClass(ctx, teacherID, classID, subjectID)
	if err != nil {
		logger.Error().Err(err).Int64("teacherID", teacherID).Int64("classID", classID).Msg("Error checking teaching assignment")
		return fmt.Errorf("error checking teaching assignment: %w", err)
	}
	if !ok {
		return apperrors.ErrNotTeaching
	}
	return nil
}

// ValidateTeachesClass requires the teacher to be scheduled in the class or be its class teacher
func (s *AuthorizationService) ValidateTeachesClass(ctx context.Context, teacherID, classID int64) error {
	ok, err := s.timetableRepo.TeachesClass(ctx, teacherID, classID)
	if err != nil {
		logger.Error().Err(err).Int64("teacherID", teacherID).Int64("classID", classID).Msg("Error checking class assignment")
		return fmt.Errorf("error checking class assignment: %w", err)
	}
	if !ok {
		return apperrors.NewForbiddenError("you do not teach this class")
	}
	return nil
}
