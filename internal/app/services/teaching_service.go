package services

import (
	"context"

	appauth "github.com/yigit/schoolhub/internal/app/auth"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
)

// TeachingService answers what a teacher teaches and to whom
type TeachingService struct {
	classRepo      repositories.IClassRepository
	subjectRepo    repositories.ISubjectRepository
	enrollmentRepo repositories.IEnrollmentRepository
	authz          *appauth.AuthorizationService
}

// NewTeachingService creates a new TeachingService
func NewTeachingService(
	classRepo repositories.IClassRepository,
	subjectRepo repositories.ISubjectRepository,
	enrollmentRepo repositories.IEnrollmentRepository,
	authz *appauth.AuthorizationService,
) *TeachingService {
	return &TeachingService{classRepo: classRepo, subjectRepo: subjectRepo, enrollmentRepo: enrollmentRepo, authz: authz}
}

// Overview lists the teacher's classes and the subjects they teach
func (s *TeachingService) Overview(ctx context.Context, teacherID int64) (*dto.TeachingOverview, error) {
	classes, err := s.classRepo.ListForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjectRepo.ListForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return &dto.TeachingOverview{Classes: classes, Subjects: subjects}, nil
}

// GradingOverview lists the teacher's classes with the full subject catalogue
func (s *TeachingService) GradingOverview(ctx context.Context, teacherID int64) (*dto.TeachingOverview, error) {
	classes, err := s.classRepo.ListForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.TeachingOverview{Classes: classes, Subjects: subjects}, nil
}

// SubjectsForClass lists the subjects the teacher teaches in one class
func (s *TeachingService) SubjectsForClass(ctx context.Context, teacherID, classID int64) ([]*models.Subject, error) {
	if err := s.authz.ValidateTeachesClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}
	return s.subjectRepo.ListForTeacherInClass(ctx, teacherID, classID)
}

// StudentsInClass lists the students of a class the teacher teaches
func (s *TeachingService) StudentsInClass(ctx context.Context, teacherID, classID int64) ([]dto.StudentSummary, error) {
	if err := s.authz.ValidateTeachesClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}

	students, err := s.enrollmentRepo.ListStudents(ctx, classID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.StudentSummary, 0, len(students))
	for _, u := range students {
		resp = append(resp, dto.StudentSummary{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return resp, nil
}
