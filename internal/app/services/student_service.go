package services

import (
	"context"
	"errors"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

// StudentService serves the student portal. Empty results stay empty.
type StudentService struct {
	userRepo   repositories.IUserRepository
	classRepo  repositories.IClassRepository
	timetable  *TimetableService
	attendance *AttendanceService
	grades     *GradeService
}

// NewStudentService creates a new StudentService
func NewStudentService(
	userRepo repositories.IUserRepository,
	classRepo repositories.IClassRepository,
	timetable *TimetableService,
	attendance *AttendanceService,
	grades *GradeService,
) *StudentService {
	return &StudentService{
		userRepo:   userRepo,
		classRepo:  classRepo,
		timetable:  timetable,
		attendance: attendance,
		grades:     grades,
	}
}

// Timetable returns the student's weekly lessons
func (s *StudentService) Timetable(ctx context.Context, studentID int64) ([]*models.TimetableEntry, error) {
	return s.timetable.ListForStudent(ctx, studentID)
}

// Attendance returns the student's recent marks, newest first
func (s *StudentService) Attendance(ctx context.Context, studentID int64) ([]*models.Attendance, error) {
	return s.attendance.ListForStudent(ctx, studentID)
}

// Grades returns the student's grades, newest first
func (s *StudentService) Grades(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	return s.grades.ListForStudent(ctx, studentID)
}

// ReportCard assembles grades, subject averages and attendance for one student
func (s *StudentService) ReportCard(ctx context.Context, studentID int64) (*dto.ReportCard, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, err
	}

	classes, err := s.classRepo.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	grades, err := s.grades.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	summary, err := s.attendance.SummaryForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	averages, overall := SubjectAverages(grades)

	return &dto.ReportCard{
		Student:         dto.NewUserResponse(student),
		Classes:         classes,
		SubjectAverages: averages,
		OverallAverage:  overall,
		Grades:          grades,
		Attendance:      summary,
	}, nil
}
