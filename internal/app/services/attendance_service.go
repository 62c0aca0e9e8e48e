package services

import (
	"context"

	appauth "github.com/yigit/schoolhub/internal/app/auth"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/helpers"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// StudentAttendanceLimit caps the student attendance history
const StudentAttendanceLimit = 100

// AttendanceService records and reads attendance marks
type AttendanceService struct {
	attendanceRepo repositories.IAttendanceRepository
	enrollmentRepo repositories.IEnrollmentRepository
	authz          *appauth.AuthorizationService
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	attendanceRepo repositories.IAttendanceRepository,
	enrollmentRepo repositories.IEnrollmentRepository,
	authz *appauth.AuthorizationService,
) *AttendanceService {
	return &AttendanceService{attendanceRepo: attendanceRepo, enrollmentRepo: enrollmentRepo, authz: authz}
}

// Mark records one lesson's attendance. The teacher must be scheduled for the class and subject.
// Records succeed or fail individually.
func (s *AttendanceService) Mark(ctx context.Context, teacherID int64, req *dto.MarkAttendanceRequest) (*dto.BatchResult, error) {
	if err := s.authz.ValidateTeachingAssignment(ctx, teacherID, req.ClassID, req.SubjectID); err != nil {
		return nil, err
	}

	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewFieldValidationError("date", err.Error())
	}

	result := &dto.BatchResult{Results: make([]dto.RecordResult, 0, len(req.Attendance))}
	for _, rec := range req.Attendance {
		status := models.AttendanceStatus(rec.Status)
		if !status.Valid() {
			result.Add(dto.RecordResult{StudentID: rec.StudentID, Error: "invalid attendance status"})
			continue
		}

		enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, rec.StudentID, req.ClassID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			result.Add(dto.RecordResult{StudentID: rec.StudentID, Error: "student is not enrolled in this class"})
			continue
		}

		id, err := s.attendanceRepo.Upsert(ctx, &models.Attendance{
			StudentID: rec.StudentID,
			ClassID:   req.ClassID,
			SubjectID: req.SubjectID,
			TeacherID: teacherID,
			Date:      date,
			Status:    status,
			Notes:     helpers.NilIfBlank(rec.Notes),
		})
		if err != nil {
			logger.Error().Err(err).Int64("studentID", rec.StudentID).Msg("Error saving attendance record")
			result.Add(dto.RecordResult{StudentID: rec.StudentID, Error: "failed to save attendance"})
			continue
		}
		result.Add(dto.RecordResult{StudentID: rec.StudentID, Success: true, ID: id})
	}

	return result, nil
}

// ListForStudent returns the student's most recent marks
func (s *AttendanceService) ListForStudent(ctx context.Context, studentID int64) ([]*models.Attendance, error) {
	return s.attendanceRepo.ListForStudent(ctx, studentID, StudentAttendanceLimit)
}

// SummaryForStudent tallies every mark of a student
func (s *AttendanceService) SummaryForStudent(ctx context.Context, studentID int64) (dto.AttendanceSummary, error) {
	records, err := s.attendanceRepo.ListForStudent(ctx, studentID, 0)
	if err != nil {
		return dto.AttendanceSummary{}, err
	}
	return SummarizeAttendance(records), nil
}

// SummarizeAttendance counts marks by status; late counts as attended
func SummarizeAttendance(records []*models.Attendance) dto.AttendanceSummary {
	var summary dto.AttendanceSummary
	for _, r := range records {
		summary.Count(r.Status)
	}
	if summary.Total > 0 {
		summary.Percentage = helpers.Round2(float64(summary.Present+summary.Late) / float64(summary.Total) * 100)
	}
	return summary
}
