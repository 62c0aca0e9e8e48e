package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	appauth "github.com/yigit/schoolhub/internal/app/auth"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/helpers"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// TopPerformerCount limits the analytics leaderboard
const TopPerformerCount = 10

// GradeService uploads grades and reports on them
type GradeService struct {
	gradeRepo      repositories.IGradeRepository
	enrollmentRepo repositories.IEnrollmentRepository
	attendanceRepo repositories.IAttendanceRepository
	classRepo      repositories.IClassRepository
	authz          *appauth.AuthorizationService
}

// NewGradeService creates a new GradeService
func NewGradeService(
	gradeRepo repositories.IGradeRepository,
	enrollmentRepo repositories.IEnrollmentRepository,
	attendanceRepo repositories.IAttendanceRepository,
	classRepo repositories.IClassRepository,
	authz *appauth.AuthorizationService,
) *GradeService {
	return &GradeService{
		gradeRepo:      gradeRepo,
		enrollmentRepo: enrollmentRepo,
		attendanceRepo: attendanceRepo,
		classRepo:      classRepo,
		authz:          authz,
	}
}

// normalizeGrades applies defaults and checks every record before anything is written
func normalizeGrades(req *dto.UploadGradesRequest, teacherID int64) ([]*models.Grade, error) {
	grades := make([]*models.Grade, 0, len(req.Grades))
	for i, rec := range req.Grades {
		if rec.Grade == nil {
			return nil, apperrors.NewFieldValidationError(fmt.Sprintf("grades[%d].grade", i), "grade is required")
		}

		maxGrade := models.DefaultMaxGrade
		if rec.MaxGrade != nil {
			maxGrade = *rec.MaxGrade
		}
		if maxGrade <= 0 {
			return nil, apperrors.NewFieldValidationError(fmt.Sprintf("grades[%d].maxGrade", i), "max grade must be positive")
		}
		if *rec.Grade < 0 || *rec.Grade > maxGrade {
			return nil, apperrors.NewFieldValidationError(fmt.Sprintf("grades[%d].grade", i),
				fmt.Sprintf("grade must be between 0 and %g", maxGrade))
		}

		gradeType := strings.TrimSpace(rec.GradeType)
		if gradeType == "" {
			gradeType = models.DefaultGradeType
		}

		grades = append(grades, &models.Grade{
			StudentID:   rec.StudentID,
			SubjectID:   req.SubjectID,
			ClassID:     req.ClassID,
			TeacherID:   teacherID,
			Grade:       *rec.Grade,
			MaxGrade:    maxGrade,
			GradeType:   gradeType,
			Description: helpers.NilIfBlank(rec.Description),
		})
	}
	return grades, nil
}

// Upload stores grades for a class and subject the teacher is scheduled for
func (s *GradeService) Upload(ctx context.Context, teacherID int64, req *dto.UploadGradesRequest) (*dto.BatchResult, error) {
	if err := s.authz.ValidateTeachingAssignment(ctx, teacherID, req.ClassID, req.SubjectID); err != nil {
		return nil, err
	}

	grades, err := normalizeGrades(req, teacherID)
	if err != nil {
		return nil, err
	}

	result := &dto.BatchResult{Results: make([]dto.RecordResult, 0, len(grades))}
	for _, g := range grades {
		enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, g.StudentID, g.ClassID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			result.Add(dto.RecordResult{StudentID: g.StudentID, Error: "student is not enrolled in this class"})
			continue
		}

		id, err := s.gradeRepo.Upsert(ctx, g)
		if err != nil {
			logger.Error().Err(err).Int64("studentID", g.StudentID).Msg("Error saving grade")
			result.Add(dto.RecordResult{StudentID: g.StudentID, Error: "failed to save grade"})
			continue
		}
		result.Add(dto.RecordResult{StudentID: g.StudentID, Success: true, ID: id})
	}

	return result, nil
}

// History lists grades of one class and subject, newest first
func (s *GradeService) History(ctx context.Context, teacherID, classID, subjectID int64) ([]*models.Grade, error) {
	if err := s.authz.ValidateTeachingAssignment(ctx, teacherID, classID, subjectID); err != nil {
		return nil, err
	}
	return s.gradeRepo.List(ctx, repositories.GradeFilter{ClassID: &classID, SubjectID: &subjectID})
}

// Delete removes a grade the teacher recorded
func (s *GradeService) Delete(ctx context.Context, teacherID, gradeID int64) error {
	grade, err := s.gradeRepo.GetByID(ctx, gradeID)
	if err != nil {
		return err
	}
	if grade.TeacherID != teacherID {
		return apperrors.NewForbiddenError("you can only delete grades you recorded")
	}
	return s.gradeRepo.Delete(ctx, gradeID)
}

// ListForStudent returns a student's grades, newest first
func (s *GradeService) ListForStudent(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	return s.gradeRepo.List(ctx, repositories.GradeFilter{StudentID: &studentID})
}

// Analytics summarizes performance and attendance of a class the teacher teaches
func (s *GradeService) Analytics(ctx context.Context, teacherID, classID int64) (*dto.ClassAnalytics, error) {
	if err := s.authz.ValidateTeachesClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}
	if _, err := s.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}

	students, err := s.enrollmentRepo.ListStudents(ctx, classID)
	if err != nil {
		return nil, err
	}
	grades, err := s.gradeRepo.List(ctx, repositories.GradeFilter{ClassID: &classID})
	if err != nil {
		return nil, err
	}
	attendance, err := s.attendanceRepo.CountByStatusForClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	analytics := ComputeClassAnalytics(classID, students, grades)
	analytics.AttendanceByStatus = attendance
	return analytics, nil
}

// LetterGrade maps a percentage to A..F
func LetterGrade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= models.PassPercentage:
		return "D"
	default:
		return "F"
	}
}

type runningMean struct {
	sum   float64
	count int
}

func (m *runningMean) add(v float64) {
	m.sum += v
	m.count++
}

func (m runningMean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// ComputeClassAnalytics derives the grade statistics of a class. Percentages are
// averaged per grade; pass rate and distribution are over students with at least one grade.
func ComputeClassAnalytics(classID int64, students []*models.User, grades []*models.Grade) *dto.ClassAnalytics {
	names := make(map[int64]string, len(students))
	for _, st := range students {
		names[st.ID] = st.Name
	}

	var overall runningMean
	perStudent := make(map[int64]*runningMean)
	perSubject := make(map[int64]*runningMean)
	subjectNames := make(map[int64]string)

	for _, g := range grades {
		if _, enrolled := names[g.StudentID]; !enrolled {
			continue
		}
		p := g.Percentage()
		overall.add(p)

		if perStudent[g.StudentID] == nil {
			perStudent[g.StudentID] = &runningMean{}
		}
		perStudent[g.StudentID].add(p)

		if perSubject[g.SubjectID] == nil {
			perSubject[g.SubjectID] = &runningMean{}
			subjectNames[g.SubjectID] = g.SubjectName
		}
		perSubject[g.SubjectID].add(p)
	}

	distribution := map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "F": 0}
	performers := make([]dto.StudentPerformance, 0, len(perStudent))
	passed := 0
	for id, m := range perStudent {
		avg := m.value()
		distribution[LetterGrade(avg)]++
		if avg >= models.PassPercentage {
			passed++
		}
		performers = append(performers, dto.StudentPerformance{
			StudentID:   id,
			StudentName: names[id],
			Average:     helpers.Round2(avg),
			GradeCount:  m.count,
		})
	}

	sort.Slice(performers, func(i, j int) bool {
		if performers[i].Average != performers[j].Average {
			return performers[i].Average > performers[j].Average
		}
		return performers[i].StudentID < performers[j].StudentID
	})
	if len(performers) > TopPerformerCount {
		performers = performers[:TopPerformerCount]
	}

	subjects := make([]dto.SubjectAverage, 0, len(perSubject))
	for id, m := range perSubject {
		subjects = append(subjects, dto.SubjectAverage{
			SubjectID:   id,
			SubjectName: subjectNames[id],
			Average:     helpers.Round2(m.value()),
			GradeCount:  m.count,
		})
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].SubjectName != subjects[j].SubjectName {
			return subjects[i].SubjectName < subjects[j].SubjectName
		}
		return subjects[i].SubjectID < subjects[j].SubjectID
	})

	passRate := 0.0
	if len(perStudent) > 0 {
		passRate = helpers.Round2(float64(passed) / float64(len(perStudent)) * 100)
	}

	return &dto.ClassAnalytics{
		ClassID:            classID,
		TotalStudents:      len(students),
		AverageGrade:       helpers.Round2(overall.value()),
		PassRate:           passRate,
		GradeDistribution:  distribution,
		SubjectAverages:    subjects,
		AttendanceByStatus: map[models.AttendanceStatus]int{},
		TopPerformers:      performers,
	}
}

// SubjectAverages averages a student's grade percentages per subject
func SubjectAverages(grades []*models.Grade) ([]dto.SubjectAverage, float64) {
	var overall runningMean
	perSubject := make(map[int64]*runningMean)
	order := make([]int64, 0)
	names := make(map[int64]string)

	for _, g := range grades {
		p := g.Percentage()
		overall.add(p)
		if perSubject[g.SubjectID] == nil {
			perSubject[g.SubjectID] = &runningMean{}
			names[g.SubjectID] = g.SubjectName
			order = append(order, g.SubjectID)
		}
		perSubject[g.SubjectID].add(p)
	}

	averages := make([]dto.SubjectAverage, 0, len(order))
	for _, id := range order {
		averages = append(averages, dto.SubjectAverage{
			SubjectID:   id,
			SubjectName: names[id],
			Average:     helpers.Round2(perSubject[id].value()),
			GradeCount:  perSubject[id].count,
		})
	}
	sort.SliceStable(averages, func(i, j int) bool { return averages[i].SubjectName < averages[j].SubjectName })

	return averages, helpers.Round2(overall.value())
}
