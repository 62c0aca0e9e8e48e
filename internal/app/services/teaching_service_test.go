package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

func floatPtr(v float64) *float64 { return &v }

// scheduledFixture has the teacher booked for math in class A with two enrolled students
func scheduledFixture(t *testing.T) (*scheduleFixture, *models.User) {
	t.Helper()
	f := newScheduleFixture()
	second := f.store.addUser("Zoe Student", models.RoleStudent)
	f.store.enroll(f.student.ID, f.classA.ID)
	f.store.enroll(second.ID, f.classA.ID)

	_, err := f.timetble.Create(f.ctx, identityOf(f.teacher), entryRequest(f.classA.ID, f.math.ID, "Monday", "09:00", "10:00"))
	require.NoError(t, err)
	return f, second
}

func TestTeachingOverview(t *testing.T) {
	f, _ := scheduledFixture(t)

	overview, err := f.svc.Teaching.Overview(f.ctx, f.teacher.ID)
	require.NoError(t, err)
	require.Len(t, overview.Classes, 1)
	assert.Equal(t, f.classA.ID, overview.Classes[0].ID)
	require.Len(t, overview.Subjects, 1)
	assert.Equal(t, "MATH", overview.Subjects[0].Code)

	subjects, err := f.svc.Teaching.SubjectsForClass(f.ctx, f.teacher.ID, f.classA.ID)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)

	students, err := f.svc.Teaching.StudentsInClass(f.ctx, f.teacher.ID, f.classA.ID)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	_, err = f.svc.Teaching.StudentsInClass(f.ctx, f.teacher.ID, f.classB.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	empty, err := f.svc.Teaching.Overview(f.ctx, f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Classes)
	assert.Empty(t, empty.Subjects)
}

func TestMarkAttendance(t *testing.T) {
	f, second := scheduledFixture(t)

	req := &dto.MarkAttendanceRequest{
		ClassID:   f.classA.ID,
		SubjectID: f.math.ID,
		Date:      "2024-03-15",
		Attendance: []dto.AttendanceRecordRequest{
			{StudentID: f.student.ID, Status: "present"},
			{StudentID: second.ID, Status: "late"},
			{StudentID: f.other.ID, Status: "present"},
			{StudentID: second.ID, Status: "asleep"},
		},
	}

	t.Run("unscheduled teacher is refused", func(t *testing.T) {
		_, err := f.svc.Attendance.Mark(f.ctx, f.other.ID, req)
		assert.ErrorIs(t, err, apperrors.ErrNotTeaching)
		assert.Empty(t, f.store.attendance)
	})

	t.Run("wrong subject is refused", func(t *testing.T) {
		other := *req
		other.SubjectID = f.physics.ID
		_, err := f.svc.Attendance.Mark(f.ctx, f.teacher.ID, &other)
		assert.ErrorIs(t, err, apperrors.ErrNotTeaching)
	})

	t.Run("records succeed or fail individually", func(t *testing.T) {
		res, err := f.svc.Attendance.Mark(f.ctx, f.teacher.ID, req)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Succeeded)
		assert.Equal(t, 2, res.Failed)
		assert.False(t, res.Results[2].Success)
		assert.Contains(t, res.Results[2].Error, "not enrolled")
		assert.Equal(t, "invalid attendance status", res.Results[3].Error)
	})

	t.Run("re-marking the same day replaces the mark", func(t *testing.T) {
		again := &dto.MarkAttendanceRequest{
			ClassID: f.classA.ID, SubjectID: f.math.ID, Date: "2024-03-15",
			Attendance: []dto.AttendanceRecordRequest{{StudentID: f.student.ID, Status: "absent"}},
		}
		_, err := f.svc.Attendance.Mark(f.ctx, f.teacher.ID, again)
		require.NoError(t, err)
		assert.Len(t, f.store.attendance, 2)

		records, err := f.svc.Student.Attendance(f.ctx, f.student.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, models.AttendanceAbsent, records[0].Status)
	})

	t.Run("bad date", func(t *testing.T) {
		bad := *req
		bad.Date = "15/03/2024"
		_, err := f.svc.Attendance.Mark(f.ctx, f.teacher.ID, &bad)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestSummarizeAttendance(t *testing.T) {
	records := []*models.Attendance{
		{Status: models.AttendancePresent},
		{Status: models.AttendanceLate},
		{Status: models.AttendanceAbsent},
		{Status: models.AttendanceExcused},
	}
	s := SummarizeAttendance(records)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Present)
	assert.Equal(t, 1, s.Late)
	assert.Equal(t, 1, s.Absent)
	assert.Equal(t, 1, s.Excused)
	assert.Equal(t, 50.0, s.Percentage)

	assert.Equal(t, dto.AttendanceSummary{}, SummarizeAttendance(nil))
}

func TestUploadGrades(t *testing.T) {
	f, second := scheduledFixture(t)

	t.Run("unscheduled teacher is refused", func(t *testing.T) {
		_, err := f.svc.Grade.Upload(f.ctx, f.other.ID, &dto.UploadGradesRequest{
			ClassID: f.classA.ID, SubjectID: f.math.ID,
			Grades: []dto.GradeRecordRequest{{StudentID: f.student.ID, Grade: floatPtr(80)}},
		})
		assert.ErrorIs(t, err, apperrors.ErrNotTeaching)
	})

	t.Run("out of range grade rejects the whole batch", func(t *testing.T) {
		_, err := f.svc.Grade.Upload(f.ctx, f.teacher.ID, &dto.UploadGradesRequest{
			ClassID: f.classA.ID, SubjectID: f.math.ID,
			Grades: []dto.GradeRecordRequest{
				{StudentID: f.student.ID, Grade: floatPtr(80)},
				{StudentID: second.ID, Grade: floatPtr(12), MaxGrade: floatPtr(10)},
			},
		})
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
		ce, _ := apperrors.AsCustom(err)
		assert.Equal(t, "grades[1].grade", ce.Details["field"])
		assert.Empty(t, f.store.grades)
	})

	t.Run("defaults and per-record enrollment", func(t *testing.T) {
		res, err := f.svc.Grade.Upload(f.ctx, f.teacher.ID, &dto.UploadGradesRequest{
			ClassID: f.classA.ID, SubjectID: f.math.ID,
			Grades: []dto.GradeRecordRequest{
				{StudentID: f.student.ID, Grade: floatPtr(92)},
				{StudentID: second.ID, Grade: floatPtr(7), MaxGrade: floatPtr(10), GradeType: "quiz"},
				{StudentID: f.other.ID, Grade: floatPtr(50)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Succeeded)
		assert.Equal(t, 1, res.Failed)

		history, err := f.svc.Grade.History(f.ctx, f.teacher.ID, f.classA.ID, f.math.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		byStudent := map[int64]*models.Grade{}
		for _, g := range history {
			byStudent[g.StudentID] = g
		}
		assert.Equal(t, models.DefaultMaxGrade, byStudent[f.student.ID].MaxGrade)
		assert.Equal(t, models.DefaultGradeType, byStudent[f.student.ID].GradeType)
		assert.Equal(t, "quiz", byStudent[second.ID].GradeType)
	})

	t.Run("delete only own grades", func(t *testing.T) {
		grades, err := f.svc.Student.Grades(f.ctx, f.student.ID)
		require.NoError(t, err)
		require.Len(t, grades, 1)

		assert.ErrorIs(t, f.svc.Grade.Delete(f.ctx, f.other.ID, grades[0].ID), apperrors.ErrPermissionDenied)
		require.NoError(t, f.svc.Grade.Delete(f.ctx, f.teacher.ID, grades[0].ID))
		assert.ErrorIs(t, f.svc.Grade.Delete(f.ctx, f.teacher.ID, grades[0].ID), apperrors.ErrResourceNotFound)
	})
}

func TestComputeClassAnalytics(t *testing.T) {
	students := []*models.User{
		{ID: 1, Name: "Ann"},
		{ID: 2, Name: "Ben"},
		{ID: 3, Name: "Cy"},
	}
	grades := []*models.Grade{
		{StudentID: 1, SubjectID: 10, SubjectName: "Math", Grade: 95, MaxGrade: 100},
		{StudentID: 1, SubjectID: 11, SubjectName: "Art", Grade: 17, MaxGrade: 20},
		{StudentID: 2, SubjectID: 10, SubjectName: "Math", Grade: 50, MaxGrade: 100},
		{StudentID: 99, SubjectID: 10, SubjectName: "Math", Grade: 0, MaxGrade: 100},
	}

	a := ComputeClassAnalytics(5, students, grades)
	assert.Equal(t, int64(5), a.ClassID)
	assert.Equal(t, 3, a.TotalStudents)
	assert.Equal(t, 76.67, a.AverageGrade)
	assert.Equal(t, 50.0, a.PassRate)
	assert.Equal(t, map[string]int{"A": 1, "B": 0, "C": 0, "D": 0, "F": 1}, a.GradeDistribution)

	require.Len(t, a.TopPerformers, 2)
	assert.Equal(t, "Ann", a.TopPerformers[0].StudentName)
	assert.Equal(t, 90.0, a.TopPerformers[0].Average)
	assert.Equal(t, 2, a.TopPerformers[0].GradeCount)

	require.Len(t, a.SubjectAverages, 2)
	assert.Equal(t, "Art", a.SubjectAverages[0].SubjectName)
	assert.Equal(t, 85.0, a.SubjectAverages[0].Average)
	assert.Equal(t, 72.5, a.SubjectAverages[1].Average)

	empty := ComputeClassAnalytics(5, nil, nil)
	assert.Zero(t, empty.AverageGrade)
	assert.Zero(t, empty.PassRate)
	assert.Empty(t, empty.TopPerformers)
}

func TestLetterGrade(t *testing.T) {
	cases := map[float64]string{100: "A", 90: "A", 89.99: "B", 80: "B", 75: "C", 60: "D", 59.9: "F", 0: "F"}
	for p, want := range cases {
		assert.Equal(t, want, LetterGrade(p), "percentage %v", p)
	}
}

func TestClassAnalyticsService(t *testing.T) {
	f, second := scheduledFixture(t)

	_, err := f.svc.Grade.Upload(f.ctx, f.teacher.ID, &dto.UploadGradesRequest{
		ClassID: f.classA.ID, SubjectID: f.math.ID,
		Grades: []dto.GradeRecordRequest{
			{StudentID: f.student.ID, Grade: floatPtr(70)},
			{StudentID: second.ID, Grade: floatPtr(90)},
		},
	})
	require.NoError(t, err)
	_, err = f.svc.Attendance.Mark(f.ctx, f.teacher.ID, &dto.MarkAttendanceRequest{
		ClassID: f.classA.ID, SubjectID: f.math.ID, Date: "2024-03-18",
		Attendance: []dto.AttendanceRecordRequest{
			{StudentID: f.student.ID, Status: "present"},
			{StudentID: second.ID, Status: "absent"},
		},
	})
	require.NoError(t, err)

	a, err := f.svc.Grade.Analytics(f.ctx, f.teacher.ID, f.classA.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, a.TotalStudents)
	assert.Equal(t, 80.0, a.AverageGrade)
	assert.Equal(t, 100.0, a.PassRate)
	assert.Equal(t, 1, a.AttendanceByStatus[models.AttendancePresent])
	assert.Equal(t, 1, a.AttendanceByStatus[models.AttendanceAbsent])
	assert.Equal(t, "Zoe Student", a.TopPerformers[0].StudentName)

	_, err = f.svc.Grade.Analytics(f.ctx, f.other.ID, f.classA.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestReportCard(t *testing.T) {
	f, _ := scheduledFixture(t)

	_, err := f.svc.Grade.Upload(f.ctx, f.teacher.ID, &dto.UploadGradesRequest{
		ClassID: f.classA.ID, SubjectID: f.math.ID,
		Grades: []dto.GradeRecordRequest{{StudentID: f.student.ID, Grade: floatPtr(45), MaxGrade: floatPtr(50)}},
	})
	require.NoError(t, err)

	card, err := f.svc.Student.ReportCard(f.ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, f.student.ID, card.Student.ID)
	require.Len(t, card.Classes, 1)
	assert.Equal(t, 90.0, card.OverallAverage)
	require.Len(t, card.SubjectAverages, 1)
	assert.Equal(t, "Mathematics", card.SubjectAverages[0].SubjectName)
	assert.Zero(t, card.Attendance.Total)

	_, err = f.svc.Student.ReportCard(f.ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
