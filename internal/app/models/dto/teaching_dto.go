package dto

import "github.com/yigit/schoolhub/internal/app/models"

// AttendanceRecordRequest is one student's mark
type AttendanceRecordRequest struct {
	StudentID int64   `json:"studentId" binding:"required,min=1"`
	Status    string  `json:"status" binding:"required,oneof=present absent late excused"`
	Notes     *string `json:"notes"`
}

// MarkAttendanceRequest marks a lesson for many students at once
type MarkAttendanceRequest struct {
	ClassID    int64                     `json:"classId" binding:"required,min=1"`
	SubjectID  int64                     `json:"subjectId" binding:"required,min=1"`
	Date       string                    `json:"date" binding:"required,datetime=2006-01-02" example:"2024-03-15"`
	Attendance []AttendanceRecordRequest `json:"attendance" binding:"required,min=1,dive"`
}

// GradeRecordRequest is one student's grade
type GradeRecordRequest struct {
	StudentID   int64    `json:"studentId" binding:"required,min=1"`
	Grade       *float64 `json:"grade" binding:"required"`
	MaxGrade    *float64 `json:"maxGrade"`
	GradeType   string   `json:"gradeType" binding:"omitempty,max=50"`
	Description *string  `json:"description"`
}

// UploadGradesRequest uploads grades for one class and subject
type UploadGradesRequest struct {
	ClassID   int64                `json:"classId" binding:"required,min=1"`
	SubjectID int64                `json:"subjectId" binding:"required,min=1"`
	Grades    []GradeRecordRequest `json:"grades" binding:"required,min=1,dive"`
}

// RecordResult reports the outcome of one record in a batch
type RecordResult struct {
	StudentID int64  `json:"studentId"`
	Success   bool   `json:"success"`
	ID        int64  `json:"id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchResult summarizes a batch write
type BatchResult struct {
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []RecordResult `json:"results"`
}

// Add appends a record outcome
func (b *BatchResult) Add(r RecordResult) {
	if r.Success {
		b.Succeeded++
	} else {
		b.Failed++
	}
	b.Results = append(b.Results, r)
}

// TeachingOverview lists what a teacher can mark and grade
type TeachingOverview struct {
	Classes  []*models.Class   `json:"classes"`
	Subjects []*models.Subject `json:"subjects"`
}

// StudentSummary is a student row inside a class
type StudentSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubjectAverage is the mean percentage for one subject
type SubjectAverage struct {
	SubjectID   int64   `json:"subjectId"`
	SubjectName string  `json:"subjectName"`
	Average     float64 `json:"average"`
	GradeCount  int     `json:"gradeCount"`
}

// StudentPerformance is one student's mean percentage
type StudentPerformance struct {
	StudentID   int64   `json:"studentId"`
	StudentName string  `json:"studentName"`
	Average     float64 `json:"average"`
	GradeCount  int     `json:"gradeCount"`
}

// ClassAnalytics is the teacher's performance view of a class
type ClassAnalytics struct {
	ClassID            int64                           `json:"classId"`
	TotalStudents      int                             `json:"totalStudents"`
	AverageGrade       float64                         `json:"averageGrade"`
	PassRate           float64                         `json:"passRate"`
	GradeDistribution  map[string]int                  `json:"gradeDistribution"`
	SubjectAverages    []SubjectAverage                `json:"subjectAverages"`
	AttendanceByStatus map[models.AttendanceStatus]int `json:"attendanceByStatus"`
	TopPerformers      []StudentPerformance            `json:"topPerformers"`
}
