package dto

import "github.com/yigit/schoolhub/internal/app/models"

// AttendanceSummary counts marks by status
type AttendanceSummary struct {
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	Excused    int     `json:"excused"`
	Percentage float64 `json:"percentage"`
}

// Count tallies one mark
func (s *AttendanceSummary) Count(status models.AttendanceStatus) {
	s.Total++
	switch status {
	case models.AttendancePresent:
		s.Present++
	case models.AttendanceAbsent:
		s.Absent++
	case models.AttendanceLate:
		s.Late++
	case models.AttendanceExcused:
		s.Excused++
	}
}

// ReportCard is the JSON report card for one student
type ReportCard struct {
	Student         UserResponse      `json:"student"`
	Classes         []*models.Class   `json:"classes"`
	SubjectAverages []SubjectAverage  `json:"subjectAverages"`
	OverallAverage  float64           `json:"overallAverage"`
	Grades          []*models.Grade   `json:"grades"`
	Attendance      AttendanceSummary `json:"attendance"`
}
