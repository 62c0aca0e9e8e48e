package dto

import "github.com/yigit/schoolhub/internal/app/models"

// TimetableEntryRequest creates or replaces a timetable entry.
// TeacherID is honoured for admins only; teachers always schedule themselves.
type TimetableEntryRequest struct {
	ClassID   int64   `json:"classId" binding:"required,min=1" example:"1"`
	SubjectID int64   `json:"subjectId" binding:"required,min=1" example:"2"`
	TeacherID int64   `json:"teacherId" binding:"omitempty,min=1" example:"5"`
	DayOfWeek string  `json:"dayOfWeek" binding:"required,weekday" example:"Monday"`
	StartTime string  `json:"startTime" binding:"required,clock" example:"09:00"`
	EndTime   string  `json:"endTime" binding:"required,clock" example:"10:00"`
	Room      *string `json:"room" example:"B12"`
}

// TeacherAssignments groups the timetable of one teacher
type TeacherAssignments struct {
	TeacherID   int64                    `json:"teacherId"`
	TeacherName string                   `json:"teacherName"`
	Entries     []*models.TimetableEntry `json:"entries"`
}
