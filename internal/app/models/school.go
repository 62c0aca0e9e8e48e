package models

import (
	"time"

	"github.com/yigit/schoolhub/internal/pkg/schedule"
)

// Class defines a homeroom class based on the 'classes' table
type Class struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Name         string    `json:"name" db:"name" example:"10-A"`
	GradeLevel   int       `json:"gradeLevel" db:"grade_level" example:"10"`
	TeacherID    *int64    `json:"teacherId,omitempty" db:"teacher_id"` // class teacher, nullable
	TeacherName  *string   `json:"teacherName,omitempty"`
	StudentCount int       `json:"studentCount"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Subject defines a taught subject based on the 'subjects' table
type Subject struct {
	ID          int64   `json:"id" db:"id" example:"1"`
	Name        string  `json:"name" db:"name" example:"Mathematics"`
	Code        string  `json:"code" db:"code" example:"MATH"`
	Description *string `json:"description,omitempty" db:"description"`
}

// Enrollment links a student to a class
type Enrollment struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	ClassID     int64     `json:"classId" db:"class_id"`
	EnrolledAt  time.Time `json:"enrolledAt" db:"enrolled_at"`
	StudentName string    `json:"studentName,omitempty"`
	StudentMail string    `json:"studentEmail,omitempty"`
	ClassName   string    `json:"className,omitempty"`
	GradeLevel  int       `json:"gradeLevel,omitempty"`
}

// TimetableEntry is one weekly lesson slot based on the 'timetable' table
type TimetableEntry struct {
	ID        int64            `json:"id" db:"id"`
	ClassID   int64            `json:"classId" db:"class_id"`
	SubjectID int64            `json:"subjectId" db:"subject_id"`
	TeacherID int64            `json:"teacherId" db:"teacher_id"`
	DayOfWeek schedule.Weekday `json:"dayOfWeek" db:"day_of_week" swaggertype:"string" example:"Monday"`
	StartTime schedule.Clock   `json:"startTime" db:"start_time" swaggertype:"string" example:"09:00"`
	EndTime   schedule.Clock   `json:"endTime" db:"end_time" swaggertype:"string" example:"10:00"`
	Room      *string          `json:"room,omitempty" db:"room"`

	ClassName   string `json:"className,omitempty"`
	GradeLevel  int    `json:"gradeLevel,omitempty"`
	SubjectName string `json:"subjectName,omitempty"`
	SubjectCode string `json:"subjectCode,omitempty"`
	TeacherName string `json:"teacherName,omitempty"`
}

// Slot returns the scheduling view of the entry
func (e *TimetableEntry) Slot() schedule.Slot {
	return schedule.Slot{
		ID:        e.ID,
		TeacherID: e.TeacherID,
		Day:       e.DayOfWeek,
		Interval:  schedule.Interval{Start: e.StartTime, End: e.EndTime},
	}
}

// Attendance is one attendance mark based on the 'attendance' table
type Attendance struct {
	ID          int64            `json:"id" db:"id"`
	StudentID   int64            `json:"studentId" db:"student_id"`
	ClassID     int64            `json:"classId" db:"class_id"`
	SubjectID   int64            `json:"subjectId" db:"subject_id"`
	TeacherID   int64            `json:"teacherId" db:"teacher_id"`
	Date        time.Time        `json:"date" db:"date"`
	Status      AttendanceStatus `json:"status" db:"status"`
	Notes       *string          `json:"notes,omitempty" db:"notes"`
	SubjectName string           `json:"subjectName,omitempty"`
	ClassName   string           `json:"className,omitempty"`
	TeacherName string           `json:"teacherName,omitempty"`
}

// Grade is one graded piece of work based on the 'grades' table
type Grade struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	SubjectID   int64     `json:"subjectId" db:"subject_id"`
	ClassID     int64     `json:"classId" db:"class_id"`
	TeacherID   int64     `json:"teacherId" db:"teacher_id"`
	Grade       float64   `json:"grade" db:"grade"`
	MaxGrade    float64   `json:"maxGrade" db:"max_grade"`
	GradeType   string    `json:"gradeType" db:"grade_type"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	StudentName string `json:"studentName,omitempty"`
	SubjectName string `json:"subjectName,omitempty"`
	SubjectCode string `json:"subjectCode,omitempty"`
	ClassName   string `json:"className,omitempty"`
	TeacherName string `json:"teacherName,omitempty"`
}

// Percentage returns the grade as a percentage of its maximum
func (g *Grade) Percentage() float64 {
	if g.MaxGrade <= 0 {
		return 0
	}
	return g.Grade / g.MaxGrade * 100
}
