package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRole is returned when a role string is not one of the known roles
var ErrInvalidRole = errors.New("invalid role")

// Role defines the user role. The set is closed: student, teacher, admin.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Roles returns every known role
func Roles() []Role {
	return []Role{RoleStudent, RoleTeacher, RoleAdmin}
}

// ParseRole converts an external string to a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// AttendanceStatus is the outcome recorded for a student in one lesson
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceStatuses lists statuses in reporting order
func AttendanceStatuses() []AttendanceStatus {
	return []AttendanceStatus{AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused}
}

// Valid reports whether s is a known status
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Grade level bounds for classes
const (
	MinGradeLevel = 1
	MaxGradeLevel = 12
)

// Defaults applied to uploaded grades
const (
	DefaultMaxGrade  = 100.0
	DefaultGradeType = "assignment"
	PassPercentage   = 60.0
)
