package services

import (
	appauth "github.com/yigit/schoolhub/internal/app/auth"
	"github.com/yigit/schoolhub/internal/app/repositories"
)

// Services holds every service instance wired to its repositories
type Services struct {
	Auth          *AuthService
	User          *UserService
	Class         *ClassService
	Subject       *SubjectService
	Enrollment    *EnrollmentService
	Timetable     *TimetableService
	Teaching      *TeachingService
	Attendance    *AttendanceService
	Grade         *GradeService
	Student       *StudentService
	Authorization *appauth.AuthorizationService
}

// NewServices builds the service graph
func NewServices(repos *repositories.Repositories, sessions SessionIssuer) *Services {
	authz := appauth.NewAuthorizationService(repos.TimetableRepository)

	timetable := NewTimetableService(repos.TimetableRepository, repos.ClassRepository, repos.SubjectRepository, repos.UserRepository, authz)
	grades := NewGradeService(repos.GradeRepository, repos.EnrollmentRepository, repos.AttendanceRepository, repos.ClassRepository, authz)
	attendance := NewAttendanceService(repos.AttendanceRepository, repos.EnrollmentRepository, authz)

	return &Services{
		Auth:          NewAuthService(repos.UserRepository, sessions),
		User:          NewUserService(repos.UserRepository),
		Class:         NewClassService(repos.ClassRepository, repos.UserRepository),
		Subject:       NewSubjectService(repos.SubjectRepository),
		Enrollment:    NewEnrollmentService(repos.EnrollmentRepository, repos.UserRepository, repos.ClassRepository),
		Timetable:     timetable,
		Teaching:      NewTeachingService(repos.ClassRepository, repos.SubjectRepository, repos.EnrollmentRepository, authz),
		Attendance:    attendance,
		Grade:         grades,
		Student:       NewStudentService(repos.UserRepository, repos.ClassRepository, timetable, attendance, grades),
		Authorization: authz,
	}
}
