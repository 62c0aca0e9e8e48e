package repositories

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql builds dollar-placeholder statements for PostgreSQL
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       IUserRepository
	ClassRepository      IClassRepository
	SubjectRepository    ISubjectRepository
	EnrollmentRepository IEnrollmentRepository
	TimetableRepository  ITimetableRepository
	AttendanceRepository IAttendanceRepository
	GradeRepository      IGradeRepository
}

// NewRepositories initializes all repositories on a shared pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		ClassRepository:      NewClassRepository(db),
		SubjectRepository:    NewSubjectRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		TimetableRepository:  NewTimetableRepository(db),
		AttendanceRepository: NewAttendanceRepository(db),
		GradeRepository:      NewGradeRepository(db),
	}
}

// prefixed qualifies a comma separated column list with a table alias
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

var (
	_ IUserRepository       = (*UserRepository)(nil)
	_ IClassRepository      = (*ClassRepository)(nil)
	_ ISubjectRepository    = (*SubjectRepository)(nil)
	_ IEnrollmentRepository = (*EnrollmentRepository)(nil)
	_ ITimetableRepository  = (*TimetableRepository)(nil)
	_ IAttendanceRepository = (*AttendanceRepository)(nil)
	_ IGradeRepository      = (*GradeRepository)(nil)
)
