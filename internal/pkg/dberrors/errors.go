package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes we react to
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
	ExclusionViolation  = "23P01"
)

// Constraint names declared in migrations
const (
	ConstraintUsersEmail          = "users_email_key"
	ConstraintClassesName         = "classes_name_key"
	ConstraintSubjectsCode        = "subjects_code_key"
	ConstraintEnrollmentsUnique   = "enrollments_student_class_key"
	ConstraintTimetableNoOverlap  = "timetable_no_teacher_overlap"
	ConstraintEnrollmentsClassFK  = "enrollments_class_id_fkey"
	ConstraintTimetableClassFK    = "timetable_class_id_fkey"
	ConstraintTimetableSubjectFK  = "timetable_subject_id_fkey"
	ConstraintClassesGradeLevelCk = "classes_grade_level_check"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == UniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation checks for any unique violation
func IsUniqueViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == UniqueViolation
}

// IsExclusionViolation checks for an exclusion constraint violation on the named constraint
func IsExclusionViolation(err error, constraintName string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == ExclusionViolation && pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation checks for a foreign key violation on the named constraint.
// An empty constraint name matches any foreign key violation.
func IsForeignKeyViolation(err error, constraintName string) bool {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != ForeignKeyViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsNoRows reports whether a QueryRow found nothing
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
