package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/dberrors"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// EnrollmentFilter narrows an enrollment listing
type EnrollmentFilter struct {
	ClassID   *int64
	StudentID *int64
}

// IEnrollmentRepository defines the interface for enrollment database operations
type IEnrollmentRepository interface {
	Create(ctx context.Context, studentID, classID int64) (*models.Enrollment, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter EnrollmentFilter) ([]*models.Enrollment, error)
	IsEnrolled(ctx context.Context, studentID, classID int64) (bool, error)
	ListStudents(ctx context.Context, classID int64) ([]*models.User, error)
}

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create enrolls a student; a second enrollment in the same class is a conflict
func (r *EnrollmentRepository) Create(ctx context.Context, studentID, classID int64) (*models.Enrollment, error) {
	e := &models.Enrollment{StudentID: studentID, ClassID: classID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO enrollments (student_id, class_id)
		VALUES ($1, $2)
		RETURNING id, enrolled_at`,
		studentID, classID).Scan(&e.ID, &e.EnrolledAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintEnrollmentsUnique):
			return nil, apperrors.ErrDuplicateEnrollment
		case dberrors.IsForeignKeyViolation(err, dberrors.ConstraintEnrollmentsClassFK):
			return nil, apperrors.NewResourceNotFoundError("class not found")
		case dberrors.IsForeignKeyViolation(err, ""):
			return nil, apperrors.NewResourceNotFoundError("student not found")
		}
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}
	return e, nil
}

// Delete removes an enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("enrollment not found")
	}
	return nil
}

// List returns enrollments with student and class names, newest first
func (r *EnrollmentRepository) List(ctx context.Context, filter EnrollmentFilter) ([]*models.Enrollment, error) {
	query := psql.Select(
		"e.id", "e.student_id", "e.class_id", "e.enrolled_at",
		"u.name", "u.email", "c.name", "c.grade_level",
	).From("enrollments e").
		Join("users u ON u.id = e.student_id").
		Join("classes c ON c.id = e.class_id").
		OrderBy("e.enrolled_at DESC", "e.id DESC")

	if filter.ClassID != nil {
		query = query.Where(squirrel.Eq{"e.class_id": *filter.ClassID})
	}
	if filter.StudentID != nil {
		query = query.Where(squirrel.Eq{"e.student_id": *filter.StudentID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list enrollments SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		e := &models.Enrollment{}
		if err := rows.Scan(&e.ID, &e.StudentID, &e.ClassID, &e.EnrolledAt,
			&e.StudentName, &e.StudentMail, &e.ClassName, &e.GradeLevel); err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// IsEnrolled reports whether the student belongs to the class
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, studentID, classID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2)`,
		studentID, classID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// ListStudents returns the students enrolled in a class ordered by name
func (r *EnrollmentRepository) ListStudents(ctx context.Context, classID int64) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+prefixed("u", userColumns)+`
		FROM users u
		JOIN enrollments e ON e.student_id = u.id
		WHERE e.class_id = $1 AND u.role = 'student'
		ORDER BY u.name`, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing class students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, u)
	}
	return students, rows.Err()
}
