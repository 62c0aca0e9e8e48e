package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/dberrors"
)

// ISubjectRepository defines the interface for subject database operations
type ISubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	List(ctx context.Context) ([]*models.Subject, error)
	ListForTeacher(ctx context.Context, teacherID int64) ([]*models.Subject, error)
	ListForTeacherInClass(ctx context.Context, teacherID, classID int64) ([]*models.Subject, error)
}

// SubjectRepository handles subject database operations
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func scanSubject(row pgx.Row) (*models.Subject, error) {
	s := &models.Subject{}
	if err := row.Scan(&s.ID, &s.Name, &s.Code, &s.Description); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("subject not found")
		}
		return nil, fmt.Errorf("error scanning subject: %w", err)
	}
	return s, nil
}

func (r *SubjectRepository) querySubjects(ctx context.Context, sql string, args ...interface{}) ([]*models.Subject, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]*models.Subject, 0)
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// Create inserts a subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO subjects (name, code, description)
		VALUES ($1, $2, $3)
		RETURNING id`,
		subject.Name, subject.Code, subject.Description).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintSubjectsCode) {
			return 0, apperrors.ErrSubjectCodeExists
		}
		return 0, fmt.Errorf("error creating subject: %w", err)
	}
	return id, nil
}

// GetByID retrieves a subject
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	return scanSubject(r.db.QueryRow(ctx, `SELECT id, name, code, description FROM subjects WHERE id = $1`, id))
}

// List returns all subjects ordered by name
func (r *SubjectRepository) List(ctx context.Context) ([]*models.Subject, error) {
	return r.querySubjects(ctx, `SELECT id, name, code, description FROM subjects ORDER BY name`)
}

// ListForTeacher returns subjects the teacher has timetable entries for
func (r *SubjectRepository) ListForTeacher(ctx context.Context, teacherID int64) ([]*models.Subject, error) {
	return r.querySubjects(ctx, `
		SELECT s.id, s.name, s.code, s.description
		FROM subjects s
		WHERE EXISTS (SELECT 1 FROM timetable t WHERE t.subject_id = s.id AND t.teacher_id = $1)
		ORDER BY s.name`, teacherID)
}

// ListForTeacherInClass returns subjects the teacher teaches in one class
func (r *SubjectRepository) ListForTeacherInClass(ctx context.Context, teacherID, classID int64) ([]*models.Subject, error) {
	return r.querySubjects(ctx, `
		SELECT s.id, s.name, s.code, s.description
		FROM subjects s
		WHERE EXISTS (
			SELECT 1 FROM timetable t
			WHERE t.subject_id = s.id AND t.teacher_id = $1 AND t.class_id = $2)
		ORDER BY s.name`, teacherID, classID)
}
