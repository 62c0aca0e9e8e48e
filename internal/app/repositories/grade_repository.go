package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/dberrors"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// GradeFilter narrows a grade listing. Nil fields are ignored.
type GradeFilter struct {
	StudentID *int64
	ClassID   *int64
	SubjectID *int64
}

// IGradeRepository defines the interface for grade database operations
type IGradeRepository interface {
	Upsert(ctx context.Context, g *models.Grade) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Grade, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter GradeFilter) ([]*models.Grade, error)
}

// GradeRepository handles grade database operations
type GradeRepository struct {
	db *pgxpool.Pool
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{db: db}
}

func (r *GradeRepository) selectGradeQuery() squirrel.SelectBuilder {
	return psql.Select(
		"g.id", "g.student_id", "g.subject_id", "g.class_id", "g.teacher_id",
		"g.grade", "g.max_grade", "g.grade_type", "g.description", "g.created_at", "g.updated_at",
		"st.name", "s.name", "s.code", "c.name", "t.name",
	).From("grades g").
		Join("users st ON st.id = g.student_id").
		Join("subjects s ON s.id = g.subject_id").
		Join("classes c ON c.id = g.class_id").
		Join("users t ON t.id = g.teacher_id")
}

func scanGrade(row pgx.Row) (*models.Grade, error) {
	g := &models.Grade{}
	err := row.Scan(&g.ID, &g.StudentID, &g.SubjectID, &g.ClassID, &g.TeacherID,
		&g.Grade, &g.MaxGrade, &g.GradeType, &g.Description, &g.CreatedAt, &g.UpdatedAt,
		&g.StudentName, &g.SubjectName, &g.SubjectCode, &g.ClassName, &g.TeacherName)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("grade not found")
		}
		return nil, fmt.Errorf("error scanning grade: %w", err)
	}
	return g, nil
}

// Upsert stores a grade; one grade per student, subject, class and teacher
func (r *GradeRepository) Upsert(ctx context.Context, g *models.Grade) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO grades (student_id, subject_id, class_id, teacher_id, grade, max_grade, grade_type, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (student_id, subject_id, class_id, teacher_id)
		DO UPDATE SET grade = EXCLUDED.grade,
		              max_grade = EXCLUDED.max_grade,
		              grade_type = EXCLUDED.grade_type,
		              description = EXCLUDED.description,
		              updated_at = NOW()
		RETURNING id`,
		g.StudentID, g.SubjectID, g.ClassID, g.TeacherID, g.Grade, g.MaxGrade, g.GradeType, g.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error saving grade: %w", err)
	}
	return id, nil
}

// GetByID retrieves a grade
func (r *GradeRepository) GetByID(ctx context.Context, id int64) (*models.Grade, error) {
	sql, args, err := r.selectGradeQuery().Where(squirrel.Eq{"g.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get grade SQL")
		return nil, err
	}
	return scanGrade(r.db.QueryRow(ctx, sql, args...))
}

// Delete removes a grade
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("grade not found")
	}
	return nil
}

// List returns grades newest first
func (r *GradeRepository) List(ctx context.Context, filter GradeFilter) ([]*models.Grade, error) {
	query := r.selectGradeQuery().OrderBy("g.created_at DESC", "g.id DESC")
	if filter.StudentID != nil {
		query = query.Where(squirrel.Eq{"g.student_id": *filter.StudentID})
	}
	if filter.ClassID != nil {
		query = query.Where(squirrel.Eq{"g.class_id": *filter.ClassID})
	}
	if filter.SubjectID != nil {
		query = query.Where(squirrel.Eq{"g.subject_id": *filter.SubjectID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list grades SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing grades: %w", err)
	}
	defer rows.Close()

	grades := make([]*models.Grade, 0)
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}
