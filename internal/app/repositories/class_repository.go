package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/db"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/dberrors"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// IClassRepository defines the interface for class database operations
type IClassRepository interface {
	Create(ctx context.Context, class *models.Class) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	List(ctx context.Context) ([]*models.Class, error)
	ListForTeacher(ctx context.Context, teacherID int64) ([]*models.Class, error)
	ListForStudent(ctx context.Context, studentID int64) ([]*models.Class, error)
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
}

// ClassRepository handles class database operations
type ClassRepository struct {
	db *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) selectClassQuery() squirrel.SelectBuilder {
	return psql.Select(
		"c.id", "c.name", "c.grade_level", "c.teacher_id", "u.name AS teacher_name",
		"(SELECT COUNT(*) FROM enrollments e WHERE e.class_id = c.id) AS student_count",
		"c.created_at",
	).From("classes c").
		LeftJoin("users u ON u.id = c.teacher_id")
}

func scanClass(row pgx.Row) (*models.Class, error) {
	c := &models.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.GradeLevel, &c.TeacherID, &c.TeacherName, &c.StudentCount, &c.CreatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("class not found")
		}
		return nil, fmt.Errorf("error scanning class: %w", err)
	}
	return c, nil
}

func (r *ClassRepository) queryClasses(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Class, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building class query SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying classes: %w", err)
	}
	defer rows.Close()

	classes := make([]*models.Class, 0)
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func mapClassWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintClassesName):
		return apperrors.ErrClassNameExists
	case dberrors.IsForeignKeyViolation(err, ""):
		return apperrors.NewFieldValidationError("teacherId", "class teacher does not exist")
	}
	return fmt.Errorf("error writing class: %w", err)
}

// Create inserts a class
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO classes (name, grade_level, teacher_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		class.Name, class.GradeLevel, class.TeacherID).Scan(&id)
	if err != nil {
		return 0, mapClassWriteError(err)
	}
	return id, nil
}

// GetByID retrieves a class with its class teacher name and student count
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	sql, args, err := r.selectClassQuery().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get class SQL")
		return nil, err
	}
	return scanClass(r.db.QueryRow(ctx, sql, args...))
}

// List returns all classes ordered by grade level then name
func (r *ClassRepository) List(ctx context.Context) ([]*models.Class, error) {
	return r.queryClasses(ctx, r.selectClassQuery().OrderBy("c.grade_level", "c.name"))
}

// ListForTeacher returns classes the teacher is scheduled in or is class teacher of
func (r *ClassRepository) ListForTeacher(ctx context.Context, teacherID int64) ([]*models.Class, error) {
	query := r.selectClassQuery().
		Where(squirrel.Or{
			squirrel.Eq{"c.teacher_id": teacherID},
			squirrel.Expr("EXISTS (SELECT 1 FROM timetable t WHERE t.class_id = c.id AND t.teacher_id = ?)", teacherID),
		}).
		OrderBy("c.grade_level", "c.name")
	return r.queryClasses(ctx, query)
}

// ListForStudent returns the classes a student is enrolled in
func (r *ClassRepository) ListForStudent(ctx context.Context, studentID int64) ([]*models.Class, error) {
	query := r.selectClassQuery().
		Where(squirrel.Expr("EXISTS (SELECT 1 FROM enrollments e WHERE e.class_id = c.id AND e.student_id = ?)", studentID)).
		OrderBy("c.grade_level", "c.name")
	return r.queryClasses(ctx, query)
}

// Update replaces name, grade level and class teacher
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE classes SET name = $1, grade_level = $2, teacher_id = $3
		WHERE id = $4`,
		class.Name, class.GradeLevel, class.TeacherID, class.ID)
	if err != nil {
		return mapClassWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("class not found")
	}
	return nil
}

// Delete removes a class unless enrollments or timetable entries still reference it.
// The dependency check and the delete share one transaction with the class row locked.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM classes WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if dberrors.IsNoRows(err) {
				return apperrors.NewResourceNotFoundError("class not found")
			}
			return fmt.Errorf("error locking class: %w", err)
		}

		var enrollments, entries int
		err = tx.QueryRow(ctx, `
			SELECT
				(SELECT COUNT(*) FROM enrollments WHERE class_id = $1),
				(SELECT COUNT(*) FROM timetable WHERE class_id = $1)`,
			id).Scan(&enrollments, &entries)
		if err != nil {
			return fmt.Errorf("error counting class dependencies: %w", err)
		}

		if enrollments > 0 || entries > 0 {
			return apperrors.NewResourceInUseError(
				"cannot delete class with existing enrollments or timetable entries",
				map[string]interface{}{"enrollments": enrollments, "timetableEntries": entries},
			)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
			if dberrors.IsForeignKeyViolation(err, "") {
				return apperrors.NewResourceInUseError("class is still referenced", nil)
			}
			return fmt.Errorf("error deleting class: %w", err)
		}
		return nil
	})
}
