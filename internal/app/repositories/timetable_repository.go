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
	"github.com/yigit/schoolhub/internal/pkg/schedule"
)

// ConflictCheck inspects the other entries of the candidate's teacher on the candidate's day.
// A non-nil error aborts the write.
type ConflictCheck func(existing []*models.TimetableEntry) error

// TimetableFilter narrows a timetable listing. Nil fields are ignored.
type TimetableFilter struct {
	TeacherID *int64
	ClassID   *int64
	StudentID *int64
}

// ITimetableRepository defines the interface for timetable database operations
type ITimetableRepository interface {
	GetByID(ctx context.Context, id int64) (*models.TimetableEntry, error)
	List(ctx context.Context, filter TimetableFilter) ([]*models.TimetableEntry, error)
	CreateChecked(ctx context.Context, entry *models.TimetableEntry, check ConflictCheck) (int64, error)
	UpdateChecked(ctx context.Context, entry *models.TimetableEntry, check ConflictCheck) error
	Delete(ctx context.Context, id int64) error
	TeachesSubjectInClass(ctx context.Context, teacherID, classID, subjectID int64) (bool, error)
	TeachesClass(ctx context.Context, teacherID, classID int64) (bool, error)
}

// TimetableRepository handles timetable database operations
type TimetableRepository struct {
	db *pgxpool.Pool
}

// NewTimetableRepository creates a new TimetableRepository
func NewTimetableRepository(db *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{db: db}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

const weekOrder = "array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday']::varchar[], t.day_of_week)"

func (r *TimetableRepository) selectEntryQuery() squirrel.SelectBuilder {
	return psql.Select(
		"t.id", "t.class_id", "t.subject_id", "t.teacher_id", "t.day_of_week",
		"to_char(t.start_time, 'HH24:MI')", "to_char(t.end_time, 'HH24:MI')", "t.room",
		"c.name", "c.grade_level", "s.name", "s.code", "u.name",
	).From("timetable t").
		Join("classes c ON c.id = t.class_id").
		Join("subjects s ON s.id = t.subject_id").
		Join("users u ON u.id = t.teacher_id")
}

func scanEntry(row pgx.Row) (*models.TimetableEntry, error) {
	e := &models.TimetableEntry{}
	var day, start, end string
	err := row.Scan(&e.ID, &e.ClassID, &e.SubjectID, &e.TeacherID, &day, &start, &end, &e.Room,
		&e.ClassName, &e.GradeLevel, &e.SubjectName, &e.SubjectCode, &e.TeacherName)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("timetable entry not found")
		}
		return nil, fmt.Errorf("error scanning timetable entry: %w", err)
	}

	if e.DayOfWeek, err = schedule.ParseWeekday(day); err != nil {
		return nil, fmt.Errorf("timetable entry %d: %w", e.ID, err)
	}
	if e.StartTime, err = schedule.ParseClock(start); err != nil {
		return nil, fmt.Errorf("timetable entry %d: %w", e.ID, err)
	}
	if e.EndTime, err = schedule.ParseClock(end); err != nil {
		return nil, fmt.Errorf("timetable entry %d: %w", e.ID, err)
	}
	return e, nil
}

func (r *TimetableRepository) queryEntries(ctx context.Context, q querier, query squirrel.SelectBuilder) ([]*models.TimetableEntry, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building timetable query SQL")
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying timetable: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.TimetableEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetByID retrieves one entry with class, subject and teacher names
func (r *TimetableRepository) GetByID(ctx context.Context, id int64) (*models.TimetableEntry, error) {
	sql, args, err := r.selectEntryQuery().Where(squirrel.Eq{"t.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get timetable entry SQL")
		return nil, err
	}
	return scanEntry(r.db.QueryRow(ctx, sql, args...))
}

// List returns entries in week order
func (r *TimetableRepository) List(ctx context.Context, filter TimetableFilter) ([]*models.TimetableEntry, error) {
	query := r.selectEntryQuery()
	if filter.TeacherID != nil {
		query = query.Where(squirrel.Eq{"t.teacher_id": *filter.TeacherID})
	}
	if filter.ClassID != nil {
		query = query.Where(squirrel.Eq{"t.class_id": *filter.ClassID})
	}
	if filter.StudentID != nil {
		query = query.Where("t.class_id IN (SELECT class_id FROM enrollments WHERE student_id = ?)", *filter.StudentID)
	}
	query = query.OrderBy("t.teacher_id", weekOrder, "t.start_time", "t.id")
	return r.queryEntries(ctx, r.db, query)
}

// sameTeacherDay loads the teacher's other entries on day, excluding excludeID
func (r *TimetableRepository) sameTeacherDay(ctx context.Context, tx pgx.Tx, teacherID int64, day schedule.Weekday, excludeID int64) ([]*models.TimetableEntry, error) {
	query := r.selectEntryQuery().
		Where(squirrel.Eq{"t.teacher_id": teacherID, "t.day_of_week": day.String()}).
		Where(squirrel.NotEq{"t.id": excludeID}).
		OrderBy("t.start_time")
	return r.queryEntries(ctx, tx, query)
}

// lockTeacher serializes schedule writes for one teacher until the transaction ends
func lockTeacher(ctx context.Context, tx pgx.Tx, teacherID int64) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, teacherID); err != nil {
		return fmt.Errorf("error locking teacher schedule: %w", err)
	}
	return nil
}

func mapTimetableWriteError(err error) error {
	switch {
	case dberrors.IsExclusionViolation(err, dberrors.ConstraintTimetableNoOverlap):
		return apperrors.NewScheduleConflictError(nil)
	case dberrors.IsForeignKeyViolation(err, dberrors.ConstraintTimetableClassFK):
		return apperrors.NewResourceNotFoundError("class not found")
	case dberrors.IsForeignKeyViolation(err, dberrors.ConstraintTimetableSubjectFK):
		return apperrors.NewResourceNotFoundError("subject not found")
	case dberrors.IsForeignKeyViolation(err, ""):
		return apperrors.NewResourceNotFoundError("teacher not found")
	}
	return fmt.Errorf("error writing timetable entry: %w", err)
}

// CreateChecked runs check against the teacher's entries for the day and inserts the entry,
// all inside one transaction holding the teacher's schedule lock
func (r *TimetableRepository) CreateChecked(ctx context.Context, entry *models.TimetableEntry, check ConflictCheck) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockTeacher(ctx, tx, entry.TeacherID); err != nil {
			return err
		}

		existing, err := r.sameTeacherDay(ctx, tx, entry.TeacherID, entry.DayOfWeek, 0)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}

		sql, args, err := psql.Insert("timetable").
			Columns("class_id", "subject_id", "teacher_id", "day_of_week", "start_time", "end_time", "room").
			Values(entry.ClassID, entry.SubjectID, entry.TeacherID, entry.DayOfWeek.String(),
				squirrel.Expr("?::time", entry.StartTime.String()),
				squirrel.Expr("?::time", entry.EndTime.String()),
				entry.Room).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create timetable entry SQL")
			return err
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return mapTimetableWriteError(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateChecked is CreateChecked for an existing entry; the entry itself is excluded from the check
func (r *TimetableRepository) UpdateChecked(ctx context.Context, entry *models.TimetableEntry, check ConflictCheck) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockTeacher(ctx, tx, entry.TeacherID); err != nil {
			return err
		}

		existing, err := r.sameTeacherDay(ctx, tx, entry.TeacherID, entry.DayOfWeek, entry.ID)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}

		sql, args, err := psql.Update("timetable").
			Set("class_id", entry.ClassID).
			Set("subject_id", entry.SubjectID).
			Set("teacher_id", entry.TeacherID).
			Set("day_of_week", entry.DayOfWeek.String()).
			Set("start_time", squirrel.Expr("?::time", entry.StartTime.String())).
			Set("end_time", squirrel.Expr("?::time", entry.EndTime.String())).
			Set("room", entry.Room).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": entry.ID}).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building update timetable entry SQL")
			return err
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return mapTimetableWriteError(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("timetable entry not found")
		}
		return nil
	})
}

// Delete removes an entry
func (r *TimetableRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM timetable WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting timetable entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("timetable entry not found")
	}
	return nil
}

// TeachesSubjectInClass reports whether the teacher has an entry for the class and subject
func (r *TimetableRepository) TeachesSubjectInClass(ctx context.Context, teacherID, classID, subjectID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM timetable
			WHERE teacher_id = $1 AND class_id = $2 AND subject_id = $3)`,
		teacherID, classID, subjectID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking teaching assignment: %w", err)
	}
	return exists, nil
}

// TeachesClass reports whether the teacher is scheduled in the class or is its class teacher
func (r *TimetableRepository) TeachesClass(ctx context.Context, teacherID, classID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM timetable WHERE teacher_id = $1 AND class_id = $2)
			OR EXISTS(SELECT 1 FROM classes WHERE id = $2 AND teacher_id = $1)`,
		teacherID, classID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking class assignment: %w", err)
	}
	return exists, nil
}
