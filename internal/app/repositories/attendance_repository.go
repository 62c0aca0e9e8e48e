package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolhub/internal/app/models"
)

// IAttendanceRepository defines the interface for attendance database operations
type IAttendanceRepository interface {
	Upsert(ctx context.Context, a *models.Attendance) (int64, error)
	ListForStudent(ctx context.Context, studentID int64, limit int) ([]*models.Attendance, error)
	CountByStatusForClass(ctx context.Context, classID int64) (map[models.AttendanceStatus]int, error)
}

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert records a mark; re-marking the same student, class, subject and date replaces it
func (r *AttendanceRepository) Upsert(ctx context.Context, a *models.Attendance) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO attendance (student_id, class_id, subject_id, teacher_id, date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (student_id, class_id, subject_id, date)
		DO UPDATE SET status = EXCLUDED.status,
		              notes = EXCLUDED.notes,
		              teacher_id = EXCLUDED.teacher_id,
		              updated_at = NOW()
		RETURNING id`,
		a.StudentID, a.ClassID, a.SubjectID, a.TeacherID, a.Date, string(a.Status), a.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error saving attendance: %w", err)
	}
	return id, nil
}

// ListForStudent returns the newest marks first; limit 0 means all
func (r *AttendanceRepository) ListForStudent(ctx context.Context, studentID int64, limit int) ([]*models.Attendance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.student_id, a.class_id, a.subject_id, a.teacher_id, a.date, a.status, a.notes,
		       s.name, c.name, u.name
		FROM attendance a
		JOIN subjects s ON s.id = a.subject_id
		JOIN classes c ON c.id = a.class_id
		JOIN users u ON u.id = a.teacher_id
		WHERE a.student_id = $1
		ORDER BY a.date DESC, a.id DESC
		LIMIT NULLIF($2, 0)`, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Attendance, 0)
	for rows.Next() {
		a := &models.Attendance{}
		if err := rows.Scan(&a.ID, &a.StudentID, &a.ClassID, &a.SubjectID, &a.TeacherID, &a.Date,
			&a.Status, &a.Notes, &a.SubjectName, &a.ClassName, &a.TeacherName); err != nil {
			return nil, fmt.Errorf("error scanning attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// CountByStatusForClass tallies every mark recorded for a class
func (r *AttendanceRepository) CountByStatusForClass(ctx context.Context, classID int64) (map[models.AttendanceStatus]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*) FROM attendance WHERE class_id = $1 GROUP BY status`, classID)
	if err != nil {
		return nil, fmt.Errorf("error counting attendance: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AttendanceStatus]int)
	for _, s := range models.AttendanceStatuses() {
		counts[s] = 0
	}
	for rows.Next() {
		var status models.AttendanceStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("error scanning attendance count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
