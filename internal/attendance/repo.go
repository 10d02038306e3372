package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Record marks one student's status for one class. One record per
// (schedule, student) pair; the service checks before inserting.
type Record struct {
	ID         string `json:"id"`
	ScheduleID string `json:"schedule_id"`
	StudentID  string `json:"student_id"`
	Status     Status `json:"status"`
}

// WithDetails joins in the student name and class details.
type WithDetails struct {
	Record
	StudentName string `json:"student_name"`
	Subject     string `json:"subject"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Filter narrows attendance listings. Zero values are ignored.
type Filter struct {
	ScheduleID string
	StudentID  string
	DateFrom   string
	DateTo     string
}

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new record.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendances (id, schedule_id, student_id, status)
		VALUES ($1,$2,$3,$4)
	`, rec.ID, rec.ScheduleID, rec.StudentID, rec.Status)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ByID returns a record, nil when absent.
func (r *Repository) ByID(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, schedule_id, student_id, status FROM attendances WHERE id = $1
	`, id)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.ScheduleID, &rec.StudentID, &rec.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ByScheduleStudent returns the record for one (schedule, student) pair,
// nil when absent.
func (r *Repository) ByScheduleStudent(ctx context.Context, scheduleID, studentID string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, schedule_id, student_id, status FROM attendances
		WHERE schedule_id = $1 AND student_id = $2
	`, scheduleID, studentID)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.ScheduleID, &rec.StudentID, &rec.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// UpdateStatus sets a record's status.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE attendances SET status = $2 WHERE id = $1
		RETURNING id, schedule_id, student_id, status
	`, id, status)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.ScheduleID, &rec.StudentID, &rec.Status); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// BySchedule returns all records for one class.
func (r *Repository) BySchedule(ctx context.Context, scheduleID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, schedule_id, student_id, status FROM attendances WHERE schedule_id = $1
	`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.ScheduleID, &rec.StudentID, &rec.Status); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// ListDetailed returns records matching the filter with joined student and
// class details, newest classes first.
func (r *Repository) ListDetailed(ctx context.Context, f Filter) ([]WithDetails, error) {
	query := `
		SELECT a.id, a.schedule_id, a.student_id, a.status,
			u.full_name, s.subject, s.date::text,
			to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI')
		FROM attendances a
		JOIN schedules s ON a.schedule_id = s.id
		JOIN users u ON a.student_id = u.id`
	args := []any{}
	clauses := []string{}
	add := func(clause string, val any) {
		clauses = append(clauses, fmt.Sprintf(clause, len(args)+1))
		args = append(args, val)
	}
	if f.ScheduleID != "" {
		add("a.schedule_id = $%d", f.ScheduleID)
	}
	if f.StudentID != "" {
		add("a.student_id = $%d", f.StudentID)
	}
	if f.DateFrom != "" {
		add("s.date >= $%d::date", f.DateFrom)
	}
	if f.DateTo != "" {
		add("s.date <= $%d::date", f.DateTo)
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY s.date DESC, s.start_time"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []WithDetails
	for rows.Next() {
		var d WithDetails
		if err := rows.Scan(&d.ID, &d.ScheduleID, &d.StudentID, &d.Status,
			&d.StudentName, &d.Subject, &d.Date, &d.StartTime, &d.EndTime); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

// StatRecords returns a student's records paired with class times, the
// input of ComputeStats.
func (r *Repository) StatRecords(ctx context.Context, studentID string) ([]StatRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.status,
			COALESCE(to_char(s.start_time, 'HH24:MI'), ''),
			COALESCE(to_char(s.end_time, 'HH24:MI'), '')
		FROM attendances a
		JOIN schedules s ON a.schedule_id = s.id
		WHERE a.student_id = $1
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []StatRecord
	for rows.Next() {
		var rec StatRecord
		if err := rows.Scan(&rec.Status, &rec.StartTime, &rec.EndTime); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
