package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Schedule is a single class: a group meets a teacher in a room.
// Date is "2006-01-02", times are "15:04".
type Schedule struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	TeacherID string `json:"teacher_id"`
	Subject   string `json:"subject"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room"`
}

// WithDetails joins in the group and teacher display names.
type WithDetails struct {
	Schedule
	GroupName   string `json:"group_name"`
	TeacherName string `json:"teacher_name"`
}

// Patch lists the fields a schedule update may touch. Nil means unchanged.
type Patch struct {
	GroupID   *string
	TeacherID *string
	Subject   *string
	Date      *string
	StartTime *string
	EndTime   *string
	Room      *string
}

// Filter narrows schedule listings. Zero values are ignored.
type Filter struct {
	StartDate string
	EndDate   string
	Date      string
	GroupID   string
	TeacherID string
	Weekday   *int // 0 = Sunday .. 6 = Saturday
}

// Repository persists schedules in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const scheduleColumns = `s.id, s.group_id, s.teacher_id, s.subject, s.date::text,
	to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'), s.room`

// Insert writes a new schedule entry.
func (r *Repository) Insert(ctx context.Context, s Schedule) (Schedule, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (id, group_id, teacher_id, subject, date, start_time, end_time, room)
		VALUES ($1,$2,$3,$4,$5::date,$6::time,$7::time,$8)
	`, s.ID, s.GroupID, s.TeacherID, s.Subject, s.Date, s.StartTime, s.EndTime, s.Room)
	if err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// ByID returns a schedule without joined names, nil when absent.
func (r *Repository) ByID(ctx context.Context, id string) (*Schedule, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+scheduleColumns+` FROM schedules s WHERE s.id = $1
	`, id)
	var s Schedule
	if err := row.Scan(&s.ID, &s.GroupID, &s.TeacherID, &s.Subject, &s.Date, &s.StartTime, &s.EndTime, &s.Room); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListDetailed returns schedules matching the filter with joined names,
// ordered by date then start time.
func (r *Repository) ListDetailed(ctx context.Context, f Filter) ([]WithDetails, error) {
	query := `
		SELECT ` + scheduleColumns + `, g.name, u.full_name
		FROM schedules s
		JOIN groups g ON s.group_id = g.id
		JOIN users u ON s.teacher_id = u.id`
	args := []any{}
	clauses := []string{}
	add := func(clause string, val any) {
		clauses = append(clauses, fmt.Sprintf(clause, len(args)+1))
		args = append(args, val)
	}
	if f.StartDate != "" {
		add("s.date >= $%d::date", f.StartDate)
	}
	if f.EndDate != "" {
		add("s.date <= $%d::date", f.EndDate)
	}
	if f.Date != "" {
		add("s.date = $%d::date", f.Date)
	}
	if f.GroupID != "" {
		add("s.group_id = $%d", f.GroupID)
	}
	if f.TeacherID != "" {
		add("s.teacher_id = $%d", f.TeacherID)
	}
	if f.Weekday != nil {
		add("EXTRACT(dow FROM s.date) = $%d", *f.Weekday)
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY s.date, s.start_time"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []WithDetails
	for rows.Next() {
		var d WithDetails
		if err := rows.Scan(&d.ID, &d.GroupID, &d.TeacherID, &d.Subject, &d.Date,
			&d.StartTime, &d.EndTime, &d.Room, &d.GroupName, &d.TeacherName); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

// DetailByID returns a schedule with joined names, nil when absent.
func (r *Repository) DetailByID(ctx context.Context, id string) (*WithDetails, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+scheduleColumns+`, g.name, u.full_name
		FROM schedules s
		JOIN groups g ON s.group_id = g.id
		JOIN users u ON s.teacher_id = u.id
		WHERE s.id = $1
	`, id)
	var d WithDetails
	if err := row.Scan(&d.ID, &d.GroupID, &d.TeacherID, &d.Subject, &d.Date,
		&d.StartTime, &d.EndTime, &d.Room, &d.GroupName, &d.TeacherName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// Update applies a patch, leaving nil fields untouched.
func (r *Repository) Update(ctx context.Context, id string, p Patch) (Schedule, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE schedules s SET
			group_id   = COALESCE($2, group_id),
			teacher_id = COALESCE($3, teacher_id),
			subject    = COALESCE($4, subject),
			date       = COALESCE($5::date, date),
			start_time = COALESCE($6::time, start_time),
			end_time   = COALESCE($7::time, end_time),
			room       = COALESCE($8, room)
		WHERE s.id = $1
		RETURNING `+scheduleColumns+`
	`, id, p.GroupID, p.TeacherID, p.Subject, p.Date, p.StartTime, p.EndTime, p.Room)
	var s Schedule
	if err := row.Scan(&s.ID, &s.GroupID, &s.TeacherID, &s.Subject, &s.Date, &s.StartTime, &s.EndTime, &s.Room); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// Delete removes a schedule entry.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	return err
}
