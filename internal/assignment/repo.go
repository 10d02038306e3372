package assignment

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Assignment is course work posted by a teacher to a group, with
// optional file attachments held in the blob store.
type Assignment struct {
	ID          string     `json:"id"`
	GroupID     string     `json:"group_id"`
	TeacherID   string     `json:"teacher_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	FileIDs     []string   `json:"file_ids"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// WithDetails joins in the group and teacher display names.
type WithDetails struct {
	Assignment
	GroupName   string `json:"group_name"`
	TeacherName string `json:"teacher_name"`
}

// Patch lists the fields an assignment update may touch. Nil means unchanged.
type Patch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
}

// Repository persists assignments in Postgres. file_ids is a TEXT[]
// column moved through array_to_string/string_to_array so it scans
// through database/sql.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const assignmentColumns = `a.id, a.group_id, a.teacher_id, a.title, a.description,
	COALESCE(array_to_string(a.file_ids, ','), ''), a.deadline, a.created_at`

func scanAssignment(row interface{ Scan(...any) error }, extra ...any) (Assignment, error) {
	var a Assignment
	var description sql.NullString
	var fileIDs string
	var deadline sql.NullTime
	dest := []any{&a.ID, &a.GroupID, &a.TeacherID, &a.Title, &description, &fileIDs, &deadline, &a.CreatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return Assignment{}, err
	}
	if description.Valid {
		a.Description = &description.String
	}
	if deadline.Valid {
		a.Deadline = &deadline.Time
	}
	a.FileIDs = []string{}
	if fileIDs != "" {
		a.FileIDs = strings.Split(fileIDs, ",")
	}
	return a, nil
}

// Insert writes a new assignment.
func (r *Repository) Insert(ctx context.Context, a Assignment) (Assignment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO assignments (id, group_id, teacher_id, title, description, file_ids, deadline)
		VALUES ($1,$2,$3,$4,$5,'{}',$6)
		RETURNING created_at
	`, a.ID, a.GroupID, a.TeacherID, a.Title, a.Description, a.Deadline)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Assignment{}, err
	}
	a.FileIDs = []string{}
	return a, nil
}

// ByID returns an assignment without joined names, nil when absent.
func (r *Repository) ByID(ctx context.Context, id string) (*Assignment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+assignmentColumns+` FROM assignments a WHERE a.id = $1
	`, id)
	a, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// DetailByID returns an assignment with joined names, nil when absent.
func (r *Repository) DetailByID(ctx context.Context, id string) (*WithDetails, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+assignmentColumns+`, g.name, u.full_name
		FROM assignments a
		JOIN groups g ON a.group_id = g.id
		JOIN users u ON a.teacher_id = u.id
		WHERE a.id = $1
	`, id)
	var d WithDetails
	a, err := scanAssignment(row, &d.GroupName, &d.TeacherName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	d.Assignment = a
	return &d, nil
}

// ListDetailed returns assignments with joined names, newest first,
// optionally narrowed to one group.
func (r *Repository) ListDetailed(ctx context.Context, groupID string) ([]WithDetails, error) {
	query := `
		SELECT ` + assignmentColumns + `, g.name, u.full_name
		FROM assignments a
		JOIN groups g ON a.group_id = g.id
		JOIN users u ON a.teacher_id = u.id`
	args := []any{}
	if groupID != "" {
		query += ` WHERE a.group_id = $1`
		args = append(args, groupID)
	}
	query += ` ORDER BY a.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []WithDetails
	for rows.Next() {
		var d WithDetails
		a, err := scanAssignment(rows, &d.GroupName, &d.TeacherName)
		if err != nil {
			return nil, err
		}
		d.Assignment = a
		res = append(res, d)
	}
	return res, rows.Err()
}

// Update applies a patch, leaving nil fields untouched.
func (r *Repository) Update(ctx context.Context, id string, p Patch) (Assignment, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE assignments a SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			deadline    = COALESCE($4, deadline)
		WHERE a.id = $1
		RETURNING `+assignmentColumns+`
	`, id, p.Title, p.Description, p.Deadline)
	return scanAssignment(row)
}

// AppendFileID attaches a stored blob to the assignment.
func (r *Repository) AppendFileID(ctx context.Context, id, fileID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE assignments SET file_ids = array_append(file_ids, $2) WHERE id = $1
	`, id, fileID)
	return err
}

// Delete removes an assignment.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	return err
}
