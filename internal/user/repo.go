package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"university/internal/auth"
)

// User is an account record: student, teacher or admin.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         auth.Role `json:"role"`
	GroupID      *string   `json:"group_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Patch lists the fields a user update may touch. Nil means unchanged.
type Patch struct {
	Username *string
	FullName *string
	Email    *string
	Role     *auth.Role
	GroupID  *string
	IsActive *bool
}

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, username, password_hash, full_name, email, role, group_id, is_active, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	var groupID sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role, &groupID, &u.IsActive, &u.CreatedAt); err != nil {
		return User{}, err
	}
	if groupID.Valid {
		u.GroupID = &groupID.String
	}
	return u, nil
}

// Insert writes a new user.
func (r *Repository) Insert(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, password_hash, full_name, email, role, group_id, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, u.ID, u.Username, u.PasswordHash, u.FullName, u.Email, u.Role, u.GroupID, u.IsActive)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// ByUsername returns the user with the given username, nil when absent.
func (r *Repository) ByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ByID returns the user with the given id, nil when absent.
func (r *Repository) ByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by username.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// Update applies a patch, leaving nil fields untouched.
func (r *Repository) Update(ctx context.Context, id string, p Patch) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET
			username  = COALESCE($2, username),
			full_name = COALESCE($3, full_name),
			email     = COALESCE($4, email),
			role      = COALESCE($5, role),
			group_id  = COALESCE($6, group_id),
			is_active = COALESCE($7, is_active)
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, p.Username, p.FullName, p.Email, p.Role, p.GroupID, p.IsActive)
	return scanUser(row)
}

// StudentsByGroup returns the students belonging to a group.
func (r *Repository) StudentsByGroup(ctx context.Context, groupID string) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE group_id = $1 AND role = $2
		ORDER BY full_name
	`, groupID, auth.RoleStudent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// CountByGroup returns how many users are attached to a group.
func (r *Repository) CountByGroup(ctx context.Context, groupID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE group_id = $1`, groupID).Scan(&n)
	return n, err
}

// PrincipalByUsername implements auth.PrincipalStore.
func (r *Repository) PrincipalByUsername(ctx context.Context, username string) (*auth.Principal, error) {
	u, err := r.ByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, err
	}
	p := auth.Principal{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
	if u.GroupID != nil {
		p.GroupID = *u.GroupID
	}
	return &p, nil
}
