package group

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Group is a student group.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Repository persists groups in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new group.
func (r *Repository) Insert(ctx context.Context, g Group) (Group, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO groups (id, name) VALUES ($1, $2)`, g.ID, g.Name)
	if err != nil {
		return Group{}, err
	}
	return g, nil
}

// ByID returns the group with the given id, nil when absent.
func (r *Repository) ByID(ctx context.Context, id string) (*Group, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM groups WHERE id = $1`, id)
	var g Group
	if err := row.Scan(&g.ID, &g.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// ByName returns the group with the given name, nil when absent.
func (r *Repository) ByName(ctx context.Context, name string) (*Group, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM groups WHERE name = $1`, name)
	var g Group
	if err := row.Scan(&g.ID, &g.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// List returns all groups ordered by name.
func (r *Repository) List(ctx context.Context) ([]Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

// Rename updates the group name.
func (r *Repository) Rename(ctx context.Context, id, name string) (Group, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE groups SET name = $2 WHERE id = $1 RETURNING id, name`, id, name)
	var g Group
	if err := row.Scan(&g.ID, &g.Name); err != nil {
		return Group{}, err
	}
	return g, nil
}

// Delete removes a group.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}
