package store

import "context"

// schema creates the relational tables on first run. Attendance carries no
// unique constraint on (schedule_id, student_id); the attendance service
// checks for an existing record before inserting.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS groups (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		role          TEXT NOT NULL,
		group_id      TEXT REFERENCES groups(id),
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id         TEXT PRIMARY KEY,
		group_id   TEXT NOT NULL REFERENCES groups(id),
		teacher_id TEXT NOT NULL REFERENCES users(id),
		subject    TEXT NOT NULL,
		date       DATE NOT NULL,
		start_time TIME NOT NULL,
		end_time   TIME NOT NULL,
		room       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id          TEXT PRIMARY KEY,
		group_id    TEXT NOT NULL REFERENCES groups(id),
		teacher_id  TEXT NOT NULL REFERENCES users(id),
		title       TEXT NOT NULL,
		description TEXT,
		file_ids    TEXT[] NOT NULL DEFAULT '{}',
		deadline    TIMESTAMP,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendances (
		id          TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL REFERENCES schedules(id),
		student_id  TEXT NOT NULL REFERENCES users(id),
		status      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_group_date ON schedules(group_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_attendances_student ON attendances(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendances_schedule ON attendances(schedule_id)`,
}

// Migrate applies the schema statements in order.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
