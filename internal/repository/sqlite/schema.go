package sqlite

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	role_id TEXT,
	supervisor_id TEXT REFERENCES employees(id),
	status TEXT NOT NULL DEFAULT 'active',
	operational_status TEXT NOT NULL DEFAULT 'offline',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_employees_supervisor ON employees(supervisor_id);

CREATE TABLE IF NOT EXISTS schedules (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	working_days TEXT NOT NULL,
	entry_minutes INTEGER NOT NULL,
	exit_minutes INTEGER NOT NULL,
	lunch_minutes INTEGER NOT NULL DEFAULT 60,
	priority BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS employee_schedule_assignments (
	id TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL REFERENCES employees(id),
	schedule_id TEXT NOT NULL REFERENCES schedules(id),
	start_date TEXT NOT NULL,
	end_date TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assignments_employee_start
	ON employee_schedule_assignments(employee_id, start_date DESC);

CREATE TABLE IF NOT EXISTS clock_events (
	id TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL REFERENCES employees(id),
	timestamp TEXT NOT NULL,
	type TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clock_events_employee_timestamp
	ON clock_events(employee_id, timestamp);

CREATE TABLE IF NOT EXISTS off_hours_requests (
	id TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL REFERENCES employees(id),
	requested_at TEXT NOT NULL,
	type TEXT NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	reviewer_id TEXT,
	reviewed_at TEXT,
	submitted_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS absence_excuses (
	id TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL REFERENCES employees(id),
	type TEXT NOT NULL,
	start_at TEXT NOT NULL,
	end_at TEXT NOT NULL,
	reason TEXT NOT NULL,
	document_url TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	reviewer_id TEXT,
	reviewed_at TEXT,
	submitted_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_absence_excuses_employee_period
	ON absence_excuses(employee_id, start_at, end_at);

CREATE TABLE IF NOT EXISTS holidays (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	date TEXT NOT NULL,
	recurrent BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);

CREATE TABLE IF NOT EXISTS pause_rules (
	id TEXT PRIMARY KEY,
	role_id TEXT NOT NULL,
	name TEXT NOT NULL,
	sort_order INTEGER NOT NULL,
	duration_minutes INTEGER NOT NULL,
	UNIQUE (role_id, sort_order)
);

CREATE TABLE IF NOT EXISTS hour_bank_entries (
	id TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL REFERENCES employees(id),
	date TEXT NOT NULL,
	minutes INTEGER NOT NULL,
	description TEXT NOT NULL,
	processed_at TEXT NOT NULL,
	UNIQUE (employee_id, date)
);

CREATE TABLE IF NOT EXISTS reconciliation_runs (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	processed INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	counts TEXT NOT NULL DEFAULT '{}',
	failures TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_reconciliation_runs_date ON reconciliation_runs(date);
`

// Migrate creates the tables used by the repositories when they are missing.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
