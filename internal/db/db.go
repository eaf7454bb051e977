package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with hrchat-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS departments (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_departments_org ON departments(org_id);

CREATE TABLE IF NOT EXISTS positions (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_positions_org ON positions(org_id);

CREATE TABLE IF NOT EXISTS shifts (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    name TEXT NOT NULL,
    start_time TEXT NOT NULL DEFAULT '',
    end_time TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_shifts_org ON shifts(org_id);

CREATE TABLE IF NOT EXISTS attendance_types (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    name TEXT NOT NULL,
    requires_presence INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_attendance_types_org ON attendance_types(org_id);

CREATE TABLE IF NOT EXISTS employees (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    department_id TEXT REFERENCES departments(id),
    position_id TEXT REFERENCES positions(id),
    salary REAL NOT NULL DEFAULT 0,
    hire_date DATETIME,
    active INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_employees_org ON employees(org_id);
CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department_id);

CREATE TABLE IF NOT EXISTS attendance (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
    date DATETIME NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('present','late','absent','leave','sick','permission')),
    check_in TEXT NOT NULL DEFAULT '',
    check_out TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_attendance_org_date ON attendance(org_id, date);
CREATE INDEX IF NOT EXISTS idx_attendance_employee ON attendance(employee_id);

CREATE TABLE IF NOT EXISTS shift_allocations (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
    shift_id TEXT REFERENCES shifts(id),
    attendance_type_id TEXT REFERENCES attendance_types(id),
    date DATETIME NOT NULL,
    notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_shift_allocations_org_date ON shift_allocations(org_id, date);
CREATE INDEX IF NOT EXISTS idx_shift_allocations_employee ON shift_allocations(employee_id);

CREATE TABLE IF NOT EXISTS chat_turns (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT 'anonymous',
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    context_json TEXT NOT NULL DEFAULT '{}',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_chat_turns_org_user ON chat_turns(org_id, user_id, created_at);

-- Registry of embedded documents, keyed by vector-store document id. There is
-- deliberately no UNIQUE constraint on (org_id, doc_type, entity_id): the
-- upsert path enforces one row per logical key, and the cleanup pass handles
-- duplicates left behind by concurrent writers.
CREATE TABLE IF NOT EXISTS embedding_registry (
    doc_id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    doc_type TEXT NOT NULL CHECK(doc_type IN ('EMPLOYEE','ATTENDANCE','SHIFT')),
    entity_id TEXT NOT NULL,
    content_hash TEXT NOT NULL DEFAULT '',
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_embedding_registry_key ON embedding_registry(org_id, doc_type, entity_id);
`
