package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

// Open opens the cache at path and brings its schema up to date
func Open(path string) (*DB, error) {
	db, err := New(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the cache schema. It is safe to run on every start.
func (db *DB) RunMigrations() error {
	migration := `
-- Last fetched project list per API scope
CREATE TABLE IF NOT EXISTS snapshots (
    scope TEXT PRIMARY KEY,
    saved_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS cached_projects (
    scope TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    sort_order INTEGER NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    technologies TEXT NOT NULL,
    payload TEXT NOT NULL,
    PRIMARY KEY (scope, id),
    FOREIGN KEY (scope) REFERENCES snapshots(scope) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_cached_projects_position ON cached_projects(scope, position);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scope TEXT NOT NULL,
    project_id TEXT,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scope_activity ON activity_log(scope);
CREATE INDEX IF NOT EXISTS idx_project_activity ON activity_log(project_id);
CREATE INDEX IF NOT EXISTS idx_created_at ON activity_log(created_at);

-- Full-text search (SQLite FTS5)
CREATE VIRTUAL TABLE IF NOT EXISTS projects_fts USING fts5(
    title,
    description,
    technologies,
    content='cached_projects',
    content_rowid='rowid'
);

-- Triggers to keep FTS index synchronized
CREATE TRIGGER IF NOT EXISTS cached_projects_ai AFTER INSERT ON cached_projects BEGIN
    INSERT INTO projects_fts(rowid, title, description, technologies)
    VALUES (new.rowid, new.title, new.description, new.technologies);
END;

CREATE TRIGGER IF NOT EXISTS cached_projects_ad AFTER DELETE ON cached_projects BEGIN
    INSERT INTO projects_fts(projects_fts, rowid, title, description, technologies)
    VALUES('delete', old.rowid, old.title, old.description, old.technologies);
END;

CREATE TRIGGER IF NOT EXISTS cached_projects_au AFTER UPDATE ON cached_projects BEGIN
    INSERT INTO projects_fts(projects_fts, rowid, title, description, technologies)
    VALUES('delete', old.rowid, old.title, old.description, old.technologies);
    INSERT INTO projects_fts(rowid, title, description, technologies)
    VALUES (new.rowid, new.title, new.description, new.technologies);
END;
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
