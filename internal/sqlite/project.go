package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/repository"
)

var _ repository.SnapshotRepository = (*ProjectCache)(nil)

// ProjectCache implements repository.SnapshotRepository for SQLite.
// Each Save replaces the whole cached list of its scope.
type ProjectCache struct {
	db *DB
}

// NewProjectCache creates a new ProjectCache
func NewProjectCache(db *DB) *ProjectCache {
	return &ProjectCache{db: db}
}

// Save stores snap as the cached project list of scope
func (r *ProjectCache) Save(ctx context.Context, scope string, snap project.Snapshot) error {
	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_projects WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear cached projects: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (scope, saved_at) VALUES (?, ?)
		ON CONFLICT(scope) DO UPDATE SET saved_at = excluded.saved_at
	`, scope, savedAt.UTC()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cached_projects (
			scope, id, position, sort_order, title, description, technologies, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range snap.Items {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode project %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			scope,
			p.ID,
			i,
			p.Order,
			p.Title,
			p.Description,
			strings.Join(p.Technologies, " "),
			string(payload),
		); err != nil {
			return fmt.Errorf("failed to cache project %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load returns the cached project list of scope in display order
func (r *ProjectCache) Load(ctx context.Context, scope string) (*project.Snapshot, error) {
	var snap project.Snapshot
	err := r.db.QueryRowContext(ctx,
		`SELECT saved_at FROM snapshots WHERE scope = ?`, scope,
	).Scan(&snap.SavedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", notFound(err))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM cached_projects
		WHERE scope = ?
		ORDER BY position
	`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached projects: %w", err)
	}
	defer rows.Close()

	snap.Items = []project.Project{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan cached project: %w", err)
		}
		var p project.Project
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("failed to decode cached project: %w", err)
		}
		snap.Items = append(snap.Items, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cached projects: %w", err)
	}

	return &snap, nil
}
