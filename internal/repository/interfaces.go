package repository

import (
	"context"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/project"
)

// SnapshotRepository persists the last known project list per API scope
type SnapshotRepository interface {
	Save(ctx context.Context, scope string, snap project.Snapshot) error
	Load(ctx context.Context, scope string) (*project.Snapshot, error)
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, scope string, entry *activity.ActivityEntry) error
	List(ctx context.Context, scope string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// SearchRepository manages full-text search over cached projects
type SearchRepository interface {
	Search(ctx context.Context, scope, query string, limit int) ([]project.SearchResult, error)
}
