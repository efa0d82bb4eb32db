package project

import (
	"context"
	"time"

	"github.com/rpggio/folio/internal/domain/activity"
)

// Backend is the remote collection of projects. UpdateProject may return a
// nil project when the server does not echo the updated record.
type Backend interface {
	ListProjects(ctx context.Context) ([]Project, error)
	CreateProject(ctx context.Context, draft Draft) (*Project, error)
	UpdateProject(ctx context.Context, id string, patch Patch) (*Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// ActivityRepository logs project activities.
type ActivityRepository interface {
	Log(ctx context.Context, scope string, entry *activity.ActivityEntry) error
}

// Notifier shows progress and outcome messages to the user.
type Notifier interface {
	Loading(id, message string)
	Dismiss(id string)
	Success(message string)
	Error(message string)
}

// BatchObserver receives the outcome of every write batch.
type BatchObserver interface {
	ObserveBatch(kind, outcome string, writes int, elapsed time.Duration)
}

// SearchRepository performs full-text search over cached projects.
type SearchRepository interface {
	Search(ctx context.Context, scope, query string, limit int) ([]SearchResult, error)
}
