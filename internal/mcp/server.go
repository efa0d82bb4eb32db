package mcp

import (
	"context"
	"io"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/transport"
)

// ProjectStore defines the collection operations needed by MCP.
type ProjectStore interface {
	FetchAll(ctx context.Context) error
	Items() []project.Project
	Snapshot() project.Snapshot
	Create(ctx context.Context, draft project.Draft) (*project.Project, error)
	UpdateOne(ctx context.Context, id string, patch project.Patch) (*project.Project, error)
	DeleteOne(ctx context.Context, id string) error
}

// Reorderer defines the batch operations needed by MCP.
type Reorderer interface {
	Reorder(ctx context.Context, sourceIndex, destinationIndex int) (project.ReorderResult, error)
	Normalize(ctx context.Context) (project.ReorderResult, error)
}

// SnapshotSaver persists the displayed projects for full-text search.
type SnapshotSaver interface {
	Save(ctx context.Context, scope string, snap project.Snapshot) error
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, scope string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Config contains server configuration. Search, Cache and Activity are
// optional; the tools depending on them report an error when they are nil.
type Config struct {
	Store       ProjectStore
	Coordinator Reorderer
	Search      project.SearchRepository
	Cache       SnapshotSaver
	Activity    ActivityService
	Scope       string
	// Resolver identifies HTTP callers for traffic logs. Stdio callers are
	// always "local".
	Resolver transport.TokenResolver
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "folio",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(callerMiddleware(cfg.Resolver))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{cfg: cfg})

	return server
}
