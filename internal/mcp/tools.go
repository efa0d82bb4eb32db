package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/samber/lo"
)

const defaultActivityLimit = 20

// ProjectView is the wire form of a project. Timestamps are RFC 3339.
type ProjectView struct {
	ID           string           `json:"id"`
	Position     int              `json:"position" jsonschema:"0-based display position, usable as a move index"`
	Order        int              `json:"order"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	ImageURL     string           `json:"image_url"`
	LiveURL      string           `json:"live_url"`
	GithubURL    string           `json:"github_url,omitempty"`
	Technologies []string         `json:"technologies"`
	Type         project.Type     `json:"type,omitempty"`
	Category     project.Category `json:"category,omitempty"`
	Status       project.Status   `json:"status,omitempty"`
	Year         int              `json:"year,omitempty"`
	UpdatedAt    string           `json:"updated_at,omitempty"`
}

type ListProjectsInput struct {
	Refresh bool `json:"refresh,omitempty" jsonschema:"re-read the collection from the server before listing"`
}

type ProjectsOutput struct {
	Projects []ProjectView `json:"projects"`
}

type CreateProjectInput struct {
	Title        string   `json:"title" jsonschema:"project title"`
	Description  string   `json:"description" jsonschema:"markdown description"`
	ImageURL     string   `json:"image_url" jsonschema:"absolute http(s) URL of the preview image"`
	LiveURL      string   `json:"live_url" jsonschema:"absolute http(s) URL of the deployed project"`
	GithubURL    string   `json:"github_url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Type         string   `json:"type,omitempty" jsonschema:"web or mobile"`
	Category     string   `json:"category,omitempty" jsonschema:"frontend or fullstack"`
	Status       string   `json:"status,omitempty" jsonschema:"completed, in-progress or featured"`
	Year         int      `json:"year,omitempty"`
	Order        int      `json:"order,omitempty" jsonschema:"order value; omit to append at the bottom"`
}

type UpdateProjectInput struct {
	ID           string   `json:"id"`
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
	LiveURL      *string  `json:"live_url,omitempty"`
	GithubURL    *string  `json:"github_url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Year         *int     `json:"year,omitempty"`
}

type ProjectOutput struct {
	Project ProjectView `json:"project"`
}

type DeleteProjectInput struct {
	ID string `json:"id"`
}

type DeleteProjectOutput struct {
	Deleted string `json:"deleted"`
}

type MoveProjectInput struct {
	SourceIndex      int `json:"source_index" jsonschema:"0-based position of the project to move"`
	DestinationIndex int `json:"destination_index" jsonschema:"0-based position to move it to"`
}

type NormalizeInput struct{}

type ReorderOutput struct {
	Noop     bool                  `json:"noop"`
	Changes  []project.OrderChange `json:"changes"`
	Projects []ProjectView         `json:"projects"`
}

type SearchProjectsInput struct {
	Query string `json:"query" jsonschema:"words to match in title, description and technologies"`
	Limit int    `json:"limit,omitempty"`
}

type SearchHit struct {
	Project ProjectView `json:"project"`
	Rank    float64     `json:"rank"`
	Snippet string      `json:"snippet,omitempty"`
}

type SearchProjectsOutput struct {
	Results []SearchHit `json:"results"`
}

type RecentActivityInput struct {
	Limit     int    `json:"limit,omitempty"`
	Type      string `json:"type,omitempty" jsonschema:"filter by activity type, e.g. projects_reordered"`
	ProjectID string `json:"project_id,omitempty"`
}

type ActivityView struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	ProjectID string `json:"project_id,omitempty"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type RecentActivityOutput struct {
	Entries []ActivityView `json:"entries"`
}

type tools struct {
	cfg Config
}

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List portfolio projects in display order",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project; it is placed at the bottom unless an order is given",
	}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Update fields of a project; omitted fields are left untouched",
	}, t.updateProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project",
	}, t.deleteProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_project",
		Description: "Move the project at source_index to destination_index and renumber the list",
	}, t.moveProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "normalize_project_order",
		Description: "Repair gaps and duplicates in project order values",
	}, t.normalize)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_projects",
		Description: "Full-text search over the projects",
	}, t.searchProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "List recent local activity such as reorders and edits",
	}, t.recentActivity)
}

func (t *tools) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsInput) (*sdkmcp.CallToolResult, ProjectsOutput, error) {
	if err := t.ensureLoaded(ctx, in.Refresh); err != nil {
		return nil, ProjectsOutput{}, toolError(err)
	}
	return nil, ProjectsOutput{Projects: views(t.cfg.Store.Items())}, nil
}

func (t *tools) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectInput) (*sdkmcp.CallToolResult, ProjectOutput, error) {
	if err := t.ensureLoaded(ctx, false); err != nil {
		return nil, ProjectOutput{}, toolError(err)
	}
	draft := project.Draft{
		Title:        in.Title,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		LiveURL:      in.LiveURL,
		Technologies: in.Technologies,
		Order:        in.Order,
		Type:         project.Type(in.Type),
		Category:     project.Category(in.Category),
		Status:       project.Status(in.Status),
		Year:         in.Year,
	}
	if in.GithubURL != "" {
		draft.GithubURL = &in.GithubURL
	}
	created, err := t.cfg.Store.Create(ctx, draft)
	if err != nil {
		return nil, ProjectOutput{}, toolError(err)
	}
	return nil, ProjectOutput{Project: view(*created, project.IndexOf(t.cfg.Store.Items(), created.ID))}, nil
}

func (t *tools) updateProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectInput) (*sdkmcp.CallToolResult, ProjectOutput, error) {
	if in.ID == "" {
		return nil, ProjectOutput{}, toolError(fmt.Errorf("%w: id is required", project.ErrInvalidInput))
	}
	patch := project.Patch{
		Title:        in.Title,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		LiveURL:      in.LiveURL,
		GithubURL:    in.GithubURL,
		Year:         in.Year,
	}
	if in.Technologies != nil {
		patch.Technologies = lo.ToPtr(in.Technologies)
	}
	if in.Type != nil {
		patch.Type = lo.ToPtr(project.Type(*in.Type))
	}
	if in.Category != nil {
		patch.Category = lo.ToPtr(project.Category(*in.Category))
	}
	if in.Status != nil {
		patch.Status = lo.ToPtr(project.Status(*in.Status))
	}
	if !patch.IsEmpty() {
		patch.UpdatedAt = lo.ToPtr(time.Now().UTC())
	}
	updated, err := t.cfg.Store.UpdateOne(ctx, in.ID, patch)
	if err != nil {
		return nil, ProjectOutput{}, toolError(err)
	}
	return nil, ProjectOutput{Project: view(*updated, project.IndexOf(t.cfg.Store.Items(), updated.ID))}, nil
}

func (t *tools) deleteProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteProjectInput) (*sdkmcp.CallToolResult, DeleteProjectOutput, error) {
	if err := t.cfg.Store.DeleteOne(ctx, in.ID); err != nil {
		return nil, DeleteProjectOutput{}, toolError(err)
	}
	return nil, DeleteProjectOutput{Deleted: in.ID}, nil
}

func (t *tools) moveProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in MoveProjectInput) (*sdkmcp.CallToolResult, ReorderOutput, error) {
	if err := t.ensureLoaded(ctx, false); err != nil {
		return nil, ReorderOutput{}, toolError(err)
	}
	res, err := t.cfg.Coordinator.Reorder(ctx, in.SourceIndex, in.DestinationIndex)
	if err != nil {
		return nil, ReorderOutput{}, toolError(err)
	}
	return nil, t.reorderOutput(res), nil
}

func (t *tools) normalize(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NormalizeInput) (*sdkmcp.CallToolResult, ReorderOutput, error) {
	if err := t.ensureLoaded(ctx, false); err != nil {
		return nil, ReorderOutput{}, toolError(err)
	}
	res, err := t.cfg.Coordinator.Normalize(ctx)
	if err != nil {
		return nil, ReorderOutput{}, toolError(err)
	}
	return nil, t.reorderOutput(res), nil
}

func (t *tools) searchProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in SearchProjectsInput) (*sdkmcp.CallToolResult, SearchProjectsOutput, error) {
	if t.cfg.Search == nil {
		return nil, SearchProjectsOutput{}, toolError(errSearchUnavailable)
	}
	if strings.TrimSpace(in.Query) == "" {
		return nil, SearchProjectsOutput{}, toolError(fmt.Errorf("%w: query is required", project.ErrInvalidInput))
	}
	if err := t.ensureLoaded(ctx, false); err != nil {
		return nil, SearchProjectsOutput{}, toolError(err)
	}
	if t.cfg.Cache != nil {
		if err := t.cfg.Cache.Save(ctx, t.cfg.Scope, t.cfg.Store.Snapshot()); err != nil {
			return nil, SearchProjectsOutput{}, toolError(fmt.Errorf("refreshing search cache: %w", err))
		}
	}
	results, err := t.cfg.Search.Search(ctx, t.cfg.Scope, in.Query, in.Limit)
	if err != nil {
		return nil, SearchProjectsOutput{}, toolError(err)
	}
	items := t.cfg.Store.Items()
	hits := lo.Map(results, func(r project.SearchResult, _ int) SearchHit {
		return SearchHit{
			Project: view(r.Project, project.IndexOf(items, r.Project.ID)),
			Rank:    r.Rank,
			Snippet: r.Snippet,
		}
	})
	return nil, SearchProjectsOutput{Results: hits}, nil
}

func (t *tools) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityInput) (*sdkmcp.CallToolResult, RecentActivityOutput, error) {
	if t.cfg.Activity == nil {
		return nil, RecentActivityOutput{}, toolError(errActivityUnavailable)
	}
	opts := activity.ListActivityOptions{Limit: in.Limit}
	if opts.Limit <= 0 {
		opts.Limit = defaultActivityLimit
	}
	if in.Type != "" {
		typ, ok := activity.ParseType(in.Type)
		if !ok {
			return nil, RecentActivityOutput{}, toolError(fmt.Errorf("%w: unknown activity type %q", project.ErrInvalidInput, in.Type))
		}
		opts.ActivityType = &typ
	}
	if in.ProjectID != "" {
		opts.ProjectID = &in.ProjectID
	}
	entries, err := t.cfg.Activity.GetRecentActivity(ctx, t.cfg.Scope, opts)
	if err != nil {
		return nil, RecentActivityOutput{}, toolError(err)
	}
	out := lo.Map(entries, func(e activity.ActivityEntry, _ int) ActivityView {
		return ActivityView{
			ID:        e.ID,
			Type:      string(e.ActivityType),
			Summary:   e.Summary,
			ProjectID: lo.FromPtr(e.ProjectID),
			Details:   e.Details,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		}
	})
	return nil, RecentActivityOutput{Entries: out}, nil
}

// ensureLoaded fetches the collection on first use or when forced.
func (t *tools) ensureLoaded(ctx context.Context, force bool) error {
	if !force && len(t.cfg.Store.Items()) > 0 {
		return nil
	}
	return t.cfg.Store.FetchAll(ctx)
}

func (t *tools) reorderOutput(res project.ReorderResult) ReorderOutput {
	changes := res.Changes
	if changes == nil {
		changes = []project.OrderChange{}
	}
	return ReorderOutput{Noop: res.Noop, Changes: changes, Projects: views(t.cfg.Store.Items())}
}

func views(items []project.Project) []ProjectView {
	return lo.Map(items, func(p project.Project, i int) ProjectView {
		return view(p, i)
	})
}

func view(p project.Project, position int) ProjectView {
	technologies := p.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	v := ProjectView{
		ID:           p.ID,
		Position:     position,
		Order:        p.Order,
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		LiveURL:      p.LiveURL,
		GithubURL:    lo.FromPtr(p.GithubURL),
		Technologies: technologies,
		Type:         p.Type,
		Category:     p.Category,
		Status:       p.Status,
		Year:         p.Year,
	}
	if !p.UpdatedAt.IsZero() {
		v.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

func toolError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if mapped := MapError(err); mapped != nil {
		return mapped
	}
	return err
}
