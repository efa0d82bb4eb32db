package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rpggio/folio/internal/domain/project"
)

var _ project.Backend = (*Client)(nil)

func projectPath(id string) string {
	return "/api/projects/" + url.PathEscape(id)
}

// ListProjects returns every project in the order the server sends them.
func (c *Client) ListProjects(ctx context.Context) ([]project.Project, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/projects", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[project.Project](data, "projects")
}

// CreateProject inserts a project and returns it with its server identity.
func (c *Client) CreateProject(ctx context.Context, draft project.Draft) (*project.Project, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/projects", draft)
	if err != nil {
		return nil, err
	}
	return decodeOne[project.Project](data, "project")
}

// UpdateProject sends the fields present in patch. It returns a nil project
// when the server acknowledges without a body.
func (c *Client) UpdateProject(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	data, err := c.do(ctx, http.MethodPut, projectPath(id), patch)
	if err != nil {
		return nil, projectError(err)
	}
	updated, err := decodeOne[project.Project](data, "project")
	if errors.Is(err, ErrEmptyResponse) {
		return nil, nil
	}
	return updated, err
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, projectPath(id), nil)
	return projectError(err)
}

func projectError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", project.ErrProjectNotFound, err)
	}
	return err
}
