package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/folio/internal/domain/skill"
)

var _ skill.Backend = (*Client)(nil)

func (c *Client) ListSkills(ctx context.Context) ([]skill.Skill, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/skills", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[skill.Skill](data, "skills")
}

func (c *Client) CreateSkill(ctx context.Context, draft skill.Draft) (*skill.Skill, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/skills", draft)
	if err != nil {
		return nil, err
	}
	return decodeOne[skill.Skill](data, "skill")
}

func (c *Client) UpdateSkill(ctx context.Context, id int, patch skill.Patch) (*skill.Skill, error) {
	data, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/skills/%d", id), patch)
	if err != nil {
		return nil, skillError(err)
	}
	return decodeOne[skill.Skill](data, "skill")
}

func (c *Client) DeleteSkill(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/skills/%d", id), nil)
	return skillError(err)
}

func skillError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", skill.ErrSkillNotFound, err)
	}
	return err
}
