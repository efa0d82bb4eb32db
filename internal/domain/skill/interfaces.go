package skill

import "context"

// Backend is the remote collection of skills.
type Backend interface {
	ListSkills(ctx context.Context) ([]Skill, error)
	CreateSkill(ctx context.Context, draft Draft) (*Skill, error)
	UpdateSkill(ctx context.Context, id int, patch Patch) (*Skill, error)
	DeleteSkill(ctx context.Context, id int) error
}
