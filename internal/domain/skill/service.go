package skill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/rpggio/folio/internal/icon"
	"github.com/samber/lo"
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Service handles skill operations.
type Service struct {
	backend Backend
	logger  *slog.Logger
}

// NewService creates a new skill service.
func NewService(backend Backend, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{backend: backend, logger: logger}
}

// List returns every skill group in server order.
func (s *Service) List(ctx context.Context) ([]Skill, error) {
	skills, err := s.backend.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	return skills, nil
}

// Create validates and creates a skill group. Missing color and icon take
// their defaults; unknown icon names are kept and rendered with the default.
func (s *Service) Create(ctx context.Context, draft Draft) (*Skill, error) {
	draft.Category = strings.TrimSpace(draft.Category)
	if draft.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if draft.Color == "" {
		draft.Color = DefaultColor
	}
	if !colorPattern.MatchString(draft.Color) {
		return nil, fmt.Errorf("%w: color must be a hex color", ErrInvalidInput)
	}
	if draft.Icon == "" {
		draft.Icon = icon.Default.String()
	}
	if _, ok := icon.Parse(draft.Icon); !ok {
		s.logger.Warn("unknown skill icon, default will be shown", "icon", draft.Icon)
	}
	draft.Items = cleanItems(draft.Items)

	created, err := s.backend.CreateSkill(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("creating skill: %w", err)
	}
	return created, nil
}

// Update applies a partial update to a skill group.
func (s *Service) Update(ctx context.Context, id int, patch Patch) (*Skill, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", ErrInvalidInput)
	}
	if patch.Color != nil && !colorPattern.MatchString(*patch.Color) {
		return nil, fmt.Errorf("%w: color must be a hex color", ErrInvalidInput)
	}
	if patch.Items != nil {
		patch.Items = cleanItems(patch.Items)
	}

	updated, err := s.backend.UpdateSkill(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("updating skill: %w", err)
	}
	return updated, nil
}

// Delete removes a skill group.
func (s *Service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}
	if err := s.backend.DeleteSkill(ctx, id); err != nil {
		return fmt.Errorf("deleting skill: %w", err)
	}
	return nil
}

func cleanItems(items []string) []string {
	trimmed := lo.Map(items, func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Uniq(lo.Compact(trimmed))
}
