package mocks

import (
	"context"
	"time"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/inbox"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/domain/skill"
	"github.com/stretchr/testify/mock"
)

// ProjectBackend is a mock for project.Backend.
type ProjectBackend struct {
	mock.Mock
}

func (m *ProjectBackend) ListProjects(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectBackend) CreateProject(ctx context.Context, draft project.Draft) (*project.Project, error) {
	args := m.Called(ctx, draft)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectBackend) UpdateProject(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	args := m.Called(ctx, id, patch)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectBackend) DeleteProject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SkillBackend is a mock for skill.Backend.
type SkillBackend struct {
	mock.Mock
}

func (m *SkillBackend) ListSkills(ctx context.Context) ([]skill.Skill, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]skill.Skill); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SkillBackend) CreateSkill(ctx context.Context, draft skill.Draft) (*skill.Skill, error) {
	args := m.Called(ctx, draft)
	if s, ok := args.Get(0).(*skill.Skill); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SkillBackend) UpdateSkill(ctx context.Context, id int, patch skill.Patch) (*skill.Skill, error) {
	args := m.Called(ctx, id, patch)
	if s, ok := args.Get(0).(*skill.Skill); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SkillBackend) DeleteSkill(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MessageBackend is a mock for inbox.Backend.
type MessageBackend struct {
	mock.Mock
}

func (m *MessageBackend) ListMessages(ctx context.Context) ([]inbox.Message, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]inbox.Message); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Notifier is a mock for project.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Loading(id, message string) { m.Called(id, message) }
func (m *Notifier) Dismiss(id string)          { m.Called(id) }
func (m *Notifier) Success(message string)     { m.Called(message) }
func (m *Notifier) Error(message string)       { m.Called(message) }

// BatchObserver is a mock for project.BatchObserver.
type BatchObserver struct {
	mock.Mock
}

func (m *BatchObserver) ObserveBatch(kind, outcome string, writes int, elapsed time.Duration) {
	m.Called(kind, outcome, writes, elapsed)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, scope string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, scope, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, scope string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, scope, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SnapshotRepository is a mock for repository.SnapshotRepository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) Save(ctx context.Context, scope string, snap project.Snapshot) error {
	args := m.Called(ctx, scope, snap)
	return args.Error(0)
}

func (m *SnapshotRepository) Load(ctx context.Context, scope string) (*project.Snapshot, error) {
	args := m.Called(ctx, scope)
	if snap, ok := args.Get(0).(*project.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

// SearchRepository is a mock for repository.SearchRepository.
type SearchRepository struct {
	mock.Mock
}

func (m *SearchRepository) Search(ctx context.Context, scope, query string, limit int) ([]project.SearchResult, error) {
	args := m.Called(ctx, scope, query, limit)
	if list, ok := args.Get(0).([]project.SearchResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
