package project_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recorder keeps every id sequence the store published.
type recorder struct {
	mu     sync.Mutex
	states [][]string
}

func (r *recorder) observe(st project.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, ids(st.Items))
}

func (r *recorder) sequences() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.states)
}

func quietNotifier() *mocks.Notifier {
	n := &mocks.Notifier{}
	n.On("Loading", mock.Anything, mock.Anything).Maybe()
	n.On("Dismiss", mock.Anything).Maybe()
	n.On("Success", mock.Anything).Maybe()
	n.On("Error", mock.Anything).Maybe()
	return n
}

func TestReorder_NoopDoesNothing(t *testing.T) {
	backend := &mocks.ProjectBackend{}
	notifier := &mocks.Notifier{}
	store := loadedStore(t, backend, items("A", "B", "C"))
	rec := &recorder{}
	store.Subscribe(rec.observe)

	coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{Notifier: notifier})
	for _, tc := range []struct{ src, dst int }{{1, 1}, {0, 0}, {-1, 1}, {0, 3}, {5, 0}} {
		res, err := coord.Reorder(context.Background(), tc.src, tc.dst)
		require.NoError(t, err)
		require.True(t, res.Noop)
	}

	require.Empty(t, rec.sequences())
	require.Equal(t, []string{"A", "B", "C"}, ids(store.Items()))
	backend.AssertNotCalled(t, "UpdateProject", mock.Anything, mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "ListProjects", mock.Anything)
	notifier.AssertNotCalled(t, "Loading", mock.Anything, mock.Anything)
}

func TestReorder_SuccessReconciles(t *testing.T) {
	ctx := context.Background()
	backend := &mocks.ProjectBackend{}
	notifier := &mocks.Notifier{}
	observer := &mocks.BatchObserver{}
	activities := &mocks.ActivityRepository{}

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for id, order := range map[string]int{"B": 1, "C": 2, "A": 3} {
		o := order
		backend.On("UpdateProject", mock.Anything, id, project.Patch{Order: &o, UpdatedAt: &now}).
			Return(&project.Project{ID: id, Order: o}, nil).Once()
	}
	// server truth differs from the optimistic sequence
	server := []project.Project{{ID: "C", Order: 1}, {ID: "B", Order: 2}, {ID: "A", Order: 3}}
	backend.On("ListProjects", mock.Anything).Return(server, nil).Once()

	notifier.On("Loading", mock.Anything, "Updating project order...").Once()
	notifier.On("Dismiss", mock.Anything).Once()
	notifier.On("Success", "Project order updated").Once()
	observer.On("ObserveBatch", project.BatchReorder, "success", 3, mock.Anything).Once()
	activities.On("Log", mock.Anything, "scope", mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeProjectsReordered
	})).Return(nil).Once()

	store := loadedStore(t, backend, items("A", "B", "C"))
	rec := &recorder{}
	store.Subscribe(rec.observe)

	coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{
		Notifier:   notifier,
		Observer:   observer,
		Activities: activities,
		Scope:      "scope",
		Now:        func() time.Time { return now },
	})
	res, err := coord.Reorder(ctx, 0, 2)
	require.NoError(t, err)
	require.False(t, res.Noop)
	require.Len(t, res.Changes, 3)

	require.Equal(t, []string{"B", "C", "A"}, rec.sequences()[0])
	require.Equal(t, []string{"C", "B", "A"}, ids(store.Items()))
	backend.AssertExpectations(t)
	notifier.AssertExpectations(t)
	observer.AssertExpectations(t)
	activities.AssertExpectations(t)
}

func TestReorder_IndicatorCoversRollbackAndReconcile(t *testing.T) {
	var mu sync.Mutex
	var events []string
	record := func(event string) func(mock.Arguments) {
		return func(mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
		}
	}

	backend := &mocks.ProjectBackend{}
	backend.On("UpdateProject", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("500"))
	backend.On("ListProjects", mock.Anything).Run(record("fetch")).Return(items("A", "B"), nil).Once()

	notifier := &mocks.Notifier{}
	notifier.On("Loading", mock.Anything, mock.Anything).Run(record("loading")).Once()
	notifier.On("Dismiss", mock.Anything).Run(record("dismiss")).Once()
	notifier.On("Error", "Failed to update project order").Run(record("error")).Once()

	store := loadedStore(t, backend, items("A", "B"))
	coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{Notifier: notifier})
	_, err := coord.Reorder(context.Background(), 0, 1)
	require.ErrorIs(t, err, project.ErrReorderFailed)

	require.Equal(t, []string{"loading", "fetch", "dismiss", "error"}, events)
	require.Equal(t, []string{"A", "B"}, ids(store.Items()))
}

func TestReorder_OnlyChangedRecordsAreWritten(t *testing.T) {
	backend := &mocks.ProjectBackend{}
	var written sync.Map
	backend.On("UpdateProject", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written.Store(args.String(1), *args.Get(2).(project.Patch).Order)
		}).
		Return(&project.Project{}, nil)
	backend.On("ListProjects", mock.Anything).Return(items("A", "D", "B", "C"), nil)

	store := loadedStore(t, backend, items("A", "B", "C", "D"))
	coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{Notifier: quietNotifier()})

	_, err := coord.Reorder(context.Background(), 3, 1)
	require.NoError(t, err)

	got := map[string]int{}
	written.Range(func(k, v any) bool {
		got[k.(string)] = v.(int)
		return true
	})
	require.Equal(t, map[string]int{"D": 2, "B": 3, "C": 4}, got)
}

func TestReorder_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	backend := &mocks.ProjectBackend{}
	notifier := &mocks.Notifier{}
	boom := errors.New("503 service unavailable")

	backend.On("UpdateProject", mock.Anything, "C", mock.Anything).Return(nil, boom)
	backend.On("UpdateProject", mock.Anything, mock.Anything, mock.Anything).Return(&project.Project{}, nil)
	backend.On("ListProjects", mock.Anything).Return(items("A", "B", "C"), nil).Once()

	notifier.On("Loading", mock.Anything, "Updating project order...").Once()
	notifier.On("Dismiss", mock.Anything).Once()
	notifier.On("Error", "Failed to update project order").Once()

	store := loadedStore(t, backend, items("A", "B", "C"))
	rec := &recorder{}
	store.Subscribe(rec.observe)

	coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{Notifier: notifier})
	_, err := coord.Reorder(ctx, 0, 2)
	require.ErrorIs(t, err, project.ErrReorderFailed)
	require.ErrorIs(t, err, boom)
	require.True(t, project.IsReorderFailure(err))

	var batchErr *project.BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Equal(t, 3, batchErr.Total)
	require.Len(t, batchErr.Failures, 1)
	require.Equal(t, "C", batchErr.Failures[0].ID)

	seq := rec.sequences()
	require.Equal(t, []string{"B", "C", "A"}, seq[0])
	require.Equal(t, []string{"A", "B", "C"}, seq[1])
	require.Equal(t, []string{"A", "B", "C"}, ids(store.Items()))
	require.Equal(t, []int{1, 2, 3}, orders(store.Items()))
	notifier.AssertExpectations(t)
	backend.AssertNumberOfCalls(t, "ListProjects", 1)
}

func TestReorder_ReconcilesAfterCallerCancels(t *testing.T) {
	backend := &mocks.ProjectBackend{}
	ctx, cancel := context.WithCancel(context.Background())
	backend.On("UpdateProject", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)
	backend.On("ListProjects", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	})).Return(items("A", "B"), nil).Once()

	store := loadedStore(t, backend, items("A", "B"))
	coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{Notifier: quietNotifier()})

	_, err := coord.Reorder(ctx, 1, 0)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []string{"A", "B"}, ids(store.Items()))
	backend.AssertExpectations(t)
}

func TestReorder_ContiguousForAnyMove(t *testing.T) {
	backend := &mocks.ProjectBackend{}
	backend.On("UpdateProject", mock.Anything, mock.Anything, mock.Anything).Return(&project.Project{}, nil)
	backend.On("ListProjects", mock.Anything).Return(nil, errors.New("offline"))

	for n := 2; n <= 7; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		for s := 0; s < n; s++ {
			for d := 0; d < n; d++ {
				if s == d {
					continue
				}
				store := loadedStore(t, backend, items(names...))
				coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{})
				_, err := coord.Reorder(context.Background(), s, d)
				require.NoError(t, err)
				// failed reconciliation keeps the optimistic sequence
				require.True(t, project.IsNormalized(store.Items()))
				require.Equal(t, names[s], store.Items()[d].ID)
			}
		}
	}
}

func TestReorder_SendFullRecord(t *testing.T) {
	backend := &mocks.ProjectBackend{}
	backend.On("UpdateProject", mock.Anything, mock.Anything, mock.MatchedBy(func(p project.Patch) bool {
		return p.Title != nil && p.Order != nil && p.UpdatedAt != nil
	})).Return(&project.Project{}, nil)
	backend.On("ListProjects", mock.Anything).Return(items("B", "A"), nil)

	store := loadedStore(t, backend, items("A", "B"))
	coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{SendFullRecord: true, MaxConcurrency: 1})
	_, err := coord.Reorder(context.Background(), 0, 1)
	require.NoError(t, err)
	backend.AssertNumberOfCalls(t, "UpdateProject", 2)
}

func TestNormalize(t *testing.T) {
	backend := &mocks.ProjectBackend{}
	notifier := &mocks.Notifier{}
	backend.On("UpdateProject", mock.Anything, mock.Anything, mock.Anything).Return(&project.Project{}, nil)
	backend.On("ListProjects", mock.Anything).Return(items("B", "A", "C"), nil)
	notifier.On("Loading", mock.Anything, "Normalizing project order...").Once()
	notifier.On("Dismiss", mock.Anything).Once()
	notifier.On("Success", "Project order normalized").Once()

	store := loadedStore(t, backend, []project.Project{
		{ID: "A", Order: 5}, {ID: "B", Order: 2}, {ID: "C", Order: 9},
	})
	coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{Notifier: notifier})

	res, err := coord.Normalize(context.Background())
	require.NoError(t, err)
	require.Equal(t, []project.OrderChange{
		{ID: "B", From: 2, To: 1},
		{ID: "A", From: 5, To: 2},
		{ID: "C", From: 9, To: 3},
	}, res.Changes)
	notifier.AssertExpectations(t)

	// already normalized
	res, err = coord.Normalize(context.Background())
	require.NoError(t, err)
	require.True(t, res.Noop)
	backend.AssertNumberOfCalls(t, "UpdateProject", 3)
}

// scriptedBackend lets a test hold the writes of one batch open while
// another batch runs.
type scriptedBackend struct {
	phase     atomic.Int32
	started   chan struct{}
	gate      chan struct{}
	listCalls atomic.Int32
	server    []project.Project
}

func (b *scriptedBackend) ListProjects(context.Context) ([]project.Project, error) {
	b.listCalls.Add(1)
	return slices.Clone(b.server), nil
}

func (b *scriptedBackend) CreateProject(context.Context, project.Draft) (*project.Project, error) {
	return nil, errors.New("not supported")
}

func (b *scriptedBackend) UpdateProject(_ context.Context, id string, _ project.Patch) (*project.Project, error) {
	if b.phase.Load() == 1 {
		select {
		case b.started <- struct{}{}:
		default:
		}
		<-b.gate
		return nil, errors.New("timeout")
	}
	return &project.Project{ID: id}, nil
}

func (b *scriptedBackend) DeleteProject(context.Context, string) error {
	return nil
}

func TestReorder_StaleBatchDoesNotOverwriteNewer(t *testing.T) {
	backend := &scriptedBackend{
		started: make(chan struct{}, 1),
		gate:    make(chan struct{}),
		server:  []project.Project{{ID: "C", Order: 1}, {ID: "B", Order: 2}, {ID: "A", Order: 3}},
	}
	backend.phase.Store(1)

	store := project.NewStore(backend, nil, "test", nil)
	store.ApplyLocal(items("A", "B", "C"))
	rec := &recorder{}
	store.Subscribe(rec.observe)
	coord := project.NewCoordinator(store, backend, project.CoordinatorConfig{})

	firstErr := make(chan error, 1)
	go func() {
		_, err := coord.Reorder(context.Background(), 0, 2)
		firstErr <- err
	}()
	<-backend.started

	backend.phase.Store(2)
	_, err := coord.Reorder(context.Background(), 0, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"C", "B", "A"}, ids(store.Items()))
	require.Zero(t, backend.listCalls.Load(), "reconcile waits for the last batch")

	close(backend.gate)
	require.ErrorIs(t, <-firstErr, project.ErrReorderFailed)
	require.Equal(t, int32(1), backend.listCalls.Load())

	for _, seq := range rec.sequences()[1:] {
		require.NotEqual(t, []string{"A", "B", "C"}, seq, "stale rollback applied")
	}
	require.Equal(t, []string{"C", "B", "A"}, ids(store.Items()))
}
