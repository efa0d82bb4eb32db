package project

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rpggio/folio/internal/domain/activity"
)

// State is an immutable view of the Store.
type State struct {
	Items     []Project
	IsLoading bool
	Error     string
}

// Observer is called synchronously on every state transition.
type Observer func(State)

// Snapshot is the serializable form of the Store's items.
type Snapshot struct {
	Items   []Project `json:"items"`
	SavedAt time.Time `json:"saved_at"`
}

// Store holds the locally displayed projects between server round-trips.
//
// Items are only ever replaced as a whole sequence. Observers must not call
// Store mutators synchronously from the callback.
type Store struct {
	backend    Backend
	activities ActivityRepository
	scope      string
	logger     *slog.Logger

	mu        sync.Mutex
	notifyMu  sync.Mutex
	state     State
	pending   int
	observers map[int]Observer
	nextObs   int
	closed    bool
}

// NewStore creates a Store backed by backend. activities may be nil.
func NewStore(backend Backend, activities ActivityRepository, scope string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		backend:    backend,
		activities: activities,
		scope:      scope,
		logger:     logger,
		observers:  make(map[int]Observer),
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Items returns a copy of the current items.
func (s *Store) Items() []Project {
	return s.State().Items
}

// Subscribe registers an observer and returns a function removing it.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Close detaches the Store from its view. Later transitions, including
// responses to calls still in flight, are dropped.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.observers = make(map[int]Observer)
}

// FetchAll replaces the items with the server's collection. On failure the
// previous items are kept.
func (s *Store) FetchAll(ctx context.Context) error {
	s.begin()

	items, err := s.backend.ListProjects(ctx)
	if err != nil {
		s.logger.Warn("fetching projects failed", "error", err)
		s.fail("Error fetching projects")
		return fmt.Errorf("fetching projects: %w", err)
	}

	s.end(func(st *State) {
		st.Items = slices.Clone(items)
	})
	s.logger.Debug("projects fetched", "count", len(items))
	return nil
}

// ApplyLocal replaces the items without contacting the server.
func (s *Store) ApplyLocal(items []Project) {
	s.set(func(st *State) {
		st.Items = slices.Clone(items)
	})
}

// Create inserts a project. A draft without an order is placed at the bottom.
func (s *Store) Create(ctx context.Context, draft Draft) (*Project, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}
	if draft.Order == 0 {
		draft.Order = NextOrder(s.Items())
	}

	s.begin()

	created, err := s.backend.CreateProject(ctx, draft)
	if err != nil {
		s.fail("Error adding project")
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.end(func(st *State) {
		st.Items = append(slices.Clone(st.Items), *created)
	})
	s.logActivity(ctx, activity.TypeProjectCreated, created.ID, fmt.Sprintf("created project %q", created.Title))
	return created, nil
}

// UpdateOne applies patch to the project with the given ID.
func (s *Store) UpdateOne(ctx context.Context, id string, patch Patch) (*Project, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if err := ValidatePatch(patch); err != nil {
		return nil, err
	}

	s.begin()

	updated, err := s.backend.UpdateProject(ctx, id, patch)
	if err != nil {
		s.fail("Error updating project")
		return nil, fmt.Errorf("updating project: %w", err)
	}

	// without an echoed record the patch is merged into the displayed one
	result := Project{ID: id}
	s.end(func(st *State) {
		i := IndexOf(st.Items, id)
		switch {
		case updated != nil:
			result = *updated
		case i >= 0:
			result = patch.Apply(st.Items[i])
		default:
			result = patch.Apply(result)
		}
		if i >= 0 {
			items := slices.Clone(st.Items)
			items[i] = result
			st.Items = items
		}
	})
	s.logActivity(ctx, activity.TypeProjectUpdated, id, fmt.Sprintf("updated project %q", result.Title))
	return &result, nil
}

// DeleteOne removes the project with the given ID.
func (s *Store) DeleteOne(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}

	s.begin()

	if err := s.backend.DeleteProject(ctx, id); err != nil {
		s.fail("Error deleting project")
		return fmt.Errorf("deleting project: %w", err)
	}

	s.end(func(st *State) {
		st.Items = slices.DeleteFunc(slices.Clone(st.Items), func(p Project) bool { return p.ID == id })
	})
	s.logActivity(ctx, activity.TypeProjectDeleted, id, fmt.Sprintf("deleted project %s", id))
	return nil
}

// Snapshot returns the current items in serializable form.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Items: s.Items(), SavedAt: time.Now()}
}

// Restore applies a previously saved snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.ApplyLocal(snap.Items)
}

// begin marks one more call in flight.
func (s *Store) begin() {
	s.set(func(st *State) {
		s.pending++
		st.IsLoading = true
		st.Error = ""
	})
}

// end settles one call. IsLoading stays set while others are in flight.
func (s *Store) end(mutate func(*State)) {
	s.set(func(st *State) {
		if s.pending > 0 {
			s.pending--
		}
		st.IsLoading = s.pending > 0
		mutate(st)
	})
}

func (s *Store) fail(message string) {
	s.end(func(st *State) {
		st.Error = message
	})
}

// set applies mutate and notifies observers in transition order.
func (s *Store) set(mutate func(*State)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	mutate(&s.state)
	st := s.state.clone()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.notifyMu.Lock()
	s.mu.Unlock()

	defer s.notifyMu.Unlock()
	for _, fn := range observers {
		fn(st)
	}
}

func (s *Store) logActivity(ctx context.Context, typ activity.ActivityType, projectID, summary string) {
	if s.activities == nil {
		return
	}
	id := projectID
	_ = s.activities.Log(ctx, s.scope, &activity.ActivityEntry{
		ProjectID:    &id,
		ActivityType: typ,
		Summary:      summary,
	})
}

func (st State) clone() State {
	st.Items = slices.Clone(st.Items)
	return st
}
