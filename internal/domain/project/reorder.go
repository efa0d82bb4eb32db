package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	// BatchReorder labels batches started by a drag gesture.
	BatchReorder = "reorder"
	// BatchNormalize labels batches that repair non-contiguous orders.
	BatchNormalize = "normalize"

	defaultReconcileTimeout = 30 * time.Second
)

// CoordinatorConfig carries the optional collaborators of a Coordinator.
type CoordinatorConfig struct {
	Notifier   Notifier
	Activities ActivityRepository
	Scope      string
	Observer   BatchObserver
	Logger     *slog.Logger
	// MaxConcurrency bounds in-flight order writes; zero means unbounded.
	MaxConcurrency int
	// SendFullRecord makes every order write carry the whole record.
	SendFullRecord   bool
	ReconcileTimeout time.Duration
	Now              func() time.Time
}

// ReorderResult describes what a batch wrote.
type ReorderResult struct {
	Noop    bool          `json:"noop"`
	Changes []OrderChange `json:"changes,omitempty"`
}

// WriteFailure is one failed order write.
type WriteFailure struct {
	ID  string
	Err error
}

// BatchError aggregates the failed writes of one batch. It matches
// ErrReorderFailed.
type BatchError struct {
	Total    int
	Failures []WriteFailure
}

func (e *BatchError) Error() string {
	parts := lo.Map(e.Failures, func(f WriteFailure, _ int) string {
		return fmt.Sprintf("%s: %v", f.ID, f.Err)
	})
	return fmt.Sprintf("%d of %d order updates failed: %s", len(e.Failures), e.Total, strings.Join(parts, "; "))
}

func (e *BatchError) Is(target error) bool {
	return target == ErrReorderFailed
}

func (e *BatchError) Unwrap() []error {
	return lo.Map(e.Failures, func(f WriteFailure, _ int) error { return f.Err })
}

// Coordinator turns a reorder gesture into an optimistic local update plus
// one order write per changed project, rolling back when any write fails.
type Coordinator struct {
	store   *Store
	backend Backend
	cfg     CoordinatorConfig
	logger  *slog.Logger

	gen      atomic.Uint64
	inflight atomic.Int64
}

// NewCoordinator creates a Coordinator driving store and backend.
func NewCoordinator(store *Store, backend Backend, cfg CoordinatorConfig) *Coordinator {
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ReconcileTimeout <= 0 {
		cfg.ReconcileTimeout = defaultReconcileTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{store: store, backend: backend, cfg: cfg, logger: logger}
}

// Reorder moves the project at sourceIndex to destinationIndex. Out-of-range
// indices and sourceIndex == destinationIndex are no-ops.
func (c *Coordinator) Reorder(ctx context.Context, sourceIndex, destinationIndex int) (ReorderResult, error) {
	snapshot := c.store.Items()
	moved, ok := Move(snapshot, sourceIndex, destinationIndex)
	if !ok {
		return ReorderResult{Noop: true}, nil
	}
	summary := fmt.Sprintf("moved project %s from position %d to %d",
		snapshot[sourceIndex].ID, sourceIndex+1, destinationIndex+1)
	return c.runBatch(ctx, BatchReorder, summary, snapshot, Renumber(moved))
}

// Normalize sorts the current projects by order and renumbers them
// contiguously, writing every order that changes.
func (c *Coordinator) Normalize(ctx context.Context) (ReorderResult, error) {
	snapshot := c.store.Items()
	if IsNormalized(snapshot) {
		return ReorderResult{Noop: true}, nil
	}
	next := Renumber(SortByOrder(snapshot))
	if len(Diff(snapshot, next)) == 0 {
		c.store.ApplyLocal(next)
		return ReorderResult{Noop: true}, nil
	}
	summary := fmt.Sprintf("renumbered %d projects", len(next))
	return c.runBatch(ctx, BatchNormalize, summary, snapshot, next)
}

func (c *Coordinator) runBatch(ctx context.Context, kind, summary string, snapshot, next []Project) (ReorderResult, error) {
	gen := c.gen.Add(1)
	c.inflight.Add(1)
	start := time.Now()
	changes := Diff(snapshot, next)
	result := ReorderResult{Changes: changes}

	c.store.ApplyLocal(next)

	toastID := fmt.Sprintf("%s-%d", kind, gen)
	c.cfg.Notifier.Loading(toastID, loadingMessage(kind))
	err := c.persist(ctx, next, changes)

	last := c.inflight.Add(-1) == 0
	elapsed := time.Since(start)

	if err != nil {
		if c.gen.Load() == gen {
			c.store.ApplyLocal(snapshot)
		} else {
			c.logger.Debug("newer batch owns local state, skipping rollback", "batch", gen)
		}
	}
	// the indicator stays up until local state has settled
	if last {
		c.reconcile(ctx)
	}
	c.cfg.Notifier.Dismiss(toastID)

	if err != nil {
		c.logger.Warn("order batch failed", "kind", kind, "writes", len(changes), "error", err)
		c.cfg.Notifier.Error(failureMessage(kind))
		c.observe(kind, "failure", len(changes), elapsed)
		c.logActivity(ctx, activity.TypeReorderFailed, summary, changes)
		return result, err
	}

	c.logger.Info("order batch persisted", "kind", kind, "writes", len(changes), "elapsed", elapsed)
	c.cfg.Notifier.Success(successMessage(kind))
	c.observe(kind, "success", len(changes), elapsed)
	typ := activity.TypeProjectsReordered
	if kind == BatchNormalize {
		typ = activity.TypeProjectsNormalized
	}
	c.logActivity(ctx, typ, summary, changes)
	return result, nil
}

// persist issues every order write concurrently and waits for all of them.
func (c *Coordinator) persist(ctx context.Context, next []Project, changes []OrderChange) error {
	if len(changes) == 0 {
		return nil
	}
	byID := lo.KeyBy(next, func(p Project) string { return p.ID })
	now := c.cfg.Now()
	errs := make([]error, len(changes))

	var g errgroup.Group
	if c.cfg.MaxConcurrency > 0 {
		g.SetLimit(c.cfg.MaxConcurrency)
	}
	for i, change := range changes {
		g.Go(func() error {
			_, err := c.backend.UpdateProject(ctx, change.ID, c.patchFor(byID[change.ID], now))
			errs[i] = err
			return err
		})
	}
	_ = g.Wait()

	var failures []WriteFailure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, WriteFailure{ID: changes[i].ID, Err: err})
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &BatchError{Total: len(changes), Failures: failures}
}

func (c *Coordinator) patchFor(p Project, now time.Time) Patch {
	if c.cfg.SendFullRecord {
		p.UpdatedAt = now
		return FullPatch(p)
	}
	order := p.Order
	return Patch{Order: &order, UpdatedAt: &now}
}

// reconcile re-reads the server collection. It is detached from caller
// cancellation so an abandoned batch still leaves a consistent view.
func (c *Coordinator) reconcile(ctx context.Context) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.ReconcileTimeout)
	defer cancel()
	if err := c.store.FetchAll(rctx); err != nil {
		c.logger.Warn("reconciliation fetch failed", "error", err)
	}
}

func (c *Coordinator) observe(kind, outcome string, writes int, elapsed time.Duration) {
	if c.cfg.Observer != nil {
		c.cfg.Observer.ObserveBatch(kind, outcome, writes, elapsed)
	}
}

func (c *Coordinator) logActivity(ctx context.Context, typ activity.ActivityType, summary string, changes []OrderChange) {
	if c.cfg.Activities == nil {
		return
	}
	details, err := json.Marshal(changes)
	if err != nil {
		details = nil
	}
	_ = c.cfg.Activities.Log(context.WithoutCancel(ctx), c.cfg.Scope, &activity.ActivityEntry{
		ActivityType: typ,
		Summary:      summary,
		Details:      string(details),
	})
}

// IsReorderFailure reports whether err came from a failed batch.
func IsReorderFailure(err error) bool {
	return errors.Is(err, ErrReorderFailed)
}

func loadingMessage(kind string) string {
	if kind == BatchNormalize {
		return "Normalizing project order..."
	}
	return "Updating project order..."
}

func successMessage(kind string) string {
	if kind == BatchNormalize {
		return "Project order normalized"
	}
	return "Project order updated"
}

func failureMessage(kind string) string {
	if kind == BatchNormalize {
		return "Failed to normalize project order"
	}
	return "Failed to update project order"
}

type nopNotifier struct{}

func (nopNotifier) Loading(string, string) {}
func (nopNotifier) Dismiss(string)         {}
func (nopNotifier) Success(string)         {}
func (nopNotifier) Error(string)           {}
