package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rpggio/folio/internal/apiclient"
	"github.com/rpggio/folio/internal/auth"
	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/notify"
	"github.com/rpggio/folio/internal/repository"
	"github.com/rpggio/folio/internal/sqlite"
)

// deps are built on first use.
type deps struct {
	creds  *auth.FileStore
	client *apiclient.Client
	db     *sqlite.DB
}

func (a *App) credentials() *auth.FileStore {
	if a.deps == nil {
		a.deps = &deps{}
	}
	if a.deps.creds == nil {
		a.deps.creds = &auth.FileStore{Dir: a.cfg.Auth.CredentialsDir, EnvToken: os.Getenv("FOLIO_TOKEN")}
	}
	return a.deps.creds
}

// scope identifies the API whose data the cache and activity log hold.
func (a *App) scope() string {
	return strings.TrimRight(a.cfg.API.URL, "/")
}

// client returns an API client. When requireLogin is set and no token is
// stored, it fails with auth.ErrNotLoggedIn.
func (a *App) client(requireLogin bool) (*apiclient.Client, error) {
	creds := a.credentials()
	if requireLogin {
		ti, err := creds.Get()
		if err != nil {
			return nil, err
		}
		if ti == nil || ti.Token == "" {
			return nil, auth.ErrNotLoggedIn
		}
	}
	if a.deps.client == nil {
		a.deps.client = apiclient.New(apiclient.Config{
			BaseURL: a.cfg.API.URL,
			Timeout: a.cfg.API.Timeout,
			Tokens:  creds,
			Logger:  a.logger,
		})
	}
	return a.deps.client, nil
}

func (a *App) cache() (*sqlite.DB, error) {
	a.credentials()
	if a.deps.db != nil {
		return a.deps.db, nil
	}
	if err := ensureDir(a.cfg.Cache.Path); err != nil {
		return nil, fmt.Errorf("preparing cache directory: %w", err)
	}
	db, err := sqlite.Open(a.cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	a.deps.db = db
	a.closers = append(a.closers, db)
	return db, nil
}

// projectSession is a Store and Coordinator wired to the API and cache.
type projectSession struct {
	app   *App
	store *project.Store
	coord *project.Coordinator
	cache *sqlite.ProjectCache
}

type sessionOptions struct {
	notifier project.Notifier
	observer project.BatchObserver
}

func (a *App) projects(opts sessionOptions) (*projectSession, error) {
	client, err := a.client(true)
	if err != nil {
		return nil, err
	}
	db, err := a.cache()
	if err != nil {
		return nil, err
	}
	activities := sqlite.NewActivityRepository(db)

	notifier := opts.notifier
	if notifier == nil {
		notifier = notify.Multi{notify.NewTerminal(a.io.Err, nil, false), notify.NewLog(a.logger)}
	}

	store := project.NewStore(client, activities, a.scope(), a.logger)
	coord := project.NewCoordinator(store, client, project.CoordinatorConfig{
		Notifier:       notifier,
		Activities:     activities,
		Scope:          a.scope(),
		Observer:       opts.observer,
		Logger:         a.logger,
		MaxConcurrency: a.cfg.Reorder.MaxConcurrency,
		SendFullRecord: a.cfg.Reorder.FullRecord,
	})
	return &projectSession{app: a, store: store, coord: coord, cache: sqlite.NewProjectCache(db)}, nil
}

// save persists the displayed projects. Failing to write the cache never
// fails the command that produced the data.
func (s *projectSession) save(ctx context.Context) {
	if err := s.cache.Save(context.WithoutCancel(ctx), s.app.scope(), s.store.Snapshot()); err != nil {
		s.app.logger.Warn("saving project cache failed", "error", err)
	}
}

// cached loads the last saved snapshot, or nil when none exists.
func (s *projectSession) cached(ctx context.Context) (*project.Snapshot, error) {
	snap, err := s.cache.Load(ctx, s.app.scope())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return snap, err
}

func (a *App) activityService() (*activity.Service, error) {
	db, err := a.cache()
	if err != nil {
		return nil, err
	}
	return activity.NewService(sqlite.NewActivityRepository(db), a.logger), nil
}
