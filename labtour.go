package labtour

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/labtour/internal/logging"
	"github.com/aretw0/labtour/pkg/adapters/catalogfile"
	loamAdapter "github.com/aretw0/labtour/pkg/adapters/loam"
	"github.com/aretw0/labtour/pkg/adapters/memory"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/persistence/middleware"
	"github.com/aretw0/labtour/pkg/ports"
	"github.com/aretw0/labtour/pkg/session"
	"github.com/aretw0/labtour/pkg/walkthrough"
)

// Engine is the high-level entry point for the labtour library.
// It binds a catalog, a walkthrough controller and a session store so that
// every operation is addressed by session ID.
type Engine struct {
	ctrl        *walkthrough.Controller
	catalog     *domain.Catalog
	loader      ports.CatalogLoader
	store       ports.StateStore
	middlewares []middleware.Middleware
	locker      ports.DistributedLocker
	manager     *session.Manager
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog uses an already built catalog and skips loading.
func WithCatalog(c *domain.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithLoader injects a custom CatalogLoader, bypassing path based detection.
func WithLoader(l ports.CatalogLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithStore sets the session store (default: in memory).
func WithStore(s ports.StateStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithStoreMiddleware wraps the session store. The first middleware is the outermost.
func WithStoreMiddleware(mws ...middleware.Middleware) Option {
	return func(e *Engine) {
		e.middlewares = append(e.middlewares, mws...)
	}
}

// WithLocker enables distributed locking of sessions.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
//
// The catalog comes from, in order: WithCatalog, WithLoader, or path. A path
// ending in .yaml, .yml or .json is read as a catalog file; any other path is
// opened as a Loam repository of scene documents. With no path the built-in
// lab catalog is used.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.catalog == nil {
		if eng.loader == nil {
			loader, name, err := loaderFor(path)
			if err != nil {
				return nil, err
			}
			eng.loader = loader
			eng.Name = name
		}

		catalog, err := eng.loader.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		eng.catalog = catalog
	}
	if eng.Name == "" {
		eng.Name = DefaultName
		if path != "" {
			eng.Name = nameOf(path)
		}
	}

	eng.logger = eng.logger.With("catalog", eng.Name)

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	eng.store = middleware.Chain(eng.store, eng.middlewares...)

	managerOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker))
	}
	eng.manager = session.NewManager(eng.store, managerOpts...)

	eng.ctrl = walkthrough.New(eng.catalog,
		walkthrough.WithHooks(eng.hooks),
		walkthrough.WithLogger(eng.logger),
	)

	return eng, nil
}

func loaderFor(path string) (ports.CatalogLoader, string, error) {
	if path == "" {
		return DefaultLoader(), DefaultName, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return catalogfile.New(path), nameOf(path), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("invalid catalog path: %w", err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("invalid catalog path %s: expected a directory or a .yaml/.json file", path)
	}

	loader, err := loamAdapter.Open(path)
	if err != nil {
		return nil, "", err
	}
	return loader, nameOf(path), nil
}

func nameOf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	base := filepath.Base(abs)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Result is the outcome of a mutating operation.
type Result struct {
	// View is the read model after the operation.
	View walkthrough.View `json:"view"`

	// Moved reports whether the current index changed (or, for JumpTo, whether the jump applied).
	Moved bool `json:"moved"`

	// Complete is set when Advance was called on the last scene.
	Complete bool `json:"complete"`

	// Created is set by Start when the session did not exist before.
	Created bool `json:"created,omitempty"`

	// Diff holds what changed in the persisted state. Nil when nothing changed.
	Diff *domain.StateDiff `json:"diff,omitempty"`
}

// Start loads the session or creates it at the first scene. A non-empty
// startParam is treated as an untrusted deep link: valid indices are jumped
// to, anything else is ignored.
func (e *Engine) Start(ctx context.Context, sessionID, startParam string) (Result, error) {
	state, created, err := e.manager.LoadOrStart(ctx, sessionID, nil)
	if err != nil {
		return Result{}, err
	}
	if created {
		e.logger.Info("session started", "session_id", sessionID)
		e.ctrl.Enter(ctx, state)
	}

	if strings.TrimSpace(startParam) == "" {
		return Result{View: e.ctrl.View(state), Moved: created, Created: created}, nil
	}

	res, err := e.mutate(ctx, sessionID, func(s *domain.State) (bool, bool) {
		return e.ctrl.ApplyStartParam(ctx, s, startParam), false
	})
	if err != nil {
		return Result{}, err
	}
	res.Moved = res.Moved || created
	res.Created = created
	return res, nil
}

// View returns the read model of a session.
func (e *Engine) View(ctx context.Context, sessionID string) (walkthrough.View, error) {
	state, err := e.manager.Load(ctx, sessionID)
	if err != nil {
		return walkthrough.View{}, err
	}
	e.ctrl.Normalize(state)
	return e.ctrl.View(state), nil
}

// State returns a copy of the persisted state of a session.
func (e *Engine) State(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.manager.Load(ctx, sessionID)
}

// Advance moves the session forward. On the last scene the result is Complete
// and nothing is written.
func (e *Engine) Advance(ctx context.Context, sessionID string) (Result, error) {
	return e.mutate(ctx, sessionID, func(s *domain.State) (bool, bool) {
		outcome := e.ctrl.Advance(ctx, s)
		return outcome == walkthrough.OutcomeMoved, outcome == walkthrough.OutcomeComplete
	})
}

// Retreat moves the session back, staying on the first scene.
func (e *Engine) Retreat(ctx context.Context, sessionID string) (Result, error) {
	return e.mutate(ctx, sessionID, func(s *domain.State) (bool, bool) {
		return e.ctrl.Retreat(ctx, s), false
	})
}

// JumpTo moves the session to index. Invalid indices are ignored and reported
// through Result.Moved.
func (e *Engine) JumpTo(ctx context.Context, sessionID string, index int) (Result, error) {
	return e.mutate(ctx, sessionID, func(s *domain.State) (bool, bool) {
		return e.ctrl.JumpTo(ctx, s, index), false
	})
}

// UpdateState records a value in the session's global state. Keys with a
// typed meaning (such as the application method) are validated first and
// rejected with domain.ErrInvalidChoice.
func (e *Engine) UpdateState(ctx context.Context, sessionID, key string, value any) (Result, error) {
	if err := domain.ValidateChoice(key, value); err != nil {
		return Result{}, err
	}
	return e.mutate(ctx, sessionID, func(s *domain.State) (bool, bool) {
		e.ctrl.UpdateState(ctx, s, key, value)
		return false, false
	})
}

// Reset returns the session to the first scene with an empty global state.
func (e *Engine) Reset(ctx context.Context, sessionID string) (Result, error) {
	return e.mutate(ctx, sessionID, func(s *domain.State) (bool, bool) {
		moved := s.CurrentIndex != 0
		e.ctrl.Reset(ctx, s)
		return moved, false
	})
}

// End deletes the session.
func (e *Engine) End(ctx context.Context, sessionID string) error {
	if err := e.manager.Delete(ctx, sessionID); err != nil {
		return err
	}
	e.logger.Info("session ended", "session_id", sessionID)
	return nil
}

// Sessions lists the stored session IDs.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.manager.List(ctx)
}

// Catalog returns the scene catalog.
func (e *Engine) Catalog() *domain.Catalog {
	return e.catalog
}

// Controller returns the walkthrough controller, for callers managing their own state.
func (e *Engine) Controller() *walkthrough.Controller {
	return e.ctrl
}

// Manager returns the session manager.
func (e *Engine) Manager() *session.Manager {
	return e.manager
}

// Store returns the (wrapped) session store.
func (e *Engine) Store() ports.StateStore {
	return e.store
}

// errNoChange aborts the manager's save when an operation left the state untouched.
var errNoChange = errors.New("no change")

func (e *Engine) mutate(ctx context.Context, sessionID string, op func(*domain.State) (moved, complete bool)) (Result, error) {
	var (
		res    Result
		before *domain.State
		after  *domain.State
	)

	_, err := e.manager.Update(ctx, sessionID, func(s *domain.State) error {
		before = s.Snapshot()
		e.ctrl.Normalize(s)
		res.Moved, res.Complete = op(s)
		after = s
		res.Diff = domain.Diff(before, s)
		if res.Diff == nil {
			return errNoChange
		}
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return Result{}, err
	}

	res.View = e.ctrl.View(after)
	return res, nil
}
