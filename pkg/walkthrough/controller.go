package walkthrough

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/labtour/internal/logging"
	"github.com/aretw0/labtour/pkg/domain"
)

// Outcome is the result of an Advance call.
type Outcome int

const (
	// OutcomeMoved means the walkthrough moved to the next scene.
	OutcomeMoved Outcome = iota
	// OutcomeComplete means Advance was called on the last scene.
	// The index is left unchanged; the caller decides whether to exit or reset.
	OutcomeComplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Controller applies walkthrough operations to a State against a fixed Catalog.
// It holds no session state itself and is safe for concurrent use as long as each
// State has a single mutator.
type Controller struct {
	catalog *domain.Catalog
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Controller.
type Option func(*Controller)

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger configures a logger for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Controller for the given catalog.
func New(catalog *domain.Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog: catalog,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the catalog driven by this controller.
func (c *Controller) Catalog() *domain.Catalog {
	return c.catalog
}

// Start returns a fresh state positioned at the first scene.
func (c *Controller) Start(sessionID string) *domain.State {
	return domain.NewState(sessionID)
}

// Enter reports the current scene as entered. Used when a session is first activated.
func (c *Controller) Enter(ctx context.Context, state *domain.State) {
	c.emitScene(ctx, c.hooks.OnSceneEnter, domain.EventSceneEnter, state)
}

// Advance moves to the next scene. On the last scene it returns OutcomeComplete
// and leaves the state untouched. The global state is never modified.
func (c *Controller) Advance(ctx context.Context, state *domain.State) Outcome {
	c.Normalize(state)

	if state.CurrentIndex >= c.catalog.Len()-1 {
		c.logger.Debug("walkthrough complete", "session_id", state.SessionID, "index", state.CurrentIndex)
		c.emitScene(ctx, c.hooks.OnComplete, domain.EventComplete, state)
		return OutcomeComplete
	}

	c.moveTo(ctx, state, state.CurrentIndex+1)
	return OutcomeMoved
}

// Retreat moves to the previous scene. At the first scene it does nothing.
// It reports whether the index changed.
func (c *Controller) Retreat(ctx context.Context, state *domain.State) bool {
	c.Normalize(state)

	if state.CurrentIndex == 0 {
		return false
	}

	c.moveTo(ctx, state, state.CurrentIndex-1)
	return true
}

// JumpTo moves directly to index. Indices outside the catalog are ignored,
// since they usually come from untrusted navigation parameters.
// It reports whether the jump was applied.
func (c *Controller) JumpTo(ctx context.Context, state *domain.State, index int) bool {
	c.Normalize(state)

	if !c.catalog.Contains(index) {
		c.logger.Debug("ignoring out of range jump",
			"session_id", state.SessionID,
			"index", index,
			"len", c.catalog.Len(),
		)
		return false
	}
	if index == state.CurrentIndex {
		return true
	}

	c.moveTo(ctx, state, index)
	return true
}

// UpdateState inserts or overwrites a key of the global state.
// No validation is performed here; see domain.ValidateChoice.
func (c *Controller) UpdateState(ctx context.Context, state *domain.State, key string, value any) {
	if state.GlobalState == nil {
		state.GlobalState = make(map[string]any)
	}
	state.GlobalState[key] = value

	if c.hooks.OnStateUpdate != nil {
		c.hooks.OnStateUpdate(ctx, &domain.UpdateEvent{
			EventBase: c.base(domain.EventStateUpdate, state),
			Index:     state.CurrentIndex,
			Key:       key,
			Value:     value,
		})
	}
}

// Reset returns the state to the first scene and clears the global state.
func (c *Controller) Reset(ctx context.Context, state *domain.State) {
	state.CurrentIndex = 0
	state.GlobalState = make(map[string]any)
	state.History = []int{0}

	c.emitScene(ctx, c.hooks.OnReset, domain.EventReset, state)
	c.emitScene(ctx, c.hooks.OnSceneEnter, domain.EventSceneEnter, state)
}

// Normalize repairs a state whose index no longer fits the catalog
// (e.g. a persisted session loaded against a shorter catalog) by moving it
// to the first scene. It reports whether a repair happened.
func (c *Controller) Normalize(state *domain.State) bool {
	if state.GlobalState == nil {
		state.GlobalState = make(map[string]any)
	}
	if c.catalog.Contains(state.CurrentIndex) {
		return false
	}

	c.logger.Warn("session index outside catalog, restarting at first scene",
		"session_id", state.SessionID,
		"index", state.CurrentIndex,
		"len", c.catalog.Len(),
	)
	state.CurrentIndex = 0
	state.History = append(state.History, 0)
	return true
}

// Current resolves the scene for the state's index.
func (c *Controller) Current(state *domain.State) domain.Scene {
	scene, err := c.catalog.At(state.CurrentIndex)
	if err != nil {
		scene, _ = c.catalog.At(0)
	}
	return scene
}

// Progress returns (CurrentIndex+1)/Len, a value in (0, 1].
func (c *Controller) Progress(state *domain.State) float64 {
	idx := state.CurrentIndex
	if !c.catalog.Contains(idx) {
		idx = 0
	}
	return float64(idx+1) / float64(c.catalog.Len())
}

func (c *Controller) moveTo(ctx context.Context, state *domain.State, index int) {
	c.emitScene(ctx, c.hooks.OnSceneLeave, domain.EventSceneLeave, state)

	state.CurrentIndex = index
	state.History = append(state.History, index)

	c.emitScene(ctx, c.hooks.OnSceneEnter, domain.EventSceneEnter, state)
}

func (c *Controller) emitScene(ctx context.Context, hook func(context.Context, *domain.SceneEvent), typ domain.EventType, state *domain.State) {
	if hook == nil {
		return
	}
	scene := c.Current(state)
	hook(ctx, &domain.SceneEvent{
		EventBase: c.base(typ, state),
		Index:     state.CurrentIndex,
		Scene:     scene.Name,
		Kind:      scene.Kind,
	})
}

func (c *Controller) base(typ domain.EventType, state *domain.State) domain.EventBase {
	return domain.EventBase{
		Timestamp: c.now(),
		Type:      typ,
		SessionID: state.SessionID,
	}
}
