package backstack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/backstack/internal/logging"
	"github.com/aretw0/backstack/internal/runtime"
	"github.com/aretw0/backstack/pkg/domain"
	"github.com/aretw0/backstack/pkg/ports"
	"github.com/aretw0/backstack/pkg/routes"
)

// Navigator is the in-process entry point. It owns one NavigationState and
// applies actions to it one at a time.
type Navigator struct {
	mu      sync.Mutex
	table   *routes.Table
	loader  ports.ConfigLoader
	state   *domain.NavigationState
	arbiter *runtime.Arbiter
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	Name    string
}

// Ensure Navigator implements ports.Dispatcher
var _ ports.Dispatcher = (*Navigator)(nil)

// Option defines a functional option for configuring the Navigator.
type Option func(*Navigator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Navigator) {
		n.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the navigator.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithInitialState seeds the stack, e.g. with a state restored by the host.
func WithInitialState(state *domain.NavigationState) Option {
	return func(n *Navigator) {
		n.state = state
	}
}

// WithName labels log lines and events with a session name.
func WithName(name string) Option {
	return func(n *Navigator) {
		n.Name = name
	}
}

// New builds the route table from cfg and returns a Navigator with an empty stack.
func New(cfg domain.Config, opts ...Option) (*Navigator, error) {
	table, err := routes.Build(cfg)
	if err != nil {
		return nil, err
	}
	return newNavigator(table, opts)
}

// NewFromTable wraps an already built table.
func NewFromTable(table *routes.Table, opts ...Option) (*Navigator, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil route table", domain.ErrConfig)
	}
	return newNavigator(table, opts)
}

// NewFromLoader loads the configuration once. The loader is kept for Reload.
func NewFromLoader(ctx context.Context, loader ports.ConfigLoader, opts ...Option) (*Navigator, error) {
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}
	table, err := routes.Build(cfg)
	if err != nil {
		return nil, err
	}
	n, err := newNavigator(table, opts)
	if err != nil {
		return nil, err
	}
	n.loader = loader
	return n, nil
}

func newNavigator(table *routes.Table, opts []Option) (*Navigator, error) {
	n := &Navigator{table: table}
	for _, opt := range opts {
		opt(n)
	}

	// Ensure logger is initialized so the arbiter never gets nil
	if n.logger == nil {
		n.logger = logging.NewNop()
	}
	if n.Name != "" {
		n.logger = n.logger.With("session_id", n.Name)
	}

	if n.state == nil {
		n.state = domain.NewState()
	} else if err := n.state.Validate(); err != nil {
		return nil, err
	}

	n.arbiter = runtime.NewArbiter(
		runtime.WithArbiterHooks(n.hooks),
		runtime.WithArbiterLogger(n.logger),
	)
	return n, nil
}

// Start pushes the index route when the stack is empty and returns the state.
func (n *Navigator) Start(ctx context.Context) (*domain.NavigationState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state.Len() > 0 {
		return n.state, nil
	}
	return n.apply(ctx, domain.Push{Route: domain.RouteInstance{Key: n.table.IndexRoute().Key}})
}

// Dispatch applies action to the stack. Implements ports.Dispatcher.
func (n *Navigator) Dispatch(ctx context.Context, action domain.Action) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := n.apply(ctx, action)
	return err
}

// Navigate pushes key. It reports false, instead of failing, when the request
// carries no usable key.
func (n *Navigator) Navigate(ctx context.Context, key string, params domain.Params) bool {
	err := n.Dispatch(ctx, domain.Push{Route: domain.Route(key, params)})
	if err == nil {
		return true
	}
	if !errors.Is(err, domain.ErrInvalidAction) {
		n.logger.Warn("navigate failed", "key", key, "err", err)
	}
	return false
}

// Back forwards a platform back press to the arbiter of the visible screen.
// The press is always reported consumed. A screen that disarmed back keeps the
// stack as is.
func (n *Navigator) Back(ctx context.Context) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	scene, err := n.scene(ctx)
	if err != nil {
		// Nothing visible to arbitrate; swallow the press like any other.
		n.logger.Debug("back without scene", "err", err)
		return true
	}

	d := ports.DispatcherFunc(func(ctx context.Context, action domain.Action) error {
		_, err := n.apply(ctx, action)
		return err
	})
	consumed, err := n.arbiter.HandleBack(ctx, n.Name, scene, d)
	if err != nil {
		n.logger.Warn("back dispatch failed", "err", err)
	}
	return consumed
}

// Scene resolves the visible entry against the route table.
func (n *Navigator) Scene(ctx context.Context) (domain.Scene, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.scene(ctx)
}

// State returns the current state. States are never mutated in place, so the
// pointer may be kept and compared against later results.
func (n *Navigator) State() *domain.NavigationState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Table returns the active route table.
func (n *Navigator) Table() *routes.Table {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.table
}

// Reload rebuilds the route table from the loader given to NewFromLoader.
// The stack is kept; entries whose key is gone resolve through the wildcard or fail on Scene.
func (n *Navigator) Reload(ctx context.Context) error {
	if n.loader == nil {
		return fmt.Errorf("navigator has no config loader")
	}
	cfg, err := n.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload routes: %w", err)
	}
	table, err := routes.Build(cfg)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.table = table
	n.mu.Unlock()
	n.logger.Info("routes reloaded", "routes", len(table.Keys()))
	return nil
}

// Watch returns a channel that signals when the underlying configuration changes.
// Returns error if the loader does not support watching.
func (n *Navigator) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := n.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// apply must run with n.mu held.
func (n *Navigator) apply(ctx context.Context, action domain.Action) (*domain.NavigationState, error) {
	before := n.state
	next, err := runtime.Reduce(before, action)
	runtime.EmitTransition(ctx, n.hooks, n.Name, action, before, next, err)
	if err != nil {
		return nil, err
	}
	n.state = next
	n.logger.Debug("action applied",
		"action", action.Type(),
		"index", next.CurrentIndex(),
		"depth", next.Len(),
		"noop", next == before,
	)
	return next, nil
}

// scene must run with n.mu held.
func (n *Navigator) scene(ctx context.Context) (domain.Scene, error) {
	current, ok := n.state.Current()
	if !ok {
		return domain.Scene{}, fmt.Errorf("empty stack: %w", domain.ErrInvalidIndex)
	}
	scene, err := n.table.Scene(current)
	runtime.EmitResolve(ctx, n.hooks, n.Name, current.Key, scene.Definition, scene.Definition.IsWildcard(), err)
	return scene, err
}

// Reduce applies one action to state without a Navigator. The input is never
// mutated; a no-op returns state itself.
func Reduce(state *domain.NavigationState, action domain.Action) (*domain.NavigationState, error) {
	return runtime.Reduce(state, action)
}
