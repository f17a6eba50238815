package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/backstack/internal/logging"
	"github.com/aretw0/backstack/internal/runtime"
	"github.com/aretw0/backstack/pkg/domain"
	"github.com/aretw0/backstack/pkg/ports"
	"github.com/aretw0/backstack/pkg/routes"
)

// DefaultLockTTL bounds how long a crashed replica can hold a session.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes dispatch per session.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.StateStore

	tableMu sync.RWMutex
	table   *routes.Table

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	arbiter *runtime.Arbiter
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// NewManager creates a Manager for the screens of table, keeping states in store.
func NewManager(store ports.StateStore, table *routes.Table, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		table:   table,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.arbiter = runtime.NewArbiter(
		runtime.WithArbiterHooks(m.hooks),
		runtime.WithArbiterLogger(m.logger),
	)
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the dispatch lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Table returns the route table sessions render from.
func (m *Manager) Table() *routes.Table {
	m.tableMu.RLock()
	defer m.tableMu.RUnlock()
	return m.table
}

// SetTable swaps the route table, e.g. after a config reload.
// Stored stacks are kept as they are.
func (m *Manager) SetTable(table *routes.Table) {
	if table == nil {
		return
	}
	m.tableMu.Lock()
	m.table = table
	m.tableMu.Unlock()
}

// Load retrieves an existing session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.NavigationState, error) {
	var state *domain.NavigationState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// LoadOrStart loads a session, creating it on the index route when missing.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*domain.NavigationState, error) {
	var state *domain.NavigationState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.loadOrStart(ctx, sessionID)
		return err
	})
	return state, err
}

// loadOrStart must run under the session lock.
func (m *Manager) loadOrStart(ctx context.Context, sessionID string) (*domain.NavigationState, error) {
	state, err := m.store.Load(ctx, sessionID)
	if err == nil {
		// An emptied stack is a valid state and stays empty.
		return state, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}

	start := domain.Push{Route: domain.RouteInstance{Key: m.Table().IndexRoute().Key}}
	next, err := m.apply(ctx, sessionID, state, start)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.Debug("session started", "session_id", sessionID, "route", start.Route.Key)
	return next, nil
}

// apply reduces and saves. It must run under the session lock.
func (m *Manager) apply(ctx context.Context, sessionID string, state *domain.NavigationState, action domain.Action) (*domain.NavigationState, error) {
	next, err := runtime.Reduce(state, action)
	runtime.EmitTransition(ctx, m.hooks, sessionID, action, state, next, err)
	if err != nil {
		return nil, err
	}
	if next != state {
		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}
	m.logger.Debug("action applied",
		"session_id", sessionID,
		"action", action.Type(),
		"index", next.CurrentIndex(),
		"depth", next.Len(),
		"noop", next == state,
	)
	return next, nil
}

// Dispatch applies action to the session and returns the resulting state.
// Sessions that do not exist yet are started first.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, action domain.Action) (*domain.NavigationState, error) {
	var next *domain.NavigationState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}
		next, err = m.apply(ctx, sessionID, state, action)
		return err
	})
	return next, err
}

// Dispatcher binds the Manager to one session as a ports.Dispatcher.
func (m *Manager) Dispatcher(sessionID string) ports.Dispatcher {
	return ports.DispatcherFunc(func(ctx context.Context, action domain.Action) error {
		_, err := m.Dispatch(ctx, sessionID, action)
		return err
	})
}

// Navigate pushes key from a UI gesture. A request without a usable key is
// rejected with false instead of an error so a bad gesture never ends the session.
func (m *Manager) Navigate(ctx context.Context, sessionID, key string, params domain.Params) (bool, error) {
	_, err := m.Dispatch(ctx, sessionID, domain.Push{Route: domain.Route(key, params)})
	if errors.Is(err, domain.ErrInvalidAction) {
		m.logger.Debug("navigate rejected", "session_id", sessionID, "err", err)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Scene resolves the visible entry of the session.
func (m *Manager) Scene(ctx context.Context, sessionID string) (domain.Scene, error) {
	var scene domain.Scene
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}
		scene, err = m.scene(ctx, sessionID, state)
		return err
	})
	return scene, err
}

func (m *Manager) scene(ctx context.Context, sessionID string, state *domain.NavigationState) (domain.Scene, error) {
	current, ok := state.Current()
	if !ok {
		return domain.Scene{}, fmt.Errorf("session %s: %w", sessionID, domain.ErrInvalidIndex)
	}
	return m.Resolve(ctx, sessionID, current)
}

// Resolve renders entry of the session against the current table.
// It reads no state and never touches the store.
func (m *Manager) Resolve(ctx context.Context, sessionID string, entry domain.RouteInstance) (domain.Scene, error) {
	scene, err := m.Table().Scene(entry)
	runtime.EmitResolve(ctx, m.hooks, sessionID, entry.Key, scene.Definition, scene.Definition.IsWildcard(), err)
	return scene, err
}

// Back handles a platform back press for the session.
// The press is always reported consumed, matching backstack.Navigator.Back.
// popped tells whether a screen left the stack. A session with no resolvable
// visible entry swallows the press without error; store and lock failures are
// still returned.
func (m *Manager) Back(ctx context.Context, sessionID string) (consumed, popped bool, err error) {
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}
		scene, err := m.scene(ctx, sessionID, state)
		if err != nil {
			m.logger.Debug("back without scene", "session_id", sessionID, "err", err)
			return nil
		}

		// The lock is already held, so dispatch applies directly.
		d := ports.DispatcherFunc(func(ctx context.Context, action domain.Action) error {
			next, err := m.apply(ctx, sessionID, state, action)
			if err == nil {
				popped = next != state
				state = next
			}
			return err
		})
		_, err = m.arbiter.HandleBack(ctx, sessionID, scene, d)
		return err
	})
	return true, popped, err
}

// Save replaces the session state. The state must satisfy the index invariant.
func (m *Manager) Save(ctx context.Context, sessionID string, state *domain.NavigationState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, state)
	})
}

// Delete removes the session.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}
