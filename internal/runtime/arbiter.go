package runtime

import (
	"context"
	"io"
	"log/slog"
	"math"
	"reflect"
	"time"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/aretw0/backstack/pkg/ports"
)

// BackParam is the screen parameter that disarms hardware back when falsy.
const BackParam = "back"

// Arm computes whether a back signal should pop the screen rendered with params.
// Back stays armed unless params carry an explicit falsy "back" value.
func Arm(params domain.Params) domain.ArbiterState {
	v, ok := params[BackParam]
	if !ok {
		return domain.ArbiterState{Armed: true}
	}
	return domain.ArbiterState{Armed: truthy(v)}
}

// truthy follows scripting-language falsiness for scalars: nil, false, zero
// numbers, NaN and the empty string are falsy; everything else is truthy.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Arbiter turns platform back signals into pops.
// It holds no navigation state: arming is computed per render and passed in.
type Arbiter struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// ArbiterOption configures an Arbiter.
type ArbiterOption func(*Arbiter)

// WithArbiterHooks registers observability hooks.
func WithArbiterHooks(hooks domain.LifecycleHooks) ArbiterOption {
	return func(a *Arbiter) {
		a.hooks = hooks
	}
}

// WithArbiterLogger sets a structured logger.
func WithArbiterLogger(logger *slog.Logger) ArbiterOption {
	return func(a *Arbiter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewArbiter creates an arbiter.
func NewArbiter(opts ...ArbiterOption) *Arbiter {
	a := &Arbiter{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleBack reacts to a platform back signal for the visible scene.
// When the scene is armed it dispatches Pop.
//
// The event is always reported as consumed, armed or not, so the platform never
// falls through to its default behavior (usually leaving the app). This matches
// the long-standing host contract; see DESIGN.md before changing it.
func (a *Arbiter) HandleBack(ctx context.Context, sessionID string, scene domain.Scene, d ports.Dispatcher) (consumed bool, err error) {
	popped := false
	if scene.Back.Armed {
		if err := d.Dispatch(ctx, domain.Pop{}); err != nil {
			return true, err
		}
		popped = true
	}

	a.logger.Debug("back press handled", "session_id", sessionID, "route", scene.Route.Key, "armed", scene.Back.Armed, "popped", popped)
	if a.hooks.OnBack != nil {
		a.hooks.OnBack(ctx, &domain.BackEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBack, SessionID: sessionID},
			RouteKey:  scene.Route.Key,
			Armed:     scene.Back.Armed,
			Popped:    popped,
			Consumed:  true,
		})
	}
	return true, nil
}
