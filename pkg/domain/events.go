package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventBack       EventType = "back"
	EventResolve    EventType = "resolve"
)

// Transition outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// TransitionEvent describes one reducer application.
type TransitionEvent struct {
	EventBase
	Action  ActionType `json:"action"`
	Outcome string     `json:"outcome"`
	Index   int        `json:"index"`
	Depth   int        `json:"depth"`
	Err     error      `json:"-"`
}

// BackEvent describes a platform back signal and what the arbiter did with it.
type BackEvent struct {
	EventBase
	RouteKey string `json:"route_key"`
	Armed    bool   `json:"armed"`
	Popped   bool   `json:"popped"`
	Consumed bool   `json:"consumed"`
}

// ResolveEvent describes a RouteTable lookup.
type ResolveEvent struct {
	EventBase
	Key      string `json:"key"`
	Resolved string `json:"resolved,omitempty"`
	Wildcard bool   `json:"wildcard,omitempty"`
	Err      error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnBack       func(context.Context, *BackEvent)
	OnResolve    func(context.Context, *ResolveEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: chain(h.OnTransition, other.OnTransition),
		OnBack:       chain(h.OnBack, other.OnBack),
		OnResolve:    chain(h.OnResolve, other.OnResolve),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
