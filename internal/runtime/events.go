package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/backstack/pkg/domain"
)

// Outcome classifies the result of a Reduce call.
func Outcome(before, after *domain.NavigationState, err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAction):
		return domain.OutcomeRejected
	case err != nil:
		return domain.OutcomeFailed
	case before == after:
		return domain.OutcomeNoop
	}
	return domain.OutcomeApplied
}

// EmitTransition reports one Reduce call to hooks.
func EmitTransition(ctx context.Context, hooks domain.LifecycleHooks, sessionID string, action domain.Action, before, after *domain.NavigationState, err error) {
	if hooks.OnTransition == nil {
		return
	}
	ev := &domain.TransitionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTransition, SessionID: sessionID},
		Outcome:   Outcome(before, after, err),
		Err:       err,
	}
	if a := normalize(action); a != nil {
		ev.Action = a.Type()
	}
	shown := after
	if shown == nil {
		shown = before
	}
	ev.Index = shown.CurrentIndex()
	ev.Depth = shown.Len()
	hooks.OnTransition(ctx, ev)
}

// EmitResolve reports one RouteTable lookup to hooks.
func EmitResolve(ctx context.Context, hooks domain.LifecycleHooks, sessionID, key string, def domain.RouteDefinition, wildcard bool, err error) {
	if hooks.OnResolve == nil {
		return
	}
	hooks.OnResolve(ctx, &domain.ResolveEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventResolve, SessionID: sessionID},
		Key:       key,
		Resolved:  def.Key,
		Wildcard:  wildcard,
		Err:       err,
	})
}
