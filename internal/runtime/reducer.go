package runtime

import (
	"fmt"

	"github.com/aretw0/backstack/pkg/domain"
)

// Reduce applies action to state and returns the resulting state.
//
// No-ops return the very same pointer so callers can skip re-rendering by
// comparing references. Every other outcome is a freshly allocated state;
// the input is never modified. A nil state is the empty initial state.
// Params maps are shared between states and must be treated as read-only.
func Reduce(state *domain.NavigationState, action domain.Action) (*domain.NavigationState, error) {
	if state == nil {
		state = domain.NewState()
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}

	switch a := normalize(action).(type) {
	case domain.Push:
		return push(state, a.Type(), a.Route)
	case domain.Pop:
		return pop(state), nil
	case domain.Reset:
		return reset(a)
	case domain.Jump:
		return jump(state, a.Route.Key)
	case domain.Remove:
		return remove(state, a.Route.Key)
	case domain.Replace:
		return replace(state, a.Type(), a.OldKey, a.NewRoute)
	case domain.PushOrReplace:
		return pushOrReplace(state, a.Route)
	case nil:
		return nil, fmt.Errorf("%w: nil action", domain.ErrUnknownAction)
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnknownAction, action)
	}
}

// normalize dereferences pointer variants, which satisfy domain.Action through
// their value receivers.
func normalize(action domain.Action) domain.Action {
	switch a := action.(type) {
	case *domain.Push:
		return deref(a)
	case *domain.Pop:
		return deref(a)
	case *domain.Reset:
		return deref(a)
	case *domain.Jump:
		return deref(a)
	case *domain.Remove:
		return deref(a)
	case *domain.Replace:
		return deref(a)
	case *domain.PushOrReplace:
		return deref(a)
	}
	return action
}

func deref[A domain.Action](a *A) domain.Action {
	if a == nil {
		return nil
	}
	return *a
}

func push(state *domain.NavigationState, typ domain.ActionType, route domain.RouteInstance) (*domain.NavigationState, error) {
	if route.Key == "" {
		return nil, &domain.InvalidActionError{Type: typ, Reason: "route key is required"}
	}
	if len(state.Routes) == 0 {
		return domain.StateAt(0, route), nil
	}

	idx := *state.Index
	current := state.Routes[idx]
	if current.Key == route.Key {
		if domain.ShallowEqual(current.Params, route.Params) {
			return state, nil
		}
		return withEntry(state, idx, route), nil
	}

	// Forward history beyond the current index is discarded.
	routes := make([]domain.RouteInstance, idx+1, idx+2)
	copy(routes, state.Routes[:idx+1])
	routes = append(routes, route)
	return domain.StateAt(idx+1, routes...), nil
}

func pop(state *domain.NavigationState) *domain.NavigationState {
	idx := state.CurrentIndex()
	if idx <= 0 {
		return state
	}
	return without(state, idx, idx-1)
}

func reset(a domain.Reset) (*domain.NavigationState, error) {
	if len(a.Routes) == 0 {
		if a.Index != nil {
			return nil, fmt.Errorf("%w: reset index %d on empty routes", domain.ErrInvalidIndex, *a.Index)
		}
		return domain.NewState(), nil
	}
	for i, r := range a.Routes {
		if r.Key == "" {
			return nil, &domain.InvalidActionError{Type: a.Type(), Reason: fmt.Sprintf("route %d has no key", i)}
		}
	}

	idx := len(a.Routes) - 1
	if a.Index != nil {
		idx = *a.Index
	}
	if idx < 0 || idx >= len(a.Routes) {
		return nil, fmt.Errorf("%w: reset index %d out of range [0,%d)", domain.ErrInvalidIndex, idx, len(a.Routes))
	}

	routes := make([]domain.RouteInstance, len(a.Routes))
	copy(routes, a.Routes)
	return domain.StateAt(idx, routes...), nil
}

func jump(state *domain.NavigationState, key string) (*domain.NavigationState, error) {
	p := state.IndexOf(key)
	if p < 0 {
		return nil, &domain.RouteNotInStackError{Type: domain.ActionJump, Key: key}
	}
	if p == *state.Index {
		return state, nil
	}
	routes := make([]domain.RouteInstance, len(state.Routes))
	copy(routes, state.Routes)
	return domain.StateAt(p, routes...), nil
}

func remove(state *domain.NavigationState, key string) (*domain.NavigationState, error) {
	p := state.IndexOf(key)
	if p < 0 {
		return state, nil
	}
	idx := *state.Index
	if p == idx {
		return nil, &domain.RemoveCurrentRouteError{Key: key}
	}
	if p < idx {
		idx--
	}
	return without(state, p, idx), nil
}

func replace(state *domain.NavigationState, typ domain.ActionType, oldKey string, route domain.RouteInstance) (*domain.NavigationState, error) {
	if route.Key == "" {
		return nil, &domain.InvalidActionError{Type: typ, Reason: "new route key is required"}
	}
	p := state.IndexOf(oldKey)
	if p < 0 {
		return nil, &domain.RouteNotInStackError{Type: typ, Key: oldKey}
	}
	return withEntry(state, p, route), nil
}

func pushOrReplace(state *domain.NavigationState, route domain.RouteInstance) (*domain.NavigationState, error) {
	if route.Key == "" {
		return nil, &domain.InvalidActionError{Type: domain.ActionPushOrReplace, Reason: "route key is required"}
	}
	if state.IndexOf(route.Key) < 0 {
		return push(state, domain.ActionPushOrReplace, route)
	}
	return replace(state, domain.ActionPushOrReplace, route.Key, route)
}

// withEntry copies the stack with position p set to route. The index is kept.
func withEntry(state *domain.NavigationState, p int, route domain.RouteInstance) *domain.NavigationState {
	routes := make([]domain.RouteInstance, len(state.Routes))
	copy(routes, state.Routes)
	routes[p] = route
	return domain.StateAt(*state.Index, routes...)
}

// without copies the stack minus position p, positioned at idx.
func without(state *domain.NavigationState, p, idx int) *domain.NavigationState {
	routes := make([]domain.RouteInstance, 0, len(state.Routes)-1)
	routes = append(routes, state.Routes[:p]...)
	routes = append(routes, state.Routes[p+1:]...)
	return domain.StateAt(idx, routes...)
}
