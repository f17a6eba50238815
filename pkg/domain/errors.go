package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is the sentinel behind every ConfigError.
	ErrConfig = errors.New("invalid routes config")

	// ErrRouteNotFound is returned when a key matches no definition and no wildcard exists.
	ErrRouteNotFound = errors.New("route not found")

	// ErrInvalidAction is returned when a navigation request carries no usable key.
	ErrInvalidAction = errors.New("invalid navigation action")

	// ErrRemoveCurrentRoute is returned when Remove targets the visible entry.
	ErrRemoveCurrentRoute = errors.New("unable to remove current route, use pop instead")

	// ErrRouteNotInStack is returned when Jump or Replace reference a key absent from the stack.
	ErrRouteNotInStack = errors.New("route not in stack")

	// ErrInvalidIndex is returned when a state or a reset descriptor breaks the index invariant.
	ErrInvalidIndex = errors.New("invalid stack index")

	// ErrUnknownAction is returned for action types the reducer does not know.
	ErrUnknownAction = errors.New("unknown action")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")
)

// ConfigError reports a malformed routes configuration. It aborts startup.
type ConfigError struct {
	Reason string
	Key    string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", ErrConfig, e.Reason)
	}
	return fmt.Sprintf("%s: route %q: %s", ErrConfig, e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// RouteNotFoundError reports a key that resolves to nothing.
type RouteNotFoundError struct {
	Key string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrRouteNotFound, e.Key)
}

func (e *RouteNotFoundError) Unwrap() error { return ErrRouteNotFound }

// InvalidActionError reports a navigation request without a usable key.
// Hosts usually turn it into a boolean failure instead of surfacing it.
type InvalidActionError struct {
	Type   ActionType
	Reason string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrInvalidAction, e.Type, e.Reason)
}

func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }

// RemoveCurrentRouteError signals a programming error in the caller.
type RemoveCurrentRouteError struct {
	Key string
}

func (e *RemoveCurrentRouteError) Error() string {
	return fmt.Sprintf("%s (route %q)", ErrRemoveCurrentRoute, e.Key)
}

func (e *RemoveCurrentRouteError) Unwrap() error { return ErrRemoveCurrentRoute }

// RouteNotInStackError reports a Jump or Replace precondition failure.
type RouteNotInStackError struct {
	Type ActionType
	Key  string
}

func (e *RouteNotInStackError) Error() string {
	return fmt.Sprintf("%s %s: %q", e.Type, ErrRouteNotInStack, e.Key)
}

func (e *RouteNotInStackError) Unwrap() error { return ErrRouteNotInStack }
