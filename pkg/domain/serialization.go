package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the wire shape of an Action: {"type": ..., "payload": ...}.
type Envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type resetPayload struct {
	Routes json.RawMessage `json:"routes"`
	Index  *int            `json:"index,omitempty"`
}

type replacePayload struct {
	OldRoute string        `json:"oldRoute"`
	NewRoute RouteInstance `json:"newRoute"`
}

// DecodeAction parses an action envelope.
// Reset accepts either a single route or a list of routes.
func DecodeAction(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode action: %w", err)
	}
	return env.Action()
}

// Action converts the envelope into its typed variant.
func (env Envelope) Action() (Action, error) {
	switch env.Type {
	case ActionPop:
		return Pop{}, nil
	case ActionPush, ActionJump, ActionRemove, ActionPushOrReplace:
		var r RouteInstance
		if err := decodePayload(env, &r); err != nil {
			return nil, err
		}
		switch env.Type {
		case ActionPush:
			return Push{Route: r}, nil
		case ActionJump:
			return Jump{Route: r}, nil
		case ActionRemove:
			return Remove{Route: r}, nil
		default:
			return PushOrReplace{Route: r}, nil
		}
	case ActionReset:
		var p resetPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		routes, err := decodeRoutes(p.Routes)
		if err != nil {
			return nil, fmt.Errorf("%s payload: %w", env.Type, err)
		}
		return Reset{Routes: routes, Index: p.Index}, nil
	case ActionReplace:
		var p replacePayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return Replace{OldKey: p.OldRoute, NewRoute: p.NewRoute}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}
}

func decodePayload(env Envelope, v any) error {
	if len(env.Payload) == 0 || bytes.Equal(bytes.TrimSpace(env.Payload), []byte("null")) {
		return &InvalidActionError{Type: env.Type, Reason: "missing payload"}
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%s payload: %w", env.Type, err)
	}
	return nil
}

func decodeRoutes(raw json.RawMessage) ([]RouteInstance, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []RouteInstance{}, nil
	}
	if trimmed[0] == '[' {
		var routes []RouteInstance
		if err := json.Unmarshal(trimmed, &routes); err != nil {
			return nil, err
		}
		return routes, nil
	}
	var single RouteInstance
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return []RouteInstance{single}, nil
}

// EncodeAction serializes an action into its envelope.
func EncodeAction(a Action) ([]byte, error) {
	var payload any
	switch v := a.(type) {
	case Push:
		payload = v.Route
	case Pop:
		return json.Marshal(Envelope{Type: ActionPop})
	case Reset:
		routes := v.Routes
		if routes == nil {
			routes = []RouteInstance{}
		}
		payload = struct {
			Routes []RouteInstance `json:"routes"`
			Index  *int            `json:"index,omitempty"`
		}{routes, v.Index}
	case Jump:
		payload = v.Route
	case Remove:
		payload = v.Route
	case Replace:
		payload = replacePayload{OldRoute: v.OldKey, NewRoute: v.NewRoute}
	case PushOrReplace:
		payload = v.Route
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", a.Type(), err)
	}
	return json.Marshal(Envelope{Type: a.Type(), Payload: raw})
}
