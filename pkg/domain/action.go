package domain

// ActionType names a navigation intent on the wire.
type ActionType string

// Action types, matching the "router/<name>" envelope format.
const (
	ActionPush          ActionType = "router/push"
	ActionPop           ActionType = "router/pop"
	ActionReset         ActionType = "router/reset"
	ActionJump          ActionType = "router/jump"
	ActionRemove        ActionType = "router/remove"
	ActionReplace       ActionType = "router/replace"
	ActionPushOrReplace ActionType = "router/pushOrReplace"
)

// Action is a navigation intent. The set of implementations is closed:
// only the variants declared in this package satisfy it.
type Action interface {
	Type() ActionType
	isAction()
}

// Push shows Route on top of the current entry.
type Push struct {
	Route RouteInstance
}

// Pop goes back one entry.
type Pop struct{}

// Reset replaces the whole stack. A nil Index selects the last entry.
type Reset struct {
	Routes []RouteInstance
	Index  *int
}

// Jump moves the index to the first entry with Route.Key.
type Jump struct {
	Route RouteInstance
}

// Remove deletes the first entry with Route.Key. It cannot target the visible entry.
type Remove struct {
	Route RouteInstance
}

// Replace substitutes the first entry with OldKey by NewRoute.
type Replace struct {
	OldKey   string
	NewRoute RouteInstance
}

// PushOrReplace replaces the entry with Route.Key when present, and pushes otherwise.
type PushOrReplace struct {
	Route RouteInstance
}

func (Push) Type() ActionType          { return ActionPush }
func (Pop) Type() ActionType           { return ActionPop }
func (Reset) Type() ActionType         { return ActionReset }
func (Jump) Type() ActionType          { return ActionJump }
func (Remove) Type() ActionType        { return ActionRemove }
func (Replace) Type() ActionType       { return ActionReplace }
func (PushOrReplace) Type() ActionType { return ActionPushOrReplace }

func (Push) isAction()          {}
func (Pop) isAction()           {}
func (Reset) isAction()         {}
func (Jump) isAction()          {}
func (Remove) isAction()        {}
func (Replace) isAction()       {}
func (PushOrReplace) isAction() {}

// NewReset builds a Reset positioned at index.
func NewReset(index int, routes ...RouteInstance) Reset {
	return Reset{Routes: routes, Index: IndexPtr(index)}
}
