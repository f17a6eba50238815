package domain

import "reflect"

// WildcardKey marks the RouteDefinition used when no exact key matches.
const WildcardKey = "*"

// Params holds screen parameters, either overrides carried by a stack entry
// or the defaults declared by a RouteDefinition.
type Params map[string]any

// Clone returns a shallow copy. A nil receiver yields nil.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ShallowEqual reports whether a and b hold the same keys with equal values,
// comparing one level deep. Nested maps and slices are compared by identity,
// so two distinct but structurally equal nested values are different.
// A nil map and an empty map are equal.
func ShallowEqual(a, b Params) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !sameValue(av, bv) {
			return false
		}
	}
	return true
}

func sameValue(a, b any) (equal bool) {
	// Comparable struct types can still hold non-comparable interface values.
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()

	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}

	// Non-comparable kinds fall back to reference identity.
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	return false
}

// RouteInstance is one entry of the navigation stack.
// Keys need not be unique across the stack.
type RouteInstance struct {
	Key    string `json:"key" yaml:"key" mapstructure:"key"`
	Params Params `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// Route is a shorthand constructor used by hosts and tests.
func Route(key string, params Params) RouteInstance {
	return RouteInstance{Key: key, Params: params}
}

// Same reports whether r and other share the key and shallow-equal params.
func (r RouteInstance) Same(other RouteInstance) bool {
	return r.Key == other.Key && ShallowEqual(r.Params, other.Params)
}

// RouteDefinition is a registered screen template.
type RouteDefinition struct {
	// Key is unique within a table, or WildcardKey for the fallback screen.
	Key string `json:"key" yaml:"key" mapstructure:"key"`

	// Render is an opaque screen reference owned by the host
	// (a component, a constructor func, or a name in config files).
	Render any `json:"render" yaml:"render" mapstructure:"render"`

	// DefaultParams are merged under the params of every instance of this screen.
	DefaultParams Params `json:"default_params,omitempty" yaml:"default_params,omitempty" mapstructure:"default_params"`
}

// IsWildcard reports whether d is the fallback definition.
func (d RouteDefinition) IsWildcard() bool {
	return d.Key == WildcardKey
}

// Config describes every known screen of an application.
type Config struct {
	IndexRoute *RouteDefinition  `json:"index_route" yaml:"index_route" mapstructure:"index_route"`
	Routes     []RouteDefinition `json:"routes" yaml:"routes" mapstructure:"routes"`
}
