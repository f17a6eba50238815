package routes

import (
	"github.com/aretw0/backstack/internal/runtime"
	"github.com/aretw0/backstack/pkg/domain"
)

// Resolve returns the definition rendering key.
// The index route always wins, then an exact entry, then the wildcard.
func (t *Table) Resolve(key string) (domain.RouteDefinition, error) {
	def, _, err := t.Lookup(key)
	return def, err
}

// Lookup is Resolve that also reports whether the wildcard answered.
func (t *Table) Lookup(key string) (domain.RouteDefinition, bool, error) {
	if key == t.index.Key {
		return copyDefinition(t.index), false, nil
	}
	if def, ok := t.entries[key]; ok {
		return copyDefinition(def), false, nil
	}
	if t.wildcard != nil {
		return copyDefinition(*t.wildcard), true, nil
	}
	return domain.RouteDefinition{}, false, &domain.RouteNotFoundError{Key: key}
}

// MergeParams layers the instance params over the screen defaults.
// Instance values win on conflicting keys. The result is always a fresh map.
func (t *Table) MergeParams(inst domain.RouteInstance) (domain.Params, error) {
	def, err := t.Resolve(inst.Key)
	if err != nil {
		return nil, err
	}
	return merge(def.DefaultParams, inst.Params), nil
}

func merge(defaults, overrides domain.Params) domain.Params {
	merged := make(domain.Params, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Scene resolves inst into everything the host needs to render it,
// including whether hardware back is armed for this screen.
func (t *Table) Scene(inst domain.RouteInstance) (domain.Scene, error) {
	def, err := t.Resolve(inst.Key)
	if err != nil {
		return domain.Scene{}, err
	}
	params := merge(def.DefaultParams, inst.Params)
	return domain.Scene{
		Route:      inst,
		Definition: def,
		Params:     params,
		Back:       runtime.Arm(params),
	}, nil
}
