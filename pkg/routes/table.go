package routes

import (
	"sort"

	"github.com/aretw0/backstack/pkg/domain"
)

// Table is an immutable registry of screen definitions.
type Table struct {
	index    domain.RouteDefinition
	entries  map[string]domain.RouteDefinition
	wildcard *domain.RouteDefinition
}

// Build validates cfg and constructs the table.
// Every structural check happens here, so resolution never needs to re-validate.
func Build(cfg domain.Config) (*Table, error) {
	if cfg.IndexRoute == nil {
		return nil, &domain.ConfigError{Reason: "index route not found in routes config"}
	}
	if err := checkDefinition(*cfg.IndexRoute); err != nil {
		return nil, err
	}
	if cfg.IndexRoute.IsWildcard() {
		return nil, &domain.ConfigError{Key: cfg.IndexRoute.Key, Reason: "index route cannot be the wildcard"}
	}

	t := &Table{
		index:   copyDefinition(*cfg.IndexRoute),
		entries: make(map[string]domain.RouteDefinition, len(cfg.Routes)),
	}

	for _, def := range cfg.Routes {
		if err := checkDefinition(def); err != nil {
			return nil, err
		}
		if def.IsWildcard() {
			if t.wildcard != nil {
				return nil, &domain.ConfigError{Key: def.Key, Reason: "more than one wildcard route"}
			}
			w := copyDefinition(def)
			t.wildcard = &w
			continue
		}
		if _, dup := t.entries[def.Key]; dup {
			return nil, &domain.ConfigError{Key: def.Key, Reason: "duplicate route key"}
		}
		t.entries[def.Key] = copyDefinition(def)
	}

	return t, nil
}

// MustBuild is like Build but panics on error. Intended for static tables.
func MustBuild(cfg domain.Config) *Table {
	t, err := Build(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

func checkDefinition(def domain.RouteDefinition) error {
	if def.Key == "" {
		return &domain.ConfigError{Reason: "invalid route configuration: missing key"}
	}
	if def.Render == nil {
		return &domain.ConfigError{Key: def.Key, Reason: "invalid route configuration: missing render"}
	}
	return nil
}

func copyDefinition(def domain.RouteDefinition) domain.RouteDefinition {
	def.DefaultParams = def.DefaultParams.Clone()
	return def
}

// IndexRoute returns the entry screen of the application.
func (t *Table) IndexRoute() domain.RouteDefinition {
	return copyDefinition(t.index)
}

// HasWildcard reports whether unknown keys fall back to a wildcard screen.
func (t *Table) HasWildcard() bool {
	return t.wildcard != nil
}

// Keys lists every resolvable key, sorted, with the wildcard last when present.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries)+2)
	seen := map[string]bool{t.index.Key: true}
	keys = append(keys, t.index.Key)
	for k := range t.entries {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if t.wildcard != nil {
		keys = append(keys, domain.WildcardKey)
	}
	return keys
}

// Definitions returns a copy of every definition, in Keys order.
func (t *Table) Definitions() []domain.RouteDefinition {
	keys := t.Keys()
	defs := make([]domain.RouteDefinition, 0, len(keys))
	for _, k := range keys {
		switch {
		case k == t.index.Key:
			defs = append(defs, t.IndexRoute())
		case k == domain.WildcardKey && t.wildcard != nil:
			defs = append(defs, copyDefinition(*t.wildcard))
		default:
			defs = append(defs, copyDefinition(t.entries[k]))
		}
	}
	return defs
}
