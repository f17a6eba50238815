package domain_test

import (
	"testing"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestShallowEqual(t *testing.T) {
	nested := map[string]any{"a": 1}
	list := []string{"x"}

	tests := []struct {
		name string
		a, b domain.Params
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and empty", nil, domain.Params{}, true},
		{"same scalars", domain.Params{"name": "Alex", "id": 2}, domain.Params{"id": 2, "name": "Alex"}, true},
		{"different value", domain.Params{"name": "Alex"}, domain.Params{"name": "Max"}, false},
		{"extra key", domain.Params{"name": "Alex"}, domain.Params{"name": "Alex", "id": 1}, false},
		{"missing key same length", domain.Params{"a": 1}, domain.Params{"b": 1}, false},
		{"different numeric types", domain.Params{"id": 1}, domain.Params{"id": 1.0}, false},
		{"same nested identity", domain.Params{"n": nested}, domain.Params{"n": nested}, true},
		{"equal nested different identity", domain.Params{"n": map[string]any{"a": 1}}, domain.Params{"n": map[string]any{"a": 1}}, false},
		{"same slice identity", domain.Params{"l": list}, domain.Params{"l": list}, true},
		{"nil value vs missing", domain.Params{"a": nil}, domain.Params{"b": nil}, false},
		{"nil values", domain.Params{"a": nil}, domain.Params{"a": nil}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ShallowEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, domain.ShallowEqual(tt.b, tt.a), "must be symmetric")
		})
	}
}

func TestShallowEqual_StructWithMapDoesNotPanic(t *testing.T) {
	type wrapper struct{ V any }
	a := domain.Params{"w": wrapper{V: map[string]int{}}}
	b := domain.Params{"w": wrapper{V: map[string]int{}}}
	assert.NotPanics(t, func() {
		assert.False(t, domain.ShallowEqual(a, b))
	})
}

func TestRouteInstance_Same(t *testing.T) {
	home := domain.Route("home", domain.Params{"name": "Alex"})
	assert.True(t, home.Same(domain.Route("home", domain.Params{"name": "Alex"})))
	assert.False(t, home.Same(domain.Route("home", domain.Params{"name": "Max"})))
	assert.False(t, home.Same(domain.Route("profile", domain.Params{"name": "Alex"})))
}

func TestParams_Clone(t *testing.T) {
	var empty domain.Params
	assert.Nil(t, empty.Clone())

	p := domain.Params{"a": 1}
	c := p.Clone()
	c["a"] = 2
	assert.Equal(t, 1, p["a"])
}
