package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationState_Validate(t *testing.T) {
	home := domain.Route("home", nil)

	assert.NoError(t, domain.NewState().Validate())
	assert.NoError(t, domain.StateAt(0, home).Validate())

	tests := []struct {
		name  string
		state *domain.NavigationState
	}{
		{"nil", nil},
		{"index on empty", &domain.NavigationState{Index: domain.IndexPtr(0)}},
		{"missing index", &domain.NavigationState{Routes: []domain.RouteInstance{home}}},
		{"negative", domain.StateAt(-1, home)},
		{"out of range", domain.StateAt(1, home)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.state.Validate(), domain.ErrInvalidIndex)
		})
	}
}

func TestNavigationState_Accessors(t *testing.T) {
	empty := domain.NewState()
	_, ok := empty.Current()
	assert.False(t, ok)
	assert.Equal(t, -1, empty.CurrentIndex())
	assert.Equal(t, 0, empty.Len())

	s := domain.StateAt(1, domain.Route("home", nil), domain.Route("profile", nil), domain.Route("home", nil))
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "profile", cur.Key)
	assert.Equal(t, 0, s.IndexOf("home"))
	assert.Equal(t, 1, s.IndexOf("profile"))
	assert.Equal(t, -1, s.IndexOf("settings"))
}

func TestNavigationState_Clone(t *testing.T) {
	s := domain.StateAt(0, domain.Route("home", domain.Params{"name": "Alex"}))
	c := s.Clone()
	c.Routes[0].Params["name"] = "Max"
	*c.Index = 3

	assert.Equal(t, "Alex", s.Routes[0].Params["name"])
	assert.Equal(t, 0, *s.Index)
}

func TestNavigationState_JSON(t *testing.T) {
	data, err := json.Marshal(domain.NewState())
	require.NoError(t, err)
	assert.JSONEq(t, `{"routes":[],"index":null}`, string(data))

	data, err = json.Marshal(domain.StateAt(0, domain.Route("home", domain.Params{"name": "Alex"})))
	require.NoError(t, err)
	assert.JSONEq(t, `{"routes":[{"key":"home","params":{"name":"Alex"}}],"index":0}`, string(data))
}
