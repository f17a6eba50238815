package routes_test

import (
	"testing"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/aretw0/backstack/pkg/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func def(key string, defaults domain.Params) domain.RouteDefinition {
	return domain.RouteDefinition{Key: key, Render: key + "Screen", DefaultParams: defaults}
}

func testConfig() domain.Config {
	index := def("home", domain.Params{"title": "Home"})
	return domain.Config{
		IndexRoute: &index,
		Routes: []domain.RouteDefinition{
			def("profile", domain.Params{"title": "Profile", "back": true}),
			def("checkout", domain.Params{"back": false}),
			def(domain.WildcardKey, domain.Params{"title": "Not Found"}),
		},
	}
}

func TestBuild_Errors(t *testing.T) {
	valid := def("home", nil)
	noRender := domain.RouteDefinition{Key: "home"}

	tests := []struct {
		name string
		cfg  domain.Config
	}{
		{"missing index", domain.Config{}},
		{"index without key", domain.Config{IndexRoute: &domain.RouteDefinition{Render: "x"}}},
		{"index without render", domain.Config{IndexRoute: &noRender}},
		{"wildcard index", domain.Config{IndexRoute: &domain.RouteDefinition{Key: "*", Render: "x"}}},
		{"entry without key", domain.Config{IndexRoute: &valid, Routes: []domain.RouteDefinition{{Render: "x"}}}},
		{"entry without render", domain.Config{IndexRoute: &valid, Routes: []domain.RouteDefinition{{Key: "a"}}}},
		{"duplicate key", domain.Config{IndexRoute: &valid, Routes: []domain.RouteDefinition{def("a", nil), def("a", nil)}}},
		{"two wildcards", domain.Config{IndexRoute: &valid, Routes: []domain.RouteDefinition{def("*", nil), def("*", nil)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := routes.Build(tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfig)

			var cfgErr *domain.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestBuild_IndexDuplicatedInEntries(t *testing.T) {
	cfg := testConfig()
	cfg.Routes = append(cfg.Routes, def("home", domain.Params{"title": "Shadow"}))

	table, err := routes.Build(cfg)
	require.NoError(t, err)

	got, err := table.Resolve("home")
	require.NoError(t, err)
	assert.Equal(t, "Home", got.DefaultParams["title"], "index route wins")
	assert.Equal(t, []string{"checkout", "home", "profile", "*"}, table.Keys())
}

func TestBuild_IsImmutable(t *testing.T) {
	cfg := testConfig()
	table := routes.MustBuild(cfg)

	cfg.IndexRoute.DefaultParams["title"] = "Changed"
	cfg.Routes[0].DefaultParams["title"] = "Changed"

	home, err := table.Resolve("home")
	require.NoError(t, err)
	assert.Equal(t, "Home", home.DefaultParams["title"])

	profile, err := table.Resolve("profile")
	require.NoError(t, err)
	assert.Equal(t, "Profile", profile.DefaultParams["title"])

	profile.DefaultParams["title"] = "Mutated by caller"
	again, _ := table.Resolve("profile")
	assert.Equal(t, "Profile", again.DefaultParams["title"])
}

func TestMustBuild_Panics(t *testing.T) {
	assert.Panics(t, func() { routes.MustBuild(domain.Config{}) })
}

func TestResolve(t *testing.T) {
	table := routes.MustBuild(testConfig())

	got, err := table.Resolve("profile")
	require.NoError(t, err)
	assert.Equal(t, "profileScreen", got.Render)

	got, wildcard, err := table.Lookup("does-not-exist")
	require.NoError(t, err)
	assert.True(t, wildcard)
	assert.Equal(t, domain.WildcardKey, got.Key)

	_, wildcard, err = table.Lookup("home")
	require.NoError(t, err)
	assert.False(t, wildcard)
	assert.True(t, table.HasWildcard())
}

func TestResolve_NotFound(t *testing.T) {
	index := def("home", nil)
	table := routes.MustBuild(domain.Config{IndexRoute: &index})
	assert.False(t, table.HasWildcard())

	_, err := table.Resolve("missing")
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)

	var nf *domain.RouteNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Key)
}

func TestMergeParams(t *testing.T) {
	table := routes.MustBuild(testConfig())

	merged, err := table.MergeParams(domain.Route("profile", domain.Params{"title": "Alex", "id": 7}))
	require.NoError(t, err)
	assert.Equal(t, domain.Params{"title": "Alex", "id": 7, "back": true}, merged)

	merged, err = table.MergeParams(domain.Route("home", nil))
	require.NoError(t, err)
	assert.Equal(t, domain.Params{"title": "Home"}, merged)

	merged["title"] = "mutated"
	again, _ := table.MergeParams(domain.Route("home", nil))
	assert.Equal(t, "Home", again["title"])

	_, err = routes.MustBuild(domain.Config{IndexRoute: &domain.RouteDefinition{Key: "a", Render: 1}}).
		MergeParams(domain.Route("b", nil))
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestScene(t *testing.T) {
	table := routes.MustBuild(testConfig())

	scene, err := table.Scene(domain.Route("checkout", nil))
	require.NoError(t, err)
	assert.False(t, scene.Back.Armed)
	assert.Equal(t, "checkoutScreen", scene.Definition.Render)

	scene, err = table.Scene(domain.Route("checkout", domain.Params{"back": true}))
	require.NoError(t, err)
	assert.True(t, scene.Back.Armed, "instance params override the default")

	scene, err = table.Scene(domain.Route("home", nil))
	require.NoError(t, err)
	assert.True(t, scene.Back.Armed)
	assert.Equal(t, "home", scene.Route.Key)
}

func TestDefinitions(t *testing.T) {
	table := routes.MustBuild(testConfig())
	defs := table.Definitions()
	require.Len(t, defs, 4)
	assert.Equal(t, "checkout", defs[0].Key)
	assert.Equal(t, domain.WildcardKey, defs[3].Key)
}
