/*
Package backstack is a stack-based screen navigation core for single-window
applications: route tables, a pure stack reducer and a back-press arbiter.

The host owns rendering. backstack owns the answer to "which screen is visible,
with which parameters, and what does the platform back button do right now".

# Concept

A NavigationState is an ordered list of route instances plus the index of the
visible one. It only changes through Actions (Push, Pop, Reset, Jump, Remove,
Replace, PushOrReplace) applied by a pure reducer. Actions that would not change
anything return the same state pointer, so hosts can skip re-rendering with a
pointer comparison.

A Table maps route keys to screen definitions. A "*" entry catches every
unknown key. Definitions carry default params that are merged under the params
of each instance.

The back arbiter reports whether a platform back press was consumed. A screen
opts out of popping by carrying a falsy "back" param; the press is still
consumed so the platform never closes the window from inside the stack.

# Usage

	nav, err := backstack.New(domain.Config{
		IndexRoute: &domain.RouteDefinition{Key: "home", Render: HomeScreen},
		Routes: []domain.RouteDefinition{
			{Key: "profile", Render: ProfileScreen},
			{Key: "*", Render: NotFound},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	nav.Start(ctx)
	nav.Navigate(ctx, "profile", domain.Params{"id": 7})

	scene, _ := nav.Scene(ctx)
	render(scene.Definition.Render, scene.Params)

	nav.Back(ctx) // pops to home

Route tables can also come from YAML, JSON or TOML files through
pkg/adapters/file, and many concurrent sessions can be served by pkg/session
and the HTTP shell in pkg/adapters/http.
*/
package backstack
