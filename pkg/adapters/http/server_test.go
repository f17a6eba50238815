package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/backstack/pkg/adapters/memory"
	"github.com/aretw0/backstack/pkg/domain"
	"github.com/aretw0/backstack/pkg/observability"
	"github.com/aretw0/backstack/pkg/routes"
	"github.com/aretw0/backstack/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure the session manager satisfies Sessions
var _ Sessions = (*session.Manager)(nil)

type fixture struct {
	handler http.Handler
	streams *StreamManager
	reg     *prometheus.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	table, err := routes.Build(domain.Config{
		IndexRoute: &domain.RouteDefinition{Key: "home", Render: "HomeScreen"},
		Routes: []domain.RouteDefinition{
			{Key: "profile", Render: "ProfileScreen", DefaultParams: domain.Params{"tab": "posts"}},
			{Key: "checkout", Render: "CheckoutScreen", DefaultParams: domain.Params{"back": false}},
		},
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	streams := NewStreamManager()
	manager := session.NewManager(memory.NewStore(), table,
		session.WithLifecycleHooks(metrics.Hooks().Merge(streams.Hooks())),
	)
	return fixture{
		handler: NewHandler(manager, WithStreams(streams), WithGatherer(reg)),
		streams: streams,
		reg:     reg,
	}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndInfo(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]any](t, w)
	assert.Equal(t, "backstack-http", info["app"])
	assert.Equal(t, "home", info["index_route"])
}

func TestRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/routes", "")
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]RouteView](t, w)
	require.Len(t, views, 3)

	w = f.do(t, http.MethodGet, "/routes/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[RouteView](t, w)
	assert.Equal(t, "ProfileScreen", view.Render)
	assert.Equal(t, domain.Params{"tab": "posts"}, view.DefaultParams)

	w = f.do(t, http.MethodGet, "/routes/home", "")
	assert.True(t, decode[RouteView](t, w).Index)

	w = f.do(t, http.MethodGet, "/routes/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/sessions/s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[SessionView](t, w)
	assert.Equal(t, 1, view.State.Len())
	require.NotNil(t, view.Scene)
	assert.Equal(t, "HomeScreen", view.Scene.Render)

	w = f.do(t, http.MethodPost, "/sessions/s1/actions", `{"type":"router/push","payload":{"key":"profile","params":{"id":"7"}}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view = decode[SessionView](t, w)
	assert.Equal(t, 1, view.State.CurrentIndex())
	assert.Equal(t, domain.Params{"id": "7", "tab": "posts"}, view.Scene.Params)
	assert.True(t, view.Scene.Armed)

	w = f.do(t, http.MethodGet, "/sessions", "")
	assert.JSONEq(t, `{"sessions":["s1"]}`, w.Body.String())

	w = f.do(t, http.MethodDelete, "/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/sessions", "")
	assert.JSONEq(t, `{"sessions":[]}`, w.Body.String())
}

func TestResetToEmptyStack(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/sessions/s1", "")

	w := f.do(t, http.MethodPost, "/sessions/s1/actions", `{"type":"router/reset","payload":{"routes":[]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[SessionView](t, w)
	assert.Equal(t, 0, view.State.Len())
	assert.Nil(t, view.State.Index)
	assert.Nil(t, view.Scene, "an empty stack has nothing to render")

	w = f.do(t, http.MethodGet, "/sessions/s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[SessionView](t, w)
	assert.Equal(t, 0, view.State.Len(), "reading must not restart the session")
	assert.Nil(t, view.Scene)

	w = f.do(t, http.MethodPost, "/sessions/s1/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"consumed":true,"popped":false}`, w.Body.String())
}

func TestNavigateAndBack(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/sessions/s1/navigate", `{"key":"checkout"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/sessions/s1/navigate", `{"key":""}`)
	assert.JSONEq(t, `{"ok":false}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/sessions/s1/back", "")
	assert.JSONEq(t, `{"consumed":true,"popped":false}`, w.Body.String())

	f.do(t, http.MethodPost, "/sessions/s1/navigate", `{"key":"profile"}`)
	w = f.do(t, http.MethodPost, "/sessions/s1/back", "")
	assert.JSONEq(t, `{"consumed":true,"popped":true}`, w.Body.String())
}

func TestErrorMapping(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/sessions/s1/navigate", `{"key":"profile"}`)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"Bad JSON", `{`, http.StatusBadRequest},
		{"Unknown Type", `{"type":"router/teleport"}`, http.StatusBadRequest},
		{"Missing Payload", `{"type":"router/push"}`, http.StatusUnprocessableEntity},
		{"Empty Key", `{"type":"router/push","payload":{"key":""}}`, http.StatusUnprocessableEntity},
		{"Remove Current", `{"type":"router/remove","payload":{"key":"profile"}}`, http.StatusConflict},
		{"Jump Missing", `{"type":"router/jump","payload":{"key":"checkout"}}`, http.StatusConflict},
		{"Reset Bad Index", `{"type":"router/reset","payload":{"routes":[{"key":"home"}],"index":4}}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/sessions/s1/actions", tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Contains(t, decode[map[string]string](t, w), "error")
		})
	}

	w := f.do(t, http.MethodPost, "/sessions/s1/navigate", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/sessions/s1/navigate", `{"key":"profile"}`)

	w := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `backstack_actions_total{outcome="applied",type="router/push"} 2`)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodOptions, "/sessions/s1/actions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/s1/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}
	assert.Equal(t, "connected", readData())

	post, err := http.Post(srv.URL+"/sessions/s1/navigate", "application/json", strings.NewReader(`{"key":"profile"}`))
	require.NoError(t, err)
	post.Body.Close()

	// The first applied transition starts the session on the index route.
	var first, second domain.TransitionEvent
	require.NoError(t, json.Unmarshal([]byte(readData()), &first))
	require.NoError(t, json.Unmarshal([]byte(readData()), &second))
	assert.Equal(t, "s1", first.SessionID)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, domain.ActionPush, second.Action)
	assert.Equal(t, 1, second.Index)
}

func TestStreamManager_UnsubscribeIsIdempotent(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("s1")
	sm.Broadcast("s1", "hello")
	assert.Equal(t, "hello", <-ch)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.NotPanics(t, func() { sm.Broadcast("s1", "late") })
}
