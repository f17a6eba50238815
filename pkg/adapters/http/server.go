// Package http exposes session navigation over a JSON HTTP API built on chi.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/backstack"
	"github.com/aretw0/backstack/internal/logging"
	"github.com/aretw0/backstack/pkg/domain"
	"github.com/aretw0/backstack/pkg/routes"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Sessions defines what the server needs from the session shell.
// *session.Manager satisfies it.
type Sessions interface {
	Table() *routes.Table
	LoadOrStart(ctx context.Context, sessionID string) (*domain.NavigationState, error)
	Dispatch(ctx context.Context, sessionID string, action domain.Action) (*domain.NavigationState, error)
	Navigate(ctx context.Context, sessionID, key string, params domain.Params) (bool, error)
	Back(ctx context.Context, sessionID string) (consumed, popped bool, err error)
	Resolve(ctx context.Context, sessionID string, entry domain.RouteInstance) (domain.Scene, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

// Server holds the HTTP handlers.
type Server struct {
	Sessions Sessions
	Streams  *StreamManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithStreams shares a StreamManager whose Hooks feed the session manager.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) {
		s.Streams = streams
	}
}

// WithGatherer exposes gatherer on /metrics.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the sessions.
func NewHandler(sessions Sessions, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/routes", func(r chi.Router) {
		r.Get("/", s.ListRoutes)
		r.Get("/{key}", s.ResolveRoute)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/events", s.SubscribeEvents)
			r.Post("/actions", s.DispatchAction)
			r.Post("/navigate", s.Navigate)
			r.Post("/back", s.Back)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RouteView is the wire form of a route definition.
// Render is printed because hosts may register non-serializable screens.
type RouteView struct {
	Key           string        `json:"key"`
	Render        string        `json:"render"`
	DefaultParams domain.Params `json:"default_params,omitempty"`
	Index         bool          `json:"index,omitempty"`
	Wildcard      bool          `json:"wildcard,omitempty"`
}

// SceneView is the wire form of a resolved entry.
type SceneView struct {
	Route  domain.RouteInstance `json:"route"`
	Render string               `json:"render"`
	Params domain.Params        `json:"params"`
	Armed  bool                 `json:"back_armed"`
}

// SessionView is the response of session endpoints.
type SessionView struct {
	ID    string                  `json:"id"`
	State *domain.NavigationState `json:"state"`
	Scene *SceneView              `json:"scene,omitempty"`
}

// NavigateRequest is the body of POST /sessions/{id}/navigate.
type NavigateRequest struct {
	Key    string        `json:"key"`
	Params domain.Params `json:"params,omitempty"`
}

func (s *Server) routeView(def domain.RouteDefinition) RouteView {
	return RouteView{
		Key:           def.Key,
		Render:        fmt.Sprint(def.Render),
		DefaultParams: def.DefaultParams,
		Index:         def.Key == s.Sessions.Table().IndexRoute().Key && !def.IsWildcard(),
		Wildcard:      def.IsWildcard(),
	}
}

func sceneView(scene domain.Scene) *SceneView {
	return &SceneView{
		Route:  scene.Route,
		Render: fmt.Sprint(scene.Definition.Render),
		Params: scene.Params,
		Armed:  scene.Back.Armed,
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	table := s.Sessions.Table()
	resp := map[string]any{
		"app":         "backstack-http",
		"version":     strings.TrimSpace(backstack.Version),
		"index_route": table.IndexRoute().Key,
		"routes":      len(table.Keys()),
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

// ListRoutes handles the GET /routes request.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	table := s.Sessions.Table()
	defs := table.Definitions()
	views := make([]RouteView, 0, len(defs))
	for _, def := range defs {
		views = append(views, s.routeView(def))
	}
	writeJSON(w, http.StatusOK, views, s.logger)
}

// ResolveRoute handles the GET /routes/{key} request.
func (s *Server) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	def, err := s.Sessions.Table().Resolve(chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.routeView(def), s.logger)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids}, s.logger)
}

// GetSession handles the GET /sessions/{id} request. Missing sessions are started.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.Sessions.LoadOrStart(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respondSession(w, r, id, state)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DispatchAction handles the POST /sessions/{id}/actions request.
func (s *Server) DispatchAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, badRequest(err))
		return
	}
	action, err := domain.DecodeAction(body)
	if err != nil {
		if StatusOf(err) == http.StatusInternalServerError {
			err = badRequest(err)
		}
		s.writeError(w, err)
		return
	}

	state, err := s.Sessions.Dispatch(r.Context(), id, action)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respondSession(w, r, id, state)
}

// Navigate handles the POST /sessions/{id}/navigate request.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	var body NavigateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.writeError(w, badRequest(err))
		return
	}

	ok, err := s.Sessions.Navigate(r.Context(), chi.URLParam(r, "id"), body.Key, body.Params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": ok}, s.logger)
}

// Back handles the POST /sessions/{id}/back request.
func (s *Server) Back(w http.ResponseWriter, r *http.Request) {
	consumed, popped, err := s.Sessions.Back(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"consumed": consumed, "popped": popped}, s.logger)
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, id string, state *domain.NavigationState) {
	view := SessionView{ID: id, State: state}
	current, ok := state.Current()
	if !ok {
		writeJSON(w, http.StatusOK, view, s.logger)
		return
	}
	scene, err := s.Sessions.Resolve(r.Context(), id, current)
	switch {
	case err == nil:
		view.Scene = sceneView(scene)
	case errors.Is(err, domain.ErrRouteNotFound):
		// The stack may hold keys the table cannot render; report the state anyway.
		s.logger.Debug("session scene unresolved", "session_id", id, "err", err)
	default:
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
