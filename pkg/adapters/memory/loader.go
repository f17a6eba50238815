package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/backstack/pkg/domain"
)

// Loader implements ports.ConfigLoader over a configuration held in memory.
type Loader struct {
	cfg domain.Config
}

// NewLoader wraps an existing configuration.
func NewLoader(cfg domain.Config) *Loader {
	return &Loader{cfg: cfg}
}

// NewFromRoutes builds a configuration whose index route is index.
// This improves DX for tests and small embedded apps.
func NewFromRoutes(index domain.RouteDefinition, routes ...domain.RouteDefinition) (*Loader, error) {
	if index.Key == "" {
		return nil, fmt.Errorf("index route missing key")
	}
	return &Loader{cfg: domain.Config{IndexRoute: &index, Routes: routes}}, nil
}

// Load returns the configuration. The route list is copied.
func (l *Loader) Load(ctx context.Context) (domain.Config, error) {
	cfg := domain.Config{Routes: make([]domain.RouteDefinition, len(l.cfg.Routes))}
	copy(cfg.Routes, l.cfg.Routes)
	if l.cfg.IndexRoute != nil {
		index := *l.cfg.IndexRoute
		cfg.IndexRoute = &index
	}
	return cfg, nil
}
