package ports

import (
	"context"

	"github.com/aretw0/backstack/pkg/domain"
)

// ConfigLoader defines how the engine retrieves the routes configuration.
// This allows the source (memory, YAML/JSON/TOML files) to be decoupled.
type ConfigLoader interface {
	// Load returns the configuration. Malformed documents yield a *domain.ConfigError.
	Load(ctx context.Context) (domain.Config, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying configuration changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
