package ports

import (
	"context"

	"github.com/aretw0/backstack/pkg/domain"
)

// StateStore holds the current NavigationState of each session.
// It is the host's store, not a persistence layer: nothing is expected to survive a restart.
type StateStore interface {
	// Save records the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.NavigationState) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.NavigationState, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all known sessions.
	List(ctx context.Context) ([]string, error)
}
