package ports

import (
	"context"

	"github.com/aretw0/backstack/pkg/domain"
)

// Dispatcher delivers navigation actions to the reducer.
// Implementations apply actions synchronously and strictly one at a time.
type Dispatcher interface {
	Dispatch(ctx context.Context, action domain.Action) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, action domain.Action) error

// Dispatch calls f(ctx, action).
func (f DispatcherFunc) Dispatch(ctx context.Context, action domain.Action) error {
	return f(ctx, action)
}
