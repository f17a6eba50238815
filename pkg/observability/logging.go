package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/backstack/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured line per event.
// Rejected and failed transitions are logged at Warn, everything else at Debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			level := slog.LevelDebug
			attrs := []any{
				"session_id", e.SessionID,
				"action", e.Action,
				"outcome", e.Outcome,
				"index", e.Index,
				"depth", e.Depth,
			}
			if e.Err != nil {
				level = slog.LevelWarn
				attrs = append(attrs, "err", e.Err)
			}
			logger.Log(ctx, level, "transition", attrs...)
		},
		OnBack: func(ctx context.Context, e *domain.BackEvent) {
			logger.DebugContext(ctx, "back",
				"session_id", e.SessionID,
				"route", e.RouteKey,
				"armed", e.Armed,
				"popped", e.Popped,
			)
		},
		OnResolve: func(ctx context.Context, e *domain.ResolveEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "resolve failed", "session_id", e.SessionID, "key", e.Key, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "resolve",
				"session_id", e.SessionID,
				"key", e.Key,
				"resolved", e.Resolved,
				"wildcard", e.Wildcard,
			)
		},
	}
}
