package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/aretw0/backstack/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTransition(ctx, &domain.TransitionEvent{Action: domain.ActionPush, Outcome: domain.OutcomeApplied, Depth: 3})
	hooks.OnTransition(ctx, &domain.TransitionEvent{Action: domain.ActionPush, Outcome: domain.OutcomeApplied, Depth: 4})
	hooks.OnTransition(ctx, &domain.TransitionEvent{Action: domain.ActionRemove, Outcome: domain.OutcomeFailed, Err: errors.New("boom")})
	hooks.OnBack(ctx, &domain.BackEvent{Armed: true})
	hooks.OnBack(ctx, &domain.BackEvent{Armed: false})
	hooks.OnBack(ctx, &domain.BackEvent{Armed: false})
	hooks.OnResolve(ctx, &domain.ResolveEvent{Key: "home"})
	hooks.OnResolve(ctx, &domain.ResolveEvent{Key: "nope", Wildcard: true})
	hooks.OnResolve(ctx, &domain.ResolveEvent{Key: "gone", Err: errors.New("missing")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Actions.WithLabelValues("router/push", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("router/remove", "failed")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.StackDepth), "failed transitions do not move the gauge")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackPresses.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BackPresses.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolves.WithLabelValues(observability.ResolveHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolves.WithLabelValues(observability.ResolveWildcard)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolves.WithLabelValues(observability.ResolveMiss)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestMetrics_Unregistered(t *testing.T) {
	m := observability.NewMetrics(nil)
	assert.NotPanics(t, func() {
		m.Hooks().OnBack(context.Background(), &domain.BackEvent{})
	})
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnTransition(ctx, &domain.TransitionEvent{Action: domain.ActionPop, Outcome: domain.OutcomeNoop})
	assert.Empty(t, buf.String(), "no-ops are debug only")

	hooks.OnTransition(ctx, &domain.TransitionEvent{Action: domain.ActionJump, Outcome: domain.OutcomeFailed, Err: errors.New("not in stack")})
	assert.Contains(t, buf.String(), "outcome=failed")
	assert.Contains(t, buf.String(), "not in stack")

	buf.Reset()
	hooks.OnResolve(ctx, &domain.ResolveEvent{Key: "ghost", Err: errors.New("route not found")})
	assert.Contains(t, buf.String(), "key=ghost")
}
