package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Resolve results.
const (
	ResolveHit      = "hit"
	ResolveWildcard = "wildcard"
	ResolveMiss     = "miss"
)

// Metrics holds the navigation collectors.
type Metrics struct {
	Actions     *prometheus.CounterVec
	BackPresses *prometheus.CounterVec
	StackDepth  prometheus.Gauge
	Resolves    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backstack_actions_total",
				Help: "Navigation actions applied, by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		BackPresses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backstack_back_presses_total",
				Help: "Platform back presses, by arbiter arming",
			},
			[]string{"armed"},
		),
		StackDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "backstack_stack_depth",
				Help: "Depth of the most recently transitioned stack",
			},
		),
		Resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backstack_resolve_total",
				Help: "Route table lookups, by result",
			},
			[]string{"result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Actions, m.BackPresses, m.StackDepth, m.Resolves)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Actions.WithLabelValues(string(e.Action), e.Outcome).Inc()
			if e.Err == nil {
				m.StackDepth.Set(float64(e.Depth))
			}
		},
		OnBack: func(_ context.Context, e *domain.BackEvent) {
			m.BackPresses.WithLabelValues(strconv.FormatBool(e.Armed)).Inc()
		},
		OnResolve: func(_ context.Context, e *domain.ResolveEvent) {
			switch {
			case e.Err != nil:
				m.Resolves.WithLabelValues(ResolveMiss).Inc()
			case e.Wildcard:
				m.Resolves.WithLabelValues(ResolveWildcard).Inc()
			default:
				m.Resolves.WithLabelValues(ResolveHit).Inc()
			}
		},
	}
}
