/*
Package observability turns navigation lifecycle events into Prometheus metrics
and structured log lines.

Both adapters produce domain.LifecycleHooks, so they compose with Merge:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
*/
package observability
