// Package metrics holds the Prometheus metrics of the plugin host.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcomes.
const (
	OutcomeInvoked  = "invoked"
	OutcomeRejected = "rejected"
	OutcomePanicked = "panicked"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	// Dispatch metrics
	HookDispatchTotal *prometheus.CounterVec
	HookDuration      *prometheus.HistogramVec
	HookFailuresTotal *prometheus.CounterVec

	// Plugin metrics
	PluginsLoaded *prometheus.GaugeVec
}

// NewMetrics creates and registers all metrics with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HookDispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hookforge_hook_dispatch_total",
				Help: "Total number of hook dispatches to bound plugins",
			},
			[]string{"hook", "outcome"},
		),
		HookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hookforge_hook_duration_seconds",
				Help:    "Hook implementation run time in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"hook"},
		),
		HookFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hookforge_hook_failures_total",
				Help: "Total number of hook implementations that failed",
			},
			[]string{"plugin", "hook"},
		),
		PluginsLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hookforge_plugins_loaded",
				Help: "Number of loaded plugins by kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		m.HookDispatchTotal,
		m.HookDuration,
		m.HookFailuresTotal,
		m.PluginsLoaded,
	)

	return m
}

// ObserveDispatch records one dispatch of hook.
func (m *Metrics) ObserveDispatch(hook, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.HookDispatchTotal.WithLabelValues(hook, outcome).Inc()
	if outcome != OutcomeRejected {
		m.HookDuration.WithLabelValues(hook).Observe(d.Seconds())
	}
}

// HookFailed records a failed hook implementation.
func (m *Metrics) HookFailed(plugin, hook string) {
	if m == nil {
		return
	}
	m.HookFailuresTotal.WithLabelValues(plugin, hook).Inc()
}

// SetPluginsLoaded sets the number of loaded plugins of a kind.
func (m *Metrics) SetPluginsLoaded(kind string, n int) {
	if m == nil {
		return
	}
	m.PluginsLoaded.WithLabelValues(kind).Set(float64(n))
}
