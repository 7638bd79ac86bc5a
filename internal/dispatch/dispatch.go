// Package dispatch routes hook occurrences to the plugins implementing them.
//
// Each loaded plugin owns a Table with one ResolveContext per hook. Binding
// happens once, when the plugin is activated; from then on a dispatch is a
// map lookup followed by a call. The dispatcher does not know which kind of
// plugin it is calling: native, Lua and WASM bindings all reduce to a
// HookFunc.
package dispatch

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/hookforge/internal/metrics"
)

// Dispatcher invokes bound hooks. At most one hook call is in flight at a
// time; an overlapping call is refused and logged.
type Dispatcher struct {
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	inFlight atomic.Bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.WithField("component", "dispatch")
	return d
}

// Dispatch calls the plugin's implementation of hook with handler h. An
// unknown or unbound hook returns immediately. Dispatch never fails: errors
// raised by the implementation are reported by its wrapper.
func (d *Dispatcher) Dispatch(ctx context.Context, t *Table, hook string, h any) {
	if t == nil {
		return
	}
	rc, ok := t.Lookup(hook)
	if !ok || !rc.Bound() {
		return
	}

	if !d.inFlight.CompareAndSwap(false, true) {
		d.log.WithFields(logrus.Fields{
			"plugin": t.Plugin(),
			"hook":   hook,
		}).Warn("hook call refused: another hook call is in flight")
		d.metrics.ObserveDispatch(hook, metrics.OutcomeRejected, 0)
		return
	}
	defer d.inFlight.Store(false)

	start := time.Now()
	outcome := metrics.OutcomeInvoked
	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomePanicked
			d.log.WithFields(logrus.Fields{
				"plugin": t.Plugin(),
				"hook":   hook,
				"panic":  r,
				"trace":  string(debug.Stack()),
			}).Error("hook wrapper panicked")
		}
		d.metrics.ObserveDispatch(hook, outcome, time.Since(start))
	}()

	rc.fn(ctx, h)
}

// Busy reports whether a hook call is in flight.
func (d *Dispatcher) Busy() bool {
	return d.inFlight.Load()
}

var defaultDispatcher atomic.Pointer[Dispatcher]

// Default returns the process-wide dispatcher.
func Default() *Dispatcher {
	if d := defaultDispatcher.Load(); d != nil {
		return d
	}
	defaultDispatcher.CompareAndSwap(nil, NewDispatcher())
	return defaultDispatcher.Load()
}

// SetDefault replaces the process-wide dispatcher.
func SetDefault(d *Dispatcher) {
	defaultDispatcher.Store(d)
}

// Dispatch dispatches through the process-wide dispatcher.
func Dispatch(ctx context.Context, t *Table, hook string, h any) {
	Default().Dispatch(ctx, t, hook, h)
}
