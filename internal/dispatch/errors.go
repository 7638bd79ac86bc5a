package dispatch

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dshills/hookforge/internal/metrics"
)

// ErrHandlerMismatch is reported when a hook receives a handler of the wrong type.
var ErrHandlerMismatch = errors.New("handler type does not match hook")

// ScriptExecutionError describes a failure raised by plugin code while it
// ran a hook.
type ScriptExecutionError struct {
	Plugin string
	Hook   string
	Err    error
	Trace  string
}

// Error implements error.
func (e *ScriptExecutionError) Error() string {
	return fmt.Sprintf("plugin %s: hook %s: %v", e.Plugin, e.Hook, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptExecutionError) Unwrap() error {
	return e.Err
}

// Reporter receives failures caught by hook wrappers.
type Reporter interface {
	HookFailed(err *ScriptExecutionError)
}

// LogReporter logs failures and counts them.
type LogReporter struct {
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics
}

// NewLogReporter returns a reporter writing to log.
func NewLogReporter(log logrus.FieldLogger, m *metrics.Metrics) *LogReporter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogReporter{Log: log, Metrics: m}
}

// HookFailed implements Reporter.
func (r *LogReporter) HookFailed(err *ScriptExecutionError) {
	fields := logrus.Fields{
		"plugin": err.Plugin,
		"hook":   err.Hook,
	}
	if err.Trace != "" {
		fields["trace"] = err.Trace
	}
	r.Log.WithFields(fields).WithError(err.Err).Error("hook implementation failed")
	r.Metrics.HookFailed(err.Plugin, err.Hook)
}
