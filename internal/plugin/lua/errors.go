package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotFunction is returned when a called value is not a function.
	ErrNotFunction = errors.New("lua value is not a function")
)

// ScriptError is a runtime error raised by Lua code, with the Lua traceback
// captured at the point of failure.
type ScriptError struct {
	Message   string
	Traceback string
	Cause     error
}

// Error implements error.
func (e *ScriptError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *ScriptError) Unwrap() error {
	return e.Cause
}

// CapabilityError is returned when a capability is not granted.
type CapabilityError struct {
	Capability Capability
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability not granted: %s", e.Capability)
}
