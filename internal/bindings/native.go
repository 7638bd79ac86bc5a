package bindings

import (
	"fmt"
	"runtime/debug"

	"github.com/dshills/hookforge/internal/dispatch"
)

// NativeModule is a Go plugin value. The hooks it provides are the
// generated <Hook>Hook interfaces it implements.
type NativeModule struct {
	plugin   string
	impl     any
	reporter dispatch.Reporter
}

// NewNativeModule wraps impl.
func NewNativeModule(plugin string, impl any, reporter dispatch.Reporter) *NativeModule {
	return &NativeModule{plugin: plugin, impl: impl, reporter: reporter}
}

// Plugin returns the plugin id.
func (n *NativeModule) Plugin() string { return n.plugin }

// Impl returns the wrapped plugin value.
func (n *NativeModule) Impl() any { return n.impl }

// Resolve binds every hook interface impl satisfies into t.
func (n *NativeModule) Resolve(t *dispatch.Table) error {
	return resolveNative(n, t)
}

// PanicError is a panic recovered from a native hook.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// invoke runs fn, turning a panic into a *dispatch.ScriptExecutionError
// carrying the goroutine stack.
func (n *NativeModule) invoke(hook string, fn func()) (serr *dispatch.ScriptExecutionError) {
	defer func() {
		if r := recover(); r != nil {
			serr = &dispatch.ScriptExecutionError{
				Plugin: n.plugin,
				Hook:   hook,
				Err:    &PanicError{Value: r},
				Trace:  string(debug.Stack()),
			}
		}
	}()
	fn()
	return nil
}

func (n *NativeModule) fail(serr *dispatch.ScriptExecutionError) {
	n.reporter.HookFailed(serr)
}

func (n *NativeModule) mismatch(hook, want string, got any) {
	n.reporter.HookFailed(&dispatch.ScriptExecutionError{
		Plugin: n.plugin,
		Hook:   hook,
		Err:    fmt.Errorf("%w: want %s, got %T", dispatch.ErrHandlerMismatch, want, got),
	})
}
