package bindings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	extism "github.com/extism/go-sdk"
	"github.com/tidwall/sjson"

	"github.com/dshills/hookforge/internal/dispatch"
	"github.com/dshills/hookforge/internal/handler"
	"github.com/dshills/hookforge/internal/plugindata"
)

// HostNamespace is the import module of the host functions.
const HostNamespace = "extism:host/user"

// WasmConfig configures WASM plugin instances.
type WasmConfig struct {
	EnableWasi bool
}

// WasmModule is a loaded WASM plugin as seen by the hook wrappers.
type WasmModule struct {
	plugin   string
	reporter dispatch.Reporter

	mu       sync.Mutex
	instance *extism.Plugin
}

// ExitError is returned when a hook export returns a non-zero code.
type ExitError struct {
	Code   uint32
	Output string
}

func (e *ExitError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("exit code %d: %s", e.Code, e.Output)
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewWasmModule instantiates code with the plugin-data host functions.
func NewWasmModule(ctx context.Context, plugin string, code []byte, cfg WasmConfig, reporter dispatch.Reporter) (*WasmModule, error) {
	manifest := extism.Manifest{
		Wasm: []extism.Wasm{
			extism.WasmData{Data: code},
		},
	}
	config := extism.PluginConfig{
		EnableWasi: cfg.EnableWasi,
	}

	instance, err := extism.NewPlugin(ctx, manifest, config, hostFunctions())
	if err != nil {
		return nil, fmt.Errorf("instantiate wasm plugin %s: %w", plugin, err)
	}
	return &WasmModule{
		plugin:   plugin,
		reporter: reporter,
		instance: instance,
	}, nil
}

// Plugin returns the plugin id.
func (m *WasmModule) Plugin() string { return m.plugin }

// Resolve binds every hook the module exports into t.
func (m *WasmModule) Resolve(t *dispatch.Table) error {
	return resolveWasm(m, t)
}

// Close releases the instance.
func (m *WasmModule) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.instance == nil {
		return nil
	}
	err := m.instance.CloseWithContext(ctx)
	m.instance = nil
	return err
}

func (m *WasmModule) exports(symbol string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instance != nil && m.instance.FunctionExists(symbol)
}

type handlerKey struct{}

// handlerFrom returns the handler of the hook call running on ctx.
func handlerFrom(ctx context.Context) any {
	return ctx.Value(handlerKey{})
}

// invoke calls the exported symbol. The handler travels in ctx so host
// functions can reach it; the input names the plugin and hook.
func (m *WasmModule) invoke(ctx context.Context, hook, symbol string, h any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.instance == nil {
		return errors.New("wasm module closed")
	}

	input, err := sjson.SetBytes([]byte(`{}`), "plugin", m.plugin)
	if err == nil {
		input, err = sjson.SetBytes(input, "hook", hook)
	}
	if err != nil {
		return fmt.Errorf("encode hook input: %w", err)
	}

	code, out, err := m.instance.CallWithContext(context.WithValue(ctx, handlerKey{}, h), symbol, input)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code, Output: string(out)}
	}
	return nil
}

func (m *WasmModule) fail(hook string, err error) {
	serr := &dispatch.ScriptExecutionError{Plugin: m.plugin, Hook: hook, Err: err}
	var exit *ExitError
	if errors.As(err, &exit) {
		serr.Trace = exit.Output
	}
	m.reporter.HookFailed(serr)
}

func (m *WasmModule) mismatch(hook, want string, got any) {
	m.reporter.HookFailed(&dispatch.ScriptExecutionError{
		Plugin: m.plugin,
		Hook:   hook,
		Err:    fmt.Errorf("%w: want %s, got %T", dispatch.ErrHandlerMismatch, want, got),
	})
}

// Host function status codes.
const (
	statusOK            = 0
	statusError         = 1
	statusUnsupported   = 2
	statusDuplicateKey  = 3
	statusUnknownKey    = 4
	statusNoPluginData  = 5
	statusInvalidMemory = 6
)

func statusOf(err error) uint64 {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, errUnsupported):
		return statusUnsupported
	case errors.Is(err, plugindata.ErrDuplicateKey):
		return statusDuplicateKey
	case errors.Is(err, plugindata.ErrUnknownKey):
		return statusUnknownKey
	case errors.Is(err, handler.ErrNoPluginData):
		return statusNoPluginData
	default:
		return statusError
	}
}

var errUnsupported = errors.New("handler does not support this operation")

// WASM plugin data values are byte strings; the registry keeps a copy.

func wasmRegisterPluginData(h any, key string, value []byte) error {
	r, ok := h.(handler.DataRegistrar)
	if !ok {
		return errUnsupported
	}
	return r.RegisterPluginData(key, append([]byte(nil), value...))
}

func wasmGetPluginData(h any, key string) ([]byte, error) {
	g, ok := h.(handler.DataGetter)
	if !ok {
		return nil, errUnsupported
	}
	v, err := g.GetPluginData(key)
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("plugin data %q holds %T, not bytes", key, v)
	}
	return b, nil
}

func wasmUnregisterPluginData(h any, key string) error {
	u, ok := h.(handler.DataUnregistrar)
	if !ok {
		return errUnsupported
	}
	return u.UnregisterPluginData(key)
}

func hostFunctions() []extism.HostFunction {
	register := extism.NewHostFunctionWithStack(
		"plugin_data_register",
		func(ctx context.Context, p *extism.CurrentPlugin, stack []uint64) {
			key, err := p.ReadString(stack[0])
			if err != nil {
				stack[0] = statusInvalidMemory
				return
			}
			value, err := p.ReadBytes(stack[1])
			if err != nil {
				stack[0] = statusInvalidMemory
				return
			}
			stack[0] = statusOf(wasmRegisterPluginData(handlerFrom(ctx), key, value))
		},
		[]extism.ValueType{extism.ValueTypeI64, extism.ValueTypeI64}, // key, value offsets
		[]extism.ValueType{extism.ValueTypeI32},                      // status
	)

	get := extism.NewHostFunctionWithStack(
		"plugin_data_get",
		func(ctx context.Context, p *extism.CurrentPlugin, stack []uint64) {
			key, err := p.ReadString(stack[0])
			if err != nil {
				stack[0] = 0
				return
			}
			value, err := wasmGetPluginData(handlerFrom(ctx), key)
			if err != nil {
				stack[0] = 0
				return
			}
			offset, err := p.WriteBytes(value)
			if err != nil {
				stack[0] = 0
				return
			}
			stack[0] = offset
		},
		[]extism.ValueType{extism.ValueTypeI64}, // key offset
		[]extism.ValueType{extism.ValueTypeI64}, // value offset, 0 when absent
	)

	unregister := extism.NewHostFunctionWithStack(
		"plugin_data_unregister",
		func(ctx context.Context, p *extism.CurrentPlugin, stack []uint64) {
			key, err := p.ReadString(stack[0])
			if err != nil {
				stack[0] = statusInvalidMemory
				return
			}
			stack[0] = statusOf(wasmUnregisterPluginData(handlerFrom(ctx), key))
		},
		[]extism.ValueType{extism.ValueTypeI64}, // key offset
		[]extism.ValueType{extism.ValueTypeI32}, // status
	)

	fns := []extism.HostFunction{register, get, unregister}
	for i := range fns {
		fns[i].SetNamespace(HostNamespace)
	}
	return fns
}
