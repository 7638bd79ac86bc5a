package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	goplugin "plugin"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hookforge/internal/bindings"
	"github.com/dshills/hookforge/internal/dispatch"
	"github.com/dshills/hookforge/internal/handler"
	plua "github.com/dshills/hookforge/internal/plugin/lua"
	"github.com/dshills/hookforge/internal/plugindata"
)

// NativeSymbol is the symbol a native plugin exports. It must be a
// func() any returning the plugin value.
const NativeSymbol = "NewPlugin"

// HostModuleName is the Lua module plugins require for host services.
const HostModuleName = "hookforge"

// LuaConfig configures Lua plugin states.
type LuaConfig struct {
	CallStackSize int
	RegistrySize  int

	// Capabilities lists what plugins may request in their metadata.
	Capabilities []plua.Capability

	// GoStackTrace adds Go frames to script tracebacks.
	GoStackTrace bool
}

// HostConfig configures how plugins are instantiated.
type HostConfig struct {
	Lua  LuaConfig
	Wasm bindings.WasmConfig
}

// module is a loaded plugin as the host sees it.
type module interface {
	Resolve(t *dispatch.Table) error
	Close(ctx context.Context) error
}

type luaModule struct {
	*bindings.LuaModule
	state *plua.State
}

func (m luaModule) Close(context.Context) error {
	return m.state.Close()
}

type nativeModule struct {
	*bindings.NativeModule
}

func (m nativeModule) Close(context.Context) error {
	if c, ok := m.Impl().(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Host manages a single plugin's module, dispatch table and data.
type Host struct {
	mu sync.RWMutex

	id   string
	kind Kind
	info *PluginInfo
	impl any

	config     HostConfig
	log        logrus.FieldLogger
	reporter   dispatch.Reporter
	dispatcher *dispatch.Dispatcher
	interp     *handler.PluginScriptInterpHandler

	state    State
	err      error
	enabled  bool
	module   module
	table    *dispatch.Table
	data     *plugindata.Registry
	instance string
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostConfig sets how the module is instantiated.
func WithHostConfig(cfg HostConfig) HostOption {
	return func(h *Host) {
		h.config = cfg
	}
}

// WithHostLogger sets the logger. The plugin id is added as a field.
func WithHostLogger(log logrus.FieldLogger) HostOption {
	return func(h *Host) {
		h.log = log
	}
}

// WithReporter sets where hook failures go.
func WithReporter(r dispatch.Reporter) HostOption {
	return func(h *Host) {
		h.reporter = r
	}
}

// WithDispatcher sets the dispatcher used for hooks the host fires itself.
func WithDispatcher(d *dispatch.Dispatcher) HostOption {
	return func(h *Host) {
		h.dispatcher = d
	}
}

// WithInterpreter sets the interpreter handed out by setup handlers.
func WithInterpreter(interp *handler.PluginScriptInterpHandler) HostOption {
	return func(h *Host) {
		h.interp = interp
	}
}

// NewHost creates a host for a discovered plugin.
func NewHost(info *PluginInfo, opts ...HostOption) (*Host, error) {
	if info == nil || info.Metadata == nil {
		return nil, fmt.Errorf("%w: no metadata", ErrInvalidPlugin)
	}
	h := newHost(info.ID(), info.Kind, opts)
	h.info = info
	h.enabled = info.Metadata.EnabledByDefault
	return h, nil
}

// NewNativeHost creates a host for a Go plugin value registered in-process.
// Such plugins have no metadata file and start enabled.
func NewNativeHost(id string, impl any, opts ...HostOption) (*Host, error) {
	if id == "" || impl == nil {
		return nil, fmt.Errorf("%w: native plugin needs an id and a value", ErrInvalidPlugin)
	}
	h := newHost(id, KindNative, opts)
	h.impl = impl
	h.enabled = true
	return h, nil
}

func newHost(id string, kind Kind, opts []HostOption) *Host {
	h := &Host{
		id:    id,
		kind:  kind,
		log:   logrus.StandardLogger(),
		state: StateUnloaded,
		data:  plugindata.New(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithFields(logrus.Fields{"plugin": id, "kind": kind.String()})
	if h.reporter == nil {
		h.reporter = dispatch.NewLogReporter(h.log, nil)
	}
	if h.dispatcher == nil {
		h.dispatcher = dispatch.Default()
	}
	return h
}

// ID returns the plugin id.
func (h *Host) ID() string { return h.id }

// Kind returns the plugin kind.
func (h *Host) Kind() Kind { return h.kind }

// Info returns the discovery info, or nil for in-process native plugins.
func (h *Host) Info() *PluginInfo { return h.info }

// Dir returns the plugin directory, or "" for in-process native plugins.
func (h *Host) Dir() string {
	if h.info == nil {
		return ""
	}
	return h.info.Dir
}

// MetadataFilePath returns the metadata.json path, or "".
func (h *Host) MetadataFilePath() string {
	if h.info == nil {
		return ""
	}
	return h.info.Metadata.Path()
}

// Data returns the plugin's data registry. Unload replaces it.
func (h *Host) Data() *plugindata.Registry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data
}

// State returns the current plugin state.
func (h *Host) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Err returns the error that put the plugin in StateError.
func (h *Host) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// InstanceID identifies the current activation. It changes every time the
// plugin is activated.
func (h *Host) InstanceID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.instance
}

// Table returns the dispatch table, or nil before activation.
func (h *Host) Table() *dispatch.Table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table
}

// IsEnabled reports whether hooks are delivered to the plugin.
func (h *Host) IsEnabled() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.enabled
}

// SetEnabled changes whether hooks are delivered. For plugins with a
// metadata file the flag is persisted as KPlugin.EnabledByDefault.
func (h *Host) SetEnabled(enabled bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.info != nil {
		if err := h.info.Metadata.SetEnabled(enabled); err != nil {
			return err
		}
	}
	h.enabled = enabled
	return nil
}

// Load creates the plugin module.
func (h *Host) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateUnloaded {
		return ErrAlreadyLoaded
	}

	var (
		mod module
		err error
	)
	switch h.kind {
	case KindLua:
		mod, err = h.loadLua()
	case KindWasm:
		mod, err = h.loadWasm(ctx)
	case KindNative:
		mod, err = h.loadNative()
	default:
		err = fmt.Errorf("%w: unknown kind %d", ErrInvalidPlugin, h.kind)
	}
	if err != nil {
		h.state = StateError
		h.err = fmt.Errorf("failed to load plugin %s: %w", h.id, err)
		return h.err
	}

	h.module = mod
	h.state = StateLoaded
	h.err = nil
	h.log.Debug("plugin loaded")
	return nil
}

func (h *Host) loadLua() (module, error) {
	requested := h.info.Metadata.Capabilities
	for _, c := range requested {
		if !slices.Contains(h.config.Lua.Capabilities, c) {
			return nil, fmt.Errorf("%w: %s", ErrCapabilityDenied, c)
		}
	}

	state, err := plua.NewState(
		plua.WithCallStackSize(h.config.Lua.CallStackSize),
		plua.WithRegistrySize(h.config.Lua.RegistrySize),
		plua.WithCapabilities(requested...),
		plua.WithGoStackTrace(h.config.Lua.GoStackTrace),
	)
	if err != nil {
		return nil, err
	}
	if granted := state.Sandbox().Capabilities(); len(granted) > 0 {
		h.log.WithField("capabilities", granted).Debug("lua capabilities granted")
	}

	state.PreloadModule(HostModuleName, h.luaHostFunctions(), map[string]lua.LValue{
		"id":   lua.LString(h.id),
		"name": lua.LString(h.info.Metadata.Name),
	})

	if err := state.DoFile(h.info.EntryPoint); err != nil {
		state.Close()
		return nil, err
	}
	return luaModule{LuaModule: bindings.NewLuaModule(h.id, state, h.reporter), state: state}, nil
}

// luaHostFunctions are the functions of the hookforge Lua module.
func (h *Host) luaHostFunctions() map[string]lua.LGFunction {
	// hf.info(msg [, fields]): a string-keyed fields table becomes log fields.
	logAt := func(level logrus.Level) lua.LGFunction {
		return func(L *lua.LState) int {
			msg := L.CheckString(1)
			entry := h.log.WithField("source", "script")
			if t, ok := L.Get(2).(*lua.LTable); ok {
				if fields, ok := plua.NewBridge(L).ToGoValue(t).(map[string]any); ok {
					entry = entry.WithFields(logrus.Fields(fields))
				}
			}
			entry.Log(level, msg)
			return 0
		}
	}
	return map[string]lua.LGFunction{
		"debug": logAt(logrus.DebugLevel),
		"info":  logAt(logrus.InfoLevel),
		"warn":  logAt(logrus.WarnLevel),
		"error": logAt(logrus.ErrorLevel),
	}
}

func (h *Host) loadWasm(ctx context.Context) (module, error) {
	code, err := os.ReadFile(h.info.EntryPoint)
	if err != nil {
		return nil, err
	}
	return bindings.NewWasmModule(ctx, h.id, code, h.config.Wasm, h.reporter)
}

func (h *Host) loadNative() (module, error) {
	impl := h.impl
	if impl == nil {
		var err error
		impl, err = openNative(h.info.EntryPoint)
		if err != nil {
			return nil, err
		}
		h.impl = impl
	}
	return nativeModule{bindings.NewNativeModule(h.id, impl, h.reporter)}, nil
}

// openNative loads a Go plugin built with -buildmode=plugin.
func openNative(path string) (any, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, err
	}
	sym, err := p.Lookup(NativeSymbol)
	if err != nil {
		return nil, err
	}
	ctor, ok := sym.(func() any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want func() any", ErrInvalidPlugin, NativeSymbol, sym)
	}
	return ctor(), nil
}

// BuildDispatchTable inspects the loaded module of h for every registry
// hook and binds the ones it implements.
func BuildDispatchTable(h *Host) (*dispatch.Table, error) {
	if h.module == nil {
		return nil, ErrNotLoaded
	}
	t := dispatch.NewTable(h.id, bindings.HookNames)
	if err := h.module.Resolve(t); err != nil {
		return nil, fmt.Errorf("resolve hooks of %s: %w", h.id, err)
	}
	return t, nil
}

// Activate builds the dispatch table and assigns a new instance id.
func (h *Host) Activate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateLoaded {
		return ErrNotLoaded
	}

	t, err := BuildDispatchTable(h)
	if err != nil {
		h.state = StateError
		h.err = err
		return err
	}

	h.table = t
	h.instance = uuid.NewString()
	h.state = StateActive
	h.log.WithFields(logrus.Fields{
		"instance": h.instance,
		"hooks":    t.BoundHooks(),
	}).Info("plugin activated")
	return nil
}

// Dispatch delivers hook to the plugin if it is active.
func (h *Host) Dispatch(ctx context.Context, hook string, obj any) {
	h.mu.RLock()
	t := h.table
	active := h.state == StateActive
	h.mu.RUnlock()

	if !active {
		return
	}
	h.dispatcher.Dispatch(ctx, t, hook, obj)
}

// Unload runs TeardownPlugin if the plugin is active and enabled, closes its data
// registry and releases the module. Keys still registered without a
// finalizer are logged as leaks.
func (h *Host) Unload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == StateUnloaded {
		return nil
	}

	if h.state == StateActive && h.enabled {
		h.dispatcher.Dispatch(ctx, h.table, "TeardownPlugin", handler.NewPluginSetupHandler(h.data, h.interp))
	}

	if leaked := h.data.Close(); len(leaked) > 0 {
		h.log.WithField("keys", leaked).Warn("plugin data still registered at unload")
	}

	var err error
	if h.module != nil {
		err = h.module.Close(ctx)
	}

	h.module = nil
	h.table = nil
	h.instance = ""
	h.data = plugindata.New()
	h.state = StateUnloaded
	if err != nil && !errors.Is(err, plua.ErrStateClosed) {
		return fmt.Errorf("failed to unload plugin %s: %w", h.id, err)
	}
	return nil
}
