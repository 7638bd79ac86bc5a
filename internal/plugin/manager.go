package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dshills/hookforge/internal/dispatch"
	"github.com/dshills/hookforge/internal/handler"
	"github.com/dshills/hookforge/internal/metrics"
	plua "github.com/dshills/hookforge/internal/plugin/lua"
)

// Manager owns every loaded plugin and fans hooks out to them.
//
// All methods are serialized by one mutex, including hook fan-out. Hook
// implementations must not call back into the Manager.
type Manager struct {
	mu sync.Mutex

	config     ManagerConfig
	log        logrus.FieldLogger
	metrics    *metrics.Metrics
	dispatcher *dispatch.Dispatcher
	reporter   dispatch.Reporter

	// Host interpreter handed to plugins by getScriptInterpreter.
	interp        *plua.State
	interpHandler *handler.PluginScriptInterpHandler

	plugins map[string]*Host
	closed  bool

	// Event handlers (protected by hmu)
	hmu           sync.RWMutex
	eventHandlers []EventHandler
}

// ManagerConfig configures the plugin manager.
type ManagerConfig struct {
	// PluginPaths are searched by LoadPlugins when it is given no paths.
	PluginPaths []string

	Host HostConfig
}

// DefaultManagerConfig returns the default configuration.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{PluginPaths: DefaultPluginPaths()}
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(log logrus.FieldLogger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithMetrics sets the metrics updated by the manager and its plugins.
func WithMetrics(mt *metrics.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithManagerDispatcher sets the dispatcher used for hook fan-out.
func WithManagerDispatcher(d *dispatch.Dispatcher) ManagerOption {
	return func(m *Manager) {
		m.dispatcher = d
	}
}

// EventHandler handles plugin manager events.
// Handlers run with the manager locked and must not call back into it.
type EventHandler func(event ManagerEvent)

// ManagerEvent represents a plugin manager event.
type ManagerEvent struct {
	Type   ManagerEventType
	Plugin string
	Error  error
}

// ManagerEventType is the type of manager event.
type ManagerEventType int

const (
	// EventPluginLoaded is emitted when a plugin is loaded and activated.
	EventPluginLoaded ManagerEventType = iota
	// EventPluginRemoved is emitted when a plugin is torn down and removed.
	EventPluginRemoved
	// EventPluginReloaded is emitted when a plugin directory is reloaded.
	EventPluginReloaded
	// EventPluginError is emitted when a plugin fails to load.
	EventPluginError
)

// String returns a string representation of the event type.
func (t ManagerEventType) String() string {
	switch t {
	case EventPluginLoaded:
		return "loaded"
	case EventPluginRemoved:
		return "removed"
	case EventPluginReloaded:
		return "reloaded"
	case EventPluginError:
		return "error"
	default:
		return "unknown"
	}
}

// NewManager creates a plugin manager and its host interpreter.
func NewManager(config ManagerConfig, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		config:  config,
		log:     logrus.StandardLogger(),
		plugins: make(map[string]*Host),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithField("component", "plugins")
	if m.dispatcher == nil {
		m.dispatcher = dispatch.NewDispatcher(dispatch.WithLogger(m.log), dispatch.WithMetrics(m.metrics))
	}
	m.reporter = dispatch.NewLogReporter(m.log, m.metrics)

	interp, err := plua.NewState(
		plua.WithCallStackSize(config.Host.Lua.CallStackSize),
		plua.WithRegistrySize(config.Host.Lua.RegistrySize),
	)
	if err != nil {
		return nil, fmt.Errorf("create host interpreter: %w", err)
	}
	m.interp = interp
	m.interpHandler = &handler.PluginScriptInterpHandler{Exec: m.execScript}
	return m, nil
}

func (m *Manager) execScript(code string) {
	if err := m.interp.DoString(code); err != nil {
		m.log.WithError(err).Error("host script failed")
	}
}

func (m *Manager) hostOptions() []HostOption {
	return []HostOption{
		WithHostConfig(m.config.Host),
		WithHostLogger(m.log),
		WithReporter(m.reporter),
		WithDispatcher(m.dispatcher),
		WithInterpreter(m.interpHandler),
	}
}

// LoadPlugins discovers, loads and activates the plugins under paths,
// or under the configured paths when none are given. Plugins whose id is
// already loaded are skipped. Failures of single plugins are logged and
// joined into the returned error; the other plugins still load.
func (m *Manager) LoadPlugins(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		paths = m.config.PluginPaths
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}

	loader := NewLoader(WithPaths(paths...), WithLoaderLogger(m.log))
	infos, err := loader.Discover()
	if err != nil {
		return err
	}

	var loadErrors []error
	for _, info := range infos {
		if _, exists := m.plugins[info.ID()]; exists {
			m.log.WithField("plugin", info.ID()).Debug("plugin already loaded")
			continue
		}
		if err := m.installLocked(ctx, info); err != nil {
			loadErrors = append(loadErrors, fmt.Errorf("%s: %w", info.ID(), err))
		}
	}
	m.updateMetricsLocked()

	if len(loadErrors) > 0 {
		return fmt.Errorf("failed to load %d plugins: %w", len(loadErrors), errors.Join(loadErrors...))
	}
	return nil
}

// installLocked loads and activates one discovered plugin.
func (m *Manager) installLocked(ctx context.Context, info *PluginInfo) error {
	host, err := NewHost(info, m.hostOptions()...)
	if err != nil {
		return err
	}
	return m.addLocked(ctx, host)
}

func (m *Manager) addLocked(ctx context.Context, host *Host) error {
	if _, exists := m.plugins[host.ID()]; exists {
		return fmt.Errorf("plugin %q: %w", host.ID(), ErrAlreadyLoaded)
	}

	err := host.Load(ctx)
	if err == nil {
		err = host.Activate(ctx)
		if err != nil {
			_ = host.Unload(ctx)
		}
	}
	if err != nil {
		m.log.WithError(err).WithField("plugin", host.ID()).Error("plugin skipped")
		m.emitEvent(ManagerEvent{Type: EventPluginError, Plugin: host.ID(), Error: err})
		return err
	}

	m.plugins[host.ID()] = host
	m.emitEvent(ManagerEvent{Type: EventPluginLoaded, Plugin: host.ID()})
	return nil
}

// RegisterNative loads and activates a Go plugin value in-process.
func (m *Manager) RegisterNative(ctx context.Context, id string, impl any) error {
	host, err := NewNativeHost(id, impl, m.hostOptions()...)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	err = m.addLocked(ctx, host)
	m.updateMetricsLocked()
	return err
}

// PluginByID returns the plugin with the given id.
func (m *Manager) PluginByID(id string) (*Host, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	host, ok := m.plugins[id]
	return host, ok
}

// Plugins returns the loaded plugins in id order.
func (m *Manager) Plugins() []*Host {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedLocked()
}

func (m *Manager) sortedLocked() []*Host {
	hosts := make([]*Host, 0, len(m.plugins))
	for _, h := range m.plugins {
		hosts = append(hosts, h)
	}
	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].ID() < hosts[j].ID()
	})
	return hosts
}

// MetadataFilePaths returns the metadata.json path of every plugin that
// has one, in id order.
func (m *Manager) MetadataFilePaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var paths []string
	for _, h := range m.sortedLocked() {
		if p := h.MetadataFilePath(); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// SetEnabled enables or disables a plugin. The flag is persisted in the
// plugin's metadata file.
func (m *Manager) SetEnabled(id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	host, ok := m.plugins[id]
	if !ok {
		return fmt.Errorf("plugin %q: %w", id, ErrPluginNotFound)
	}
	return host.SetEnabled(enabled)
}

// IsEnabled reports whether a plugin receives hooks.
func (m *Manager) IsEnabled(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	host, ok := m.plugins[id]
	if !ok {
		return false, fmt.Errorf("plugin %q: %w", id, ErrPluginNotFound)
	}
	return host.IsEnabled(), nil
}

// CallHooks dispatches hook to every enabled plugin in id order.
// makeHandler builds the handler for one plugin from that plugin's data.
func (m *Manager) CallHooks(ctx context.Context, hook string, makeHandler func(data handler.PluginData) any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, host := range m.sortedLocked() {
		if !host.IsEnabled() {
			continue
		}
		host.Dispatch(ctx, hook, makeHandler(host.Data()))
	}
}

// Busy reports whether a hook call is in flight. It does not take the
// manager lock, so it answers while CallHooks runs.
func (m *Manager) Busy() bool {
	return m.dispatcher.Busy()
}

// ReloadPlugin removes the plugin loaded from dir, if any, and installs
// the directory again. A directory that is no longer a valid plugin stays
// removed.
func (m *Manager) ReloadPlugin(ctx context.Context, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	defer m.updateMetricsLocked()

	if host := m.findByDirLocked(abs); host != nil {
		if err := m.removeLocked(ctx, host); err != nil {
			return err
		}
	}

	if _, err := os.Stat(abs); err != nil {
		return nil
	}

	info, err := Inspect(abs)
	if err != nil {
		return err
	}
	if err := m.installLocked(ctx, info); err != nil {
		return err
	}
	m.emitEvent(ManagerEvent{Type: EventPluginReloaded, Plugin: info.ID()})
	return nil
}

// RemovePlugin tears down and removes the plugin loaded from dir.
func (m *Manager) RemovePlugin(ctx context.Context, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.updateMetricsLocked()

	host := m.findByDirLocked(abs)
	if host == nil {
		return fmt.Errorf("%w: %s", ErrPluginNotFound, abs)
	}
	return m.removeLocked(ctx, host)
}

func (m *Manager) findByDirLocked(dir string) *Host {
	for _, h := range m.plugins {
		if h.Dir() == dir {
			return h
		}
	}
	return nil
}

func (m *Manager) removeLocked(ctx context.Context, host *Host) error {
	delete(m.plugins, host.ID())
	err := host.Unload(ctx)
	m.emitEvent(ManagerEvent{Type: EventPluginRemoved, Plugin: host.ID(), Error: err})
	return err
}

// Close tears down every plugin in reverse id order and closes the host
// interpreter. Later loads and reloads fail with ErrManagerClosed.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	hosts := m.sortedLocked()
	var errs []error
	for i := len(hosts) - 1; i >= 0; i-- {
		if err := m.removeLocked(ctx, hosts[i]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", hosts[i].ID(), err))
		}
	}
	m.updateMetricsLocked()

	if err := m.interp.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (m *Manager) updateMetricsLocked() {
	counts := make(map[Kind]int, len(Kinds))
	for _, h := range m.plugins {
		counts[h.Kind()]++
	}
	for _, k := range Kinds {
		m.metrics.SetPluginsLoaded(k.String(), counts[k])
	}
}

// Subscribe adds an event handler.
// Returns an unsubscribe function to remove the handler.
func (m *Manager) Subscribe(fn EventHandler) func() {
	if fn == nil {
		return func() {}
	}

	m.hmu.Lock()
	m.eventHandlers = append(m.eventHandlers, fn)
	index := len(m.eventHandlers) - 1
	m.hmu.Unlock()

	return func() {
		m.hmu.Lock()
		defer m.hmu.Unlock()
		// Set to nil instead of removing to avoid index shifting issues
		if index < len(m.eventHandlers) {
			m.eventHandlers[index] = nil
		}
	}
}

// emitEvent sends an event to all handlers. Panics in handlers are recovered.
func (m *Manager) emitEvent(event ManagerEvent) {
	m.hmu.RLock()
	handlers := make([]EventHandler, len(m.eventHandlers))
	copy(handlers, m.eventHandlers)
	m.hmu.RUnlock()

	for _, fn := range handlers {
		if fn == nil {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.log.WithField("panic", r).Error("manager event handler panicked")
				}
			}()
			fn(event)
		}()
	}
}
