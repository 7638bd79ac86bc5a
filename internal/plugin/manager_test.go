package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hookforge/internal/handler"
	"github.com/dshills/hookforge/internal/metrics"
)

const setupScript = `
function hookSetupPlugin(h)
  h:registerPluginData("pid", "%s")
end

function hookActiveSceneChanged(h)
  h:getPluginData("pid")
end

function hookTeardownPlugin(h)
  h:unregisterPluginData("pid")
end
`

func newTestManager(t *testing.T, paths ...string) (*Manager, *test.Hook, *metrics.Metrics) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	mt := metrics.NewMetrics(prometheus.NewRegistry())
	m, err := NewManager(ManagerConfig{PluginPaths: paths}, WithLogger(logger), WithMetrics(mt))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { m.Close(context.Background()) })
	return m, hook, mt
}

func script(value string) string {
	return strings.Replace(setupScript, "%s", value, 1)
}

func registered(t *testing.T, m *Manager, id string) bool {
	t.Helper()
	h, ok := m.PluginByID(id)
	if !ok {
		t.Fatalf("plugin %s not loaded", id)
	}
	_, err := h.Data().Get("pid")
	return err == nil
}

func TestManagerLoadAndCallHooks(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeLuaPlugin(t, root, "alpha", script("a"))
	writePlugin(t, root, "beta", ".lua", script("b"), false, "")
	writeLuaPlugin(t, root, "gamma", "function (")

	m, _, mt := newTestManager(t, root)

	err := m.LoadPlugins(ctx)
	if err == nil || !strings.Contains(err.Error(), "gamma") {
		t.Errorf("LoadPlugins() error = %v, want gamma failure", err)
	}

	plugins := m.Plugins()
	if len(plugins) != 2 || plugins[0].ID() != "alpha" || plugins[1].ID() != "beta" {
		t.Fatalf("Plugins() = %v", plugins)
	}
	if got := testutil.ToFloat64(mt.PluginsLoaded.WithLabelValues("lua")); got != 2 {
		t.Errorf("plugins_loaded{lua} = %v, want 2", got)
	}

	m.CallHooksSetupPlugin(ctx)
	if !registered(t, m, "alpha") {
		t.Error("enabled plugin did not receive SetupPlugin")
	}
	if registered(t, m, "beta") {
		t.Error("disabled plugin received SetupPlugin")
	}

	m.CallHooksTeardownPlugin(ctx)
	if registered(t, m, "alpha") {
		t.Error("TeardownPlugin did not unregister data")
	}
}

func TestManagerLoadPluginsSkipsLoadedIDs(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeLuaPlugin(t, root, "alpha", script("a"))
	m, _, _ := newTestManager(t, root)

	if err := m.LoadPlugins(ctx); err != nil {
		t.Fatal(err)
	}
	first, _ := m.PluginByID("alpha")
	if err := m.LoadPlugins(ctx, root); err != nil {
		t.Fatalf("second LoadPlugins() error = %v", err)
	}
	second, _ := m.PluginByID("alpha")
	if first != second {
		t.Error("loaded plugin replaced by a second LoadPlugins")
	}
}

func TestManagerFailureIsolation(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeLuaPlugin(t, root, "alpha", `function hookSetupPlugin(h) error("broken") end`)
	writeLuaPlugin(t, root, "beta", script("b"))

	m, logs, mt := newTestManager(t, root)
	if err := m.LoadPlugins(ctx); err != nil {
		t.Fatal(err)
	}

	m.CallHooksSetupPlugin(ctx)
	if !registered(t, m, "beta") {
		t.Error("sibling plugin skipped after a failure")
	}
	if !hasMessage(logs, "hook implementation failed") {
		t.Error("failure not logged")
	}
	if got := testutil.ToFloat64(mt.HookFailuresTotal.WithLabelValues("alpha", "SetupPlugin")); got != 1 {
		t.Errorf("hook_failures_total = %v, want 1", got)
	}
}

func TestManagerEnabledFlag(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeLuaPlugin(t, root, "alpha", script("a"))
	m, _, _ := newTestManager(t, root)
	if err := m.LoadPlugins(ctx); err != nil {
		t.Fatal(err)
	}

	if err := m.SetEnabled("alpha", false); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}
	enabled, err := m.IsEnabled("alpha")
	if err != nil || enabled {
		t.Errorf("IsEnabled() = %v, %v", enabled, err)
	}
	md, err := LoadMetadata(filepath.Join(root, "alpha", MetadataFile))
	if err != nil {
		t.Fatal(err)
	}
	if md.EnabledByDefault {
		t.Error("disabled flag not persisted")
	}

	m.CallHooksSetupPlugin(ctx)
	if registered(t, m, "alpha") {
		t.Error("disabled plugin received a hook")
	}

	if err := m.SetEnabled("missing", true); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("SetEnabled(missing) error = %v", err)
	}
	if _, err := m.IsEnabled("missing"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("IsEnabled(missing) error = %v", err)
	}
}

func TestManagerMetadataFilePaths(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeLuaPlugin(t, root, "beta", "")
	writeLuaPlugin(t, root, "alpha", "")
	m, _, _ := newTestManager(t, root)
	if err := m.LoadPlugins(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.RegisterNative(ctx, "native", &closingPlugin{}); err != nil {
		t.Fatal(err)
	}

	paths := m.MetadataFilePaths()
	want := []string{
		filepath.Join(root, "alpha", MetadataFile),
		filepath.Join(root, "beta", MetadataFile),
	}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("MetadataFilePaths() = %v, want %v", paths, want)
	}
}

func TestManagerRemovePlugin(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	dir := writeLuaPlugin(t, root, "alpha", script("a"))
	m, _, mt := newTestManager(t, root)
	if err := m.LoadPlugins(ctx); err != nil {
		t.Fatal(err)
	}
	m.CallHooksSetupPlugin(ctx)
	host, _ := m.PluginByID("alpha")
	data := host.Data()

	var events []ManagerEvent
	m.Subscribe(func(e ManagerEvent) { events = append(events, e) })

	if err := m.RemovePlugin(ctx, dir); err != nil {
		t.Fatalf("RemovePlugin() error = %v", err)
	}
	if _, ok := m.PluginByID("alpha"); ok {
		t.Error("plugin still loaded")
	}
	if data.Len() != 0 {
		t.Error("TeardownPlugin did not run on removal")
	}
	if len(events) != 1 || events[0].Type != EventPluginRemoved || events[0].Plugin != "alpha" {
		t.Errorf("events = %v", events)
	}
	if got := testutil.ToFloat64(mt.PluginsLoaded.WithLabelValues("lua")); got != 0 {
		t.Errorf("plugins_loaded{lua} = %v, want 0", got)
	}
	if err := m.RemovePlugin(ctx, dir); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("second RemovePlugin() error = %v", err)
	}
}

func TestManagerReloadPlugin(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	dir := writeLuaPlugin(t, root, "alpha", script("old"))
	m, _, _ := newTestManager(t, root)
	if err := m.LoadPlugins(ctx); err != nil {
		t.Fatal(err)
	}
	before, _ := m.PluginByID("alpha")
	instance := before.InstanceID()

	if err := os.WriteFile(filepath.Join(dir, "alpha.lua"), []byte(script("new")), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.ReloadPlugin(ctx, dir); err != nil {
		t.Fatalf("ReloadPlugin() error = %v", err)
	}

	after, ok := m.PluginByID("alpha")
	if !ok {
		t.Fatal("plugin missing after reload")
	}
	if after.InstanceID() == instance {
		t.Error("reload kept the old instance")
	}
	m.CallHooksSetupPlugin(ctx)
	v, err := after.Data().Get("pid")
	if err != nil || v != lua.LString("new") {
		t.Errorf("pid = %v, %v; want new code", v, err)
	}

	// A directory that appears later is installed by ReloadPlugin.
	fresh := writeLuaPlugin(t, root, "fresh", "")
	if err := m.ReloadPlugin(ctx, fresh); err != nil {
		t.Fatalf("ReloadPlugin(new dir) error = %v", err)
	}
	if _, ok := m.PluginByID("fresh"); !ok {
		t.Error("new plugin directory not installed")
	}

	// A deleted directory stays removed.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := m.ReloadPlugin(ctx, dir); err != nil {
		t.Fatalf("ReloadPlugin(deleted) error = %v", err)
	}
	if _, ok := m.PluginByID("alpha"); ok {
		t.Error("deleted plugin still loaded")
	}
}

type interpPlugin struct {
	scenes []string
}

func (p *interpPlugin) HookSetupPlugin(h *handler.PluginSetupHandler) {
	h.GetScriptInterpreter().ExecScript(`answer = 42`)
}

func (p *interpPlugin) HookActiveSceneChanged(h *handler.PluginActiveSceneChangedHandler) {
	p.scenes = append(p.scenes, h.GetSceneName())
}

func TestManagerNativeAndInterpreter(t *testing.T) {
	ctx := context.Background()
	m, _, mt := newTestManager(t)
	impl := &interpPlugin{}

	if err := m.RegisterNative(ctx, "native", impl); err != nil {
		t.Fatalf("RegisterNative() error = %v", err)
	}
	if err := m.RegisterNative(ctx, "native", impl); !errors.Is(err, ErrAlreadyLoaded) {
		t.Errorf("duplicate RegisterNative() error = %v", err)
	}
	if got := testutil.ToFloat64(mt.PluginsLoaded.WithLabelValues("native")); got != 1 {
		t.Errorf("plugins_loaded{native} = %v, want 1", got)
	}

	m.CallHooksSetupPlugin(ctx)
	if got := m.interp.GetGlobal("answer"); got != lua.LNumber(42) {
		t.Errorf("interpreter global = %v, want 42", got)
	}

	m.CallHooksActiveSceneChanged(ctx, "main")
	m.CallHooksSceneDestroyed(ctx, "main")
	if len(impl.scenes) != 1 || impl.scenes[0] != "main" {
		t.Errorf("scenes = %v", impl.scenes)
	}
}

func TestManagerTypedHelpers(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeLuaPlugin(t, root, "spy", `
function hookGraphChanged(h)
  seen = h:getSceneName() .. ":" .. #h:getVisibleEntities()
end
function hookPhysicalParserOnHeaderFound(h)
  header = h:getIncludedFile()
end
function hookOnParseCompleted(h)
  rows = #h:runQueryOnDatabase("select 1")
end
`)
	m, _, _ := newTestManager(t, root)
	if err := m.LoadPlugins(ctx); err != nil {
		t.Fatal(err)
	}

	m.CallHooksGraphChanged(ctx, "main", []handler.Entity{{Name: "a"}}, handler.ProjectData{})
	m.CallHooksPhysicalParserOnHeaderFound(ctx, "a.cpp", "a.h", 3)
	m.CallHooksOnParseCompleted(ctx, handler.Database{Query: func(string) handler.RawDBRows {
		return handler.RawDBRows{{1}, {2}}
	}})

	h, _ := m.PluginByID("spy")
	state := h.module.(luaModule).state
	if got := state.GetGlobal("header"); got != lua.LString("a.h") {
		t.Errorf("header = %v", got)
	}
	if got := state.GetGlobal("rows"); got != lua.LNumber(2) {
		t.Errorf("rows = %v", got)
	}
}

func TestManagerClosed(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	dir := writeLuaPlugin(t, root, "alpha", script("a"))
	m, _, _ := newTestManager(t, root)
	if err := m.LoadPlugins(ctx); err != nil {
		t.Fatal(err)
	}

	if err := m.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(ctx); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if len(m.Plugins()) != 0 {
		t.Fatalf("plugins after Close = %d", len(m.Plugins()))
	}

	var loaded int
	m.Subscribe(func(ev ManagerEvent) {
		if ev.Type == EventPluginLoaded {
			loaded++
		}
	})

	if err := m.ReloadPlugin(ctx, dir); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("ReloadPlugin() error = %v, want ErrManagerClosed", err)
	}
	if err := m.LoadPlugins(ctx); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("LoadPlugins() error = %v, want ErrManagerClosed", err)
	}
	if err := m.RegisterNative(ctx, "native", &interpPlugin{}); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("RegisterNative() error = %v, want ErrManagerClosed", err)
	}
	if len(m.Plugins()) != 0 || loaded != 0 {
		t.Errorf("plugins loaded after Close: %d, events %d", len(m.Plugins()), loaded)
	}
}

type busyPlugin struct {
	m    *Manager
	busy bool
}

func (p *busyPlugin) HookSetupPlugin(*handler.PluginSetupHandler) {
	p.busy = p.m.Busy()
}

func TestManagerBusy(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)
	impl := &busyPlugin{m: m}
	if err := m.RegisterNative(ctx, "busy", impl); err != nil {
		t.Fatal(err)
	}

	if m.Busy() {
		t.Error("Busy() = true with no hook running")
	}
	m.CallHooksSetupPlugin(ctx)
	if !impl.busy {
		t.Error("Busy() = false inside a hook")
	}
	if m.Busy() {
		t.Error("Busy() = true after dispatch")
	}
}
