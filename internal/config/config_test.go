package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/hookforge/internal/plugin"
	plua "github.com/dshills/hookforge/internal/plugin/lua"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, plugin.DefaultPluginPaths(), cfg.PluginPaths)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, Duration(plugin.DefaultDebounce), cfg.Watch.Debounce)
	assert.False(t, cfg.Watch.Enabled)
	assert.Empty(t, cfg.Admin.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	t.Setenv(EnvPluginPath, "")
	t.Setenv(EnvLogLevel, "")

	path := writeConfig(t, "hookforge.toml", `
plugin_paths = ["/opt/plugins", "./plugins"]

[log]
level = "debug"
format = "json"

[lua]
call_stack_size = 128
go_stack_trace = true
capabilities = ["os"]

[wasm]
enable_wasi = true

[watch]
enabled = true
debounce = "1s"

[admin]
addr = "127.0.0.1:9180"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/plugins", "./plugins"}, cfg.PluginPaths)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 128, cfg.Lua.CallStackSize)
	assert.Equal(t, Default().Lua.RegistrySize, cfg.Lua.RegistrySize, "missing keys keep defaults")
	assert.Equal(t, []string{"os"}, cfg.Lua.Capabilities)
	assert.True(t, cfg.Lua.GoStackTrace)
	assert.True(t, cfg.Wasm.EnableWasi)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, Duration(time.Second), cfg.Watch.Debounce)
	assert.Equal(t, "127.0.0.1:9180", cfg.Admin.Addr)
}

func TestLoadYAML(t *testing.T) {
	t.Setenv(EnvPluginPath, "")
	t.Setenv(EnvLogLevel, "")

	path := writeConfig(t, "hookforge.yaml", `
plugin_paths:
  - /srv/plugins
log:
  level: warn
lua:
  capabilities: [filesystem.read]
watch:
  enabled: true
  debounce: 500ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv/plugins"}, cfg.PluginPaths)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, []string{"filesystem.read"}, cfg.Lua.Capabilities)
	assert.Equal(t, Duration(500*time.Millisecond), cfg.Watch.Debounce)
}

func TestLoadEmptyYAML(t *testing.T) {
	t.Setenv(EnvPluginPath, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(writeConfig(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvPluginPath, "")
	t.Setenv(EnvLogLevel, "")

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(writeConfig(t, "hookforge.ini", "x=1"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("toml syntax", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.toml", "[log\nlevel = 1"))
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Greater(t, perr.Line, 0)
	})

	t.Run("unknown toml key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.toml", "colour = \"red\"\n"))
		var perr *ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("unknown yaml key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.yaml", "colour: red\n"))
		var perr *ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.toml", "[watch]\ndebounce = \"soon\"\n"))
		assert.Error(t, err)
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.toml", "[log]\nlevel = \"loud\"\n"))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("bad capability", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.yaml", "lua:\n  capabilities: [network]\n"))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestApplyEnv(t *testing.T) {
	list := "/a" + string(os.PathListSeparator) + "/b"
	t.Setenv(EnvPluginPath, list)
	t.Setenv(EnvLogLevel, "trace")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, cfg.PluginPaths)
	assert.Equal(t, "trace", cfg.Log.Level)
}

func TestManagerConfig(t *testing.T) {
	cfg := Default()
	cfg.PluginPaths = []string{"/plugins"}
	cfg.Lua.Capabilities = []string{"os", "filesystem.write"}
	cfg.Wasm.EnableWasi = true
	cfg.Lua.GoStackTrace = true

	mc, err := cfg.ManagerConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"/plugins"}, mc.PluginPaths)
	assert.Equal(t, 256, mc.Host.Lua.CallStackSize)
	assert.Equal(t, []plua.Capability{plua.CapabilityOS, plua.CapabilityFileWrite}, mc.Host.Lua.Capabilities)
	assert.True(t, mc.Host.Wasm.EnableWasi)
	assert.True(t, mc.Host.Lua.GoStackTrace)

	cfg.Lua.Capabilities = []string{"everything"}
	_, err = cfg.ManagerConfig()
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("2m")))
	assert.Equal(t, Duration(2*time.Minute), d)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2m0s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("later")))
}
