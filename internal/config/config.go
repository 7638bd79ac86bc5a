// Package config loads the hookforge host configuration.
//
// Settings come from built-in defaults, then an optional TOML or YAML
// file, then HOOKFORGE_* environment variables. Command line flags are
// applied last by the caller.
package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/hookforge/internal/bindings"
	"github.com/dshills/hookforge/internal/plugin"
	plua "github.com/dshills/hookforge/internal/plugin/lua"
)

// Config is the host configuration.
type Config struct {
	PluginPaths []string `toml:"plugin_paths" yaml:"plugin_paths"`

	Log   LogConfig   `toml:"log" yaml:"log"`
	Lua   LuaConfig   `toml:"lua" yaml:"lua"`
	Wasm  WasmConfig  `toml:"wasm" yaml:"wasm"`
	Watch WatchConfig `toml:"watch" yaml:"watch"`
	Admin AdminConfig `toml:"admin" yaml:"admin"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "text" or "json"
}

// LuaConfig configures Lua plugin states.
type LuaConfig struct {
	CallStackSize int      `toml:"call_stack_size" yaml:"call_stack_size"`
	RegistrySize  int      `toml:"registry_size" yaml:"registry_size"`
	Capabilities  []string `toml:"capabilities" yaml:"capabilities"`
	GoStackTrace  bool     `toml:"go_stack_trace" yaml:"go_stack_trace"`
}

// WasmConfig configures WASM plugins.
type WasmConfig struct {
	EnableWasi bool `toml:"enable_wasi" yaml:"enable_wasi"`
}

// WatchConfig configures hot reload.
type WatchConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// AdminConfig configures the admin HTTP server. An empty Addr disables it.
type AdminConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PluginPaths: plugin.DefaultPluginPaths(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Lua: LuaConfig{
			CallStackSize: plua.DefaultCallStackSize,
			RegistrySize:  plua.DefaultRegistrySize,
		},
		Watch: WatchConfig{
			Debounce: Duration(plugin.DefaultDebounce),
		},
	}
}

// Validate checks the configuration for values the host cannot use.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidValue, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidValue, c.Log.Format)
	}
	if c.Lua.CallStackSize < 0 || c.Lua.RegistrySize < 0 {
		return fmt.Errorf("%w: lua sizes must not be negative", ErrInvalidValue)
	}
	if _, err := c.capabilities(); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalidValue)
	}
	return nil
}

func (c *Config) capabilities() ([]plua.Capability, error) {
	caps := make([]plua.Capability, 0, len(c.Lua.Capabilities))
	for _, name := range c.Lua.Capabilities {
		capability, err := plua.ParseCapability(name)
		if err != nil {
			return nil, fmt.Errorf("%w: lua.capabilities: %v", ErrInvalidValue, err)
		}
		caps = append(caps, capability)
	}
	return caps, nil
}

// ManagerConfig converts the configuration into plugin manager settings.
func (c *Config) ManagerConfig() (plugin.ManagerConfig, error) {
	caps, err := c.capabilities()
	if err != nil {
		return plugin.ManagerConfig{}, err
	}
	return plugin.ManagerConfig{
		PluginPaths: c.PluginPaths,
		Host: plugin.HostConfig{
			Lua: plugin.LuaConfig{
				CallStackSize: c.Lua.CallStackSize,
				RegistrySize:  c.Lua.RegistrySize,
				Capabilities:  caps,
				GoStackTrace:  c.Lua.GoStackTrace,
			},
			Wasm: bindings.WasmConfig{EnableWasi: c.Wasm.EnableWasi},
		},
	}, nil
}
