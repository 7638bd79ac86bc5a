package plugin

import "errors"

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when no loaded plugin matches an id or directory.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrNoEntryPoint is returned when a plugin directory has no <name>.lua, .wasm or .so.
	ErrNoEntryPoint = errors.New("plugin has no entry point")

	// ErrAmbiguousEntryPoint is returned when a plugin directory holds more than one entry point.
	ErrAmbiguousEntryPoint = errors.New("plugin has more than one entry point")

	// ErrMissingMetadata is returned when metadata.json or README.md is absent.
	ErrMissingMetadata = errors.New("plugin is missing metadata.json or README.md")

	// ErrAlreadyLoaded is returned when a plugin id is already in use.
	ErrAlreadyLoaded = errors.New("plugin is already loaded")

	// ErrNotLoaded is returned when a host is used before Load.
	ErrNotLoaded = errors.New("plugin is not loaded")

	// ErrCapabilityDenied is returned when a plugin requests a capability
	// the host does not allow.
	ErrCapabilityDenied = errors.New("capability denied")

	// ErrInvalidPlugin is returned when plugin validation fails.
	ErrInvalidPlugin = errors.New("invalid plugin")

	// ErrManagerClosed is returned when plugins are loaded into a closed manager.
	ErrManagerClosed = errors.New("plugin manager is closed")
)
