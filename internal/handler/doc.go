// Package handler defines the capability objects passed to hook
// implementations.
//
// Each type mirrors a handler type of the registry. Operation names map to
// exported methods (getPluginData becomes GetPluginData). Values a hook
// reads are plain fields; operations that reach back into the host are
// function fields the host fills in before dispatch. A nil function field
// makes its operation a no-op returning the zero value.
//
// Handlers are only valid while the hook they were passed to runs.
package handler
