// Package lua provides the Lua runtime used by scripted plugins.
//
// It wraps gopher-lua with:
//   - sandboxed state management (no dofile/loadfile/load, whitelisted require)
//   - capability grants for io and os access
//   - Go/Lua value conversion (Bridge)
//   - protected calls that report Lua tracebacks (ScriptError)
//
// # State
//
//	state, err := lua.NewState(lua.WithCapabilities(lua.CapabilityFileRead))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoFile("plugin.lua"); err != nil {
//	    return err
//	}
//	for _, f := range state.GlobalFunctions("hook") {
//	    fmt.Println(f.Name)
//	}
//
// A State is not safe for concurrent use by Lua code; the mutex only
// serializes calls made through State methods.
package lua
