package plugin

// State represents the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	// StateUnloaded - no module exists.
	StateUnloaded State = iota

	// StateLoaded - the module exists but has no dispatch table.
	StateLoaded

	// StateActive - the dispatch table is built and hooks are delivered.
	StateActive

	// StateError - loading or activation failed.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateActive:
		return "active"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Kind is the implementation technology of a plugin.
type Kind int

// Plugin kinds.
const (
	KindNative Kind = iota
	KindLua
	KindWasm
)

// Extension returns the entry point file extension of the kind.
func (k Kind) Extension() string {
	switch k {
	case KindNative:
		return ".so"
	case KindLua:
		return ".lua"
	case KindWasm:
		return ".wasm"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindLua:
		return "lua"
	case KindWasm:
		return "wasm"
	default:
		return "unknown"
	}
}

// Kinds lists every plugin kind.
var Kinds = []Kind{KindNative, KindLua, KindWasm}
