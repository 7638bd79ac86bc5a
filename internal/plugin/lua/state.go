package lua

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for Lua state.
const (
	DefaultCallStackSize = 256
	DefaultRegistrySize  = 1024 * 20
)

// State wraps gopher-lua with the sandbox used for plugins.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls made
// through State; code holding the raw LState must do its own locking.
type State struct {
	L *lua.LState

	mu sync.Mutex

	callStackSize int
	registrySize  int
	goStackTrace  bool
	capabilities  []Capability

	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithCallStackSize sets the maximum Lua call depth.
func WithCallStackSize(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.callStackSize = n
		}
	}
}

// WithRegistrySize sets the initial size of the Lua registry.
func WithRegistrySize(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.registrySize = n
		}
	}
}

// WithGoStackTrace includes Go frames in Lua tracebacks.
func WithGoStackTrace(enabled bool) StateOption {
	return func(s *State) {
		s.goStackTrace = enabled
	}
}

// WithCapabilities grants capabilities when the state is created.
func WithCapabilities(caps ...Capability) StateOption {
	return func(s *State) {
		s.capabilities = append(s.capabilities, caps...)
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		callStackSize: DefaultCallStackSize,
		registrySize:  DefaultRegistrySize,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		CallStackSize:       state.callStackSize,
		RegistrySize:        state.registrySize,
		SkipOpenLibs:        true,
		IncludeGoStackTrace: state.goStackTrace,
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L)
	state.sandbox.Install()
	for _, c := range state.capabilities {
		if err := state.sandbox.Grant(c); err != nil {
			L.Close()
			return nil, err
		}
	}

	return state, nil
}

// openSafeLibraries opens the libraries plugins get without capabilities.
// io, os and debug stay closed; package is opened so require works but the
// sandbox replaces require itself.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.CoroutineLibName, lua.OpenCoroutine},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.protect(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua chunk.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.protect(func() error {
		return s.L.DoString(code)
	})
}

// CallFunction calls fn with args. A Lua error comes back as *ScriptError
// carrying the Lua traceback.
func (s *State) CallFunction(fn lua.LValue, args ...lua.LValue) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w (got %s)", ErrNotFunction, fn.Type())
	}

	top := s.L.GetTop()
	s.L.Push(fn)
	for _, arg := range args {
		s.L.Push(arg)
	}

	if err := s.protect(func() error {
		return s.L.PCall(len(args), lua.MultRet, nil)
	}); err != nil {
		s.L.SetTop(top)
		return nil, err
	}

	n := s.L.GetTop() - top
	results := make([]lua.LValue, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, s.L.Get(top+i))
	}
	s.L.SetTop(top)
	return results, nil
}

// protect runs fn, converting Lua errors and Go panics into *ScriptError.
func (s *State) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ScriptError{
				Message:   fmt.Sprintf("lua panic: %v", r),
				Traceback: string(debug.Stack()),
			}
		}
	}()
	return asScriptError(fn())
}

func asScriptError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return err
	}
	msg := apiErr.Error()
	if apiErr.Object != nil && apiErr.Object != lua.LNil {
		msg = apiErr.Object.String()
	}
	return &ScriptError{
		Message:   msg,
		Traceback: strings.TrimSpace(apiErr.StackTrace),
		Cause:     apiErr.Cause,
	}
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// GlobalFunctions returns the global functions whose names start with
// prefix, sorted by name.
func (s *State) GlobalFunctions(prefix string) []NamedFunction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	var out []NamedFunction
	s.L.G.Global.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok || !strings.HasPrefix(string(name), prefix) {
			return
		}
		if fn, ok := v.(*lua.LFunction); ok {
			out = append(out, NamedFunction{Name: string(name), Fn: fn})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NamedFunction is a global Lua function and its name.
type NamedFunction struct {
	Name string
	Fn   *lua.LFunction
}

// PreloadModule makes a module of Go functions available to require.
func (s *State) PreloadModule(name string, funcs map[string]lua.LGFunction, fields map[string]lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.sandbox.AllowModule(name)
	s.L.PreloadModule(name, func(L *lua.LState) int {
		mod := L.SetFuncs(L.NewTable(), funcs)
		for k, v := range fields {
			mod.RawSetString(k, v)
		}
		L.Push(mod)
		return 1
	})
}

// LuaState returns the underlying gopher-lua state. Callers bypass the
// state mutex.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// Sandbox returns the sandbox for capability management.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// Close releases the Lua state. Further calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
