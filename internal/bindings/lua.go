package bindings

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hookforge/internal/dispatch"
	"github.com/dshills/hookforge/internal/handler"
	plua "github.com/dshills/hookforge/internal/plugin/lua"
)

// LuaModule is a loaded Lua plugin as seen by the hook wrappers.
type LuaModule struct {
	plugin   string
	state    *plua.State
	reporter dispatch.Reporter
	hooks    map[string]*lua.LFunction
}

// NewLuaModule wraps a state that already ran the plugin's code. The
// global hook functions are collected once here; functions defined later
// are not seen.
func NewLuaModule(plugin string, state *plua.State, reporter dispatch.Reporter) *LuaModule {
	m := &LuaModule{
		plugin:   plugin,
		state:    state,
		reporter: reporter,
		hooks:    make(map[string]*lua.LFunction),
	}
	for _, f := range state.GlobalFunctions("hook") {
		m.hooks[f.Name] = f.Fn
	}
	return m
}

// Plugin returns the plugin id.
func (m *LuaModule) Plugin() string { return m.plugin }

// Resolve binds every hook the module implements into t.
func (m *LuaModule) Resolve(t *dispatch.Table) error {
	return resolveLua(m, t)
}

func (m *LuaModule) lookup(symbol string) *lua.LFunction {
	return m.hooks[symbol]
}

func (m *LuaModule) invoke(fn *lua.LFunction, args ...lua.LValue) error {
	_, err := m.state.CallFunction(fn, args...)
	return err
}

func (m *LuaModule) fail(hook string, err error) {
	serr := &dispatch.ScriptExecutionError{Plugin: m.plugin, Hook: hook, Err: err}
	var lerr *plua.ScriptError
	if errors.As(err, &lerr) {
		serr.Trace = lerr.Traceback
	}
	m.reporter.HookFailed(serr)
}

func (m *LuaModule) mismatch(hook, want string, got any) {
	m.reporter.HookFailed(&dispatch.ScriptExecutionError{
		Plugin: m.plugin,
		Hook:   hook,
		Err:    fmt.Errorf("%w: want %s, got %T", dispatch.ErrHandlerMismatch, want, got),
	})
}

// handlerValue wraps h in userdata whose methods are the handler type's
// Lua method table.
func (m *LuaModule) handlerValue(typeName string, h any) *lua.LUserData {
	return newHandlerValue(m.state.LuaState(), typeName, h)
}

const handlerMetatablePrefix = "hookforge."

func newHandlerValue(L *lua.LState, typeName string, h any) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = h
	L.SetMetatable(ud, handlerMetatable(L, typeName))
	return ud
}

func handlerMetatable(L *lua.LState, typeName string) lua.LValue {
	name := handlerMetatablePrefix + typeName
	if mt := L.GetTypeMetatable(name); mt != lua.LNil {
		return mt
	}
	mt := L.NewTypeMetatable(name)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), luaHandlerMethods[typeName]))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(typeName))
		return 1
	}))
	return mt
}

// checkHandler returns the handler passed as the receiver of a method call.
func checkHandler[H any](L *lua.LState) H {
	ud := L.CheckUserData(1)
	h, ok := ud.Value.(H)
	if !ok {
		L.ArgError(1, fmt.Sprintf("handler of type %T does not support this operation", ud.Value))
	}
	return h
}

// pushValue converts a Go value for Lua. Lua values stored as plugin data
// come back unchanged.
func pushValue(L *lua.LState, v any) {
	L.Push(plua.NewBridge(L).ToLuaValue(v))
}

func luaRegisterPluginData[H handler.DataRegistrar](L *lua.LState) int {
	h := checkHandler[H](L)
	key := L.CheckString(2)
	value := L.CheckAny(3)
	if err := h.RegisterPluginData(key, value); err != nil {
		L.RaiseError("registerPluginData: %s", err.Error())
	}
	return 0
}

func luaGetPluginData[H handler.DataGetter](L *lua.LState) int {
	h := checkHandler[H](L)
	value, err := h.GetPluginData(L.CheckString(2))
	if err != nil {
		L.RaiseError("getPluginData: %s", err.Error())
	}
	pushValue(L, value)
	return 1
}

func luaUnregisterPluginData[H handler.DataUnregistrar](L *lua.LState) int {
	h := checkHandler[H](L)
	if err := h.UnregisterPluginData(L.CheckString(2)); err != nil {
		L.RaiseError("unregisterPluginData: %s", err.Error())
	}
	return 0
}
