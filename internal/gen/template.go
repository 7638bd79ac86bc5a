package gen

import "text/template"

var fileTemplate = template.Must(template.New("bindings").Parse(`// Code generated by hookgen. DO NOT EDIT.

package {{.Package}}

import (
	"context"
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hookforge/internal/dispatch"
	"github.com/dshills/hookforge/internal/handler"
)

// HookNames lists the hooks in registry order.
var HookNames = []string{
{{- range .Hooks}}
	"{{.Name}}",
{{- end}}
}
{{range .Hooks}}
// {{.Name}}Hook is implemented by native plugins providing {{.Name}}.
{{- if .DocLines}}
//
{{- range .DocLines}}
// {{.}}
{{- end}}
{{- end}}
type {{.Name}}Hook interface {
	Hook{{.Name}}(h {{.HandlerType}})
}

func lua{{.Name}}Wrapper(_ context.Context, m *LuaModule, fn *lua.LFunction, h any) {
	obj, ok := h.({{.HandlerType}})
	if !ok {
		m.mismatch("{{.Name}}", "{{.HandlerType}}", h)
		return
	}
	if err := m.invoke(fn, m.handlerValue("{{.Handler}}", obj)); err != nil {
		m.fail("{{.Name}}", err)
	}
}

func wasm{{.Name}}Wrapper(ctx context.Context, m *WasmModule, h any) {
	obj, ok := h.({{.HandlerType}})
	if !ok {
		m.mismatch("{{.Name}}", "{{.HandlerType}}", h)
		return
	}
	if err := m.invoke(ctx, "{{.Name}}", "{{.Symbol}}", obj); err != nil {
		m.fail("{{.Name}}", err)
	}
}

func native{{.Name}}Wrapper(_ context.Context, n *NativeModule, impl {{.Name}}Hook, h any) {
	obj, ok := h.({{.HandlerType}})
	if !ok {
		n.mismatch("{{.Name}}", "{{.HandlerType}}", h)
		return
	}
	if serr := n.invoke("{{.Name}}", func() { impl.Hook{{.Name}}(obj) }); serr != nil {
		n.fail(serr)
	}
}
{{end}}
func resolveLua(m *LuaModule, t *dispatch.Table) error {
	var errs []error
{{- range .Hooks}}
	if fn := m.lookup("{{.Symbol}}"); fn != nil {
		errs = append(errs, t.Bind("{{.Name}}", func(ctx context.Context, h any) {
			lua{{.Name}}Wrapper(ctx, m, fn, h)
		}))
	}
{{- end}}
	return errors.Join(errs...)
}

func resolveWasm(m *WasmModule, t *dispatch.Table) error {
	var errs []error
{{- range .Hooks}}
	if m.exports("{{.Symbol}}") {
		errs = append(errs, t.Bind("{{.Name}}", func(ctx context.Context, h any) {
			wasm{{.Name}}Wrapper(ctx, m, h)
		}))
	}
{{- end}}
	return errors.Join(errs...)
}

func resolveNative(n *NativeModule, t *dispatch.Table) error {
	var errs []error
{{- range .Hooks}}
	if impl, ok := n.impl.({{.Name}}Hook); ok {
		errs = append(errs, t.Bind("{{.Name}}", func(ctx context.Context, h any) {
			native{{.Name}}Wrapper(ctx, n, impl, h)
		}))
	}
{{- end}}
	return errors.Join(errs...)
}

var luaHandlerMethods = map[string]map[string]lua.LGFunction{
{{- range .Handlers}}
	"{{.Name}}": {
{{- range .Entries}}
{{- if .Comment}}
		// {{.Comment}}
{{- else}}
		"{{.Op}}": {{.Func}},
{{- end}}
{{- end}}
	},
{{- end}}
}
{{range .Methods}}
func {{.Func}}(L *lua.LState) int {
	h := checkHandler[{{.HandlerType}}](L)
{{- range .Args}}
	{{.Var}} := {{.Check}}
{{- end}}
{{- if .Push}}
	{{.Push}}
{{- else}}
	{{.Call}}
{{- end}}
	return {{.Results}}
}
{{end}}`))
