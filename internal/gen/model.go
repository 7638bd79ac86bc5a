package gen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/hookforge/internal/registry"
)

type fileModel struct {
	Package  string
	Hooks    []hookModel
	Handlers []handlerModel
	Methods  []methodModel
}

type hookModel struct {
	Name        string
	Symbol      string
	Handler     string
	HandlerType string
	DocLines    []string
}

type handlerModel struct {
	Name    string
	Entries []entryModel
}

// entryModel is one line of a handler's Lua method table.
type entryModel struct {
	Op      string
	Func    string
	Comment string
}

// methodModel is a generated Lua method.
type methodModel struct {
	Func        string
	HandlerType string
	Args        []argModel
	Call        string
	Push        string
	Results     int
}

type argModel struct {
	Var   string
	Check string
}

func buildModel(r *registry.Registry, pkg string) (*fileModel, error) {
	m := &fileModel{Package: pkg}

	for _, h := range r.Hooks() {
		m.Hooks = append(m.Hooks, hookModel{
			Name:        h.Name,
			Symbol:      h.Symbol(),
			Handler:     h.Handler,
			HandlerType: handlerGoType(h.Handler),
			DocLines:    wrap(h.Doc, 72),
		})
	}

	for _, ht := range r.Handlers() {
		hm := handlerModel{Name: ht.Name}
		for _, op := range ht.Operations {
			b := &entryBuilder{handler: ht.Name, op: op}
			if err := op.Strategy.Accept(b); err != nil {
				return nil, err
			}
			hm.Entries = append(hm.Entries, b.entry)
			if b.method != nil {
				m.Methods = append(m.Methods, *b.method)
			}
		}
		m.Handlers = append(m.Handlers, hm)
	}
	return m, nil
}

// entryBuilder turns one operation into its method table entry.
type entryBuilder struct {
	handler string
	op      registry.OperationDefinition

	entry  entryModel
	method *methodModel
}

func (b *entryBuilder) VisitGenerated() error {
	fn := "lua" + b.handler + exported(b.op.Name)
	method := &methodModel{
		Func:        fn,
		HandlerType: handlerGoType(b.handler),
	}

	vars := make([]string, 0, len(b.op.Params))
	for i, p := range b.op.Params {
		check, err := checkExpr(p.Type, i+2)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", b.handler, b.op.Name, err)
		}
		method.Args = append(method.Args, argModel{Var: p.Name, Check: check})
		vars = append(vars, p.Name)
	}

	call := fmt.Sprintf("h.%s(%s)", exported(b.op.Name), strings.Join(vars, ", "))
	push, err := pushExpr(b.op.Returns, call)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", b.handler, b.op.Name, err)
	}
	if push == "" {
		method.Call = call
	} else {
		method.Push = push
		method.Results = 1
	}

	b.entry = entryModel{Op: b.op.Name, Func: fn}
	b.method = method
	return nil
}

func (b *entryBuilder) VisitGenericTemplate(shape registry.TemplateShape) error {
	var tmpl string
	switch shape {
	case registry.ShapeRegisterValue:
		tmpl = "luaRegisterPluginData"
	case registry.ShapeRetrieveValue:
		tmpl = "luaGetPluginData"
	case registry.ShapeUnregisterValue:
		tmpl = "luaUnregisterPluginData"
	default:
		return fmt.Errorf("%s.%s: no template for shape %s", b.handler, b.op.Name, shape)
	}
	b.entry = entryModel{
		Op:   b.op.Name,
		Func: fmt.Sprintf("%s[%s]", tmpl, handlerGoType(b.handler)),
	}
	return nil
}

func (b *entryBuilder) VisitUnavailable(reason string) error {
	b.entry = entryModel{Comment: fmt.Sprintf("%s is not available to scripts: %s", b.op.Name, reason)}
	return nil
}

func checkExpr(t registry.TypeDescriptor, idx int) (string, error) {
	switch t.Kind {
	case registry.KindString:
		return fmt.Sprintf("L.CheckString(%d)", idx), nil
	case registry.KindInt:
		return fmt.Sprintf("L.CheckInt(%d)", idx), nil
	case registry.KindBool:
		return fmt.Sprintf("L.CheckBool(%d)", idx), nil
	case registry.KindOpaque:
		return fmt.Sprintf("L.CheckAny(%d)", idx), nil
	default:
		return "", fmt.Errorf("parameter type %s has no Lua conversion", t)
	}
}

func pushExpr(t registry.TypeDescriptor, call string) (string, error) {
	switch t.Kind {
	case registry.KindVoid:
		return "", nil
	case registry.KindString:
		return fmt.Sprintf("L.Push(lua.LString(%s))", call), nil
	case registry.KindInt:
		return fmt.Sprintf("L.Push(lua.LNumber(%s))", call), nil
	case registry.KindBool:
		return fmt.Sprintf("L.Push(lua.LBool(%s))", call), nil
	case registry.KindOpaque, registry.KindEntity, registry.KindEntityList,
		registry.KindRows, registry.KindProjectData:
		return fmt.Sprintf("pushValue(L, %s)", call), nil
	default:
		return "", fmt.Errorf("return type %s has no Lua conversion", t)
	}
}

func handlerGoType(name string) string {
	return "*handler." + name
}

// exported upper-cases the first letter of an operation name.
func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// wrap splits text into comment lines of at most width characters.
func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
