package registry

import "fmt"

// Kind classifies a type descriptor.
type Kind int

// Type descriptor kinds.
const (
	KindVoid Kind = iota
	KindString
	KindInt
	KindBool
	// KindOpaque is a type-erased value owned by the plugin.
	KindOpaque
	KindEntity
	KindEntityList
	KindRows
	KindProjectData
	// KindHandler refers to another handler type by name.
	KindHandler
	// KindCallback is a function receiving a handler of the referenced type.
	KindCallback
	// KindMemory is raw memory. It never crosses the scripting boundary.
	KindMemory
)

var kindNames = [...]string{
	KindVoid:        "void",
	KindString:      "string",
	KindInt:         "int",
	KindBool:        "bool",
	KindOpaque:      "opaque",
	KindEntity:      "entity",
	KindEntityList:  "entity-list",
	KindRows:        "rows",
	KindProjectData: "project-data",
	KindHandler:     "handler",
	KindCallback:    "callback",
	KindMemory:      "memory",
}

// String returns the descriptor kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// TypeDescriptor describes a parameter or return type of an operation.
type TypeDescriptor struct {
	Kind Kind
	// Ref names the handler type for KindHandler and KindCallback.
	Ref string
}

// Common descriptors.
var (
	Void        = TypeDescriptor{Kind: KindVoid}
	String      = TypeDescriptor{Kind: KindString}
	Int         = TypeDescriptor{Kind: KindInt}
	Bool        = TypeDescriptor{Kind: KindBool}
	Opaque      = TypeDescriptor{Kind: KindOpaque}
	Entity      = TypeDescriptor{Kind: KindEntity}
	EntityList  = TypeDescriptor{Kind: KindEntityList}
	Rows        = TypeDescriptor{Kind: KindRows}
	ProjectData = TypeDescriptor{Kind: KindProjectData}
	Memory      = TypeDescriptor{Kind: KindMemory}
)

// HandlerRef returns a descriptor referring to the named handler type.
func HandlerRef(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindHandler, Ref: name}
}

// CallbackOf returns a descriptor for a callback receiving the named handler type.
func CallbackOf(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindCallback, Ref: name}
}

// String returns a readable form such as "handler(PluginSetupHandler)".
func (t TypeDescriptor) String() string {
	if t.Ref != "" {
		return fmt.Sprintf("%s(%s)", t.Kind, t.Ref)
	}
	return t.Kind.String()
}

// CrossesIn reports whether a script can pass a value of this type to the host.
func (t TypeDescriptor) CrossesIn() bool {
	switch t.Kind {
	case KindString, KindInt, KindBool, KindOpaque:
		return true
	default:
		return false
	}
}

// CrossesOut reports whether the host can hand a value of this type to a script.
func (t TypeDescriptor) CrossesOut() bool {
	switch t.Kind {
	case KindVoid, KindString, KindInt, KindBool, KindOpaque,
		KindEntity, KindEntityList, KindRows, KindProjectData:
		return true
	default:
		return false
	}
}

// Param is a named operation parameter.
type Param struct {
	Type TypeDescriptor
	Name string
}

// OperationDefinition is one capability operation of a handler type.
type OperationDefinition struct {
	Name     string
	Returns  TypeDescriptor
	Params   []Param
	Doc      string
	Strategy BindingStrategy
}

// HandlerType is a capability type passed into hook implementations.
type HandlerType struct {
	Name       string
	Doc        string
	Operations []OperationDefinition
}

// Operation returns the named operation.
func (h HandlerType) Operation(name string) (OperationDefinition, bool) {
	for _, op := range h.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return OperationDefinition{}, false
}

// HookDefinition is a named extension point.
type HookDefinition struct {
	Name    string
	Handler string
	Doc     string
}

// Symbol is the name a plugin exports to implement the hook.
func (h HookDefinition) Symbol() string {
	return "hook" + h.Name
}
