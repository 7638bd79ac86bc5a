// Package bindings connects loaded plugins to the dispatch tables.
//
// hookbindings_gen.go is generated from the hook and handler registry by
// cmd/hookgen. For every hook it holds one wrapper per plugin kind, the
// native interface a Go plugin implements to provide the hook, and the
// resolution functions that inspect a module once and bind what it
// implements. It also holds the Lua method table of every handler type.
//
// The hand-written files provide what the generated code calls into: the
// module types, the generic plugin-data operations and the marshaling
// helpers.
package bindings

//go:generate go run ../../cmd/hookgen -out .
