package dispatch

import (
	"context"
	"errors"
	"fmt"
)

// Binding errors.
var (
	ErrAlreadyBound = errors.New("hook already bound")
	ErrUnknownHook  = errors.New("unknown hook")
)

// HookFunc runs one plugin's implementation of a hook with handler h.
// It must not let failures of the implementation escape.
type HookFunc func(ctx context.Context, h any)

// ResolveContext records whether a plugin implements one hook.
// It starts unbound and can be bound exactly once.
type ResolveContext struct {
	hook string
	fn   HookFunc
}

// Hook returns the hook name.
func (rc *ResolveContext) Hook() string { return rc.hook }

// Bound reports whether the plugin implements the hook.
func (rc *ResolveContext) Bound() bool { return rc.fn != nil }

// Table holds a plugin's resolve contexts, one per registry hook.
// It is filled once at activation and read-only afterwards.
type Table struct {
	plugin   string
	order    []string
	contexts map[string]*ResolveContext
}

// NewTable creates a table with an unbound context for each hook.
func NewTable(plugin string, hooks []string) *Table {
	t := &Table{
		plugin:   plugin,
		order:    make([]string, 0, len(hooks)),
		contexts: make(map[string]*ResolveContext, len(hooks)),
	}
	for _, h := range hooks {
		if _, ok := t.contexts[h]; ok {
			continue
		}
		t.order = append(t.order, h)
		t.contexts[h] = &ResolveContext{hook: h}
	}
	return t
}

// Plugin returns the id of the plugin owning the table.
func (t *Table) Plugin() string { return t.plugin }

// Bind attaches fn to hook.
func (t *Table) Bind(hook string, fn HookFunc) error {
	rc, ok := t.contexts[hook]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHook, hook)
	}
	if rc.fn != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyBound, hook)
	}
	if fn == nil {
		return fmt.Errorf("bind %s: nil hook function", hook)
	}
	rc.fn = fn
	return nil
}

// Lookup returns the context of hook.
func (t *Table) Lookup(hook string) (*ResolveContext, bool) {
	rc, ok := t.contexts[hook]
	return rc, ok
}

// Implements reports whether hook is bound.
func (t *Table) Implements(hook string) bool {
	rc, ok := t.contexts[hook]
	return ok && rc.Bound()
}

// BoundHooks returns the bound hook names in table order.
func (t *Table) BoundHooks() []string {
	var out []string
	for _, h := range t.order {
		if t.contexts[h].Bound() {
			out = append(out, h)
		}
	}
	return out
}
