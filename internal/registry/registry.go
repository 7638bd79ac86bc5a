// Package registry holds the compiled-in catalogue of hooks and the
// capability (handler) types passed to them.
//
// The registry is static data. It is built once, never mutated, and read by
// the binding generator and the plugin host alike.
package registry

import (
	"sync"
)

// Registry indexes hook and handler definitions by name while keeping
// declaration order for enumeration.
type Registry struct {
	hooks        []HookDefinition
	hookIndex    map[string]int
	handlers     []HandlerType
	handlerIndex map[string]int
}

// New builds a registry from explicit definitions. It does not validate;
// call Verify for that. When names repeat, lookups return the first one.
func New(hooks []HookDefinition, handlers []HandlerType) *Registry {
	r := &Registry{
		hooks:        append([]HookDefinition(nil), hooks...),
		hookIndex:    make(map[string]int, len(hooks)),
		handlers:     append([]HandlerType(nil), handlers...),
		handlerIndex: make(map[string]int, len(handlers)),
	}
	for i, h := range r.hooks {
		if _, ok := r.hookIndex[h.Name]; !ok {
			r.hookIndex[h.Name] = i
		}
	}
	for i, h := range r.handlers {
		if _, ok := r.handlerIndex[h.Name]; !ok {
			r.handlerIndex[h.Name] = i
		}
	}
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return New(defaultHooks(), defaultHandlers())
})

// Default returns the process-wide registry compiled into the host.
func Default() *Registry {
	return defaultRegistry()
}

// Hooks returns all hook definitions in declaration order.
func (r *Registry) Hooks() []HookDefinition {
	return append([]HookDefinition(nil), r.hooks...)
}

// HookNames returns the hook names in declaration order.
func (r *Registry) HookNames() []string {
	names := make([]string, len(r.hooks))
	for i, h := range r.hooks {
		names[i] = h.Name
	}
	return names
}

// Hook returns the named hook definition.
func (r *Registry) Hook(name string) (HookDefinition, bool) {
	i, ok := r.hookIndex[name]
	if !ok {
		return HookDefinition{}, false
	}
	return r.hooks[i], true
}

// Handlers returns all handler types in declaration order.
func (r *Registry) Handlers() []HandlerType {
	return append([]HandlerType(nil), r.handlers...)
}

// Handler returns the named handler type.
func (r *Registry) Handler(name string) (HandlerType, bool) {
	i, ok := r.handlerIndex[name]
	if !ok {
		return HandlerType{}, false
	}
	return r.handlers[i], true
}

// HandlerFor returns the handler type passed to the named hook.
func (r *Registry) HandlerFor(hook string) (HandlerType, bool) {
	h, ok := r.Hook(hook)
	if !ok {
		return HandlerType{}, false
	}
	return r.Handler(h.Handler)
}

// Verify checks cross-references and boundary compatibility. It returns a
// *RegistryIntegrityError listing every problem, or nil.
func (r *Registry) Verify() error {
	ierr := &RegistryIntegrityError{}

	seenHandlers := make(map[string]bool, len(r.handlers))
	for _, h := range r.handlers {
		if h.Name == "" {
			ierr.addf("handler type with empty name")
			continue
		}
		if seenHandlers[h.Name] {
			ierr.addf("duplicate handler type %q", h.Name)
		}
		seenHandlers[h.Name] = true
	}

	seenHooks := make(map[string]bool, len(r.hooks))
	for _, h := range r.hooks {
		if h.Name == "" {
			ierr.addf("hook with empty name")
			continue
		}
		if seenHooks[h.Name] {
			ierr.addf("duplicate hook %q", h.Name)
		}
		seenHooks[h.Name] = true
		if _, ok := r.handlerIndex[h.Handler]; !ok {
			ierr.addf("hook %q references undefined handler type %q", h.Name, h.Handler)
		}
	}

	for _, h := range r.handlers {
		seenOps := make(map[string]bool, len(h.Operations))
		for _, op := range h.Operations {
			where := h.Name + "." + op.Name
			if seenOps[op.Name] {
				ierr.addf("duplicate operation %s", where)
			}
			seenOps[op.Name] = true
			r.verifyRefs(ierr, where, op)
			if op.Strategy == nil {
				ierr.addf("%s has no binding strategy", where)
				continue
			}
			_ = op.Strategy.Accept(&opChecker{err: ierr, where: where, op: op})
		}
	}

	if len(ierr.Problems) > 0 {
		return ierr
	}
	return nil
}

func (r *Registry) verifyRefs(ierr *RegistryIntegrityError, where string, op OperationDefinition) {
	check := func(t TypeDescriptor, role string) {
		if t.Kind != KindHandler && t.Kind != KindCallback {
			return
		}
		if _, ok := r.handlerIndex[t.Ref]; !ok {
			ierr.addf("%s %s references undefined handler type %q", where, role, t.Ref)
		}
	}
	check(op.Returns, "return")
	for _, p := range op.Params {
		check(p.Type, "parameter "+p.Name)
	}
}

// opChecker validates one operation against its strategy.
type opChecker struct {
	err   *RegistryIntegrityError
	where string
	op    OperationDefinition
}

func (c *opChecker) VisitGenerated() error {
	for _, p := range c.op.Params {
		if !p.Type.CrossesIn() {
			c.err.addf("%s is generated but parameter %s of type %s cannot cross the script boundary", c.where, p.Name, p.Type)
		}
	}
	if !c.op.Returns.CrossesOut() {
		c.err.addf("%s is generated but its %s return cannot cross the script boundary", c.where, c.op.Returns)
	}
	return nil
}

func (c *opChecker) VisitGenericTemplate(shape TemplateShape) error {
	params, ret, ok := shape.Signature()
	if !ok {
		c.err.addf("%s uses unknown template shape %d", c.where, int(shape))
		return nil
	}
	match := len(params) == len(c.op.Params) && ret == c.op.Returns
	if match {
		for i, p := range params {
			if c.op.Params[i].Type != p {
				match = false
				break
			}
		}
	}
	if !match {
		c.err.addf("%s does not match the %s template signature", c.where, shape)
	}
	return nil
}

func (c *opChecker) VisitUnavailable(reason string) error {
	if reason == "" {
		c.err.addf("%s is unavailable without a reason", c.where)
	}
	return nil
}
