package registry

// BindingStrategy describes how an operation is exposed across the
// native/scripting boundary. The set of strategies is closed: Generated,
// GenericTemplate and Unavailable are the only implementations.
//
// Consumers match on a strategy through Accept. Adding a strategy adds a
// method to StrategyVisitor, which breaks every consumer until it handles it.
type BindingStrategy interface {
	Accept(v StrategyVisitor) error
	String() string
	sealed()
}

// StrategyVisitor handles each binding strategy.
type StrategyVisitor interface {
	VisitGenerated() error
	VisitGenericTemplate(shape TemplateShape) error
	VisitUnavailable(reason string) error
}

// Generated operations get marshaling code emitted by the generator.
type Generated struct{}

// Accept implements BindingStrategy.
func (Generated) Accept(v StrategyVisitor) error { return v.VisitGenerated() }

func (Generated) String() string { return "generated" }
func (Generated) sealed() {}

// GenericTemplate operations are bound by instantiating one of the fixed
// generic shapes for each handler type that uses it.
type GenericTemplate struct {
	Shape TemplateShape
}

// Accept implements BindingStrategy.
func (g GenericTemplate) Accept(v StrategyVisitor) error { return v.VisitGenericTemplate(g.Shape) }

func (g GenericTemplate) String() string { return "generic-template(" + g.Shape.String() + ")" }
func (GenericTemplate) sealed() {}

// Unavailable operations are reachable only from native plugins.
type Unavailable struct {
	Reason string
}

// Accept implements BindingStrategy.
func (u Unavailable) Accept(v StrategyVisitor) error { return v.VisitUnavailable(u.Reason) }

func (Unavailable) String() string { return "unavailable" }
func (Unavailable) sealed() {}

// TemplateShape is one of the generic opaque-value shapes.
type TemplateShape int

// Template shapes.
const (
	ShapeRegisterValue TemplateShape = iota
	ShapeRetrieveValue
	ShapeUnregisterValue
)

// String returns the shape name.
func (s TemplateShape) String() string {
	switch s {
	case ShapeRegisterValue:
		return "register"
	case ShapeRetrieveValue:
		return "retrieve"
	case ShapeUnregisterValue:
		return "unregister"
	default:
		return "unknown"
	}
}

// Signature returns the parameter and return types an operation must have
// to be bound with this shape.
func (s TemplateShape) Signature() (params []TypeDescriptor, returns TypeDescriptor, ok bool) {
	switch s {
	case ShapeRegisterValue:
		return []TypeDescriptor{String, Opaque}, Void, true
	case ShapeRetrieveValue:
		return []TypeDescriptor{String}, Opaque, true
	case ShapeUnregisterValue:
		return []TypeDescriptor{String}, Void, true
	default:
		return nil, Void, false
	}
}
