package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryVerifies(t *testing.T) {
	require.NoError(t, Default().Verify())
}

func TestDefaultRegistryIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestHookLookup(t *testing.T) {
	r := Default()

	h, ok := r.Hook("SetupPlugin")
	require.True(t, ok)
	assert.Equal(t, "PluginSetupHandler", h.Handler)
	assert.Equal(t, "hookSetupPlugin", h.Symbol())

	_, ok = r.Hook("NoSuchHook")
	assert.False(t, ok)

	ht, ok := r.HandlerFor("TeardownPlugin")
	require.True(t, ok)
	assert.Equal(t, "PluginSetupHandler", ht.Name)
}

func TestHookNamesKeepDeclarationOrder(t *testing.T) {
	names := Default().HookNames()
	require.NotEmpty(t, names)
	assert.Equal(t, "SetupPlugin", names[0])
	assert.Equal(t, "MainWindowReady", names[1])
	assert.Equal(t, "TeardownPlugin", names[2])
	assert.Len(t, names, len(Default().Hooks()))
}

func TestSetupHandlerOperations(t *testing.T) {
	ht, ok := Default().Handler("PluginSetupHandler")
	require.True(t, ok)

	want := map[string]BindingStrategy{
		"registerPluginData":   GenericTemplate{Shape: ShapeRegisterValue},
		"getPluginData":        GenericTemplate{Shape: ShapeRetrieveValue},
		"unregisterPluginData": GenericTemplate{Shape: ShapeUnregisterValue},
	}
	for name, strategy := range want {
		op, ok := ht.Operation(name)
		require.True(t, ok, name)
		assert.Equal(t, strategy, op.Strategy, name)
	}

	op, ok := ht.Operation("getScriptInterpreter")
	require.True(t, ok)
	assert.IsType(t, Unavailable{}, op.Strategy)
}

func TestAccessorsReturnCopies(t *testing.T) {
	r := Default()
	hooks := r.Hooks()
	hooks[0].Name = "Mutated"
	h, ok := r.Hook("SetupPlugin")
	require.True(t, ok)
	assert.Equal(t, "SetupPlugin", h.Name)
	assert.Equal(t, "SetupPlugin", r.Hooks()[0].Name)
}

func integrityProblems(t *testing.T, r *Registry) []string {
	t.Helper()
	err := r.Verify()
	require.Error(t, err)
	var ierr *RegistryIntegrityError
	require.True(t, errors.As(err, &ierr))
	return ierr.Problems
}

func TestVerifyUndefinedHandler(t *testing.T) {
	r := New([]HookDefinition{{Name: "Broken", Handler: "Missing"}}, nil)
	problems := integrityProblems(t, r)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], `undefined handler type "Missing"`)
}

func TestVerifyDuplicates(t *testing.T) {
	ht := HandlerType{Name: "H", Operations: []OperationDefinition{
		getterOp("getName", String, ""),
		getterOp("getName", String, ""),
	}}
	r := New(
		[]HookDefinition{{Name: "A", Handler: "H"}, {Name: "A", Handler: "H"}},
		[]HandlerType{ht, {Name: "H"}},
	)
	problems := strings.Join(integrityProblems(t, r), "\n")
	assert.Contains(t, problems, `duplicate hook "A"`)
	assert.Contains(t, problems, `duplicate handler type "H"`)
	assert.Contains(t, problems, "duplicate operation H.getName")
}

func TestVerifyBoundaryCompatibility(t *testing.T) {
	ht := HandlerType{Name: "H", Operations: []OperationDefinition{
		{Name: "takesCallback", Returns: Void, Params: []Param{{Type: CallbackOf("H"), Name: "cb"}}, Strategy: Generated{}},
		{Name: "returnsMemory", Returns: Memory, Strategy: Generated{}},
		{Name: "takesEntity", Returns: Void, Params: []Param{{Type: Entity, Name: "e"}}, Strategy: Generated{}},
		{Name: "badShape", Returns: Void, Params: []Param{{Type: String, Name: "id"}}, Strategy: GenericTemplate{Shape: ShapeRetrieveValue}},
		{Name: "noReason", Returns: Memory, Strategy: Unavailable{}},
		{Name: "callbackRef", Returns: Void, Params: []Param{{Type: CallbackOf("Nope"), Name: "cb"}}, Strategy: Unavailable{Reason: "native only"}},
		{Name: "fine", Returns: EntityList, Params: []Param{{Type: Int, Name: "n"}, {Type: Bool, Name: "b"}}, Strategy: Generated{}},
	}}
	r := New([]HookDefinition{{Name: "A", Handler: "H"}}, []HandlerType{ht})

	problems := integrityProblems(t, r)
	joined := strings.Join(problems, "\n")
	assert.Contains(t, joined, "H.takesCallback is generated but parameter cb")
	assert.Contains(t, joined, "H.returnsMemory is generated but its memory return")
	assert.Contains(t, joined, "H.takesEntity is generated but parameter e")
	assert.Contains(t, joined, "H.badShape does not match the retrieve template signature")
	assert.Contains(t, joined, "H.noReason is unavailable without a reason")
	assert.Contains(t, joined, `H.callbackRef parameter cb references undefined handler type "Nope"`)
	assert.NotContains(t, joined, "H.fine")
	assert.Len(t, problems, 6)
}

func TestIntegrityErrorMessage(t *testing.T) {
	one := &RegistryIntegrityError{Problems: []string{"a"}}
	assert.Equal(t, "registry integrity: a", one.Error())
	two := &RegistryIntegrityError{Problems: []string{"a", "b"}}
	assert.Equal(t, "registry integrity: 2 problems: a; b", two.Error())
}

type strategyCounter struct {
	generated, template, unavailable int
}

func (c *strategyCounter) VisitGenerated() error { c.generated++; return nil }
func (c *strategyCounter) VisitGenericTemplate(TemplateShape) error {
	c.template++
	return nil
}
func (c *strategyCounter) VisitUnavailable(string) error { c.unavailable++; return nil }

func TestStrategyVisitor(t *testing.T) {
	c := &strategyCounter{}
	for _, s := range []BindingStrategy{Generated{}, GenericTemplate{Shape: ShapeRegisterValue}, Unavailable{Reason: "x"}} {
		require.NoError(t, s.Accept(c))
	}
	assert.Equal(t, strategyCounter{generated: 1, template: 1, unavailable: 1}, *c)
}

func TestTypeDescriptorString(t *testing.T) {
	assert.Equal(t, "string", String.String())
	assert.Equal(t, "handler(PluginSetupHandler)", HandlerRef("PluginSetupHandler").String())
	assert.Equal(t, "callback(X)", CallbackOf("X").String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
