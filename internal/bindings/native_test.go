package bindings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/hookforge/internal/dispatch"
	"github.com/dshills/hookforge/internal/handler"
	"github.com/dshills/hookforge/internal/plugindata"
)

type nativeDemo struct {
	setups   int
	lastLine int
}

func (p *nativeDemo) HookSetupPlugin(h *handler.PluginSetupHandler) {
	p.setups++
	_ = h.RegisterPluginData("native", p)
}

func (p *nativeDemo) HookTeardownPlugin(*handler.PluginSetupHandler) {
	panic("teardown failed")
}

func (p *nativeDemo) HookPhysicalParserOnHeaderFound(h *handler.PluginPhysicalParserOnHeaderFoundHandler) {
	p.lastLine = h.GetLineNo()
}

func TestNativeResolve(t *testing.T) {
	impl := &nativeDemo{}
	n := NewNativeModule("native", impl, &recordingReporter{})
	tbl := resolved(t, n, "native")

	assert.Equal(t, []string{"SetupPlugin", "TeardownPlugin", "PhysicalParserOnHeaderFound"}, tbl.BoundHooks())
	assert.Same(t, impl, n.Impl())
	assert.Equal(t, "native", n.Plugin())
}

func TestNativeDispatch(t *testing.T) {
	impl := &nativeDemo{}
	rep := &recordingReporter{}
	tbl := resolved(t, NewNativeModule("native", impl, rep), "native")
	data := plugindata.New()
	d := dispatch.NewDispatcher()

	d.Dispatch(context.Background(), tbl, "SetupPlugin", handler.NewPluginSetupHandler(data, nil))
	d.Dispatch(context.Background(), tbl, "PhysicalParserOnHeaderFound", &handler.PluginPhysicalParserOnHeaderFoundHandler{LineNo: 7})

	require.Empty(t, rep.failures())
	assert.Equal(t, 1, impl.setups)
	assert.Equal(t, 7, impl.lastLine)
	v, err := data.Get("native")
	require.NoError(t, err)
	assert.Same(t, impl, v)
}

func TestNativePanicIsIsolated(t *testing.T) {
	rep := &recordingReporter{}
	tbl := resolved(t, NewNativeModule("native", &nativeDemo{}, rep), "native")
	d := dispatch.NewDispatcher()

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), tbl, "TeardownPlugin", handler.NewPluginSetupHandler(plugindata.New(), nil))
	})
	assert.False(t, d.Busy())

	failures := rep.failures()
	require.Len(t, failures, 1)
	var perr *PanicError
	require.ErrorAs(t, failures[0], &perr)
	assert.Equal(t, "teardown failed", perr.Value)
	assert.Contains(t, failures[0].Trace, "goroutine")
}

func TestNativeMismatch(t *testing.T) {
	impl := &nativeDemo{}
	rep := &recordingReporter{}
	tbl := resolved(t, NewNativeModule("native", impl, rep), "native")

	dispatch.NewDispatcher().Dispatch(context.Background(), tbl, "SetupPlugin", "not a handler")

	assert.Zero(t, impl.setups)
	failures := rep.failures()
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], dispatch.ErrHandlerMismatch)
}

func TestNativeWithoutHooks(t *testing.T) {
	tbl := resolved(t, NewNativeModule("empty", struct{}{}, &recordingReporter{}), "empty")
	assert.Empty(t, tbl.BoundHooks())
}
