package bindings

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/hookforge/internal/dispatch"
	"github.com/dshills/hookforge/internal/registry"
)

type recordingReporter struct {
	mu   sync.Mutex
	errs []*dispatch.ScriptExecutionError
}

func (r *recordingReporter) HookFailed(err *dispatch.ScriptExecutionError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingReporter) failures() []*dispatch.ScriptExecutionError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*dispatch.ScriptExecutionError(nil), r.errs...)
}

func TestHookNamesMatchRegistry(t *testing.T) {
	assert.Equal(t, registry.Default().HookNames(), HookNames)
}

func TestHandlerMethodTablesCoverRegistry(t *testing.T) {
	reg := registry.Default()
	require.Len(t, luaHandlerMethods, len(reg.Handlers()))

	for _, ht := range reg.Handlers() {
		methods, ok := luaHandlerMethods[ht.Name]
		require.True(t, ok, "no method table for %s", ht.Name)

		want := 0
		for _, op := range ht.Operations {
			_, unavailable := op.Strategy.(registry.Unavailable)
			if unavailable {
				assert.NotContains(t, methods, op.Name, "%s.%s", ht.Name, op.Name)
				continue
			}
			want++
			assert.Contains(t, methods, op.Name, "%s.%s", ht.Name, op.Name)
		}
		assert.Len(t, methods, want, ht.Name)
	}
}

func newTable(plugin string) *dispatch.Table {
	return dispatch.NewTable(plugin, HookNames)
}
