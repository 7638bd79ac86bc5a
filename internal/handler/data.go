package handler

import (
	"errors"

	"github.com/dshills/hookforge/internal/plugindata"
)

// ErrNoPluginData is returned when a handler was built without a data store.
var ErrNoPluginData = errors.New("handler has no plugin data store")

// PluginData is the per-plugin store reachable from handlers.
type PluginData interface {
	Register(key string, value any, opts ...plugindata.Option) error
	Get(key string) (any, error)
	Unregister(key string) error
}

// DataRegistrar is implemented by handlers that can register plugin data.
type DataRegistrar interface {
	RegisterPluginData(id string, data any, opts ...plugindata.Option) error
}

// DataGetter is implemented by handlers that can read plugin data.
type DataGetter interface {
	GetPluginData(id string) (any, error)
}

// DataUnregistrar is implemented by handlers that can unregister plugin data.
type DataUnregistrar interface {
	UnregisterPluginData(id string) error
}

// DataView gives a handler read access to its plugin's data.
type DataView struct {
	Data PluginData
}

// GetPluginData returns the value registered under id.
func (v DataView) GetPluginData(id string) (any, error) {
	if v.Data == nil {
		return nil, ErrNoPluginData
	}
	return v.Data.Get(id)
}

// DataOwner gives a handler full access to its plugin's data.
type DataOwner struct {
	DataView
}

// RegisterPluginData stores data under id for later hooks.
func (o DataOwner) RegisterPluginData(id string, data any, opts ...plugindata.Option) error {
	if o.Data == nil {
		return ErrNoPluginData
	}
	return o.Data.Register(id, data, opts...)
}

// UnregisterPluginData removes id. Unless data was registered with a
// finalizer, releasing it is the caller's job.
func (o DataOwner) UnregisterPluginData(id string) error {
	if o.Data == nil {
		return ErrNoPluginData
	}
	return o.Data.Unregister(id)
}

// NewDataView wraps a plugin data store.
func NewDataView(data PluginData) DataView {
	return DataView{Data: data}
}
