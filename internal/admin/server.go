// Package admin serves a small HTTP API for inspecting and controlling
// loaded plugins.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/dshills/hookforge/internal/plugin"
)

// Manager is the part of the plugin manager the admin API uses.
type Manager interface {
	Plugins() []*plugin.Host
	PluginByID(id string) (*plugin.Host, bool)
	SetEnabled(id string, enabled bool) error
	ReloadPlugin(ctx context.Context, dir string) error
	Busy() bool
}

// Status is the JSON view of the plugin host.
type Status struct {
	Plugins     int  `json:"plugins"`
	Dispatching bool `json:"dispatching"`
}

// PluginStatus is the JSON view of a loaded plugin.
type PluginStatus struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Kind        string   `json:"kind"`
	State       string   `json:"state"`
	Enabled     bool     `json:"enabled"`
	Dir         string   `json:"dir,omitempty"`
	Instance    string   `json:"instance,omitempty"`
	Hooks       []string `json:"hooks"`
	Error       string   `json:"error,omitempty"`
}

// Server routes admin requests.
type Server struct {
	router  *mux.Router
	manager Manager
	log     logrus.FieldLogger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer returns an admin server for m. Metrics are served from
// gatherer when it is not nil.
func NewServer(m Manager, gatherer prometheus.Gatherer, opts ...Option) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		manager: m,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "admin")

	s.router.HandleFunc("/status", s.status).Methods("GET")
	s.router.HandleFunc("/plugins", s.listPlugins).Methods("GET")
	s.router.HandleFunc("/plugins/{id}", s.getPlugin).Methods("GET")
	s.router.HandleFunc("/plugins/{id}/enabled", s.setEnabled).Methods("PUT")
	s.router.HandleFunc("/plugins/{id}/reload", s.reloadPlugin).Methods("POST")
	if gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("admin server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func statusOf(h *plugin.Host) PluginStatus {
	st := PluginStatus{
		ID:       h.ID(),
		Kind:     h.Kind().String(),
		State:    h.State().String(),
		Enabled:  h.IsEnabled(),
		Dir:      h.Dir(),
		Instance: h.InstanceID(),
		Hooks:    []string{},
	}
	if info := h.Info(); info != nil && info.Metadata != nil {
		st.Name = info.Metadata.Name
		st.Description = info.Metadata.Description
	}
	if t := h.Table(); t != nil {
		if hooks := t.BoundHooks(); hooks != nil {
			st.Hooks = hooks
		}
	}
	if err := h.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// status handles GET /status
func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	st := Status{Dispatching: s.manager.Busy()}
	st.Plugins = len(s.manager.Plugins())
	writeJSON(w, http.StatusOK, st)
}

// listPlugins handles GET /plugins
func (s *Server) listPlugins(w http.ResponseWriter, r *http.Request) {
	hosts := s.manager.Plugins()
	out := make([]PluginStatus, 0, len(hosts))
	for _, h := range hosts {
		out = append(out, statusOf(h))
	}
	writeJSON(w, http.StatusOK, out)
}

// getPlugin handles GET /plugins/{id}
func (s *Server) getPlugin(w http.ResponseWriter, r *http.Request) {
	h, ok := s.manager.PluginByID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, plugin.ErrPluginNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, statusOf(h))
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// setEnabled handles PUT /plugins/{id}/enabled
func (s *Server) setEnabled(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req enabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, `body must be {"enabled": true|false}`)
		return
	}

	if err := s.manager.SetEnabled(id, *req.Enabled); err != nil {
		if errors.Is(err, plugin.ErrPluginNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.WithError(err).WithField("plugin", id).Error("failed to persist enabled flag")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The plugin may have been removed by a concurrent reload.
	h, ok := s.manager.PluginByID(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, statusOf(h))
}

// reloadPlugin handles POST /plugins/{id}/reload
func (s *Server) reloadPlugin(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h, ok := s.manager.PluginByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, plugin.ErrPluginNotFound.Error())
		return
	}
	if h.Dir() == "" {
		writeError(w, http.StatusConflict, "plugin has no directory to reload from")
		return
	}

	if err := s.manager.ReloadPlugin(r.Context(), h.Dir()); err != nil {
		s.log.WithError(err).WithField("plugin", id).Error("plugin reload failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h, ok = s.manager.PluginByID(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, statusOf(h))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
