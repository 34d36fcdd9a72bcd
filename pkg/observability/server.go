// Package observability exposes declared components over HTTP and counts
// assembly and read activity with Prometheus collectors.
//
// The handler is read-only: it reports names and contract shapes, never
// instance state. Mount it on an internal port next to the host application.
package observability

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weftkit/weft"
)

// Server serves the inspection API for a set of declared components.
type Server struct {
	logger     *slog.Logger
	components map[string]*weft.Component
	gatherer   prometheus.Gatherer
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithServerLogger sets the request logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGatherer mounts /metrics backed by the given Prometheus gatherer.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates an inspection server over the given components.
func NewServer(components []*weft.Component, opts ...ServerOption) *Server {
	s := &Server{
		logger:     slog.Default(),
		components: make(map[string]*weft.Component, len(components)),
	}
	for _, c := range components {
		s.components[c.Name()] = c
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/components", s.handleList)
	r.Get("/components/{name}/shape", s.handleShape)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.components))
	for name := range s.components {
		names = append(names, name)
	}
	sort.Strings(names)
	s.respond(w, http.StatusOK, map[string]any{"components": names})
}

func (s *Server) handleShape(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	component, ok := s.components[name]
	if !ok {
		s.respond(w, http.StatusNotFound, map[string]string{"error": "unknown component: " + name})
		return
	}

	namespaces := make(map[string]map[string]string)
	for ns, shape := range component.Shapes() {
		props := make(map[string]string, len(shape))
		for prop, kind := range shape {
			props[prop] = string(kind)
		}
		namespaces[string(ns)] = props
	}
	s.respond(w, http.StatusOK, map[string]any{
		"component":  name,
		"namespaces": namespaces,
	})
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
