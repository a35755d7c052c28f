package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/codec"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize bounds POST /resolve payloads.
const maxBodySize = 1 << 20

// ResolveRequest is the body of POST /resolve.
type ResolveRequest struct {
	Config any    `json:"config"`
	Parent string `json:"parent,omitempty"`
}

// ResolveResponse is returned by POST /resolve.
type ResolveResponse struct {
	Value any `json:"value"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server exposes a resolver over HTTP.
type Server struct {
	Resolver ports.Resolver
	Lister   ports.Lister
	Convert  ports.Converter
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
}

// Option configures the handler.
type Option func(*Server)

// WithLister enables GET /modules.
func WithLister(l ports.Lister) Option {
	return func(s *Server) { s.Lister = l }
}

// WithConverter sets the leaf converter used by POST /resolve.
func WithConverter(c ports.Converter) Option {
	return func(s *Server) { s.Convert = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.Logger = logger }
}

// WithGatherer serves the given registry on GET /metrics.
// The default is prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// NewHandler creates a new HTTP handler for the resolver.
func NewHandler(resolver ports.Resolver, opts ...Option) http.Handler {
	s := &Server{
		Resolver: resolver,
		Logger:   slog.Default(),
		Gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/resolve", s.Resolve)
	r.Get("/modules", s.ListModules)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Resolve handles the POST /resolve request.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	var body ResolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		s.Logger.Warn("Resolve: Invalid request body", "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	value, err := s.Resolver.Resolve(r.Context(), codec.Normalize(body.Config), body.Parent, s.Convert)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.Logger.Error("Resolve failed", "err", err)
		} else {
			s.Logger.Debug("Resolve rejected", "err", err, "status", status)
		}
		writeJSON(w, status, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ResolveResponse{Value: value})
}

// ListModules handles the GET /modules request.
func (s *Server) ListModules(w http.ResponseWriter, r *http.Request) {
	if s.Lister == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: "module listing is not supported by this host"})
		return
	}
	names, err := s.Lister.List(r.Context())
	if err != nil {
		s.Logger.Error("ListModules failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "graft-http",
		"version": strings.TrimSpace(graft.Version),
	})
}

// statusFor maps resolution errors to HTTP statuses.
// Malformed input is the caller's fault; a missing module is unprocessable.
func statusFor(err error) int {
	var loadErr *domain.LoadError
	switch {
	case errors.Is(err, domain.ErrReservedKey), errors.Is(err, domain.ErrInvalidRequire):
		return http.StatusBadRequest
	case errors.As(err, &loadErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "status", status, "err", err)
	}
}
