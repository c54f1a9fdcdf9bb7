// Package health serves liveness, status and Prometheus metrics over HTTP.
package health

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/latoulicious/hutbot/internal/version"
	"github.com/latoulicious/hutbot/pkg/logging"
)

// CheckFunc reports whether a component is usable
type CheckFunc func(ctx context.Context) error

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Report is the /health response
type Report struct {
	Status     string          `json:"status"`
	Uptime     string          `json:"uptime"`
	StartTime  string          `json:"start_time"`
	Components map[string]bool `json:"components"`
}

// StatusReport is the /status response
type StatusReport struct {
	Application string            `json:"application"`
	Version     string            `json:"version"`
	Commit      string            `json:"commit"`
	Status      string            `json:"status"`
	Uptime      string            `json:"uptime"`
	StartTime   string            `json:"start_time"`
	Components  map[string]string `json:"components"`
}

// Server exposes the health endpoints
type Server struct {
	started      time.Time
	checkTimeout time.Duration
	metrics      http.Handler
	logger       logging.Logger

	mu     sync.RWMutex
	checks map[string]CheckFunc

	srv *http.Server
}

// Option customises a Server
type Option func(*Server)

// WithMetrics mounts h at /metrics
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the logger used for server lifecycle events
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStartTime overrides the time uptime is counted from
func WithStartTime(t time.Time) Option {
	return func(s *Server) {
		s.started = t
	}
}

// NewServer creates a health server listening on addr once started
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		started:      time.Now(),
		checkTimeout: 2 * time.Second,
		checks:       make(map[string]CheckFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.GetGlobalLoggerFactory().CreateLogger("health")
	}

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

// AddCheck registers a named component check
func (s *Server) AddCheck(name string, check CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)
	r.Get("/status", s.statusHandler)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

// Start serves in the background until Shutdown
func (s *Server) Start() {
	go func() {
		s.logger.Info("Starting health check server", map[string]interface{}{
			"addr": s.srv.Addr,
		})
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Health check server error", err, nil)
		}
	}()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// runChecks evaluates every check, returning errors keyed by component
func (s *Server) runChecks(ctx context.Context) map[string]error {
	s.mu.RLock()
	checks := make(map[string]CheckFunc, len(s.checks))
	for name, check := range s.checks {
		checks[name] = check
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	results := make(map[string]error, len(checks))
	for name, check := range checks {
		results[name] = check(ctx)
	}
	return results
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	results := s.runChecks(r.Context())

	report := Report{
		Status:     StatusHealthy,
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		StartTime:  s.started.Format(time.RFC3339),
		Components: make(map[string]bool, len(results)),
	}
	for name, err := range results {
		report.Components[name] = err == nil
		if err != nil {
			report.Status = StatusUnhealthy
		}
	}

	if report.Status == StatusHealthy {
		render.Status(r, http.StatusOK)
	} else {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, report)
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	results := s.runChecks(r.Context())
	info := version.Get()

	report := StatusReport{
		Application: "hutbot",
		Version:     info.Version,
		Commit:      info.ShortCommit(),
		Status:      StatusHealthy,
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		StartTime:   s.started.Format(time.RFC3339),
		Components:  make(map[string]string, len(results)),
	}

	for name, err := range results {
		if err != nil {
			report.Components[name] = err.Error()
			report.Status = StatusUnhealthy
			continue
		}
		report.Components[name] = "ok"
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}
