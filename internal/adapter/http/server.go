package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/couchcryptid/order-dashboard/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard is the scheduled side of the service: the latest snapshot and
// the filter selection used to produce it.
type Dashboard interface {
	Latest() (pipeline.Snapshot, bool)
	Spec() domain.FilterSpec
	SetSpec(spec domain.FilterSpec)
	CheckReadiness(ctx context.Context) error
}

// Server exposes health, readiness, metrics, and dashboard HTTP endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	runner     pipeline.Runner
	logger     *slog.Logger
}

// NewServer creates an HTTP server. runner serves on-demand runs for
// requests that carry their own filter selection.
func NewServer(addr string, dashboard Dashboard, runner pipeline.Runner, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       10 * time.Second,
			// On-demand runs include a sheet fetch and geocoding.
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dashboard,
		runner:    runner,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dashboard))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/filters", s.handleGetFilters)
	mux.HandleFunc("PUT /api/filters", s.handlePutFilters)
	mux.HandleFunc("GET /api/charts/daily.png", s.handleDailyChart)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
