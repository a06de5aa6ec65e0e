// Package httpserver exposes the engine's HTTP surface: metrics, health
// probes, and the opportunity/execution API.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quantfence/chainarb/pkg/cache"
	"github.com/quantfence/chainarb/pkg/healthprobe"
	"go.uber.org/zap"
)

// Server provides HTTP endpoints for metrics, health checks, and the
// arbitrage API.
type Server struct {
	server        *http.Server
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
}

// Config holds server configuration.
type Config struct {
	Port          string
	Logger        *zap.Logger
	HealthChecker *healthprobe.HealthChecker
	Snapshots     cache.Cache
	Executor      Executor
}

// New creates a new HTTP server.
func New(cfg *Config) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	apiHandler := NewAPIHandler(cfg.Snapshots, cfg.Executor, cfg.Logger)

	// Routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
		r.Get("/health", cfg.HealthChecker.Health())
		r.Get("/ready", cfg.HealthChecker.Ready())
		r.Get("/api/opportunities", apiHandler.HandleOpportunities)
	})

	// Execution runs synchronously and a bridge transfer can outlive any
	// sensible request timeout, so this route carries none.
	r.Post("/api/execute", apiHandler.HandleExecute)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// No write timeout: /api/execute streams no body until the
		// bridge transfer settles, which can take minutes.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		server:        server,
		logger:        cfg.Logger,
		healthChecker: cfg.HealthChecker,
	}
}

// Start starts the HTTP server. Blocks until the server stops or fails.
func (s *Server) Start() error {
	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}
