// Package server provides the HTTP surface for on-demand compliance checks.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"crmvault-hq/atlas/pkg/compliance"
	"crmvault-hq/atlas/pkg/config"
	"crmvault-hq/atlas/pkg/telemetry/metrics"
)

// Server is the HTTP server exposing the compliance check endpoint, health
// probe, and Prometheus metrics.
type Server struct {
	config     *config.ServerConfig
	engine     *compliance.Engine
	metrics    *metrics.Metrics
	httpServer *http.Server
	logger     *slog.Logger
	mu         sync.RWMutex
	isRunning  bool
}

// NewServer creates a new server. The metrics parameter may be nil, in which
// case the /metrics endpoint is not registered.
func NewServer(cfg *config.ServerConfig, engine *compliance.Engine, m *metrics.Metrics) *Server {
	return &Server{
		config:  cfg,
		engine:  engine,
		metrics: m,
		logger:  slog.Default().With("component", "server"),
	}
}

// Handler returns the server's routing handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/compliance/check", s.handleCheck)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	return mux
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return fmt.Errorf("server failed: %w", err)
	}
}

// Shutdown gracefully stops the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	s.isRunning = false
	return err
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.isRunning
}
