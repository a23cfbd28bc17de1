// Package api exposes the utility use cases over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/anac-utility-go/internal/adapters/metrics"
	"github.com/andrescamacho/anac-utility-go/internal/application/mediator"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
)

// Server is the utility HTTP API server
type Server struct {
	mediator mediator.Mediator
	cfg      config.ServerConfig
	logger   *slog.Logger
	level    *slog.LevelVar
	limiter  *rate.Limiter

	metrics     *metrics.Metrics
	metricsPath string
}

// NewServer creates a new API server. The level var is the one the logger's
// handler filters on; /setLogLevel adjusts it.
func NewServer(m mediator.Mediator, cfg config.ServerConfig, logger *slog.Logger, level *slog.LevelVar) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if level == nil {
		level = new(slog.LevelVar)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit.Requests > 0 {
		burst := cfg.RateLimit.Burst
		if burst < 1 {
			burst = cfg.RateLimit.Requests
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), burst)
	}

	return &Server{
		mediator: m,
		cfg:      cfg,
		logger:   logger,
		level:    level,
		limiter:  limiter,
	}
}

// EnableMetrics mounts the registry at path and records request metrics
func (s *Server) EnableMetrics(m *metrics.Metrics, path string) {
	s.metrics = m
	s.metricsPath = path
}

// Handler returns the chi router with all routes mounted
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metrics != nil {
		r.Handle(s.metricsPath, s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.recordMetrics)
		r.Use(s.rateLimit)
		if s.cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		}

		r.Get("/generateUtility/{agentRole}", s.handleGenerateUtility)
		r.Post("/calculateUtility/{agentRole}", s.handleCalculateUtility)
		r.Post("/checkAllocation", s.handleCheckAllocation)
		r.Post("/optimizeAllocation", s.handleOptimizeAllocation)
		r.Get("/setLogLevel/{logLevel}", s.handleSetLogLevel)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed on "+r.URL.Path)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address(), err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "address", listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx := context.Background()
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
