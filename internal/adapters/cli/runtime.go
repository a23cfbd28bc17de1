package cli

import (
	"fmt"

	"github.com/andrescamacho/anac-utility-go/internal/adapters/api"
	"github.com/andrescamacho/anac-utility-go/internal/adapters/metrics"
	"github.com/andrescamacho/anac-utility-go/internal/application/common"
	"github.com/andrescamacho/anac-utility-go/internal/application/mediator"
	"github.com/andrescamacho/anac-utility-go/internal/application/setup"
	"github.com/andrescamacho/anac-utility-go/internal/domain/optimizer"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/catalog"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/logging"
)

// Runtime is the fully wired application: configuration, logger, static
// data, metrics and the mediator every entry point dispatches through
type Runtime struct {
	Config   *config.Config
	Logging  *logging.Setup
	Catalog  *catalog.Catalog
	Metrics  *metrics.Metrics // nil when metrics are disabled
	Mediator mediator.Mediator
}

// NewRuntime wires the application from configuration
func NewRuntime(cfg *config.Config) (*Runtime, error) {
	logs, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	cat, err := catalog.Load(cfg.Data)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("failed to load data files: %w", err)
	}

	var (
		m              *metrics.Metrics
		recorder       common.EvaluationRecorder = common.NoOpRecorder{}
		commandMetrics *metrics.CommandMetricsCollector
	)
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
		recorder = m.Utility
		commandMetrics = m.Commands
	}

	opt := optimizer.New(optimizer.Options{
		MaxQuantityPerGood: cfg.Optimizer.MaxQuantityPerGood,
		MaxEvaluations:     cfg.Optimizer.MaxEvaluations,
	})

	registry := setup.NewHandlerRegistry(cat, recorder, opt, cfg.Optimizer.Timeout)
	med, err := registry.CreateConfiguredMediator(
		logging.Middleware(logging.NewSlogLogger(logs.Logger)),
		metrics.PrometheusMiddleware(commandMetrics),
	)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	logs.Logger.Debug("Runtime initialized",
		"recipe_products", len(cat.Recipe()),
		"metrics", cfg.Metrics.Enabled,
		"max_evaluations", opt.Options().MaxEvaluations,
	)

	return &Runtime{
		Config:   cfg,
		Logging:  logs,
		Catalog:  cat,
		Metrics:  m,
		Mediator: med,
	}, nil
}

// Server builds the HTTP server for this runtime
func (r *Runtime) Server() *api.Server {
	srv := api.NewServer(r.Mediator, r.Config.Server, r.Logging.Logger, r.Logging.Level)
	if r.Metrics != nil {
		srv.EnableMetrics(r.Metrics, r.Config.Metrics.Path)
	}
	return srv
}

// Close releases the log output
func (r *Runtime) Close() error {
	return r.Logging.Close()
}
