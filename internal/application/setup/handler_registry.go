package setup

import (
	"reflect"
	"time"

	"github.com/andrescamacho/anac-utility-go/internal/application/common"
	"github.com/andrescamacho/anac-utility-go/internal/application/mediator"
	"github.com/andrescamacho/anac-utility-go/internal/application/utility/commands"
	"github.com/andrescamacho/anac-utility-go/internal/application/utility/queries"
	"github.com/andrescamacho/anac-utility-go/internal/domain/optimizer"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	catalog         common.Catalog
	recorder        common.EvaluationRecorder
	optimizer       *optimizer.Optimizer
	optimizeTimeout time.Duration
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	catalog common.Catalog,
	recorder common.EvaluationRecorder,
	opt *optimizer.Optimizer,
	optimizeTimeout time.Duration,
) *HandlerRegistry {
	// Default to discarding observations if no recorder is provided
	if recorder == nil {
		recorder = common.NoOpRecorder{}
	}
	if opt == nil {
		opt = optimizer.New(optimizer.Options{})
	}

	return &HandlerRegistry{
		catalog:         catalog,
		recorder:        recorder,
		optimizer:       opt,
		optimizeTimeout: optimizeTimeout,
	}
}

// RegisterUtilityHandlers registers all utility command and query handlers with the mediator
//
// This method registers:
//   - GenerateUtilityCommand → GenerateUtilityHandler
//   - CalculateUtilityQuery → CalculateUtilityHandler
//   - CheckAllocationQuery → CheckAllocationHandler
//   - OptimizeAllocationQuery → OptimizeAllocationHandler
func (r *HandlerRegistry) RegisterUtilityHandlers(m mediator.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&commands.GenerateUtilityCommand{}),
		commands.NewGenerateUtilityHandler(r.catalog, r.recorder),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&queries.CalculateUtilityQuery{}),
		queries.NewCalculateUtilityHandler(r.recorder),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&queries.CheckAllocationQuery{}),
		queries.NewCheckAllocationHandler(r.catalog, r.recorder),
	); err != nil {
		return err
	}

	// Register OptimizeAllocationQuery handler (bounded by the configured timeout)
	if err := m.Register(
		reflect.TypeOf(&queries.OptimizeAllocationQuery{}),
		queries.NewOptimizeAllocationHandler(r.catalog, r.optimizer, r.optimizeTimeout, r.recorder),
	); err != nil {
		return err
	}

	return nil
}

// CreateConfiguredMediator creates a new mediator with all utility handlers registered
//
// Middleware is applied in the order given, the first one outermost.
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator(middlewares...)

	if err := r.RegisterUtilityHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
