package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/anac-utility-go/internal/application/common"
	"github.com/andrescamacho/anac-utility-go/internal/application/mediator"
	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/optimizer"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
)

// OptimizeAllocationQuery searches for the allocation of the inventory a buyer values most
type OptimizeAllocationQuery struct {
	Ingredients recipe.Ingredients
	Utility     utility.Function
}

// OptimizeAllocationResponse is the best allocation found
type OptimizeAllocationResponse struct {
	Allocation allocation.Allocation            `json:"allocation"`
	Utility    float64                          `json:"utility"`
	Breakdown  map[string]utility.GoodBreakdown `json:"breakdown"`
	Bounds     map[string]int                   `json:"bounds"`
	Evaluated  int                              `json:"evaluated"`
	Truncated  bool                             `json:"truncated"`
}

// OptimizeAllocationHandler handles the OptimizeAllocation query
type OptimizeAllocationHandler struct {
	catalog   common.Catalog
	optimizer *optimizer.Optimizer
	timeout   time.Duration
	recorder  common.EvaluationRecorder
}

// NewOptimizeAllocationHandler creates a new OptimizeAllocationHandler.
// A zero timeout leaves the deadline to the caller's context.
func NewOptimizeAllocationHandler(
	catalog common.Catalog,
	opt *optimizer.Optimizer,
	timeout time.Duration,
	recorder common.EvaluationRecorder,
) *OptimizeAllocationHandler {
	if opt == nil {
		opt = optimizer.New(optimizer.Options{})
	}
	if recorder == nil {
		recorder = common.NoOpRecorder{}
	}
	return &OptimizeAllocationHandler{
		catalog:   catalog,
		optimizer: opt,
		timeout:   timeout,
		recorder:  recorder,
	}
}

// Handle executes the OptimizeAllocation query
func (h *OptimizeAllocationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*OptimizeAllocationQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *OptimizeAllocationQuery")
	}

	logger := common.LoggerFromContext(ctx)

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := h.optimizer.Optimize(ctx, query.Ingredients, h.catalog.Recipe(), query.Utility)
	if err != nil {
		return nil, fmt.Errorf("optimization failed: %w", err)
	}

	if result.Truncated {
		logger.Log("WARNING", fmt.Sprintf("[OptimizeAllocation] Search stopped after %d evaluations", result.Evaluated), nil)
	}
	logger.Log("INFO", fmt.Sprintf("[OptimizeAllocation] Best utility %v after %d evaluations", result.Utility, result.Evaluated), map[string]interface{}{
		"utility":     result.Utility,
		"evaluated":   result.Evaluated,
		"truncated":   result.Truncated,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	h.recorder.RecordOptimization(result.Evaluated, result.Truncated, result.Utility)

	return &OptimizeAllocationResponse{
		Allocation: result.Allocation,
		Utility:    result.Utility,
		Breakdown:  result.Breakdown,
		Bounds:     result.Bounds,
		Evaluated:  result.Evaluated,
		Truncated:  result.Truncated,
	}, nil
}
