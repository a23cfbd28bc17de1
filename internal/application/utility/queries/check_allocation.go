package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/anac-utility-go/internal/application/common"
	"github.com/andrescamacho/anac-utility-go/internal/application/mediator"
	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
)

// CheckAllocationQuery checks whether an inventory can realize an allocation
type CheckAllocationQuery struct {
	Ingredients recipe.Ingredients
	Allocation  allocation.Allocation
}

// CheckAllocationResponse echoes the inputs with the verdict
type CheckAllocationResponse struct {
	Ingredients recipe.Ingredients            `json:"ingredients"`
	Allocation  allocation.Allocation         `json:"allocation"`
	Sufficient  bool                          `json:"sufficient"`
	Rationale   map[string]recipe.Requirement `json:"rationale"`
	Shortfalls  []recipe.Shortfall            `json:"shortfalls,omitempty"`
}

// CheckAllocationHandler handles the CheckAllocation query
type CheckAllocationHandler struct {
	catalog  common.Catalog
	recorder common.EvaluationRecorder
}

// NewCheckAllocationHandler creates a new CheckAllocationHandler
func NewCheckAllocationHandler(catalog common.Catalog, recorder common.EvaluationRecorder) *CheckAllocationHandler {
	if recorder == nil {
		recorder = common.NoOpRecorder{}
	}
	return &CheckAllocationHandler{
		catalog:  catalog,
		recorder: recorder,
	}
}

// Handle executes the CheckAllocation query
func (h *CheckAllocationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*CheckAllocationQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CheckAllocationQuery")
	}

	logger := common.LoggerFromContext(ctx)

	if err := query.Ingredients.Validate(); err != nil {
		return nil, err
	}
	if err := query.Allocation.Validate(); err != nil {
		return nil, err
	}

	result, err := recipe.CheckSufficiency(query.Ingredients, query.Allocation, h.catalog.Recipe())
	if err != nil {
		return nil, err
	}

	shortfalls := result.Shortfalls()
	for _, s := range shortfalls {
		logger.Log("DEBUG", fmt.Sprintf("[CheckAllocation] Need %v %s but only have %v", s.Need, s.Ingredient, s.Have), nil)
	}
	logger.Log("INFO", fmt.Sprintf("[CheckAllocation] Allocation sufficient: %t", result.Sufficient), map[string]interface{}{
		"shortfalls": len(shortfalls),
	})
	h.recorder.RecordSufficiency(result.Sufficient)

	return &CheckAllocationResponse{
		Ingredients: query.Ingredients,
		Allocation:  query.Allocation,
		Sufficient:  result.Sufficient,
		Rationale:   result.Rationale,
		Shortfalls:  shortfalls,
	}, nil
}
