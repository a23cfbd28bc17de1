package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/anac-utility-go/internal/application/common"
	"github.com/andrescamacho/anac-utility-go/internal/application/mediator"
	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
)

// CalculateUtilityQuery scores a bundle against a caller-supplied utility function
type CalculateUtilityQuery struct {
	Role         string
	CurrencyUnit string
	Utility      utility.Function
	Bundle       allocation.Allocation
}

// CalculateUtilityResponse is the score. Breakdown is only set for buyers.
type CalculateUtilityResponse struct {
	Role         utility.Role                     `json:"-"`
	CurrencyUnit string                           `json:"currencyUnit"`
	Value        float64                          `json:"value"`
	Breakdown    map[string]utility.GoodBreakdown `json:"breakdown,omitempty"`
}

// CalculateUtilityHandler handles the CalculateUtility query
type CalculateUtilityHandler struct {
	recorder common.EvaluationRecorder
}

// NewCalculateUtilityHandler creates a new CalculateUtilityHandler
func NewCalculateUtilityHandler(recorder common.EvaluationRecorder) *CalculateUtilityHandler {
	if recorder == nil {
		recorder = common.NoOpRecorder{}
	}
	return &CalculateUtilityHandler{recorder: recorder}
}

// Handle executes the CalculateUtility query
func (h *CalculateUtilityHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*CalculateUtilityQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CalculateUtilityQuery")
	}

	logger := common.LoggerFromContext(ctx)

	role, err := utility.ParseRole(query.Role)
	if err != nil {
		return nil, err
	}
	if err := query.Bundle.Validate(); err != nil {
		return nil, err
	}

	response := &CalculateUtilityResponse{
		Role:         role,
		CurrencyUnit: query.CurrencyUnit,
	}

	switch role {
	case utility.RoleBuyer:
		score, err := utility.ScoreBuyer(query.Utility, query.Bundle)
		if err != nil {
			return nil, err
		}
		response.Value = score.TotalUtility
		response.Breakdown = score.Breakdown
	case utility.RoleSeller:
		value, err := utility.ScoreSeller(query.Utility, query.Bundle)
		if err != nil {
			return nil, err
		}
		response.Value = value
	}

	logger.Log("DEBUG", fmt.Sprintf("[CalculateUtility] %s utility is %v %s", role, response.Value, query.CurrencyUnit), map[string]interface{}{
		"role":  role.String(),
		"value": response.Value,
	})
	h.recorder.RecordUtilityScore(role, response.Value)

	return response, nil
}
