package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andrescamacho/anac-utility-go/internal/application/common"
	"github.com/andrescamacho/anac-utility-go/internal/application/utility/commands"
	"github.com/andrescamacho/anac-utility-go/internal/application/utility/queries"
	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/logging"
)

// Request bodies

type calculateUtilityRequest struct {
	CurrencyUnit string                `json:"currencyUnit"`
	Utility      utility.Function      `json:"utility"`
	Bundle       allocation.Allocation `json:"bundle"`
}

type checkAllocationRequest struct {
	Ingredients recipe.Ingredients    `json:"ingredients"`
	Allocation  allocation.Allocation `json:"allocation"`
}

type optimizeAllocationRequest struct {
	Ingredients recipe.Ingredients `json:"ingredients"`
	Utility     utility.Function   `json:"utility"`
}

// handleGenerateUtility draws a utility for the role. An optional ?seed=N
// makes the draw reproducible.
func (s *Server) handleGenerateUtility(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "agentRole")
	common.LoggerFromContext(r.Context()).Log("DEBUG", fmt.Sprintf("/generateUtility/%s called", role), nil)

	cmd := &commands.GenerateUtilityCommand{Role: role}
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(r.Context(), w, &badRequestError{err: fmt.Errorf("seed must be an unsigned integer: %w", err)})
			return
		}
		cmd.Seed = &seed
	}

	resp, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	generated := resp.(*commands.GenerateUtilityResponse)
	w.Header().Set("X-Utility-Id", generated.ID.String())
	writeJSON(w, http.StatusOK, generated.Raw)
}

func (s *Server) handleCalculateUtility(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "agentRole")

	var body calculateUtilityRequest
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &body); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	resp, err := s.mediator.Send(r.Context(), &queries.CalculateUtilityQuery{
		Role:         role,
		CurrencyUnit: body.CurrencyUnit,
		Utility:      body.Utility,
		Bundle:       body.Bundle,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckAllocation(w http.ResponseWriter, r *http.Request) {
	var body checkAllocationRequest
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &body); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	resp, err := s.mediator.Send(r.Context(), &queries.CheckAllocationQuery{
		Ingredients: body.Ingredients,
		Allocation:  body.Allocation,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptimizeAllocation(w http.ResponseWriter, r *http.Request) {
	var body optimizeAllocationRequest
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &body); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	resp, err := s.mediator.Send(r.Context(), &queries.OptimizeAllocationQuery{
		Ingredients: body.Ingredients,
		Utility:     body.Utility,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSetLogLevel changes this server's log level at runtime
func (s *Server) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "logLevel")

	level, err := logging.ParseLevel(name)
	if err != nil {
		writeError(r.Context(), w, &badRequestError{err: err})
		return
	}

	s.level.Set(level)
	common.LoggerFromContext(r.Context()).Log("INFO", "Setting log level to "+name, map[string]interface{}{
		"level": level.String(),
	})

	writeMessage(w, http.StatusOK, "Set log level to "+name)
}
