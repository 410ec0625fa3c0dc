package handlers

import (
	"github.com/gin-gonic/gin"

	"confina/internal/domain/finance/simulation"
	"confina/internal/infrastructure/http/v1/dto"
)

// SimulationHandler exposes the sale decision simulator.
type SimulationHandler struct {
	*BaseHandler
	simulator *simulation.Simulator
}

// NewSimulationHandler creates a simulation handler.
func NewSimulationHandler(base *BaseHandler, simulator *simulation.Simulator) *SimulationHandler {
	return &SimulationHandler{BaseHandler: base, simulator: simulator}
}

// Simulate handles POST /lots/:id/simulation.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	lotID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SimulateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.simulator.Simulate(c.Request.Context(), lotID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
