package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"confina/internal/domain/herd/lot"
	"confina/internal/infrastructure/http/v1/dto"
)

// LotHandler exposes lot lifecycle endpoints.
type LotHandler struct {
	*BaseHandler
	service *lot.Service
}

// NewLotHandler creates a lot handler.
func NewLotHandler(base *BaseHandler, service *lot.Service) *LotHandler {
	return &LotHandler{BaseHandler: base, service: service}
}

// Receive handles POST /lots.
func (h *LotHandler) Receive(c *gin.Context) {
	var req dto.ReceiveLotRequest
	if !h.BindJSON(c, &req) {
		return
	}

	l, err := h.service.Receive(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// RecordDeaths handles POST /lots/:id/deaths.
func (h *LotHandler) RecordDeaths(c *gin.Context) {
	lotID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RecordDeathsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.RecordDeaths(c.Request.Context(), lotID, req.Count, req.Date); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RecordWeightLoss handles POST /lots/:id/weight-loss.
func (h *LotHandler) RecordWeightLoss(c *gin.Context) {
	lotID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RecordWeightLossRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.service.RecordWeightLoss(c.Request.Context(), lotID, req.LossKg, req.CarcassYieldPct, req.Date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /lots/:id.
func (h *LotHandler) Get(c *gin.Context) {
	lotID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), lotID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, l)
}

// List handles GET /lots.
func (h *LotHandler) List(c *gin.Context) {
	var query dto.LotListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	lots, err := h.service.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Items(c, lots, len(lots))
}

// Delete handles DELETE /lots/:id.
func (h *LotHandler) Delete(c *gin.Context) {
	lotID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), lotID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
