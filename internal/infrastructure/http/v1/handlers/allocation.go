package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"confina/internal/domain/finance/allocation"
	"confina/internal/infrastructure/http/v1/dto"
)

// AllocationHandler exposes rateio lifecycle endpoints.
type AllocationHandler struct {
	*BaseHandler
	service *allocation.Service
}

// NewAllocationHandler creates an allocation handler.
func NewAllocationHandler(base *BaseHandler, service *allocation.Service) *AllocationHandler {
	return &AllocationHandler{BaseHandler: base, service: service}
}

// CreateDraft handles POST /allocations.
func (h *AllocationHandler) CreateDraft(c *gin.Context) {
	var req dto.CreateAllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	a, err := h.service.CreateDraft(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// OverrideLine handles PUT /allocations/:id/lines.
func (h *AllocationHandler) OverrideLine(c *gin.Context) {
	allocationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.OverrideLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.service.OverrideLine(c.Request.Context(), allocationID, req.LotID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// Approve handles POST /allocations/:id/approve.
func (h *AllocationHandler) Approve(c *gin.Context) {
	allocationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.service.Approve(c.Request.Context(), allocationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// Apply handles POST /allocations/:id/apply.
func (h *AllocationHandler) Apply(c *gin.Context) {
	allocationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.service.Apply(c.Request.Context(), allocationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// Delete handles DELETE /allocations/:id.
func (h *AllocationHandler) Delete(c *gin.Context) {
	allocationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteDraft(c.Request.Context(), allocationID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /allocations/:id.
func (h *AllocationHandler) Get(c *gin.Context) {
	allocationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), allocationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// List handles GET /allocations.
func (h *AllocationHandler) List(c *gin.Context) {
	var query dto.AllocationListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	allocations, err := h.service.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Items(c, allocations, len(allocations))
}
