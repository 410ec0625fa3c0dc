package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"confina/internal/domain/herd/pen"
	"confina/internal/infrastructure/http/v1/dto"
)

// PenHandler exposes pen and allocation-link endpoints.
type PenHandler struct {
	*BaseHandler
	service *pen.Service
}

// NewPenHandler creates a pen handler.
func NewPenHandler(base *BaseHandler, service *pen.Service) *PenHandler {
	return &PenHandler{BaseHandler: base, service: service}
}

// Create handles POST /pens.
func (h *PenHandler) Create(c *gin.Context) {
	var req dto.CreatePenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.CreatePen(c.Request.Context(), req.Code, req.Capacity, req.Location)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Get handles GET /pens/:id.
func (h *PenHandler) Get(c *gin.Context) {
	penID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetPen(c.Request.Context(), penID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// List handles GET /pens.
func (h *PenHandler) List(c *gin.Context) {
	pens, err := h.service.ListPens(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Items(c, pens, len(pens))
}

// Allocate handles POST /pens/:id/links.
func (h *PenHandler) Allocate(c *gin.Context) {
	penID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AllocateToPenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	link, err := h.service.Allocate(c.Request.Context(), req.LotID, penID, req.Quantity, req.At)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// RemoveLink handles POST /pens/links/:id/remove.
func (h *PenHandler) RemoveLink(c *gin.Context) {
	linkID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RemoveLinkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.RemoveLink(c.Request.Context(), linkID, req.At); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
