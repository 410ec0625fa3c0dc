package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"confina/internal/domain/finance/sale"
	"confina/internal/infrastructure/http/v1/dto"
)

// SaleHandler exposes sale registration endpoints.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// Register handles POST /sales.
func (h *SaleHandler) Register(c *gin.Context) {
	var req dto.RegisterSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec := req.ToRecord()
	if err := h.service.Register(c.Request.Context(), rec); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}
