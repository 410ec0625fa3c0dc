package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"confina/internal/core/apperror"
	"confina/internal/domain/finance/ledger"
	"confina/internal/infrastructure/http/v1/dto"
)

// LedgerHandler exposes cost entry endpoints.
type LedgerHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewLedgerHandler creates a ledger handler.
func NewLedgerHandler(base *BaseHandler, service *ledger.Service) *LedgerHandler {
	return &LedgerHandler{BaseHandler: base, service: service}
}

// Post handles POST /ledger/entries.
func (h *LedgerHandler) Post(c *gin.Context) {
	var req dto.PostEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry := req.ToEntry()
	if err := h.service.Post(c.Request.Context(), entry); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Void handles POST /ledger/entries/:id/void.
func (h *LedgerHandler) Void(c *gin.Context) {
	entryID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.VoidEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	reversal, err := h.service.Void(c.Request.Context(), entryID, req.Date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, reversal)
}

// List handles GET /ledger/entries.
func (h *LedgerHandler) List(c *gin.Context) {
	var query dto.EntryListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid target id").
			WithDetail("value", query.TargetID))
		return
	}

	entries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Items(c, entries, len(entries))
}
