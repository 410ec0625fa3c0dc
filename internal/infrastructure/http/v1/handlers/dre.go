package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"confina/internal/core/apperror"
	"confina/internal/domain/finance/dre"
	"confina/internal/infrastructure/http/v1/dto"
)

// DREHandler exposes income statement endpoints.
type DREHandler struct {
	*BaseHandler
	builder    *dre.Builder
	comparator *dre.Comparator
}

// NewDREHandler creates a DRE handler.
func NewDREHandler(base *BaseHandler, builder *dre.Builder, comparator *dre.Comparator) *DREHandler {
	return &DREHandler{BaseHandler: base, builder: builder, comparator: comparator}
}

// Build handles POST /dre/statement.
func (h *DREHandler) Build(c *gin.Context) {
	st, ok := h.buildStatement(c)
	if !ok {
		return
	}
	h.OK(c, st)
}

// ExportCSV handles POST /dre/statement/csv. Same request shape as Build,
// different representation.
func (h *DREHandler) ExportCSV(c *gin.Context) {
	st, ok := h.buildStatement(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := dre.WriteCSV(&buf, st); err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	filename := fmt.Sprintf("dre_%s_%s.csv",
		st.PeriodStart.Format(time.DateOnly), st.PeriodEnd.Format(time.DateOnly))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Compare handles POST /dre/compare.
func (h *DREHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmp, err := h.comparator.Compare(c.Request.Context(),
		dre.EntityType(req.EntityType), req.EntityIDs, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cmp)
}

func (h *DREHandler) buildStatement(c *gin.Context) (*dre.Statement, bool) {
	var req dto.BuildStatementRequest
	if !h.BindJSON(c, &req) {
		return nil, false
	}

	st, err := h.builder.Build(c.Request.Context(), req.ToParams())
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return st, true
}
