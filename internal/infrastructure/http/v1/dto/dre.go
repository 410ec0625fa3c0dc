package dto

import (
	"time"

	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/dre"
)

// BuildStatementRequest computes one income statement.
type BuildStatementRequest struct {
	EntityType  string    `json:"entityType" binding:"required"`
	EntityID    *id.ID    `json:"entityId"`
	PeriodStart time.Time `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time `json:"periodEnd" binding:"required"`

	IncludeProjections bool        `json:"includeProjections"`
	PricePerArroba     types.Money `json:"pricePerArroba"`
	CarcassYieldPct    float64     `json:"carcassYieldPct"`
}

// ToParams converts to the builder parameters.
func (r BuildStatementRequest) ToParams() dre.Params {
	return dre.Params{
		EntityType:         dre.EntityType(r.EntityType),
		EntityID:           r.EntityID,
		PeriodStart:        r.PeriodStart,
		PeriodEnd:          r.PeriodEnd,
		IncludeProjections: r.IncludeProjections,
		PricePerArroba:     r.PricePerArroba,
		CarcassYieldPct:    r.CarcassYieldPct,
	}
}

// CompareRequest ranks two or more entities over the same period.
type CompareRequest struct {
	EntityType  string    `json:"entityType" binding:"required"`
	EntityIDs   []id.ID   `json:"entityIds" binding:"required,min=2"`
	PeriodStart time.Time `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time `json:"periodEnd" binding:"required"`
}
