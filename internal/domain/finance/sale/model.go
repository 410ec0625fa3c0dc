// Package sale provides the SaleRecord document: realized revenue for a lot.
package sale

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/entity"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/core/units"
)

// Record is one sale of animals from a lot.
type Record struct {
	entity.Document

	LotID id.ID `db:"lot_id" json:"lotId"`

	Quantity        int     `db:"quantity" json:"quantity"`
	LiveWeightKg    float64 `db:"live_weight_kg" json:"liveWeightKg"`
	CarcassYieldPct float64 `db:"carcass_yield_pct" json:"carcassYieldPct"`

	PricePerArroba types.Money `db:"price_per_arroba" json:"pricePerArroba"`
	GrossRevenue   types.Money `db:"gross_revenue" json:"grossRevenue"`

	Buyer string `db:"buyer" json:"buyer,omitempty"`
}

// NewRecord creates a sale record; gross revenue is priced from the
// carcass arrobas when not supplied.
func NewRecord(lotID id.ID, date time.Time, quantity int, liveKg, yieldPct float64, pricePerArroba types.Money) *Record {
	r := &Record{
		Document:        entity.NewDocument(date),
		LotID:           lotID,
		Quantity:        quantity,
		LiveWeightKg:    liveKg,
		CarcassYieldPct: yieldPct,
		PricePerArroba:  pricePerArroba,
	}
	r.GrossRevenue = units.GrossValue(units.ArrobasFromLive(liveKg, yieldPct), pricePerArroba)
	return r
}

// Arrobas returns the carcass arrobas sold.
func (r *Record) Arrobas() float64 {
	return units.ArrobasFromLive(r.LiveWeightKg, r.CarcassYieldPct)
}

// Validate implements entity.Validatable.
func (r *Record) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(r.LotID) {
		return apperror.NewValidation("lot is required").
			WithDetail("field", "lotId")
	}
	if r.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if r.LiveWeightKg <= 0 {
		return apperror.NewValidation("live weight must be positive").
			WithDetail("field", "liveWeightKg")
	}
	if r.CarcassYieldPct <= 0 || r.CarcassYieldPct > 100 {
		return apperror.NewValidation("carcass yield must be in (0, 100]").
			WithDetail("field", "carcassYieldPct")
	}
	if !r.GrossRevenue.IsPositive() {
		return apperror.NewValidation("gross revenue must be positive").
			WithDetail("field", "grossRevenue")
	}
	return nil
}
