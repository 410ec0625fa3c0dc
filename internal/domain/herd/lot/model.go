// Package lot provides the Lot catalog: one purchased batch of animals and
// its accumulated cost snapshot.
package lot

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/entity"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/core/units"
	"confina/internal/domain/finance/ledger"
)

// Status is the lot lifecycle state.
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
)

// CostSnapshot is the per-category accumulated cost of a lot.
// Mutated incrementally as ledger entries are posted against the lot;
// the ledger remains the source of truth for period-scoped queries.
type CostSnapshot struct {
	Acquisition types.Money `db:"cost_acquisition" json:"aquisicao"`
	Feed        types.Money `db:"cost_feed" json:"alimentacao"`
	Health      types.Money `db:"cost_health" json:"sanidade"`
	Freight     types.Money `db:"cost_freight" json:"frete"`
	Operational types.Money `db:"cost_operational" json:"operacional"`
	Other       types.Money `db:"cost_other" json:"outros"`
	Total       types.Money `db:"cost_total" json:"total"`
}

// Add rolls a posted amount into the snapshot bucket for its category.
func (s *CostSnapshot) Add(category ledger.Category, amount types.Money) {
	switch category {
	case ledger.CategoryAnimalPurchase:
		s.Acquisition = s.Acquisition.Add(amount)
	case ledger.CategoryFeed:
		s.Feed = s.Feed.Add(amount)
	case ledger.CategoryHealth:
		s.Health = s.Health.Add(amount)
	case ledger.CategoryFreight:
		s.Freight = s.Freight.Add(amount)
	case ledger.CategoryOperational:
		s.Operational = s.Operational.Add(amount)
	default:
		s.Other = s.Other.Add(amount)
	}
	s.Total = s.Total.Add(amount)
}

// Lot represents one purchased batch of animals.
type Lot struct {
	entity.BaseEntity

	Number     string `db:"number" json:"lotNumber"`
	PurchaseID id.ID  `db:"purchase_id" json:"purchaseId"`

	EntryDate     time.Time `db:"entry_date" json:"entryDate"`
	EntryQuantity int       `db:"entry_quantity" json:"entryQuantity"`
	EntryWeightKg float64   `db:"entry_weight_kg" json:"entryWeight"`

	// Deaths and WeightLossKg track non-cash herd shrinkage.
	Deaths       int     `db:"deaths" json:"deaths"`
	WeightLossKg float64 `db:"weight_loss_kg" json:"weightLossKg"`

	// EstimatedGMD is the expected daily weight gain per head, in kg.
	EstimatedGMD float64 `db:"estimated_gmd" json:"estimatedGmd"`

	Status Status     `db:"status" json:"status"`
	SoldAt *time.Time `db:"sold_at" json:"soldAt,omitempty"`

	Accumulated CostSnapshot `db:"-" json:"custoAcumulado"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates an active lot at reception.
func New(purchaseID id.ID, entryDate time.Time, quantity int, weightKg, gmd float64) *Lot {
	now := time.Now().UTC()
	return &Lot{
		BaseEntity:    entity.NewBaseEntity(),
		PurchaseID:    purchaseID,
		EntryDate:     entryDate,
		EntryQuantity: quantity,
		EntryWeightKg: weightKg,
		EstimatedGMD:  gmd,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate implements entity.Validatable.
func (l *Lot) Validate(ctx context.Context) error {
	if l.EntryDate.IsZero() {
		return apperror.NewValidation("entry date is required").
			WithDetail("field", "entryDate")
	}
	if l.EntryQuantity <= 0 {
		return apperror.NewValidation("entry quantity must be positive").
			WithDetail("field", "entryQuantity")
	}
	if l.EntryWeightKg <= 0 {
		return apperror.NewValidation("entry weight must be positive").
			WithDetail("field", "entryWeight")
	}
	if l.Deaths < 0 || l.Deaths > l.EntryQuantity {
		return apperror.NewValidation("deaths out of range").
			WithDetail("field", "deaths")
	}
	return nil
}

// CurrentQuantity is head count net of deaths.
func (l *Lot) CurrentQuantity() int {
	return l.EntryQuantity - l.Deaths
}

// DaysInConfinement counts whole days from entry to asOf (or the sale date
// when the lot is already sold and asOf is later).
func (l *Lot) DaysInConfinement(asOf time.Time) int {
	end := asOf
	if l.SoldAt != nil && l.SoldAt.Before(asOf) {
		end = *l.SoldAt
	}
	if end.Before(l.EntryDate) {
		return 0
	}
	return int(end.Sub(l.EntryDate).Hours() / 24)
}

// CurrentWeightKg projects total live weight at asOf using the linear GMD
// model, net of recorded weight loss.
func (l *Lot) CurrentWeightKg(asOf time.Time) float64 {
	days := l.DaysInConfinement(asOf)
	w := units.ProjectedWeight(l.EntryWeightKg, l.EstimatedGMD, l.CurrentQuantity(), days)
	w -= l.WeightLossKg
	if w < 0 {
		return 0
	}
	return w
}

// AverageCostPerHead is the accumulated total divided by current head count.
func (l *Lot) AverageCostPerHead() types.Money {
	return units.PerHead(l.Accumulated.Total, l.CurrentQuantity())
}

// Touch refreshes UpdatedAt and bumps the optimistic-lock version.
func (l *Lot) Touch() {
	l.UpdatedAt = time.Now().UTC()
	l.BaseEntity.Touch()
}

// MarkSold closes the lot at the given sale date.
func (l *Lot) MarkSold(saleDate time.Time) {
	l.Status = StatusSold
	l.SoldAt = &saleDate
	l.Touch()
}
