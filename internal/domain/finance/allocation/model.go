// Package allocation provides the indirect cost rateio: distributing a lump
// overhead amount across target lots so the parts reconcile exactly to the
// whole.
package allocation

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/entity"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/ledger"
)

// CostType is the nature of the overhead being distributed.
type CostType string

const (
	CostAdministrative CostType = "administrative"
	CostFinancial      CostType = "financial"
	CostOperational    CostType = "operational"
	CostMarketing      CostType = "marketing"
)

// Valid reports whether the cost type is known.
func (t CostType) Valid() bool {
	switch t {
	case CostAdministrative, CostFinancial, CostOperational, CostMarketing:
		return true
	}
	return false
}

// LedgerMapping returns the category and cost center an applied allocation
// materializes into.
func (t CostType) LedgerMapping() (ledger.Category, ledger.CostCenter) {
	switch t {
	case CostFinancial:
		return ledger.CategoryFinancialOverhead, ledger.CostCenterFinancial
	case CostOperational:
		return ledger.CategoryOperational, ledger.CostCenterAdministrative
	case CostMarketing:
		return ledger.CategoryMarketing, ledger.CostCenterSales
	default:
		return ledger.CategoryAdministrative, ledger.CostCenterAdministrative
	}
}

// Status is the rateio lifecycle state. Transitions are monotonic:
// draft → approved → applied, never backward.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusApplied  Status = "applied"
)

// CanTransitionTo reports whether the move is a legal forward step.
func (s Status) CanTransitionTo(to Status) bool {
	switch s {
	case StatusDraft:
		return to == StatusApproved
	case StatusApproved:
		return to == StatusApplied
	}
	return false
}

// Line is one target's share of the distribution.
type Line struct {
	LotID id.ID `db:"lot_id" json:"entityId"`

	// Basis snapshot at distribution time.
	Heads           int         `db:"heads" json:"heads,omitempty"`
	AccumulatedCost types.Money `db:"accumulated_cost" json:"value,omitempty"`
	HeadDays        int64       `db:"head_days" json:"days,omitempty"`
	WeightKg        float64     `db:"weight_kg" json:"weight,omitempty"`

	// Percentage of the total, rounded to 0.01.
	Percentage types.Money `db:"percentage" json:"percentage"`

	// Amount allocated to this lot, rounded to the cent.
	Amount types.Money `db:"amount" json:"allocatedAmount"`

	// ManualOverride marks a user-edited amount (last-writer-wins).
	ManualOverride bool `db:"manual_override" json:"manualOverride,omitempty"`
}

// Allocation is one rateio run.
type Allocation struct {
	entity.Document

	CostType CostType `db:"cost_type" json:"costType"`
	Method   Method   `db:"method" json:"allocationMethod"`

	PeriodStart time.Time `db:"period_start" json:"periodStart"`
	PeriodEnd   time.Time `db:"period_end" json:"periodEnd"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	Status      Status      `db:"status" json:"status"`

	Lines []Line `db:"-" json:"allocations"`
}

// NewAllocation creates a draft rateio.
func NewAllocation(costType CostType, method Method, periodStart, periodEnd time.Time, total types.Money) *Allocation {
	return &Allocation{
		Document:    entity.NewDocument(time.Now().UTC()),
		CostType:    costType,
		Method:      method,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TotalAmount: total,
		Status:      StatusDraft,
	}
}

// Validate implements entity.Validatable.
func (a *Allocation) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}
	if !a.CostType.Valid() {
		return apperror.NewValidation("unknown cost type").
			WithDetail("field", "costType").
			WithDetail("value", string(a.CostType))
	}
	if a.PeriodEnd.Before(a.PeriodStart) {
		return apperror.NewInvalidPeriod(
			a.PeriodStart.Format(time.DateOnly), a.PeriodEnd.Format(time.DateOnly))
	}
	if !a.TotalAmount.IsPositive() {
		return apperror.NewInvalidAllocation("total amount must be positive")
	}
	return nil
}

// TransitionTo moves the allocation forward in its lifecycle.
func (a *Allocation) TransitionTo(to Status) error {
	if !a.Status.CanTransitionTo(to) {
		return apperror.NewInvalidTransition(string(a.Status), string(to))
	}
	a.Status = to
	a.Touch()
	return nil
}

// Mutable reports whether lines may still change.
func (a *Allocation) Mutable() bool {
	return a.Status == StatusDraft
}
