// Package ledger provides the CostEntry document: a single dated cost or
// revenue record scoped to a lot or a cost center. Entries are immutable once
// posted; corrections happen through void/reversal.
package ledger

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/entity"
	"confina/internal/core/id"
	"confina/internal/core/types"
)

// CostCenter classifies where in the operation an entry belongs.
type CostCenter string

const (
	CostCenterAcquisition    CostCenter = "acquisition"
	CostCenterFattening      CostCenter = "fattening"
	CostCenterAdministrative CostCenter = "administrative"
	CostCenterFinancial      CostCenter = "financial"
	CostCenterSales          CostCenter = "sales"
	CostCenterRevenue        CostCenter = "revenue"
	CostCenterContributions  CostCenter = "contributions"
)

// Valid reports whether the cost center is a known value.
func (c CostCenter) Valid() bool {
	switch c {
	case CostCenterAcquisition, CostCenterFattening, CostCenterAdministrative,
		CostCenterFinancial, CostCenterSales, CostCenterRevenue, CostCenterContributions:
		return true
	}
	return false
}

// Category is the fine-grained nature of an entry.
type Category string

const (
	CategoryAnimalPurchase   Category = "animal_purchase"
	CategoryFeed             Category = "feed"
	CategoryHealth           Category = "health"
	CategoryFreight          Category = "freight"
	CategoryOperational      Category = "operational"
	CategoryMortality        Category = "mortality"
	CategoryWeightLoss       Category = "weight_loss"
	CategoryDepreciation     Category = "depreciation"
	CategoryCapitalCost      Category = "capital_cost"
	CategoryDefaultProvision Category = "default_provision"
	CategoryAdministrative   Category = "administrative"
	CategoryMarketing        Category = "marketing"
	// CategoryFinancialOverhead is rateio'd financial overhead. It lands in
	// operating expenses, unlike CategoryFinancialExpense which feeds the
	// financial result line.
	CategoryFinancialOverhead Category = "financial_overhead"
	CategorySalesDeduction   Category = "sales_deduction"
	CategorySaleRevenue      Category = "sale_revenue"
	CategoryFinancialRevenue Category = "financial_revenue"
	CategoryFinancialExpense Category = "financial_expense"
	CategoryOther            Category = "other"
)

// Valid reports whether the category is a known value.
func (c Category) Valid() bool {
	switch c {
	case CategoryAnimalPurchase, CategoryFeed, CategoryHealth, CategoryFreight,
		CategoryOperational, CategoryMortality, CategoryWeightLoss, CategoryDepreciation,
		CategoryCapitalCost, CategoryDefaultProvision, CategoryAdministrative,
		CategoryMarketing, CategoryFinancialOverhead, CategorySalesDeduction, CategorySaleRevenue,
		CategoryFinancialRevenue, CategoryFinancialExpense, CategoryOther:
		return true
	}
	return false
}

// ImpactsCashFlow returns the cash-flow default for the category.
// Non-cash categories hit the DRE but never cash flow.
func (c Category) ImpactsCashFlow() bool {
	switch c {
	case CategoryMortality, CategoryWeightLoss, CategoryDepreciation,
		CategoryCapitalCost, CategoryDefaultProvision:
		return false
	}
	return true
}

// IsRevenue reports whether the category records income rather than cost.
// Revenue entries never roll into a lot's accumulated cost snapshot.
func (c Category) IsRevenue() bool {
	return c == CategorySaleRevenue || c == CategoryFinancialRevenue
}

// TargetType identifies what an entry is posted against.
type TargetType string

const (
	TargetLot        TargetType = "lot"
	TargetCostCenter TargetType = "cost_center"
)

// Entry is a single dated cost or revenue record.
type Entry struct {
	entity.Document

	Category        Category   `db:"category" json:"category"`
	CostCenter      CostCenter `db:"cost_center" json:"costCenter"`
	Amount          types.Money `db:"amount" json:"amount"`
	ImpactsCashFlow bool       `db:"impacts_cash_flow" json:"impactsCashFlow"`

	TargetType TargetType `db:"target_type" json:"targetType"`
	TargetID   id.ID      `db:"target_id" json:"targetId"`

	Description string `db:"description" json:"description,omitempty"`

	// Voided entries stay in the ledger for audit but are excluded
	// from every aggregation.
	Voided     bool   `db:"voided" json:"voided"`
	ReversalOf *id.ID `db:"reversal_of" json:"reversalOf,omitempty"`
}

// NewEntry creates a cost entry with the category's cash-flow default.
func NewEntry(date time.Time, category Category, costCenter CostCenter, amount types.Money, targetType TargetType, targetID id.ID) *Entry {
	return &Entry{
		Document:        entity.NewDocument(date),
		Category:        category,
		CostCenter:      costCenter,
		Amount:          amount,
		ImpactsCashFlow: category.ImpactsCashFlow(),
		TargetType:      targetType,
		TargetID:        targetID,
	}
}

// Validate implements entity.Validatable.
func (e *Entry) Validate(ctx context.Context) error {
	if err := e.Document.Validate(ctx); err != nil {
		return err
	}

	if !e.Category.Valid() {
		return apperror.NewValidation("unknown category").
			WithDetail("field", "category").
			WithDetail("value", string(e.Category))
	}

	if !e.CostCenter.Valid() {
		return apperror.NewValidation("unknown cost center").
			WithDetail("field", "costCenter").
			WithDetail("value", string(e.CostCenter))
	}

	if e.TargetType != TargetLot && e.TargetType != TargetCostCenter {
		return apperror.NewValidation("unknown target type").
			WithDetail("field", "targetType").
			WithDetail("value", string(e.TargetType))
	}

	if id.IsNil(e.TargetID) {
		return apperror.NewValidation("target is required").
			WithDetail("field", "targetId")
	}

	if e.Amount.IsZero() {
		return apperror.NewValidation("amount must be non-zero").
			WithDetail("field", "amount")
	}

	return nil
}

// Reversal builds the compensating entry that voids e.
func (e *Entry) Reversal(date time.Time) *Entry {
	rev := NewEntry(date, e.Category, e.CostCenter, e.Amount.Neg(), e.TargetType, e.TargetID)
	rev.ImpactsCashFlow = e.ImpactsCashFlow
	rev.Description = "estorno: " + e.Number
	eid := e.ID
	rev.ReversalOf = &eid
	return rev
}
