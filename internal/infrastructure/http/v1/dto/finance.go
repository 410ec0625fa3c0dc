package dto

import (
	"time"

	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/allocation"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/finance/sale"
)

// PostEntryRequest creates a cost or revenue entry.
type PostEntryRequest struct {
	Date        time.Time   `json:"date" binding:"required"`
	Category    string      `json:"category" binding:"required"`
	CostCenter  string      `json:"costCenter" binding:"required"`
	Amount      types.Money `json:"amount" binding:"required"`
	TargetType  string      `json:"targetType" binding:"required"`
	TargetID    id.ID       `json:"targetId" binding:"required"`
	Description string      `json:"description"`
}

// ToEntry builds the domain entry; cash-flow impact follows the category.
func (r PostEntryRequest) ToEntry() *ledger.Entry {
	e := ledger.NewEntry(r.Date, ledger.Category(r.Category),
		ledger.CostCenter(r.CostCenter), r.Amount,
		ledger.TargetType(r.TargetType), r.TargetID)
	e.Description = r.Description
	return e
}

// VoidEntryRequest reverses a posted entry at the given date.
type VoidEntryRequest struct {
	Date time.Time `json:"date" binding:"required"`
}

// EntryListQuery narrows ledger listings.
type EntryListQuery struct {
	TargetType        string     `form:"targetType"`
	TargetID          string     `form:"targetId"`
	CostCenter        string     `form:"costCenter"`
	Category          string     `form:"category"`
	From              *time.Time `form:"from" time_format:"2006-01-02"`
	To                *time.Time `form:"to" time_format:"2006-01-02"`
	CashImpactingOnly bool       `form:"cashOnly"`
	IncludeVoided     bool       `form:"includeVoided"`
}

// ToFilter converts to the repository filter.
func (q EntryListQuery) ToFilter() (ledger.Filter, error) {
	f := ledger.Filter{
		TargetType:        ledger.TargetType(q.TargetType),
		From:              q.From,
		To:                q.To,
		CashImpactingOnly: q.CashImpactingOnly,
		IncludeVoided:     q.IncludeVoided,
	}
	if q.TargetID != "" {
		targetID, err := id.Parse(q.TargetID)
		if err != nil {
			return f, err
		}
		f.TargetIDs = []id.ID{targetID}
	}
	if q.CostCenter != "" {
		f.CostCenters = []ledger.CostCenter{ledger.CostCenter(q.CostCenter)}
	}
	if q.Category != "" {
		f.Categories = []ledger.Category{ledger.Category(q.Category)}
	}
	return f, nil
}

// RegisterSaleRequest records a sale of animals from a lot.
type RegisterSaleRequest struct {
	LotID           id.ID       `json:"lotId" binding:"required"`
	Date            time.Time   `json:"date" binding:"required"`
	Quantity        int         `json:"quantity" binding:"required,min=1"`
	LiveWeightKg    float64     `json:"liveWeightKg" binding:"required,gt=0"`
	CarcassYieldPct float64     `json:"carcassYieldPct" binding:"required,gt=0,lte=100"`
	PricePerArroba  types.Money `json:"pricePerArroba" binding:"required"`
	Buyer           string      `json:"buyer"`
}

// ToRecord builds the domain sale record.
func (r RegisterSaleRequest) ToRecord() *sale.Record {
	rec := sale.NewRecord(r.LotID, r.Date, r.Quantity,
		r.LiveWeightKg, r.CarcassYieldPct, r.PricePerArroba)
	rec.Buyer = r.Buyer
	return rec
}

// CreateAllocationRequest opens a rateio draft.
type CreateAllocationRequest struct {
	CostType    string      `json:"costType" binding:"required"`
	Method      string      `json:"method" binding:"required"`
	PeriodStart time.Time   `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time   `json:"periodEnd" binding:"required"`
	TotalAmount types.Money `json:"totalAmount" binding:"required"`
	LotIDs      []id.ID     `json:"lotIds"`
}

// ToInput converts to the service input.
func (r CreateAllocationRequest) ToInput() (allocation.CreateInput, error) {
	method, err := allocation.ParseMethod(r.Method)
	if err != nil {
		return allocation.CreateInput{}, err
	}
	return allocation.CreateInput{
		CostType:    allocation.CostType(r.CostType),
		Method:      method,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		TotalAmount: r.TotalAmount,
		LotIDs:      r.LotIDs,
	}, nil
}

// OverrideLineRequest edits one line's amount on a draft.
type OverrideLineRequest struct {
	LotID  id.ID       `json:"lotId" binding:"required"`
	Amount types.Money `json:"amount" binding:"required"`
}

// AllocationListQuery narrows rateio listings.
type AllocationListQuery struct {
	Status   string `form:"status"`
	CostType string `form:"costType"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// ToFilter converts to the repository filter.
func (q AllocationListQuery) ToFilter() allocation.Filter {
	return allocation.Filter{
		Status:   allocation.Status(q.Status),
		CostType: allocation.CostType(q.CostType),
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
}
