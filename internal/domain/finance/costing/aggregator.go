// Package costing aggregates ledger entries into categorized cost breakdowns
// scoped to a lot, a set of lots or a pen over a period.
package costing

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/ledger"
)

// PenResolver resolves the lots allocated to a pen during a period.
// Implemented by the pen service.
type PenResolver interface {
	LotsInPen(ctx context.Context, penID id.ID, from, to time.Time) ([]id.ID, error)
}

// Breakdown is a categorized cost summary.
//
// Total includes non-cash write-offs (mortality, weight loss): they are part
// of cost of goods sold. CashImpacting excludes them for cash-flow reporting.
type Breakdown struct {
	Acquisition types.Money `json:"aquisicao"`
	Feed        types.Money `json:"alimentacao"`
	Health      types.Money `json:"sanidade"`
	Freight     types.Money `json:"frete"`
	Operational types.Money `json:"operacional"`
	Mortality   types.Money `json:"mortalidade"`
	WeightLoss  types.Money `json:"quebraDePeso"`
	Other       types.Money `json:"outros"`

	Total         types.Money `json:"total"`
	CashImpacting types.Money `json:"totalCaixa"`
}

// Query scopes an aggregation. Exactly one of LotIDs or PenID is expected;
// an empty CostCenters list means every cost-side center.
type Query struct {
	LotIDs []id.ID
	PenID  *id.ID

	CostCenters []ledger.CostCenter

	From time.Time
	To   time.Time
}

// Aggregator reduces cost entries. It mutates nothing; entries come from the
// repository collaborator on every call, so concurrent use needs no locking.
type Aggregator struct {
	entries ledger.Repository
	pens    PenResolver
}

// New creates an aggregator.
func New(entries ledger.Repository, pens PenResolver) *Aggregator {
	return &Aggregator{entries: entries, pens: pens}
}

// Aggregate produces the categorized breakdown for the query scope.
// A period with no entries yields a zero-valued breakdown, not an error.
func (a *Aggregator) Aggregate(ctx context.Context, q Query) (*Breakdown, error) {
	entries, err := a.load(ctx, q)
	if err != nil {
		return nil, err
	}

	b := &Breakdown{}
	for i := range entries {
		e := &entries[i]
		if e.Category.IsRevenue() {
			continue
		}

		switch e.Category {
		case ledger.CategoryAnimalPurchase:
			b.Acquisition = b.Acquisition.Add(e.Amount)
		case ledger.CategoryFeed:
			b.Feed = b.Feed.Add(e.Amount)
		case ledger.CategoryHealth:
			b.Health = b.Health.Add(e.Amount)
		case ledger.CategoryFreight:
			b.Freight = b.Freight.Add(e.Amount)
		case ledger.CategoryOperational:
			b.Operational = b.Operational.Add(e.Amount)
		case ledger.CategoryMortality:
			b.Mortality = b.Mortality.Add(e.Amount)
		case ledger.CategoryWeightLoss:
			b.WeightLoss = b.WeightLoss.Add(e.Amount)
		default:
			b.Other = b.Other.Add(e.Amount)
		}

		b.Total = b.Total.Add(e.Amount)
		if e.ImpactsCashFlow {
			b.CashImpacting = b.CashImpacting.Add(e.Amount)
		}
	}
	return b, nil
}

// SumByCategory reduces the scope into per-category sums, revenue categories
// included. Used by the DRE builder for operating expenses and the financial
// result lines.
func (a *Aggregator) SumByCategory(ctx context.Context, q Query) (map[ledger.Category]types.Money, error) {
	entries, err := a.load(ctx, q)
	if err != nil {
		return nil, err
	}

	sums := make(map[ledger.Category]types.Money, len(entries))
	for i := range entries {
		e := &entries[i]
		cur, ok := sums[e.Category]
		if !ok {
			cur = types.Zero()
		}
		sums[e.Category] = cur.Add(e.Amount)
	}
	return sums, nil
}

func (a *Aggregator) load(ctx context.Context, q Query) ([]ledger.Entry, error) {
	if q.To.Before(q.From) {
		return nil, apperror.NewInvalidPeriod(q.From.Format(time.DateOnly), q.To.Format(time.DateOnly))
	}

	lotIDs := make([]id.ID, 0, len(q.LotIDs))
	lotIDs = append(lotIDs, q.LotIDs...)
	if q.PenID != nil {
		resolved, err := a.pens.LotsInPen(ctx, *q.PenID, q.From, q.To)
		if err != nil {
			return nil, err
		}
		lotIDs = append(lotIDs, resolved...)
	}
	// An empty lot set is an empty scope. Passing it through would drop the
	// target restriction and aggregate every lot in the window.
	if len(lotIDs) == 0 {
		return nil, nil
	}

	from, to := q.From, q.To
	return a.entries.List(ctx, ledger.Filter{
		TargetType:  ledger.TargetLot,
		TargetIDs:   lotIDs,
		CostCenters: q.CostCenters,
		From:        &from,
		To:          &to,
	})
}
