package dre

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/core/units"
	"confina/internal/domain/finance/costing"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/finance/sale"
	"confina/internal/domain/herd/lot"
)

// DefaultCarcassYieldPct prices unsold animals in revenue projections.
// Actual sales always carry their own measured yield.
const DefaultCarcassYieldPct = 50.0

var (
	incomeTaxRate          = decimal.NewFromFloat(0.15)
	socialContributionRate = decimal.NewFromFloat(0.09)
)

// Params scopes one statement build.
type Params struct {
	EntityType EntityType
	EntityID   *id.ID

	PeriodStart time.Time
	PeriodEnd   time.Time

	// IncludeProjections prices unsold lots at PricePerArroba using the
	// GMD weight projection.
	IncludeProjections bool
	PricePerArroba     types.Money

	// CarcassYieldPct for projections; DefaultCarcassYieldPct when zero.
	CarcassYieldPct float64
}

// Builder composes income statements from the ledger, sale records and the
// herd catalog. It holds no mutable state; concurrent builds need no locking.
type Builder struct {
	lots  lot.Repository
	sales sale.Repository
	costs *costing.Aggregator
	pens  costing.PenResolver
}

// NewBuilder creates a statement builder. pens may be nil when pen-scoped
// statements are not needed.
func NewBuilder(lots lot.Repository, sales sale.Repository, costs *costing.Aggregator, pens costing.PenResolver) *Builder {
	return &Builder{lots: lots, sales: sales, costs: costs, pens: pens}
}

// Build computes the statement for the given scope and period.
func (b *Builder) Build(ctx context.Context, p Params) (*Statement, error) {
	if p.PeriodEnd.Before(p.PeriodStart) {
		return nil, apperror.NewInvalidPeriod(
			p.PeriodStart.Format(time.DateOnly), p.PeriodEnd.Format(time.DateOnly))
	}
	if !p.EntityType.Valid() {
		return nil, apperror.NewValidation("unknown entity type").
			WithDetail("entityType", string(p.EntityType))
	}

	lots, label, err := b.resolveLots(ctx, p)
	if err != nil {
		return nil, err
	}

	lotIDs := make([]id.ID, len(lots))
	for i := range lots {
		lotIDs[i] = lots[i].ID
	}

	st := &Statement{
		EntityType:  p.EntityType,
		EntityID:    p.EntityID,
		EntityLabel: label,
		PeriodStart: p.PeriodStart,
		PeriodEnd:   p.PeriodEnd,
	}

	records, err := b.sales.ListByLots(ctx, lotIDs, p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return nil, err
	}

	arrobas := 0.0
	for i := range records {
		st.Revenue.GrossSales = st.Revenue.GrossSales.Add(records[i].GrossRevenue)
		arrobas += records[i].Arrobas()
	}
	if p.IncludeProjections {
		projected := b.projectRevenue(lots, p)
		st.Revenue.ProjectedRevenue = projected.amount
		arrobas += projected.arrobas
	}

	cogs, err := b.costs.Aggregate(ctx, costing.Query{
		LotIDs:      lotIDs,
		CostCenters: []ledger.CostCenter{ledger.CostCenterAcquisition, ledger.CostCenterFattening},
		From:        p.PeriodStart,
		To:          p.PeriodEnd,
	})
	if err != nil {
		return nil, err
	}
	st.CostOfGoodsSold = CostOfGoodsSold{
		AnimalPurchase: cogs.Acquisition,
		Feed:           cogs.Feed,
		Health:         cogs.Health,
		Freight:        cogs.Freight,
		Mortality:      cogs.Mortality,
		WeightLoss:     cogs.WeightLoss,
	}
	st.CostOfGoodsSold.Total = cogs.Acquisition.
		Add(cogs.Feed).Add(cogs.Health).Add(cogs.Freight).
		Add(cogs.Mortality).Add(cogs.WeightLoss)

	indirect, err := b.costs.SumByCategory(ctx, costing.Query{
		LotIDs: lotIDs,
		CostCenters: []ledger.CostCenter{
			ledger.CostCenterAdministrative, ledger.CostCenterFinancial,
			ledger.CostCenterSales, ledger.CostCenterRevenue, ledger.CostCenterContributions,
		},
		From: p.PeriodStart,
		To:   p.PeriodEnd,
	})
	if err != nil {
		return nil, err
	}

	st.Revenue.SalesDeductions = categorySum(indirect, ledger.CategorySalesDeduction)
	st.Revenue.NetSales = st.Revenue.GrossSales.
		Add(st.Revenue.ProjectedRevenue).
		Sub(st.Revenue.SalesDeductions)

	st.GrossProfit = st.Revenue.NetSales.Sub(st.CostOfGoodsSold.Total)
	st.GrossMargin = types.Percent(st.GrossProfit, st.Revenue.NetSales)

	st.OperatingExpenses = OperatingExpenses{
		Administrative: categorySum(indirect, ledger.CategoryAdministrative).
			Add(categorySum(indirect, ledger.CategoryOperational)),
		Sales:             categorySum(indirect, ledger.CategoryMarketing),
		FinancialOverhead: categorySum(indirect, ledger.CategoryFinancialOverhead),
		Depreciation:      categorySum(indirect, ledger.CategoryDepreciation),
		Other: categorySum(indirect, ledger.CategoryCapitalCost).
			Add(categorySum(indirect, ledger.CategoryDefaultProvision)).
			Add(categorySum(indirect, ledger.CategoryOther)),
	}
	st.OperatingExpenses.Total = st.OperatingExpenses.Administrative.
		Add(st.OperatingExpenses.Sales).
		Add(st.OperatingExpenses.FinancialOverhead).
		Add(st.OperatingExpenses.Depreciation).
		Add(st.OperatingExpenses.Other)

	st.OperatingIncome = st.GrossProfit.Sub(st.OperatingExpenses.Total)
	st.OperatingMargin = types.Percent(st.OperatingIncome, st.Revenue.NetSales)

	st.FinancialResult = FinancialResult{
		Revenue: categorySum(indirect, ledger.CategoryFinancialRevenue),
		Expense: categorySum(indirect, ledger.CategoryFinancialExpense),
	}
	st.FinancialResult.Total = st.FinancialResult.Revenue.Sub(st.FinancialResult.Expense)

	st.IncomeBeforeTaxes = st.OperatingIncome.Add(st.FinancialResult.Total)

	// No tax benefit is modeled for losses.
	taxable := st.IncomeBeforeTaxes
	if taxable.IsNegative() {
		taxable = types.Zero()
	}
	st.Taxes = Taxes{
		IncomeTax:          taxable.Mul(incomeTaxRate),
		SocialContribution: taxable.Mul(socialContributionRate),
	}
	st.Taxes.Total = st.Taxes.IncomeTax.Add(st.Taxes.SocialContribution)

	st.NetIncome = st.IncomeBeforeTaxes.Sub(st.Taxes.Total)
	st.NetMargin = types.Percent(st.NetIncome, st.Revenue.NetSales)

	st.Metrics = b.metrics(lots, st, arrobas, p.PeriodEnd)
	return st, nil
}

// resolveLots maps the scope to a concrete lot set and a display label.
func (b *Builder) resolveLots(ctx context.Context, p Params) ([]lot.Lot, string, error) {
	switch p.EntityType {
	case EntityLot:
		if p.EntityID == nil {
			return nil, "", apperror.NewValidation("entity id is required").
				WithDetail("entityType", string(p.EntityType))
		}
		l, err := b.lots.GetByID(ctx, *p.EntityID)
		if err != nil {
			return nil, "", err
		}
		if l == nil {
			return nil, "", apperror.NewNotFound("lot", *p.EntityID)
		}
		return []lot.Lot{*l}, l.Number, nil

	case EntityPen:
		if p.EntityID == nil {
			return nil, "", apperror.NewValidation("entity id is required").
				WithDetail("entityType", string(p.EntityType))
		}
		if b.pens == nil {
			return nil, "", apperror.NewValidation("pen scope is not available")
		}
		ids, err := b.pens.LotsInPen(ctx, *p.EntityID, p.PeriodStart, p.PeriodEnd)
		if err != nil {
			return nil, "", err
		}
		if len(ids) == 0 {
			return nil, "", apperror.NewNotFound("pen", *p.EntityID)
		}
		lots, err := b.lots.List(ctx, lot.Filter{IDs: ids})
		if err != nil {
			return nil, "", err
		}
		if len(lots) == 0 {
			return nil, "", apperror.NewNotFound("pen", *p.EntityID)
		}
		return lots, fmt.Sprintf("curral %s", p.EntityID.String()[:8]), nil

	case EntityGlobal:
		from, to := p.PeriodStart, p.PeriodEnd
		lots, err := b.lots.List(ctx, lot.Filter{ActivityFrom: &from, ActivityTo: &to})
		if err != nil {
			return nil, "", err
		}
		return lots, "confinamento", nil
	}
	return nil, "", apperror.NewValidation("unknown entity type")
}

type projection struct {
	amount  types.Money
	arrobas float64
}

// projectRevenue prices unsold lots at the given price per arroba using the
// linear GMD weight projection as of period end.
func (b *Builder) projectRevenue(lots []lot.Lot, p Params) projection {
	yield := p.CarcassYieldPct
	if yield <= 0 {
		yield = DefaultCarcassYieldPct
	}

	var out projection
	for i := range lots {
		l := &lots[i]
		if l.Status != lot.StatusActive {
			continue
		}
		arrobas := units.ArrobasFromLive(l.CurrentWeightKg(p.PeriodEnd), yield)
		out.amount = out.amount.Add(units.GrossValue(arrobas, p.PricePerArroba))
		out.arrobas += arrobas
	}
	return out
}

func (b *Builder) metrics(lots []lot.Lot, st *Statement, arrobas float64, asOf time.Time) Metrics {
	heads := 0
	days := 0
	for i := range lots {
		heads += lots[i].CurrentQuantity()
		if d := lots[i].DaysInConfinement(asOf); d > days {
			days = d
		}
	}

	totalCost := st.CostOfGoodsSold.Total.Add(st.OperatingExpenses.Total)
	revenue := st.Revenue.NetSales

	return Metrics{
		Heads:             heads,
		Arrobas:           arrobas,
		DaysInConfinement: days,

		RevenuePerHead: units.PerHead(revenue, heads),
		CostPerHead:    units.PerHead(totalCost, heads),
		ProfitPerHead:  units.PerHead(st.NetIncome, heads),

		RevenuePerArroba: units.CostPerArroba(revenue, arrobas),
		CostPerArroba:    units.CostPerArroba(totalCost, arrobas),
		ProfitPerArroba:  units.CostPerArroba(st.NetIncome, arrobas),

		ROI:         types.Percent(st.NetIncome, totalCost),
		DailyProfit: types.Ratio(st.NetIncome, int64(days)),
	}
}

func categorySum(sums map[ledger.Category]types.Money, c ledger.Category) types.Money {
	if v, ok := sums[c]; ok {
		return v
	}
	return types.Zero()
}
