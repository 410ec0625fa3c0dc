// Package simulation answers "sell now or keep feeding": it prices a lot at
// today's weight and at a projected future weight and compares the profits.
package simulation

import (
	"context"
	"time"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/core/units"
	"confina/internal/domain/finance/costing"
	"confina/internal/domain/herd/lot"
)

const (
	RecommendSellNow = "sell_now"
	RecommendWait    = "wait"
)

// Input parameterizes one simulation run. GMD overrides the lot's estimate;
// zero means use the lot's own value.
type Input struct {
	AsOf time.Time

	DailyCostPerHead types.Money
	GMD              float64
	ProjectedDays    int

	SalePriceToday     types.Money
	SalePriceProjected types.Money

	CarcassYieldTodayPct     float64
	CarcassYieldProjectedPct float64
}

// Scenario is one priced outcome, same shape for today and projected.
type Scenario struct {
	Days     int     `json:"dias"`
	WeightKg float64 `json:"pesoKg"`
	Arrobas  float64 `json:"arrobas"`

	Revenue types.Money `json:"receita"`
	Cost    types.Money `json:"custo"`
	Profit  types.Money `json:"lucro"`
	Margin  types.Money `json:"margem"`
}

// Result holds both scenarios and the recommendation. Projected is nil when
// ProjectedDays is zero; there is nothing to compare against.
type Result struct {
	LotID id.ID `json:"lotId"`

	Today     Scenario  `json:"hoje"`
	Projected *Scenario `json:"projetado,omitempty"`

	Recommendation string `json:"recomendacao"`
}

// Simulator prices sale scenarios. Cost to date comes from the ledger through
// the aggregator, never from the simulation itself.
type Simulator struct {
	lots  lot.Repository
	costs *costing.Aggregator
}

// New creates a simulator.
func New(lots lot.Repository, costs *costing.Aggregator) *Simulator {
	return &Simulator{lots: lots, costs: costs}
}

// Simulate fetches the lot and its accumulated cost, then runs Run.
func (s *Simulator) Simulate(ctx context.Context, lotID id.ID, in Input) (*Result, error) {
	l, err := s.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperror.NewNotFound("lot", lotID)
	}

	breakdown, err := s.costs.Aggregate(ctx, costing.Query{
		LotIDs: []id.ID{l.ID},
		From:   l.EntryDate,
		To:     in.AsOf,
	})
	if err != nil {
		return nil, err
	}

	return Run(l, breakdown.Total, in)
}

// Run is the pure scenario computation over an already-loaded lot and its
// cost to date. Safe to call concurrently.
func Run(l *lot.Lot, costToDate types.Money, in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	gmd := in.GMD
	if gmd <= 0 {
		gmd = l.EstimatedGMD
	}
	heads := l.CurrentQuantity()
	days := l.DaysInConfinement(in.AsOf)

	weightToday := units.ProjectedWeight(l.EntryWeightKg, gmd, heads, days) - l.WeightLossKg
	if weightToday < 0 {
		weightToday = 0
	}

	res := &Result{
		LotID:          l.ID,
		Today:          scenario(weightToday, in.CarcassYieldTodayPct, in.SalePriceToday, costToDate, days),
		Recommendation: RecommendSellNow,
	}

	// ProjectedDays of zero is the immediate case: only today is priced and
	// no comparison is meaningful.
	if in.ProjectedDays == 0 {
		return res, nil
	}

	weightLater := units.ProjectedWeight(weightToday, gmd, heads, in.ProjectedDays)
	extraCost := in.DailyCostPerHead.
		Mul(types.NewMoney(float64(heads))).
		Mul(types.NewMoney(float64(in.ProjectedDays)))

	projected := scenario(weightLater, in.CarcassYieldProjectedPct, in.SalePriceProjected,
		costToDate.Add(extraCost), days+in.ProjectedDays)
	res.Projected = &projected

	if projected.Profit.GreaterThan(res.Today.Profit) {
		res.Recommendation = RecommendWait
	}
	return res, nil
}

func scenario(weightKg, yieldPct float64, pricePerArroba, cost types.Money, days int) Scenario {
	arrobas := units.ArrobasFromLive(weightKg, yieldPct)
	revenue := units.GrossValue(arrobas, pricePerArroba)
	profit := revenue.Sub(cost)

	return Scenario{
		Days:     days,
		WeightKg: weightKg,
		Arrobas:  arrobas,
		Revenue:  revenue,
		Cost:     cost,
		Profit:   profit,
		Margin:   types.Percent(profit, revenue),
	}
}

func validate(in Input) error {
	if in.AsOf.IsZero() {
		return apperror.NewValidation("reference date is required").
			WithDetail("field", "asOf")
	}
	if in.ProjectedDays < 0 {
		return apperror.NewValidation("projected days must not be negative").
			WithDetail("field", "projectedDays")
	}
	if in.CarcassYieldTodayPct <= 0 || in.CarcassYieldTodayPct > 100 {
		return apperror.NewValidation("carcass yield must be in (0, 100]").
			WithDetail("field", "carcassYieldTodayPct")
	}
	if in.ProjectedDays > 0 && (in.CarcassYieldProjectedPct <= 0 || in.CarcassYieldProjectedPct > 100) {
		return apperror.NewValidation("carcass yield must be in (0, 100]").
			WithDetail("field", "carcassYieldProjectedPct")
	}
	return nil
}
