package dto

import (
	"time"

	"confina/internal/core/types"
	"confina/internal/domain/finance/simulation"
)

// SimulateRequest prices sell-now against feed-and-wait for a lot.
type SimulateRequest struct {
	AsOf time.Time `json:"asOf" binding:"required"`

	DailyCostPerHead types.Money `json:"dailyCostPerHead"`
	GMD              float64     `json:"gmd"`
	ProjectedDays    int         `json:"projectedDays"`

	SalePriceToday     types.Money `json:"salePriceToday" binding:"required"`
	SalePriceProjected types.Money `json:"salePriceProjected"`

	CarcassYieldTodayPct     float64 `json:"carcassYieldTodayPct" binding:"required,gt=0,lte=100"`
	CarcassYieldProjectedPct float64 `json:"carcassYieldProjectedPct"`
}

// ToInput converts to the simulator input.
func (r SimulateRequest) ToInput() simulation.Input {
	return simulation.Input{
		AsOf:                     r.AsOf,
		DailyCostPerHead:         r.DailyCostPerHead,
		GMD:                      r.GMD,
		ProjectedDays:            r.ProjectedDays,
		SalePriceToday:           r.SalePriceToday,
		SalePriceProjected:       r.SalePriceProjected,
		CarcassYieldTodayPct:     r.CarcassYieldTodayPct,
		CarcassYieldProjectedPct: r.CarcassYieldProjectedPct,
	}
}
