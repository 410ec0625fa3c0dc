// Package units provides live weight, carcass weight and arroba conversions
// plus per-head and per-arroba derived metrics.
//
// Weights are physical quantities and stay float64; anything monetary goes
// through types.Money so repeated aggregation never drifts.
package units

import (
	"confina/internal/core/types"
)

// KgPerArroba is the carcass weight of one arroba.
const KgPerArroba = 15.0

// CarcassWeight converts live weight to carcass weight given a
// carcass yield percentage (rendimento de carcaça).
func CarcassWeight(liveKg, yieldPct float64) float64 {
	return liveKg * yieldPct / 100
}

// Arrobas converts carcass weight in kilograms to arrobas.
func Arrobas(carcassKg float64) float64 {
	return carcassKg / KgPerArroba
}

// ArrobasFromLive converts live weight directly to arrobas.
func ArrobasFromLive(liveKg, yieldPct float64) float64 {
	return Arrobas(CarcassWeight(liveKg, yieldPct))
}

// CostPerArroba divides a total cost by arrobas.
// Returns zero when arrobas is not positive: the metric is undefined, and
// callers must treat the zero specially since a zero cost per arroba is
// otherwise implausible.
func CostPerArroba(total types.Money, arrobas float64) types.Money {
	if arrobas <= 0 {
		return types.Zero()
	}
	return total.Div(types.NewMoney(arrobas))
}

// PerHead divides a total by head count, zero when the herd is empty.
func PerHead(total types.Money, heads int) types.Money {
	return types.Ratio(total, int64(heads))
}

// ProjectedWeight applies a linear GMD (daily weight gain per head) model
// over a number of days to a total lot weight. No diminishing returns are
// modeled; this mirrors the product's projection rule.
func ProjectedWeight(totalKg, gmdKgPerHeadDay float64, heads, days int) float64 {
	if heads <= 0 || days <= 0 {
		return totalKg
	}
	return totalKg + gmdKgPerHeadDay*float64(heads)*float64(days)
}

// GrossValue prices a number of arrobas at a price per arroba.
func GrossValue(arrobas float64, pricePerArroba types.Money) types.Money {
	return pricePerArroba.Mul(types.NewMoney(arrobas))
}
