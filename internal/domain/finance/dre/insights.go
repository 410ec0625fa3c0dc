package dre

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"confina/internal/core/types"
)

// lowMarginThresholdPct flags entities whose net margin falls below it.
const lowMarginThresholdPct = 10.0

// mortalityShareThresholdPct flags entities whose mortality write-off exceeds
// this share of production cost.
const mortalityShareThresholdPct = 5.0

var lowMarginThreshold = decimal.NewFromFloat(lowMarginThresholdPct)

// generateInsights applies a fixed rule set over the compared statements.
// Rules are threshold comparisons only; output is deterministic for a given
// input ordering.
func generateInsights(statements []Statement) []Insight {
	var out []Insight

	mean, stddev := costPerArrobaStats(statements)

	for i := range statements {
		st := &statements[i]

		if st.Revenue.NetSales.IsPositive() && st.NetMargin.LessThan(lowMarginThreshold) {
			out = append(out, Insight{
				Severity:    SeverityWarning,
				EntityLabel: st.EntityLabel,
				Message: fmt.Sprintf("margem líquida de %s%% abaixo do limite de %.0f%%",
					types.RoundCents(st.NetMargin), lowMarginThresholdPct),
			})
		}

		if st.Metrics.ROI.IsNegative() {
			out = append(out, Insight{
				Severity:    SeverityAlert,
				EntityLabel: st.EntityLabel,
				Message:     fmt.Sprintf("retorno sobre investimento negativo: %s%%", types.RoundCents(st.Metrics.ROI)),
			})
		}

		if stddev > 0 {
			cpa, _ := st.Metrics.CostPerArroba.Float64()
			if cpa > mean+stddev {
				out = append(out, Insight{
					Severity:    SeverityWarning,
					EntityLabel: st.EntityLabel,
					Message: fmt.Sprintf("custo por arroba de %s acima da média do grupo (%.2f)",
						types.RoundCents(st.Metrics.CostPerArroba), mean),
				})
			}
		}

		if st.CostOfGoodsSold.Total.IsPositive() {
			share := types.Percent(st.CostOfGoodsSold.Mortality, st.CostOfGoodsSold.Total)
			if share.GreaterThan(decimal.NewFromFloat(mortalityShareThresholdPct)) {
				out = append(out, Insight{
					Severity:    SeverityAlert,
					EntityLabel: st.EntityLabel,
					Message: fmt.Sprintf("perdas por mortalidade representam %s%% do custo de produção",
						types.RoundCents(share)),
				})
			}
		}
	}
	return out
}

// costPerArrobaStats computes mean and population standard deviation of
// cost per arroba across statements that have arrobas.
func costPerArrobaStats(statements []Statement) (mean, stddev float64) {
	var values []float64
	for i := range statements {
		if statements[i].Metrics.Arrobas > 0 {
			v, _ := statements[i].Metrics.CostPerArroba.Float64()
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	varSum := 0.0
	for _, v := range values {
		varSum += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(varSum / float64(len(values)))
}
