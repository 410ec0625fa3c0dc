package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/herd/lot"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

// 10 heads entered March 1 at 3600 kg total, GMD 1.0 kg/head/day.
func fixtureLot() *lot.Lot {
	return lot.New(id.New(), day(1), 10, 3600, 1.0)
}

func TestRun_TodayScenario(t *testing.T) {
	l := fixtureLot()

	res, err := Run(l, types.MustMoney("30000"), Input{
		AsOf:                 day(31),
		SalePriceToday:       types.MustMoney("300"),
		CarcassYieldTodayPct: 50,
	})
	require.NoError(t, err)

	// 30 days of gain: 3600 + 10*30 = 3900 kg, 130 arrobas at 50% yield.
	assert.Equal(t, 30, res.Today.Days)
	assert.InDelta(t, 3900.0, res.Today.WeightKg, 0.001)
	assert.InDelta(t, 130.0, res.Today.Arrobas, 0.001)
	assert.True(t, types.MustMoney("39000").Equal(res.Today.Revenue), "got %s", res.Today.Revenue)
	assert.True(t, types.MustMoney("9000").Equal(res.Today.Profit))

	// Immediate case: no projection, nothing to wait for.
	assert.Nil(t, res.Projected)
	assert.Equal(t, RecommendSellNow, res.Recommendation)
}

func TestRun_ProjectedRecommendsWait(t *testing.T) {
	l := fixtureLot()

	res, err := Run(l, types.MustMoney("30000"), Input{
		AsOf:                     day(31),
		DailyCostPerHead:         types.MustMoney("8"),
		ProjectedDays:            30,
		SalePriceToday:           types.MustMoney("300"),
		SalePriceProjected:       types.MustMoney("300"),
		CarcassYieldTodayPct:     50,
		CarcassYieldProjectedPct: 50,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Projected)

	// 30 more days: 3900 + 300 = 4200 kg, 140 arrobas, revenue 42000.
	// Extra cost 8 * 10 * 30 = 2400; profit 42000 - 32400 = 9600 > 9000.
	assert.Equal(t, 60, res.Projected.Days)
	assert.InDelta(t, 4200.0, res.Projected.WeightKg, 0.001)
	assert.True(t, types.MustMoney("42000").Equal(res.Projected.Revenue), "got %s", res.Projected.Revenue)
	assert.True(t, types.MustMoney("32400").Equal(res.Projected.Cost))
	assert.True(t, types.MustMoney("9600").Equal(res.Projected.Profit))
	assert.Equal(t, RecommendWait, res.Recommendation)
}

func TestRun_ExpensiveFeedingRecommendsSellNow(t *testing.T) {
	l := fixtureLot()

	res, err := Run(l, types.MustMoney("30000"), Input{
		AsOf:                     day(31),
		DailyCostPerHead:         types.MustMoney("15"),
		ProjectedDays:            30,
		SalePriceToday:           types.MustMoney("300"),
		SalePriceProjected:       types.MustMoney("300"),
		CarcassYieldTodayPct:     50,
		CarcassYieldProjectedPct: 50,
	})
	require.NoError(t, err)

	// Extra cost 15 * 10 * 30 = 4500; profit 42000 - 34500 = 7500 < 9000.
	assert.True(t, types.MustMoney("7500").Equal(res.Projected.Profit), "got %s", res.Projected.Profit)
	assert.Equal(t, RecommendSellNow, res.Recommendation)
}

func TestRun_TieRecommendsSellNow(t *testing.T) {
	l := fixtureLot()

	// Price drop makes the projected profit exactly equal today's.
	res, err := Run(l, types.Zero(), Input{
		AsOf:                     day(31),
		DailyCostPerHead:         types.Zero(),
		ProjectedDays:            30,
		SalePriceToday:           types.MustMoney("280"),
		SalePriceProjected:       types.MustMoney("260"),
		CarcassYieldTodayPct:     50,
		CarcassYieldProjectedPct: 50,
	})
	require.NoError(t, err)

	// 130 @ * 280 = 36400 vs 140 @ * 260 = 36400. Ties never wait.
	assert.True(t, res.Today.Profit.Equal(res.Projected.Profit))
	assert.Equal(t, RecommendSellNow, res.Recommendation)
}

func TestRun_Validation(t *testing.T) {
	l := fixtureLot()

	_, err := Run(l, types.Zero(), Input{
		SalePriceToday:       types.MustMoney("300"),
		CarcassYieldTodayPct: 50,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = Run(l, types.Zero(), Input{
		AsOf:                 day(31),
		SalePriceToday:       types.MustMoney("300"),
		CarcassYieldTodayPct: 0,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = Run(l, types.Zero(), Input{
		AsOf:                 day(31),
		ProjectedDays:        -1,
		SalePriceToday:       types.MustMoney("300"),
		CarcassYieldTodayPct: 50,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}
