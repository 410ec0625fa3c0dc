package dre

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/finance/sale"
)

func TestCompare_RanksByNetIncome(t *testing.T) {
	f := newFixture()

	// Profitable lot: sold well above cost.
	winner := f.addLot(50, day(1))
	f.post(winner.ID, day(1), ledger.CategoryAnimalPurchase, ledger.CostCenterAcquisition, "100000")
	f.sales.records = append(f.sales.records,
		*sale.NewRecord(winner.ID, day(28), 50, 25000, 54, types.MustMoney("310")))

	// Losing lot: costs with no revenue in the period.
	loser := f.addLot(50, day(1))
	f.post(loser.ID, day(1), ledger.CategoryAnimalPurchase, ledger.CostCenterAcquisition, "120000")

	cmp, err := NewComparator(f.builder).Compare(context.Background(),
		EntityLot, []id.ID{winner.ID, loser.ID}, day(1), day(31))
	require.NoError(t, err)

	require.Len(t, cmp.Statements, 2)
	assert.Equal(t, winner.Number, cmp.BestPerformer)
	assert.Equal(t, loser.Number, cmp.WorstPerformer)

	want := cmp.Statements[0].NetIncome.Add(cmp.Statements[1].NetIncome)
	assert.True(t, want.Equal(cmp.TotalNetIncome))

	wantMargin := types.Ratio(cmp.Statements[0].NetMargin.Add(cmp.Statements[1].NetMargin), 2)
	assert.True(t, wantMargin.Equal(cmp.AverageNetMargin))
}

func TestCompare_RequiresTwoEntities(t *testing.T) {
	f := newFixture()
	l := f.addLot(10, day(1))

	_, err := NewComparator(f.builder).Compare(context.Background(),
		EntityLot, []id.ID{l.ID}, day(1), day(31))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientEntities))
}

func TestCompare_InsightRules(t *testing.T) {
	f := newFixture()

	// Negative ROI lot triggers the alert rule.
	losing := f.addLot(50, day(1))
	f.post(losing.ID, day(1), ledger.CategoryAnimalPurchase, ledger.CostCenterAcquisition, "120000")

	// Thin margin lot: revenue barely above cost.
	thin := f.addLot(50, day(1))
	f.post(thin.ID, day(1), ledger.CategoryAnimalPurchase, ledger.CostCenterAcquisition, "270000")
	f.sales.records = append(f.sales.records,
		*sale.NewRecord(thin.ID, day(28), 50, 25000, 54, types.MustMoney("310")))

	cmp, err := NewComparator(f.builder).Compare(context.Background(),
		EntityLot, []id.ID{losing.ID, thin.ID}, day(1), day(31))
	require.NoError(t, err)

	severities := map[string][]string{}
	for _, in := range cmp.Insights {
		severities[in.EntityLabel] = append(severities[in.EntityLabel], in.Severity)
	}
	assert.Contains(t, severities[losing.Number], SeverityAlert)
	assert.Contains(t, severities[thin.Number], SeverityWarning)
}

func TestCompare_InsightsDeterministic(t *testing.T) {
	f := newFixture()
	a := f.addLot(50, day(1))
	b := f.addLot(50, day(1))
	f.post(a.ID, day(1), ledger.CategoryAnimalPurchase, ledger.CostCenterAcquisition, "100000")
	f.post(b.ID, day(1), ledger.CategoryAnimalPurchase, ledger.CostCenterAcquisition, "120000")

	c := NewComparator(f.builder)
	first, err := c.Compare(context.Background(), EntityLot, []id.ID{a.ID, b.ID}, day(1), day(31))
	require.NoError(t, err)
	second, err := c.Compare(context.Background(), EntityLot, []id.ID{a.ID, b.ID}, day(1), day(31))
	require.NoError(t, err)

	assert.Equal(t, first.Insights, second.Insights)
}
