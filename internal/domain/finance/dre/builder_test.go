package dre

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/costing"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/finance/sale"
	"confina/internal/domain/herd/lot"
)

// --- in-memory fakes ---

type fakeLotRepo struct {
	lots map[id.ID]*lot.Lot
}

func (f *fakeLotRepo) Create(_ context.Context, l *lot.Lot) error { f.lots[l.ID] = l; return nil }
func (f *fakeLotRepo) Update(_ context.Context, l *lot.Lot) error { f.lots[l.ID] = l; return nil }

func (f *fakeLotRepo) GetByID(_ context.Context, lotID id.ID) (*lot.Lot, error) {
	return f.lots[lotID], nil
}

func (f *fakeLotRepo) List(_ context.Context, filter lot.Filter) ([]lot.Lot, error) {
	var out []lot.Lot
	for _, l := range f.lots {
		if len(filter.IDs) > 0 && !containsID(filter.IDs, l.ID) {
			continue
		}
		if filter.ActivityFrom != nil && filter.ActivityTo != nil {
			if l.EntryDate.After(*filter.ActivityTo) {
				continue
			}
			if l.SoldAt != nil && l.SoldAt.Before(*filter.ActivityFrom) {
				continue
			}
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeLotRepo) AccumulateCost(_ context.Context, lotID id.ID, category ledger.Category, amount types.Money) error {
	if l, ok := f.lots[lotID]; ok {
		l.Accumulated.Add(category, amount)
	}
	return nil
}

type fakeLedger struct {
	entries []ledger.Entry
}

func (f *fakeLedger) Create(_ context.Context, e *ledger.Entry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, _ id.ID) (*ledger.Entry, error) { return nil, nil }
func (f *fakeLedger) SetVoided(_ context.Context, _ id.ID, _ int) error         { return nil }

func (f *fakeLedger) List(_ context.Context, filter ledger.Filter) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range f.entries {
		if filter.TargetType != "" && e.TargetType != filter.TargetType {
			continue
		}
		if len(filter.TargetIDs) > 0 && !containsID(filter.TargetIDs, e.TargetID) {
			continue
		}
		if len(filter.CostCenters) > 0 && !containsCenter(filter.CostCenters, e.CostCenter) {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		if !filter.IncludeVoided && (e.Voided || e.ReversalOf != nil) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeSales struct {
	records []sale.Record
}

func (f *fakeSales) Create(_ context.Context, r *sale.Record) error {
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeSales) GetByID(_ context.Context, _ id.ID) (*sale.Record, error) { return nil, nil }

func (f *fakeSales) ListByLots(_ context.Context, lotIDs []id.ID, from, to time.Time) ([]sale.Record, error) {
	var out []sale.Record
	for _, r := range f.records {
		if !containsID(lotIDs, r.LotID) {
			continue
		}
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakePens struct {
	lotsByPen map[id.ID][]id.ID
}

func (f *fakePens) LotsInPen(_ context.Context, penID id.ID, _, _ time.Time) ([]id.ID, error) {
	return f.lotsByPen[penID], nil
}

func containsID(ids []id.ID, target id.ID) bool {
	for _, v := range ids {
		if v == target {
			return true
		}
	}
	return false
}

func containsCenter(centers []ledger.CostCenter, c ledger.CostCenter) bool {
	for _, v := range centers {
		if v == c {
			return true
		}
	}
	return false
}

// --- fixture ---

type fixture struct {
	lots    *fakeLotRepo
	entries *fakeLedger
	sales   *fakeSales
	pens    *fakePens
	builder *Builder
}

func newFixture() *fixture {
	f := &fixture{
		lots:    &fakeLotRepo{lots: make(map[id.ID]*lot.Lot)},
		entries: &fakeLedger{},
		sales:   &fakeSales{},
		pens:    &fakePens{lotsByPen: make(map[id.ID][]id.ID)},
	}
	f.builder = NewBuilder(f.lots, f.sales, costing.New(f.entries, f.pens), f.pens)
	return f
}

func (f *fixture) addLot(heads int, entryDate time.Time) *lot.Lot {
	l := lot.New(id.New(), entryDate, heads, float64(heads)*360, 1.2)
	l.Number = "LOT-2026-0000" + l.ID.String()[:1]
	f.lots.lots[l.ID] = l
	return l
}

func (f *fixture) post(lotID id.ID, date time.Time, category ledger.Category, center ledger.CostCenter, amount string) {
	e := ledger.NewEntry(date, category, center, types.MustMoney(amount), ledger.TargetLot, lotID)
	f.entries.entries = append(f.entries.entries, *e)
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func seedCosts(f *fixture, lotID id.ID) {
	f.post(lotID, day(1), ledger.CategoryAnimalPurchase, ledger.CostCenterAcquisition, "30000")
	f.post(lotID, day(5), ledger.CategoryFeed, ledger.CostCenterFattening, "5000")
	f.post(lotID, day(6), ledger.CategoryHealth, ledger.CostCenterFattening, "1000")
	f.post(lotID, day(2), ledger.CategoryFreight, ledger.CostCenterAcquisition, "800")
	f.post(lotID, day(10), ledger.CategoryMortality, ledger.CostCenterFattening, "2000")
	f.post(lotID, day(20), ledger.CategoryAdministrative, ledger.CostCenterAdministrative, "1500")
	f.post(lotID, day(25), ledger.CategoryFinancialExpense, ledger.CostCenterFinancial, "500")
}

func TestBuild_FullStatement(t *testing.T) {
	f := newFixture()
	l := f.addLot(50, day(1))
	seedCosts(f, l.ID)

	// 25000 kg live at 54% yield is 900 arrobas; at 310/@ that is 279000.
	f.sales.records = append(f.sales.records,
		*sale.NewRecord(l.ID, day(28), 50, 25000, 54, types.MustMoney("310")))

	st, err := f.builder.Build(context.Background(), Params{
		EntityType:  EntityLot,
		EntityID:    &l.ID,
		PeriodStart: day(1),
		PeriodEnd:   day(31),
	})
	require.NoError(t, err)

	assert.Equal(t, l.Number, st.EntityLabel)
	assert.True(t, types.MustMoney("279000").Equal(st.Revenue.GrossSales), "got %s", st.Revenue.GrossSales)
	assert.True(t, types.MustMoney("279000").Equal(st.Revenue.NetSales))

	assert.True(t, types.MustMoney("38800").Equal(st.CostOfGoodsSold.Total), "got %s", st.CostOfGoodsSold.Total)
	assert.True(t, types.MustMoney("2000").Equal(st.CostOfGoodsSold.Mortality))

	assert.True(t, types.MustMoney("240200").Equal(st.GrossProfit))
	assert.True(t, types.MustMoney("1500").Equal(st.OperatingExpenses.Total))
	assert.True(t, types.MustMoney("238700").Equal(st.OperatingIncome))

	assert.True(t, types.MustMoney("-500").Equal(st.FinancialResult.Total), "got %s", st.FinancialResult.Total)
	assert.True(t, types.MustMoney("238200").Equal(st.IncomeBeforeTaxes))

	assert.True(t, types.MustMoney("35730").Equal(st.Taxes.IncomeTax), "got %s", st.Taxes.IncomeTax)
	assert.True(t, types.MustMoney("21438").Equal(st.Taxes.SocialContribution))
	assert.True(t, types.MustMoney("181032").Equal(st.NetIncome), "got %s", st.NetIncome)

	// grossMargin must equal grossProfit/netSales*100 exactly.
	wantMargin := types.Percent(st.GrossProfit, st.Revenue.NetSales)
	assert.True(t, wantMargin.Equal(st.GrossMargin))

	assert.Equal(t, 50, st.Metrics.Heads)
	assert.InDelta(t, 900.0, st.Metrics.Arrobas, 0.001)
	assert.Equal(t, 30, st.Metrics.DaysInConfinement)
	assert.True(t, st.Metrics.ROI.IsPositive())
}

func TestBuild_ZeroSales(t *testing.T) {
	f := newFixture()
	l := f.addLot(50, day(1))
	seedCosts(f, l.ID)

	st, err := f.builder.Build(context.Background(), Params{
		EntityType:  EntityLot,
		EntityID:    &l.ID,
		PeriodStart: day(1),
		PeriodEnd:   day(31),
	})
	require.NoError(t, err)

	assert.True(t, st.Revenue.NetSales.IsZero())
	assert.True(t, st.GrossMargin.IsZero())
	assert.True(t, st.NetMargin.IsZero())

	// A pure loss: no tax benefit is modeled.
	assert.True(t, st.Taxes.Total.IsZero())
	// -38800 cogs - 1500 opex - 500 financial expense.
	assert.True(t, types.MustMoney("-40800").Equal(st.NetIncome), "got %s", st.NetIncome)
}

func TestBuild_NonCashLossStillHitsStatement(t *testing.T) {
	f := newFixture()
	l := f.addLot(100, day(1))
	f.post(l.ID, day(10), ledger.CategoryMortality, ledger.CostCenterFattening, "5000")

	st, err := f.builder.Build(context.Background(), Params{
		EntityType:  EntityLot,
		EntityID:    &l.ID,
		PeriodStart: day(1),
		PeriodEnd:   day(31),
	})
	require.NoError(t, err)

	assert.True(t, types.MustMoney("5000").Equal(st.CostOfGoodsSold.Mortality))
	assert.True(t, types.MustMoney("5000").Equal(st.CostOfGoodsSold.Total))
	assert.True(t, types.MustMoney("-5000").Equal(st.NetIncome), "got %s", st.NetIncome)
}

func TestBuild_Idempotent(t *testing.T) {
	f := newFixture()
	l := f.addLot(50, day(1))
	seedCosts(f, l.ID)
	f.sales.records = append(f.sales.records,
		*sale.NewRecord(l.ID, day(28), 50, 25000, 54, types.MustMoney("310")))

	params := Params{
		EntityType:  EntityLot,
		EntityID:    &l.ID,
		PeriodStart: day(1),
		PeriodEnd:   day(31),
	}

	first, err := f.builder.Build(context.Background(), params)
	require.NoError(t, err)
	second, err := f.builder.Build(context.Background(), params)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBuild_Projections(t *testing.T) {
	f := newFixture()
	// 10 heads at 360 kg, GMD 1.2 kg/head/day, 30 days: 3600 + 360 = 3960 kg.
	l := f.addLot(10, day(1))

	st, err := f.builder.Build(context.Background(), Params{
		EntityType:         EntityLot,
		EntityID:           &l.ID,
		PeriodStart:        day(1),
		PeriodEnd:          day(31),
		IncludeProjections: true,
		PricePerArroba:     types.MustMoney("300"),
	})
	require.NoError(t, err)

	// 3960 kg live at the default 50% yield is 132 arrobas, worth 39600.
	assert.InDelta(t, 132.0, st.Metrics.Arrobas, 0.001)
	assert.True(t, types.MustMoney("39600").Equal(types.RoundCents(st.Revenue.ProjectedRevenue)),
		"got %s", st.Revenue.ProjectedRevenue)
	assert.True(t, st.Revenue.NetSales.Equal(st.Revenue.ProjectedRevenue))
}

func TestBuild_PenScope(t *testing.T) {
	f := newFixture()
	lotA := f.addLot(10, day(1))
	lotB := f.addLot(10, day(1))
	outside := f.addLot(10, day(1))
	penID := id.New()
	f.pens.lotsByPen[penID] = []id.ID{lotA.ID, lotB.ID}

	f.post(lotA.ID, day(5), ledger.CategoryFeed, ledger.CostCenterFattening, "100")
	f.post(lotB.ID, day(5), ledger.CategoryFeed, ledger.CostCenterFattening, "200")
	f.post(outside.ID, day(5), ledger.CategoryFeed, ledger.CostCenterFattening, "999")

	st, err := f.builder.Build(context.Background(), Params{
		EntityType:  EntityPen,
		EntityID:    &penID,
		PeriodStart: day(1),
		PeriodEnd:   day(31),
	})
	require.NoError(t, err)

	assert.True(t, types.MustMoney("300").Equal(st.CostOfGoodsSold.Feed), "got %s", st.CostOfGoodsSold.Feed)
	assert.Equal(t, 20, st.Metrics.Heads)
}

func TestBuild_Errors(t *testing.T) {
	f := newFixture()

	t.Run("inverted period", func(t *testing.T) {
		lotID := id.New()
		_, err := f.builder.Build(context.Background(), Params{
			EntityType:  EntityLot,
			EntityID:    &lotID,
			PeriodStart: day(31),
			PeriodEnd:   day(1),
		})
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidPeriod))
	})

	t.Run("unknown lot", func(t *testing.T) {
		lotID := id.New()
		_, err := f.builder.Build(context.Background(), Params{
			EntityType:  EntityLot,
			EntityID:    &lotID,
			PeriodStart: day(1),
			PeriodEnd:   day(31),
		})
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("missing entity id", func(t *testing.T) {
		_, err := f.builder.Build(context.Background(), Params{
			EntityType:  EntityLot,
			PeriodStart: day(1),
			PeriodEnd:   day(31),
		})
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("empty pen", func(t *testing.T) {
		penID := id.New()
		_, err := f.builder.Build(context.Background(), Params{
			EntityType:  EntityPen,
			EntityID:    &penID,
			PeriodStart: day(1),
			PeriodEnd:   day(31),
		})
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}
