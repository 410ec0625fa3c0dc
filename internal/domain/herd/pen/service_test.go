package pen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/herd/lot"
)

// --- in-memory fakes ---

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePenRepo struct {
	pens map[id.ID]*Pen
}

func (f *fakePenRepo) Create(_ context.Context, p *Pen) error {
	cp := *p
	f.pens[p.ID] = &cp
	return nil
}

func (f *fakePenRepo) Update(_ context.Context, p *Pen) error {
	cp := *p
	f.pens[p.ID] = &cp
	return nil
}

func (f *fakePenRepo) GetByID(_ context.Context, penID id.ID) (*Pen, error) {
	if p, ok := f.pens[penID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePenRepo) List(_ context.Context) ([]Pen, error) {
	var out []Pen
	for _, p := range f.pens {
		out = append(out, *p)
	}
	return out, nil
}

type fakeLinkRepo struct {
	links []*Link
}

func (f *fakeLinkRepo) Create(_ context.Context, link *Link) error {
	cp := *link
	f.links = append(f.links, &cp)
	return nil
}

func (f *fakeLinkRepo) Update(_ context.Context, link *Link) error {
	for _, stored := range f.links {
		if stored.ID == link.ID {
			*stored = *link
			return nil
		}
	}
	return nil
}

func (f *fakeLinkRepo) GetByID(_ context.Context, linkID id.ID) (*Link, error) {
	for _, stored := range f.links {
		if stored.ID == linkID {
			cp := *stored
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLinkRepo) ListActiveByLot(_ context.Context, lotID id.ID) ([]Link, error) {
	var out []Link
	for _, lk := range f.links {
		if lk.Status == LinkActive && lk.LotID == lotID {
			out = append(out, *lk)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) ListActiveByPen(_ context.Context, penID id.ID) ([]Link, error) {
	var out []Link
	for _, lk := range f.links {
		if lk.Status == LinkActive && lk.PenID == penID {
			out = append(out, *lk)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) ListByPenOverlapping(_ context.Context, penID id.ID, from, to time.Time) ([]Link, error) {
	var out []Link
	for _, lk := range f.links {
		if lk.PenID == penID && lk.ActiveDuring(from, to) {
			out = append(out, *lk)
		}
	}
	return out, nil
}

type fakeLotRepo struct {
	lots map[id.ID]*lot.Lot
}

func (f *fakeLotRepo) Create(_ context.Context, l *lot.Lot) error { f.lots[l.ID] = l; return nil }
func (f *fakeLotRepo) Update(_ context.Context, l *lot.Lot) error { f.lots[l.ID] = l; return nil }

func (f *fakeLotRepo) GetByID(_ context.Context, lotID id.ID) (*lot.Lot, error) {
	return f.lots[lotID], nil
}

func (f *fakeLotRepo) List(_ context.Context, _ lot.Filter) ([]lot.Lot, error) {
	return nil, nil
}

func (f *fakeLotRepo) AccumulateCost(_ context.Context, lotID id.ID, category ledger.Category, amount types.Money) error {
	if l, ok := f.lots[lotID]; ok {
		l.Accumulated.Add(category, amount)
	}
	return nil
}

// --- fixture ---

type fixture struct {
	svc   *Service
	links *fakeLinkRepo
	lots  *fakeLotRepo
	pens  *fakePenRepo
}

func newFixture() *fixture {
	f := &fixture{
		links: &fakeLinkRepo{},
		lots:  &fakeLotRepo{lots: make(map[id.ID]*lot.Lot)},
		pens:  &fakePenRepo{pens: make(map[id.ID]*Pen)},
	}
	f.svc = NewService(f.pens, f.links, f.lots, fakeTx{})
	return f
}

func (f *fixture) addLot(heads int) *lot.Lot {
	l := lot.New(id.New(), june(1), heads, float64(heads)*350, 1.2)
	l.Number = "LOT-2026-0000" + l.ID.String()[:1]
	f.lots.lots[l.ID] = l
	return l
}

func (f *fixture) addPen(t *testing.T, code string, capacity int) *Pen {
	t.Helper()
	p, err := f.svc.CreatePen(context.Background(), code, capacity, "")
	require.NoError(t, err)
	return p
}

func june(d int) time.Time {
	return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
}

func activeQuantity(t *testing.T, links *fakeLinkRepo, lotID id.ID) int {
	t.Helper()
	lks, err := links.ListActiveByLot(context.Background(), lotID)
	require.NoError(t, err)
	total := 0
	for _, lk := range lks {
		total += lk.Quantity
	}
	return total
}

// --- tests ---

func TestAllocate_SplitsLotAcrossPens(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.addLot(100)
	penA := f.addPen(t, "C-01", 80)
	penB := f.addPen(t, "C-02", 60)

	link1, err := f.svc.Allocate(ctx, l.ID, penA.ID, 60, june(2))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, link1.PctOfLot, 0.001)
	assert.InDelta(t, 100.0, link1.PctOfPen, 0.001)

	_, err = f.svc.Allocate(ctx, l.ID, penB.ID, 40, june(3))
	require.NoError(t, err)

	lotLinks, err := f.links.ListActiveByLot(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, lotLinks, 2)

	pctSum := 0.0
	for _, lk := range lotLinks {
		pctSum += lk.PctOfLot
	}
	assert.InDelta(t, 100.0, pctSum, 0.001)
	assert.LessOrEqual(t, activeQuantity(t, f.links, l.ID), l.CurrentQuantity())
}

func TestAllocate_SharesPenBetweenLots(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	lotA := f.addLot(60)
	lotB := f.addLot(40)
	p := f.addPen(t, "C-01", 120)

	_, err := f.svc.Allocate(ctx, lotA.ID, p.ID, 60, june(2))
	require.NoError(t, err)
	_, err = f.svc.Allocate(ctx, lotB.ID, p.ID, 40, june(3))
	require.NoError(t, err)

	penLinks, err := f.links.ListActiveByPen(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, penLinks, 2)

	pctSum := 0.0
	byLot := map[id.ID]Link{}
	for _, lk := range penLinks {
		pctSum += lk.PctOfPen
		byLot[lk.LotID] = lk
	}
	assert.InDelta(t, 100.0, pctSum, 0.001)
	assert.InDelta(t, 60.0, byLot[lotA.ID].PctOfPen, 0.001)
	assert.InDelta(t, 40.0, byLot[lotB.ID].PctOfPen, 0.001)
}

func TestAllocate_RejectsOverHeadCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.addLot(50)
	p := f.addPen(t, "C-01", 200)

	_, err := f.svc.Allocate(ctx, l.ID, p.ID, 30, june(2))
	require.NoError(t, err)

	_, err = f.svc.Allocate(ctx, l.ID, p.ID, 30, june(3))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Equal(t, 30, activeQuantity(t, f.links, l.ID))
}

func TestAllocate_RejectsOverCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.addLot(100)
	p := f.addPen(t, "C-01", 40)

	_, err := f.svc.Allocate(ctx, l.ID, p.ID, 50, june(2))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePenOverAllocated))
}

func TestRemoveLink_RenormalizesBothSides(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.addLot(100)
	penA := f.addPen(t, "C-01", 80)
	penB := f.addPen(t, "C-02", 60)

	kept, err := f.svc.Allocate(ctx, l.ID, penA.ID, 60, june(2))
	require.NoError(t, err)
	removed, err := f.svc.Allocate(ctx, l.ID, penB.ID, 40, june(3))
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveLink(ctx, removed.ID, june(20)))

	closed, err := f.links.GetByID(ctx, removed.ID)
	require.NoError(t, err)
	assert.Equal(t, LinkRemoved, closed.Status)
	require.NotNil(t, closed.RemovedAt)
	assert.Equal(t, june(20), *closed.RemovedAt)

	// The surviving link carries the whole lot again.
	lotLinks, err := f.links.ListActiveByLot(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, lotLinks, 1)
	assert.Equal(t, kept.ID, lotLinks[0].ID)
	assert.InDelta(t, 100.0, lotLinks[0].PctOfLot, 0.001)

	penLinks, err := f.links.ListActiveByPen(ctx, penB.ID)
	require.NoError(t, err)
	assert.Empty(t, penLinks)
}

func TestRemoveLink_AlreadyRemoved(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.addLot(50)
	p := f.addPen(t, "C-01", 80)

	link, err := f.svc.Allocate(ctx, l.ID, p.ID, 50, june(2))
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveLink(ctx, link.ID, june(10)))

	err = f.svc.RemoveLink(ctx, link.ID, june(11))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}
