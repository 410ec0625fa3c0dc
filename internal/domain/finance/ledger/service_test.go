package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/pkg/numerator"
)

// --- in-memory fakes ---

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	entries []*Entry
}

func (f *fakeRepo) Create(_ context.Context, e *Entry) error {
	cp := *e
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, entryID id.ID) (*Entry, error) {
	for _, e := range f.entries {
		if e.ID == entryID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(_ context.Context, _ Filter) ([]Entry, error) {
	out := make([]Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeRepo) SetVoided(_ context.Context, entryID id.ID, _ int) error {
	for _, e := range f.entries {
		if e.ID == entryID {
			e.Voided = true
		}
	}
	return nil
}

// fakeAccumulator records net accumulated amounts per lot.
type fakeAccumulator struct {
	byLot map[id.ID]types.Money
}

func newFakeAccumulator() *fakeAccumulator {
	return &fakeAccumulator{byLot: make(map[id.ID]types.Money)}
}

func (f *fakeAccumulator) AccumulateCost(_ context.Context, lotID id.ID, _ Category, amount types.Money) error {
	cur, ok := f.byLot[lotID]
	if !ok {
		cur = types.Zero()
	}
	f.byLot[lotID] = cur.Add(amount)
	return nil
}

// --- fixture ---

func newFixture() (*Service, *fakeRepo, *fakeAccumulator) {
	repo := &fakeRepo{}
	acc := newFakeAccumulator()
	return NewService(repo, acc, numerator.NewMock(), fakeTx{}), repo, acc
}

func june(d int) time.Time {
	return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
}

// --- tests ---

func TestPost_NumbersAndAccumulates(t *testing.T) {
	ctx := context.Background()
	svc, repo, acc := newFixture()
	lotID := id.New()

	entry := NewEntry(june(5), CategoryFeed, CostCenterFattening,
		types.MustMoney("2500.00"), TargetLot, lotID)
	require.NoError(t, svc.Post(ctx, entry))

	assert.True(t, strings.HasPrefix(entry.Number, "LCR-2026-"), "got %s", entry.Number)
	require.Len(t, repo.entries, 1)
	assert.True(t, types.MustMoney("2500.00").Equal(acc.byLot[lotID]), "got %s", acc.byLot[lotID])
}

func TestPost_RevenueDoesNotAccumulate(t *testing.T) {
	ctx := context.Background()
	svc, repo, acc := newFixture()
	lotID := id.New()

	entry := NewEntry(june(5), CategorySaleRevenue, CostCenterRevenue,
		types.MustMoney("90000.00"), TargetLot, lotID)
	require.NoError(t, svc.Post(ctx, entry))

	require.Len(t, repo.entries, 1)
	assert.Empty(t, acc.byLot)
}

func TestPost_CostCenterTargetDoesNotAccumulate(t *testing.T) {
	ctx := context.Background()
	svc, repo, acc := newFixture()

	entry := NewEntry(june(5), CategoryAdministrative, CostCenterAdministrative,
		types.MustMoney("1800.00"), TargetCostCenter, id.New())
	require.NoError(t, svc.Post(ctx, entry))

	require.Len(t, repo.entries, 1)
	assert.Empty(t, acc.byLot)
}

func TestPost_RejectsInvalidEntry(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newFixture()

	entry := NewEntry(june(5), CategoryFeed, CostCenterFattening,
		types.Zero(), TargetLot, id.New())
	err := svc.Post(ctx, entry)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Empty(t, repo.entries)
}

func TestVoid_FlagsOriginalAndPostsReversal(t *testing.T) {
	ctx := context.Background()
	svc, repo, acc := newFixture()
	lotID := id.New()

	entry := NewEntry(june(5), CategoryFeed, CostCenterFattening,
		types.MustMoney("2500.00"), TargetLot, lotID)
	require.NoError(t, svc.Post(ctx, entry))

	rev, err := svc.Void(ctx, entry.ID, june(10))
	require.NoError(t, err)

	// The original stays in the ledger flagged, never mutated or deleted.
	original, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, original.Voided)
	assert.True(t, types.MustMoney("2500.00").Equal(original.Amount))

	assert.True(t, types.MustMoney("-2500.00").Equal(rev.Amount), "got %s", rev.Amount)
	require.NotNil(t, rev.ReversalOf)
	assert.Equal(t, entry.ID, *rev.ReversalOf)
	assert.NotEmpty(t, rev.Number)
	assert.NotEqual(t, entry.Number, rev.Number)
	require.Len(t, repo.entries, 2)

	// The compensating entry nets the lot snapshot back to zero.
	assert.True(t, acc.byLot[lotID].IsZero(), "got %s", acc.byLot[lotID])
}

func TestVoid_AlreadyVoided(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFixture()
	lotID := id.New()

	entry := NewEntry(june(5), CategoryFeed, CostCenterFattening,
		types.MustMoney("100.00"), TargetLot, lotID)
	require.NoError(t, svc.Post(ctx, entry))

	_, err := svc.Void(ctx, entry.ID, june(10))
	require.NoError(t, err)

	_, err = svc.Void(ctx, entry.ID, june(11))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestVoid_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFixture()

	_, err := svc.Void(ctx, id.New(), june(10))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestVoid_RevenueNotReaccumulated(t *testing.T) {
	ctx := context.Background()
	svc, _, acc := newFixture()
	lotID := id.New()

	entry := NewEntry(june(5), CategorySaleRevenue, CostCenterRevenue,
		types.MustMoney("90000.00"), TargetLot, lotID)
	require.NoError(t, svc.Post(ctx, entry))

	_, err := svc.Void(ctx, entry.ID, june(10))
	require.NoError(t, err)
	assert.Empty(t, acc.byLot)
}
