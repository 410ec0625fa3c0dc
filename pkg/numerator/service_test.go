package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

func TestNext_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.Next(ctx, "LOT", date)
	require.NoError(t, err)
	assert.Equal(t, "LOT-2026-00001", num)

	num, err = svc.Next(ctx, "LOT", date)
	require.NoError(t, err)
	assert.Equal(t, "LOT-2026-00002", num)
}

func TestNext_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := NewCached(q, 10)
	ctx := context.Background()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// First call allocates the 1..10 range with a single DB round trip.
	num, err := svc.Next(ctx, "RAT", date)
	require.NoError(t, err)
	assert.Equal(t, "RAT-2026-00001", num)
	assert.Equal(t, int64(10), q.currentValue)

	// Subsequent calls inside the range do not touch the DB.
	for i := 2; i <= 10; i++ {
		num, err = svc.Next(ctx, "RAT", date)
		require.NoError(t, err)
	}
	assert.Equal(t, "RAT-2026-00010", num)
	assert.Equal(t, int64(10), q.currentValue)

	// Range exhausted: next call allocates 11..20.
	num, err = svc.Next(ctx, "RAT", date)
	require.NoError(t, err)
	assert.Equal(t, "RAT-2026-00011", num)
	assert.Equal(t, int64(20), q.currentValue)
}

func TestNext_YearScopedSequences(t *testing.T) {
	svc := NewMock()
	ctx := context.Background()

	a, err := svc.Next(ctx, "LOT", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	b, err := svc.Next(ctx, "LOT", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "LOT-2025-00001", a)
	assert.Equal(t, "LOT-2026-00001", b)
}
