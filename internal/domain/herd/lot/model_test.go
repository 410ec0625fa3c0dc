package lot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confina/internal/core/id"
)

func TestTouch_RefreshesUpdatedAt(t *testing.T) {
	l := New(id.New(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 50, 17500, 1.2)
	l.UpdatedAt = l.UpdatedAt.Add(-time.Hour)
	stale := l.UpdatedAt

	l.Touch()

	assert.True(t, l.UpdatedAt.After(stale))
	assert.Equal(t, 2, l.Version)
}

func TestMarkSold_ClosesLot(t *testing.T) {
	l := New(id.New(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 50, 17500, 1.2)
	l.UpdatedAt = l.UpdatedAt.Add(-time.Hour)
	stale := l.UpdatedAt
	saleDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	l.MarkSold(saleDate)

	assert.Equal(t, StatusSold, l.Status)
	require.NotNil(t, l.SoldAt)
	assert.Equal(t, saleDate, *l.SoldAt)
	assert.True(t, l.UpdatedAt.After(stale))
	assert.Equal(t, 2, l.Version)
}
