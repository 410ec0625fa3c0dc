package units

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"confina/internal/core/types"
)

func TestCarcassWeight(t *testing.T) {
	tests := []struct {
		name     string
		liveKg   float64
		yieldPct float64
		want     float64
	}{
		{"typical steer", 540, 54, 291.6},
		{"half yield", 100, 50, 50},
		{"full yield", 100, 100, 100},
		{"zero weight", 0, 54, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CarcassWeight(tt.liveKg, tt.yieldPct), 1e-9)
		})
	}
}

func TestArrobasRoundTrip(t *testing.T) {
	// arrobas(carcassWeight(live, rc)) == live*rc/100/15
	cases := []struct {
		liveKg float64
		rc     float64
	}{
		{540, 54},
		{330.5, 52.5},
		{1, 100},
		{0, 54},
	}

	for _, c := range cases {
		got := Arrobas(CarcassWeight(c.liveKg, c.rc))
		want := c.liveKg * c.rc / 100 / KgPerArroba
		assert.InDelta(t, want, got, 1e-9)
		assert.InDelta(t, want, ArrobasFromLive(c.liveKg, c.rc), 1e-9)
	}
}

func TestCostPerArroba(t *testing.T) {
	total := types.MustMoney("10500.00")

	got := CostPerArroba(total, 35)
	assert.True(t, types.MustMoney("300").Equal(got), "got %s", got)

	// Division by zero is a defined semantic: zero means undefined metric.
	assert.True(t, CostPerArroba(total, 0).IsZero())
	assert.True(t, CostPerArroba(total, -1).IsZero())
}

func TestPerHead(t *testing.T) {
	total := types.MustMoney("1000.00")

	assert.True(t, types.MustMoney("10").Equal(PerHead(total, 100)))
	assert.True(t, PerHead(total, 0).IsZero())
}

func TestProjectedWeight(t *testing.T) {
	// 100 heads gaining 1.2 kg/day over 30 days on top of 36000 kg.
	got := ProjectedWeight(36000, 1.2, 100, 30)
	assert.InDelta(t, 39600, got, 1e-9)

	// Zero days or empty lot leaves weight unchanged.
	assert.InDelta(t, 36000, ProjectedWeight(36000, 1.2, 100, 0), 1e-9)
	assert.InDelta(t, 36000, ProjectedWeight(36000, 1.2, 0, 30), 1e-9)
}

func TestGrossValue(t *testing.T) {
	price := types.MustMoney("315.50")
	got := GrossValue(20, price)
	assert.True(t, types.MustMoney("6310").Equal(got), "got %s", got)
}
