package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confina/internal/core/apperror"
	"confina/internal/core/types"
	"confina/internal/domain/finance/ledger"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusDraft, StatusApproved, true},
		{StatusApproved, StatusApplied, true},
		{StatusDraft, StatusApplied, false},
		{StatusApproved, StatusDraft, false},
		{StatusApplied, StatusApproved, false},
		{StatusApplied, StatusDraft, false},
		{StatusApplied, StatusApplied, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionTo_RejectsBackward(t *testing.T) {
	a := NewAllocation(CostAdministrative, MethodByHeads,
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		types.MustMoney("100.00"))

	require.NoError(t, a.TransitionTo(StatusApproved))
	require.NoError(t, a.TransitionTo(StatusApplied))

	err := a.TransitionTo(StatusDraft)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
}

func TestAllocationValidate(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		a := NewAllocation(CostFinancial, MethodByValue, start, end, types.MustMoney("500.00"))
		assert.NoError(t, a.Validate(context.Background()))
	})

	t.Run("inverted period", func(t *testing.T) {
		a := NewAllocation(CostFinancial, MethodByValue, end, start, types.MustMoney("500.00"))
		err := a.Validate(context.Background())
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidPeriod))
	})

	t.Run("zero total", func(t *testing.T) {
		a := NewAllocation(CostFinancial, MethodByValue, start, end, types.Zero())
		err := a.Validate(context.Background())
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidAllocation))
	})

	t.Run("unknown cost type", func(t *testing.T) {
		a := NewAllocation(CostType("bogus"), MethodByValue, start, end, types.MustMoney("1"))
		err := a.Validate(context.Background())
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})
}

func TestCostTypeLedgerMapping(t *testing.T) {
	tests := []struct {
		costType   CostType
		category   ledger.Category
		costCenter ledger.CostCenter
	}{
		{CostAdministrative, ledger.CategoryAdministrative, ledger.CostCenterAdministrative},
		{CostFinancial, ledger.CategoryFinancialOverhead, ledger.CostCenterFinancial},
		{CostOperational, ledger.CategoryOperational, ledger.CostCenterAdministrative},
		{CostMarketing, ledger.CategoryMarketing, ledger.CostCenterSales},
	}

	for _, tt := range tests {
		cat, center := tt.costType.LedgerMapping()
		assert.Equal(t, tt.category, cat)
		assert.Equal(t, tt.costCenter, center)
	}
}

func TestParseMethod(t *testing.T) {
	for _, name := range []string{"by_heads", "by_value", "by_days", "by_weight"} {
		m, err := ParseMethod(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}

	_, err := ParseMethod("by_vibes")
	assert.Error(t, err)
}
