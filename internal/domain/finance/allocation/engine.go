package allocation

import (
	"github.com/shopspring/decimal"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
)

var hundred = decimal.NewFromInt(100)

// Distribute apportions totalAmount across targets by the method's basis.
//
// Each share is rounded to the cent independently, then the residual against
// the total is pushed into the single largest share (largest-remainder
// correction). Independent rounding alone silently breaks the total, so the
// correction step is the load-bearing part.
func Distribute(totalAmount types.Money, method Method, targets []Target) ([]Line, error) {
	if !totalAmount.IsPositive() {
		return nil, apperror.NewInvalidAllocation("total amount must be positive").
			WithDetail("totalAmount", totalAmount.String())
	}
	if len(targets) == 0 {
		return nil, apperror.NewNoTargets()
	}

	bases := make([]decimal.Decimal, len(targets))
	basisSum := decimal.Zero
	for i, t := range targets {
		b := method.Basis(t)
		if b.IsNegative() {
			return nil, apperror.NewInvalidAllocation("negative basis value").
				WithDetail("lotId", t.LotID.String()).
				WithDetail("basis", b.String())
		}
		bases[i] = b
		basisSum = basisSum.Add(b)
	}
	if basisSum.IsZero() {
		return nil, apperror.NewDegenerateBasis(method.String())
	}

	total := types.RoundCents(totalAmount)
	lines := make([]Line, len(targets))
	allocated := decimal.Zero
	largest := 0

	for i, t := range targets {
		amount := types.RoundCents(total.Mul(bases[i]).Div(basisSum))
		lines[i] = Line{
			LotID:           t.LotID,
			Heads:           t.Heads,
			AccumulatedCost: t.AccumulatedCost,
			HeadDays:        t.HeadDays,
			WeightKg:        t.WeightKg,
			Amount:          amount,
		}
		allocated = allocated.Add(amount)
		if amount.GreaterThan(lines[largest].Amount) {
			largest = i
		}
	}

	// Push the rounding residual into the largest share.
	if residual := total.Sub(allocated); !residual.IsZero() {
		lines[largest].Amount = lines[largest].Amount.Add(residual)
	}

	sum := decimal.Zero
	pctSum := decimal.Zero
	for i := range lines {
		lines[i].Percentage = types.RoundCents(types.Percent(lines[i].Amount, total))
		sum = sum.Add(lines[i].Amount)
		pctSum = pctSum.Add(lines[i].Percentage)
	}

	// Same correction for percentages, so they sum to exactly 100.00.
	if pctResidual := hundred.Sub(pctSum); !pctResidual.IsZero() {
		lines[largest].Percentage = lines[largest].Percentage.Add(pctResidual)
	}

	// Unreachable in correct code; a mismatch here is a defect.
	if !sum.Equal(total) {
		return nil, apperror.NewReconciliationMismatch(total.String(), sum.String())
	}

	return lines, nil
}

// Override applies a manual edit to one line's amount.
//
// The requested value is clamped to what the other lines leave available
// (last-writer-wins: the others keep their amounts, nothing is re-spread).
func Override(a *Allocation, lotID id.ID, requested types.Money) error {
	if !a.Mutable() {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"only draft allocations can be edited").
			WithDetail("status", string(a.Status))
	}
	if requested.IsNegative() {
		return apperror.NewInvalidAllocation("amount must not be negative").
			WithDetail("requested", requested.String())
	}

	idx := -1
	othersSum := decimal.Zero
	for i := range a.Lines {
		if a.Lines[i].LotID == lotID {
			idx = i
			continue
		}
		othersSum = othersSum.Add(a.Lines[i].Amount)
	}
	if idx < 0 {
		return apperror.NewNotFound("allocation line", lotID)
	}

	remaining := types.RoundCents(a.TotalAmount).Sub(othersSum)
	adjusted := types.RoundCents(requested)
	if adjusted.GreaterThan(remaining) {
		adjusted = remaining
	}

	a.Lines[idx].Amount = adjusted
	a.Lines[idx].Percentage = types.RoundCents(types.Percent(adjusted, a.TotalAmount))
	a.Lines[idx].ManualOverride = true
	a.Touch()
	return nil
}

// Reconciled checks the package invariant: line amounts sum exactly to the
// total and percentages to 100 within 0.01.
func Reconciled(a *Allocation) bool {
	amountSum := decimal.Zero
	pctSum := decimal.Zero
	for i := range a.Lines {
		amountSum = amountSum.Add(a.Lines[i].Amount)
		pctSum = pctSum.Add(a.Lines[i].Percentage)
	}
	if !amountSum.Equal(types.RoundCents(a.TotalAmount)) {
		return false
	}
	return pctSum.Sub(hundred).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01))
}
