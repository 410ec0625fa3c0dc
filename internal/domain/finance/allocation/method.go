package allocation

import (
	"github.com/shopspring/decimal"

	"confina/internal/core/apperror"
	"confina/internal/core/id"
	"confina/internal/core/types"
)

// Method selects the allocation basis. New methods must extend the
// exhaustive switches below; there is no string-keyed fallback.
type Method int

const (
	// MethodByHeads uses current head count.
	MethodByHeads Method = iota

	// MethodByValue uses accumulated cost to date (acquisition + fattening).
	MethodByValue

	// MethodByDays uses head-days: head count × days in confinement within
	// the period. Plain days would under-weight large lots.
	MethodByDays

	// MethodByWeight uses current total live weight.
	MethodByWeight
)

var methodNames = map[Method]string{
	MethodByHeads:  "by_heads",
	MethodByValue:  "by_value",
	MethodByDays:   "by_days",
	MethodByWeight: "by_weight",
}

// String returns the wire name of the method.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMethod parses a wire name into a Method.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, apperror.NewValidation("unknown allocation method").
		WithDetail("method", s)
}

// Target is the basis snapshot for one lot at distribution time.
// Once an allocation is approved the snapshot is frozen.
type Target struct {
	LotID id.ID `json:"entityId"`

	Heads           int         `json:"heads"`
	AccumulatedCost types.Money `json:"value"`
	HeadDays        int64       `json:"days"`
	WeightKg        float64     `json:"weight"`
}

// Basis returns the target's basis value under the method.
func (m Method) Basis(t Target) decimal.Decimal {
	switch m {
	case MethodByHeads:
		return decimal.NewFromInt(int64(t.Heads))
	case MethodByValue:
		return t.AccumulatedCost
	case MethodByDays:
		return decimal.NewFromInt(t.HeadDays)
	case MethodByWeight:
		return decimal.NewFromFloat(t.WeightKg)
	default:
		return decimal.Zero
	}
}
