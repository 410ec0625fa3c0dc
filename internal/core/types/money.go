// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point drift when
// aggregating large numbers of cost entries.
//
// Round only at presentation boundaries, never mid-calculation.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use MoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// MoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
func MoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns the zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundCents rounds a Money value to the smallest currency unit (centavos).
func RoundCents(m Money) Money {
	return m.Round(2)
}

// Percent computes part/whole*100 with full precision.
// Returns zero when whole is zero; callers treat that as an
// undefined metric, not an error.
func Percent(part, whole Money) Money {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}

// Ratio divides numerator by a positive integer denominator.
// Returns zero when denominator is not positive.
func Ratio(numerator Money, denominator int64) Money {
	if denominator <= 0 {
		return decimal.Zero
	}
	return numerator.Div(decimal.NewFromInt(denominator))
}
