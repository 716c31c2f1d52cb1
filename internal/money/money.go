// Package money holds the cent-exact arithmetic every budget total goes through.
//
// Amounts are carried as decimal.Decimal. Anything that is summed is first
// reduced to integer cents so repeated recomputation never drifts.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// FromFloat converts a float input to a decimal. NaN and ±Inf become zero.
func FromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// ToCents converts an amount to integer cents, rounding half up.
func ToCents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Add(half).Floor().IntPart()
}

// FromCents converts integer cents back to a two-decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// Round rounds an amount to the nearest cent.
func Round(d decimal.Decimal) decimal.Decimal {
	return FromCents(ToCents(d))
}

// RoundFloat rounds a float input to the nearest cent.
func RoundFloat(v float64) decimal.Decimal {
	return Round(FromFloat(v))
}

// Sum adds amounts by their cent representations.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	var cents int64
	for _, a := range amounts {
		cents += ToCents(a)
	}
	return FromCents(cents)
}

// Sub returns a − b computed in cents.
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return FromCents(ToCents(a) - ToCents(b))
}

// Max returns the larger of two amounts.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Apportion splits total into len(weights) parts proportional to weights.
// Every part but the last is rounded to the cent on its own; the last part
// takes the exact remainder, so the parts always sum to Round(total).
// A non-positive weight sum yields all-zero parts.
func Apportion(total decimal.Decimal, weights []float64) []decimal.Decimal {
	if len(weights) == 0 {
		return nil
	}
	parts := make([]decimal.Decimal, len(weights))

	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}
	if weightSum <= 0 || math.IsNaN(weightSum) || math.IsInf(weightSum, 0) {
		for i := range parts {
			parts[i] = FromCents(0)
		}
		return parts
	}

	sum := FromFloat(weightSum)
	remaining := ToCents(total)
	last := len(weights) - 1
	for i := 0; i < last; i++ {
		part := Round(total.Mul(FromFloat(weights[i])).Div(sum))
		parts[i] = part
		remaining -= ToCents(part)
	}
	parts[last] = FromCents(remaining)
	return parts
}
