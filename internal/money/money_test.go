package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestToCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"1.005", 101},
		{"1.004", 100},
		{"12.345", 1235},
		{"-1.005", -100},
		{"-1.006", -101},
		{"2909.76", 290976},
		{"0.125", 13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToCents(dec(tt.in)), "ToCents(%s)", tt.in)
	}
}

func TestFromFloat_NonFinite(t *testing.T) {
	assert.True(t, FromFloat(math.NaN()).IsZero())
	assert.True(t, FromFloat(math.Inf(1)).IsZero())
	assert.True(t, FromFloat(math.Inf(-1)).IsZero())
	assert.Equal(t, int64(0), ToCents(FromFloat(math.NaN())))
}

func TestFromCents(t *testing.T) {
	assert.Equal(t, "123.45", FromCents(12345).StringFixed(2))
	assert.Equal(t, "-0.07", FromCents(-7).StringFixed(2))
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, "0.30", RoundFloat(0.1+0.2).StringFixed(2))
	assert.Equal(t, "1.01", RoundFloat(1.005).StringFixed(2))
}

func TestSum_NoDrift(t *testing.T) {
	// Adding 0.1 ten thousand times as floats drifts; in cents it cannot.
	values := make([]decimal.Decimal, 10000)
	for i := range values {
		values[i] = FromFloat(0.1)
	}
	assert.True(t, Sum(values...).Equal(dec("1000")))
}

func TestSum_RoundsEachAddend(t *testing.T) {
	got := Sum(dec("0.005"), dec("0.005"), dec("0.005"))
	assert.True(t, got.Equal(dec("0.03")), "got %s", got)
}

func TestSub(t *testing.T) {
	assert.True(t, Sub(dec("3000"), dec("2999.99")).Equal(dec("0.01")))
	assert.True(t, Sub(dec("10"), dec("12.5")).Equal(dec("-2.5")))
}

func TestApportion_SumsToTotal(t *testing.T) {
	total := dec("333.33")
	parts := Apportion(total, []float64{0.12, 0.0595, 0.0166, 0.01})
	require.Len(t, parts, 4)
	assert.True(t, Sum(parts...).Equal(total), "parts %v", parts)
}

func TestApportion_EqualWeights(t *testing.T) {
	parts := Apportion(dec("100"), []float64{1, 1, 1})
	require.Len(t, parts, 3)
	assert.Equal(t, "33.33", parts[0].StringFixed(2))
	assert.Equal(t, "33.33", parts[1].StringFixed(2))
	assert.Equal(t, "33.34", parts[2].StringFixed(2))
}

func TestApportion_ZeroWeights(t *testing.T) {
	parts := Apportion(dec("50"), []float64{0, 0})
	require.Len(t, parts, 2)
	for _, p := range parts {
		assert.True(t, p.IsZero())
	}
	assert.Nil(t, Apportion(dec("50"), nil))
}
