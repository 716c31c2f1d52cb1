package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/money"
)

// Inputs maps a field identifier to a raw value: a number, text, a boolean or
// nil. Values decoded from JSON or YAML documents are accepted as-is.
type Inputs map[string]any

// Number returns the numeric value of a field. Numeric text is parsed;
// anything absent, non-numeric or non-finite reads as 0.
func (in Inputs) Number(id string) float64 {
	var f float64
	switch v := in[id].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Decimal returns Number as an exact decimal.
func (in Inputs) Decimal(id string) decimal.Decimal {
	return money.FromFloat(in.Number(id))
}

// Text returns the string value of a field, or "" for anything else.
func (in Inputs) Text(id string) string {
	s, _ := in[id].(string)
	return s
}

// Present reports whether a field carries a usable value: a finite number,
// non-blank text or any boolean.
func (in Inputs) Present(id string) bool {
	return HasValue(in[id])
}

// HasValue applies the presence rule to a single raw value.
func HasValue(v any) bool {
	switch x := v.(type) {
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	case float32:
		return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
	case int, int64:
		return true
	case json.Number:
		_, err := x.Float64()
		return err == nil
	case string:
		return strings.TrimSpace(x) != ""
	case bool:
		return true
	default:
		return false
	}
}

// Clone returns a shallow copy; values are scalars so the copy is independent.
func (in Inputs) Clone() Inputs {
	out := make(Inputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
