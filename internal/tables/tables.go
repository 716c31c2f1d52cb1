// Package tables decodes the serialized row collections stored in table
// fields. Decoding never fails: absent or malformed content yields the
// caller's fallback rows.
package tables

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/movingout-dev/movingout/internal/model"
)

// Result is the outcome of decoding a table field. Fallback is true when Rows
// are the default set rather than decoded content.
type Result[R any] struct {
	Rows     []R
	Fallback bool
}

// Decoded reports whether rows came from the field itself and there is at
// least one of them.
func (r Result[R]) Decoded() bool {
	return !r.Fallback && len(r.Rows) > 0
}

// ParseFood decodes the weekly grocery table. Absent, blank, malformed or
// empty content falls back to one zero-cost row per default item.
func ParseFood(inputs model.Inputs, fieldID string, defaultItems []string) Result[model.FoodRow] {
	fallback := func() Result[model.FoodRow] {
		rows := make([]model.FoodRow, len(defaultItems))
		for i, item := range defaultItems {
			rows[i] = model.FoodRow{ID: fmt.Sprintf("default-%d", i+1), Item: item}
		}
		return Result[model.FoodRow]{Rows: rows, Fallback: true}
	}

	raw, ok := decode(inputs[fieldID])
	if !ok || len(raw) == 0 {
		return fallback()
	}

	rows := make([]model.FoodRow, len(raw))
	for i, obj := range raw {
		rows[i] = model.FoodRow{
			ID:              rowID(obj, i),
			Item:            str(obj, "item"),
			PlannedPurchase: str(obj, "planned_purchase"),
			EstimatedCost:   num(obj, "estimated_cost"),
			SourceURL:       str(obj, "source_url"),
		}
	}
	return Result[model.FoodRow]{Rows: rows}
}

// ParseExpenses decodes an annual or monthly expense table. The fallback is
// an empty row set.
func ParseExpenses(inputs model.Inputs, fieldID string) Result[model.ExpenseRow] {
	raw, ok := decode(inputs[fieldID])
	if !ok {
		return Result[model.ExpenseRow]{Fallback: true}
	}

	rows := make([]model.ExpenseRow, len(raw))
	for i, obj := range raw {
		rows[i] = model.ExpenseRow{
			ID:              rowID(obj, i),
			Item:            str(obj, "item"),
			QuantityPerYear: num(obj, "quantity_per_year"),
			AverageCost:     num(obj, "average_cost"),
			AnnualTotal:     num(obj, "annual_total"),
			MonthlyTotal:    num(obj, "monthly_total"),
			SourceURL:       str(obj, "source_url"),
		}
	}
	return Result[model.ExpenseRow]{Rows: rows}
}

// Encode serializes rows back into the text form stored in a table field.
func Encode[R any](rows []R) (string, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding table rows: %w", err)
	}
	return string(data), nil
}

// decode turns a raw field value into row objects. Values that are already
// decoded (a slice from a JSON or YAML document) are accepted as well as
// serialized text. Non-object elements become empty rows.
func decode(v any) ([]map[string]any, bool) {
	var items []any
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, false
		}
		if err := json.Unmarshal([]byte(x), &items); err != nil {
			return nil, false
		}
		if items == nil {
			return nil, false
		}
	case []any:
		items = x
	default:
		return nil, false
	}

	out := make([]map[string]any, len(items))
	for i, item := range items {
		obj, _ := item.(map[string]any)
		out[i] = obj
	}
	return out, true
}

func rowID(obj map[string]any, index int) string {
	if id := str(obj, "id"); id != "" {
		return id
	}
	return fmt.Sprintf("row-%d", index+1)
}

func str(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func num(obj map[string]any, key string) float64 {
	var f float64
	switch v := obj[key].(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
