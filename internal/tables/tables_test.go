package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movingout-dev/movingout/internal/model"
)

var defaultItems = []string{"Protein", "Vegetables"}

func TestParseFood_Fallback(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"absent", nil},
		{"blank", "   "},
		{"malformed", "[{not json"},
		{"object", `{"id":"x"}`},
		{"null", "null"},
		{"empty array", "[]"},
		{"number", 42.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := model.Inputs{}
			if tt.raw != nil {
				inputs[model.FieldFoodTable] = tt.raw
			}
			got := ParseFood(inputs, model.FieldFoodTable, defaultItems)
			assert.True(t, got.Fallback)
			assert.False(t, got.Decoded())
			require.Len(t, got.Rows, 2)
			assert.Equal(t, "default-1", got.Rows[0].ID)
			assert.Equal(t, "Protein", got.Rows[0].Item)
			assert.Zero(t, got.Rows[0].EstimatedCost)
			assert.Equal(t, "default-2", got.Rows[1].ID)
		})
	}
}

func TestParseFood_Normalizes(t *testing.T) {
	inputs := model.Inputs{
		model.FieldFoodTable: `[
			{"id": "a", "item": "Chicken", "planned_purchase": "2 kg", "estimated_cost": 18.5, "source_url": "https://shop.example/chicken"},
			{"item": 7, "estimated_cost": "12"},
			"garbage"
		]`,
	}
	got := ParseFood(inputs, model.FieldFoodTable, defaultItems)
	require.False(t, got.Fallback)
	require.Len(t, got.Rows, 3)

	assert.Equal(t, model.FoodRow{
		ID:              "a",
		Item:            "Chicken",
		PlannedPurchase: "2 kg",
		EstimatedCost:   18.5,
		SourceURL:       "https://shop.example/chicken",
	}, got.Rows[0])
	assert.Equal(t, model.FoodRow{ID: "row-2"}, got.Rows[1])
	assert.Equal(t, model.FoodRow{ID: "row-3"}, got.Rows[2])
}

func TestParseExpenses(t *testing.T) {
	inputs := model.Inputs{
		model.FieldClothingTable: `[{"item":"Jeans","quantity_per_year":2,"average_cost":60},{"id":"","annual_total":150,"monthly_total":null}]`,
	}
	got := ParseExpenses(inputs, model.FieldClothingTable)
	require.False(t, got.Fallback)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "row-1", got.Rows[0].ID)
	assert.InDelta(t, 2.0, got.Rows[0].QuantityPerYear, 1e-9)
	assert.InDelta(t, 60.0, got.Rows[0].AverageCost, 1e-9)
	assert.Equal(t, "row-2", got.Rows[1].ID)
	assert.InDelta(t, 150.0, got.Rows[1].AnnualTotal, 1e-9)
	assert.Zero(t, got.Rows[1].MonthlyTotal)
}

func TestParseExpenses_MalformedMatchesAbsent(t *testing.T) {
	absent := ParseExpenses(model.Inputs{}, model.FieldMiscTable)
	malformed := ParseExpenses(model.Inputs{model.FieldMiscTable: "{{{"}, model.FieldMiscTable)
	assert.Equal(t, absent, malformed)
	assert.True(t, malformed.Fallback)
	assert.Empty(t, malformed.Rows)
}

func TestParseExpenses_EmptyArrayIsNotFallback(t *testing.T) {
	got := ParseExpenses(model.Inputs{model.FieldMiscTable: "[]"}, model.FieldMiscTable)
	assert.False(t, got.Fallback)
	assert.Empty(t, got.Rows)
	assert.False(t, got.Decoded())
}

func TestParseExpenses_DecodedSlice(t *testing.T) {
	inputs := model.Inputs{
		model.FieldMiscTable: []any{
			map[string]any{"item": "Gifts", "monthly_total": 25.0},
		},
	}
	got := ParseExpenses(inputs, model.FieldMiscTable)
	require.Len(t, got.Rows, 1)
	assert.InDelta(t, 25.0, got.Rows[0].MonthlyTotal, 1e-9)
}

func TestEncode_RoundTrip(t *testing.T) {
	rows := []model.ExpenseRow{{ID: "r1", Item: "Shoes", AnnualTotal: 120}}
	text, err := Encode(rows)
	require.NoError(t, err)

	got := ParseExpenses(model.Inputs{model.FieldClothingTable: text}, model.FieldClothingTable)
	assert.Equal(t, rows, got.Rows)
}
