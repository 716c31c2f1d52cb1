// Package migrate upgrades submissions saved against older worksheet
// versions.
package migrate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/expenses"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
	"github.com/movingout-dev/movingout/internal/schema"
	"github.com/movingout-dev/movingout/internal/tables"
)

const migratedItem = "Carried over from earlier estimate"

// Change records one legacy field folded into a table.
type Change struct {
	LegacyField string
	TableField  string
	Amount      decimal.Decimal
}

func (c Change) String() string {
	return fmt.Sprintf("%s -> %s (%s)", c.LegacyField, c.TableField, c.Amount.StringFixed(2))
}

// Submission returns a copy of sub upgraded to schema s. Legacy scalar
// essentials become one-row tables when their table has no rows. The rows
// are built so the derived amounts do not change.
func Submission(sub *model.Submission, s *schema.Schema, c *constants.Constants) (*model.Submission, []Change, error) {
	out := *sub
	out.Inputs = sub.Inputs.Clone()
	out.SchemaVersion = s.SchemaVersion

	var changes []Change
	for _, concept := range expenses.Concepts {
		legacy := out.Inputs.Number(concept.LegacyField)
		if legacy <= 0 || len(tables.ParseExpenses(out.Inputs, concept.TableField).Rows) > 0 {
			continue
		}
		amount := money.RoundFloat(legacy)
		row := model.ExpenseRow{
			ID:           "migrated-" + concept.Name,
			Item:         migratedItem,
			MonthlyTotal: amount.InexactFloat64(),
		}
		if concept.Period == expenses.Annual {
			row.AnnualTotal = amount.Mul(decimal.NewFromInt(12)).InexactFloat64()
		}
		encoded, err := tables.Encode([]model.ExpenseRow{row})
		if err != nil {
			return nil, nil, fmt.Errorf("migrating %s: %w", concept.LegacyField, err)
		}
		out.Inputs[concept.TableField] = encoded
		delete(out.Inputs, concept.LegacyField)
		changes = append(changes, Change{LegacyField: concept.LegacyField, TableField: concept.TableField, Amount: amount})
	}

	weekly := out.Inputs.Number(model.FieldGroceriesWeekly)
	food := tables.ParseFood(out.Inputs, model.FieldFoodTable, c.Food.DefaultItems)
	if weekly > 0 && !food.Decoded() {
		amount := money.RoundFloat(weekly)
		encoded, err := tables.Encode([]model.FoodRow{{
			ID:            "migrated-groceries",
			Item:          "Groceries",
			EstimatedCost: amount.InexactFloat64(),
		}})
		if err != nil {
			return nil, nil, fmt.Errorf("migrating %s: %w", model.FieldGroceriesWeekly, err)
		}
		out.Inputs[model.FieldFoodTable] = encoded
		delete(out.Inputs, model.FieldGroceriesWeekly)
		changes = append(changes, Change{LegacyField: model.FieldGroceriesWeekly, TableField: model.FieldFoodTable, Amount: amount})
	}

	return &out, changes, nil
}
