package expenses

import (
	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
	"github.com/movingout-dev/movingout/internal/tables"
)

var twelve = decimal.NewFromInt(12)

// Source says which representation a concept's amount came from.
type Source string

const (
	SourceTable  Source = "table"
	SourceLegacy Source = "legacy"
)

// Resolution is the amount chosen for one concept and where it came from.
type Resolution struct {
	Amount decimal.Decimal
	Source Source
}

// Prefer picks between a concept's table and its legacy scalar. The table
// wins whenever it has rows; otherwise a positive legacy value is used;
// otherwise the (zero) table amount stands.
func Prefer(hasRows bool, table decimal.Decimal, legacy float64) Resolution {
	if hasRows || legacy <= 0 {
		return Resolution{Amount: table, Source: SourceTable}
	}
	return Resolution{Amount: money.RoundFloat(legacy), Source: SourceLegacy}
}

// Period is how often a table's row amounts recur.
type Period int

const (
	Monthly Period = iota
	Annual
)

// Concept is an essentials category stored both as a table and as a legacy
// monthly scalar.
type Concept struct {
	Name        string
	TableField  string
	LegacyField string
	Period      Period
}

// Concepts lists the expense-table categories with a legacy scalar. Groceries
// are handled separately because their table is weekly food rows.
var Concepts = []Concept{
	{Name: "clothing", TableField: model.FieldClothingTable, LegacyField: model.FieldClothing, Period: Annual},
	{Name: "health_hygiene", TableField: model.FieldHealthTable, LegacyField: model.FieldHealth, Period: Annual},
	{Name: "recreation", TableField: model.FieldRecreationTable, LegacyField: model.FieldRecreation, Period: Annual},
	{Name: "misc", TableField: model.FieldMiscTable, LegacyField: model.FieldMisc, Period: Monthly},
}

// Resolve returns the monthly amount for a concept.
func (c Concept) Resolve(inputs model.Inputs) Resolution {
	rows := tables.ParseExpenses(inputs, c.TableField)
	return Prefer(len(rows.Rows) > 0, TableMonthly(rows.Rows, c.Period), inputs.Number(c.LegacyField))
}

// TableMonthly is the cent sum of each row's rounded monthly amount.
func TableMonthly(rows []model.ExpenseRow, period Period) decimal.Decimal {
	amounts := make([]decimal.Decimal, len(rows))
	for i, row := range rows {
		amounts[i] = RowMonthly(row, period)
	}
	return money.Sum(amounts...)
}

// RowMonthly is the monthly amount of one expense row. Partially filled rows
// take the larger of the computed and the entered totals.
func RowMonthly(row model.ExpenseRow, period Period) decimal.Decimal {
	computed := decimal.Zero
	if row.QuantityPerYear > 0 && row.AverageCost > 0 {
		computed = money.FromFloat(row.QuantityPerYear).Mul(money.FromFloat(row.AverageCost))
	}
	entered := money.RoundFloat(row.MonthlyTotal)

	if period == Annual {
		annual := money.Max(computed, money.FromFloat(row.AnnualTotal))
		return money.Max(money.Round(annual.Div(twelve)), entered)
	}
	return money.Max(money.Round(computed), entered)
}

// Groceries returns the weekly grocery amount and its resolution. The food
// table counts as having rows only when it decoded from the field itself.
func Groceries(inputs model.Inputs, c *constants.Constants) Resolution {
	food := tables.ParseFood(inputs, model.FieldFoodTable, c.Food.DefaultItems)
	amounts := make([]decimal.Decimal, len(food.Rows))
	for i, row := range food.Rows {
		amounts[i] = money.RoundFloat(row.EstimatedCost)
	}
	return Prefer(food.Decoded(), money.Sum(amounts...), inputs.Number(model.FieldGroceriesWeekly))
}

// Living aggregates the monthly essentials.
func Living(inputs model.Inputs, c *constants.Constants) model.LivingExpenseTotals {
	weekly := Groceries(inputs, c).Amount
	l := model.LivingExpenseTotals{
		GroceriesWeekly:      weekly,
		Groceries:            money.Round(weekly.Mul(money.FromFloat(c.Food.WeeksPerMonth.Value))),
		HouseholdMaintenance: money.Round(inputs.Decimal(model.FieldHouseholdMaint)),
		Savings:              money.Round(inputs.Decimal(model.FieldSavings)),
	}
	for _, concept := range Concepts {
		amount := concept.Resolve(inputs).Amount
		switch concept.TableField {
		case model.FieldClothingTable:
			l.Clothing = amount
		case model.FieldHealthTable:
			l.HealthHygiene = amount
		case model.FieldRecreationTable:
			l.Recreation = amount
		case model.FieldMiscTable:
			l.Misc = amount
		}
	}
	l.Total = money.Sum(l.Groceries, l.Clothing, l.HouseholdMaintenance, l.HealthHygiene, l.Recreation, l.Savings, l.Misc)
	return l
}
