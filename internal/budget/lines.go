package budget

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/model"
)

// LinesHeader is the CSV header of a budget ledger.
const LinesHeader = "category,item,amount"

const (
	numLineFields = 3
	colCategory   = 0
	colItem       = 1
	colAmount     = 2
)

// Line is one monetary line of a derived budget.
type Line struct {
	Category string
	Item     string
	Amount   decimal.Decimal
}

// Key returns "category.item".
func (l Line) Key() string {
	return l.Category + "." + l.Item
}

// Lines flattens the monetary amounts of a derived budget in a stable order.
func Lines(d model.DerivedTotals) []Line {
	var lines []Line
	add := func(category, item string, amount decimal.Decimal) {
		lines = append(lines, Line{Category: category, Item: item, Amount: amount})
	}

	add("income", "gross_monthly_income", d.GrossMonthlyIncome)
	add("income", "net_monthly_income", d.NetMonthlyIncome)

	add("deductions", "income_tax", d.Deductions.IncomeTax)
	add("deductions", "cpp", d.Deductions.CPP)
	add("deductions", "ei", d.Deductions.EI)
	add("deductions", "union_dues", d.Deductions.UnionDues)
	add("deductions", "total", d.Deductions.Total)

	h := d.Housing
	add("housing", "rent", h.Rent)
	add("housing", "utilities", h.Utilities)
	add("housing", "renter_insurance", h.RenterInsurance)
	add("housing", "internet_phone", h.InternetPhone)
	add("housing", "other", h.Other)
	add("housing", "total", h.Total)

	t := d.Transportation
	add("transportation", "vehicle_price", t.VehiclePrice)
	add("transportation", "down_payment", t.DownPayment)
	add("transportation", "financed_principal", t.FinancedPrincipal)
	add("transportation", "loan_payment", t.LoanPayment)
	add("transportation", "gas_price_per_litre", t.GasPricePerLitre)
	add("transportation", "fuel_cost", t.FuelCost)
	add("transportation", "maintenance", t.Maintenance)
	add("transportation", "operating_cost", t.OperatingCost)
	add("transportation", "insurance", t.Insurance)
	add("transportation", "parking", t.Parking)
	add("transportation", "transit_pass", t.TransitPass)
	add("transportation", "total", t.Total)

	l := d.LivingExpenses
	add("living_expenses", "groceries_weekly", l.GroceriesWeekly)
	add("living_expenses", "groceries", l.Groceries)
	add("living_expenses", "clothing", l.Clothing)
	add("living_expenses", "household_maintenance", l.HouseholdMaintenance)
	add("living_expenses", "health_hygiene", l.HealthHygiene)
	add("living_expenses", "recreation", l.Recreation)
	add("living_expenses", "savings", l.Savings)
	add("living_expenses", "misc", l.Misc)
	add("living_expenses", "total", l.Total)

	add("summary", "total_monthly_expenses", d.TotalMonthlyExpenses)
	add("summary", "monthly_surplus", d.MonthlySurplus)
	return lines
}

// WriteLines writes a ledger, header included.
func WriteLines(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(LinesHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, line := range lines {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadLines reads a ledger written by WriteLines.
func ReadLines(r io.Reader) ([]Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numLineFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading budget CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	lines := make([]Line, 0, len(records)-1)
	for i, rec := range records[1:] {
		line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// MarshalLine converts a Line to a CSV row.
func MarshalLine(l Line) []string {
	row := make([]string, numLineFields)
	row[colCategory] = l.Category
	row[colItem] = l.Item
	row[colAmount] = l.Amount.StringFixed(2)
	return row
}

// UnmarshalLine converts a CSV row to a Line.
func UnmarshalLine(record []string) (Line, error) {
	if len(record) != numLineFields {
		return Line{}, fmt.Errorf("expected %d fields, got %d", numLineFields, len(record))
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Line{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	return Line{
		Category: record[colCategory],
		Item:     record[colItem],
		Amount:   amount,
	}, nil
}

// LineChange is a ledger line whose amount differs between two budgets.
type LineChange struct {
	Key    string
	Before decimal.Decimal
	After  decimal.Decimal
}

// Delta returns After minus Before.
func (c LineChange) Delta() decimal.Decimal {
	return c.After.Sub(c.Before)
}

// Diff lists the lines whose amounts changed from before to after, in the
// order of after followed by lines that only appear in before. A line missing
// from one side counts as zero there.
func Diff(before, after []Line) []LineChange {
	old := make(map[string]decimal.Decimal, len(before))
	for _, l := range before {
		old[l.Key()] = l.Amount
	}

	var changes []LineChange
	seen := make(map[string]bool, len(after))
	for _, l := range after {
		key := l.Key()
		seen[key] = true
		prev := old[key]
		if !prev.Equal(l.Amount) {
			changes = append(changes, LineChange{Key: key, Before: prev, After: l.Amount})
		}
	}
	for _, l := range before {
		if key := l.Key(); !seen[key] && !l.Amount.IsZero() {
			changes = append(changes, LineChange{Key: key, Before: l.Amount, After: decimal.Zero})
		}
	}
	return changes
}
