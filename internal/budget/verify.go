package budget

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
)

// InvariantError describes a single invariant violation.
type InvariantError struct {
	Invariant   int
	Field       string
	Description string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.Field, e.Description)
}

// Verify checks the cent-exact invariants of a derived budget:
//
//  1. total expenses equal the sum of the three category totals
//  2. surplus equals net income minus total expenses
//  3. the deduction breakdown sums to its total
//  4. deductions equal gross minus net whenever gross covers net
//  5. each category total equals the sum of its line items
//  6. every amount has at most two decimal places
func Verify(d model.DerivedTotals) []InvariantError {
	var errs []InvariantError

	check := func(inv int, field string, want, got decimal.Decimal) {
		if !want.Equal(got) {
			errs = append(errs, InvariantError{
				Invariant:   inv,
				Field:       field,
				Description: fmt.Sprintf("expected %s, got %s", want.StringFixed(2), got.StringFixed(2)),
			})
		}
	}

	check(1, "total_monthly_expenses",
		money.Sum(d.Housing.Total, d.Transportation.Total, d.LivingExpenses.Total),
		d.TotalMonthlyExpenses)

	check(2, "monthly_surplus", money.Sub(d.NetMonthlyIncome, d.TotalMonthlyExpenses), d.MonthlySurplus)

	ded := d.Deductions
	check(3, "deductions.total", money.Sum(ded.IncomeTax, ded.CPP, ded.EI, ded.UnionDues), ded.Total)
	if d.GrossMonthlyIncome.GreaterThanOrEqual(d.NetMonthlyIncome) {
		check(4, "deductions.total", money.Sub(d.GrossMonthlyIncome, d.NetMonthlyIncome), ded.Total)
	}

	h := d.Housing
	check(5, "housing.total", money.Sum(h.Rent, h.Utilities, h.RenterInsurance, h.InternetPhone, h.Other), h.Total)

	t := d.Transportation
	check(5, "transportation.operating_cost", money.Sum(t.FuelCost, t.Maintenance), t.OperatingCost)
	check(5, "transportation.total",
		money.Sum(t.LoanPayment, t.OperatingCost, t.TransitPass, t.Insurance, t.Parking), t.Total)

	l := d.LivingExpenses
	check(5, "living_expenses.total",
		money.Sum(l.Groceries, l.Clothing, l.HouseholdMaintenance, l.HealthHygiene, l.Recreation, l.Savings, l.Misc),
		l.Total)

	for _, line := range Lines(d) {
		if !money.Round(line.Amount).Equal(line.Amount) {
			errs = append(errs, InvariantError{
				Invariant:   6,
				Field:       line.Key(),
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", line.Amount),
			})
		}
	}

	return errs
}
