package budget

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/model"
)

var computeKeys = map[string]func(model.DerivedTotals) decimal.Decimal{
	"gross_monthly_income":           func(d model.DerivedTotals) decimal.Decimal { return d.GrossMonthlyIncome },
	"net_monthly_income":             func(d model.DerivedTotals) decimal.Decimal { return d.NetMonthlyIncome },
	"deductions_total":               func(d model.DerivedTotals) decimal.Decimal { return d.Deductions.Total },
	"housing_monthly_total":          func(d model.DerivedTotals) decimal.Decimal { return d.Housing.Total },
	"housing_affordability_ratio":    func(d model.DerivedTotals) decimal.Decimal { return d.Housing.AffordabilityRatio },
	"transport_loan_payment_monthly": func(d model.DerivedTotals) decimal.Decimal { return d.Transportation.LoanPayment },
	"transport_fuel_monthly":         func(d model.DerivedTotals) decimal.Decimal { return d.Transportation.FuelCost },
	"transport_operating_monthly":    func(d model.DerivedTotals) decimal.Decimal { return d.Transportation.OperatingCost },
	"transport_monthly_total":        func(d model.DerivedTotals) decimal.Decimal { return d.Transportation.Total },
	"groceries_weekly_total":         func(d model.DerivedTotals) decimal.Decimal { return d.LivingExpenses.GroceriesWeekly },
	"groceries_monthly":              func(d model.DerivedTotals) decimal.Decimal { return d.LivingExpenses.Groceries },
	"clothing_monthly_derived":       func(d model.DerivedTotals) decimal.Decimal { return d.LivingExpenses.Clothing },
	"health_hygiene_monthly_derived": func(d model.DerivedTotals) decimal.Decimal { return d.LivingExpenses.HealthHygiene },
	"recreation_monthly_derived":     func(d model.DerivedTotals) decimal.Decimal { return d.LivingExpenses.Recreation },
	"misc_monthly_derived":           func(d model.DerivedTotals) decimal.Decimal { return d.LivingExpenses.Misc },
	"essentials_total":               func(d model.DerivedTotals) decimal.Decimal { return d.LivingExpenses.Total },
	"total_monthly_expenses":         func(d model.DerivedTotals) decimal.Decimal { return d.TotalMonthlyExpenses },
	"monthly_surplus":                func(d model.DerivedTotals) decimal.Decimal { return d.MonthlySurplus },
}

// Lookup returns the derived value named by a schema compute key.
func Lookup(d model.DerivedTotals, computeKey string) (decimal.Decimal, bool) {
	fn, ok := computeKeys[computeKey]
	if !ok {
		return decimal.Decimal{}, false
	}
	return fn(d), true
}

// ComputeKeys returns every known compute key, sorted.
func ComputeKeys() []string {
	keys := make([]string, 0, len(computeKeys))
	for k := range computeKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
