// Package budget composes income, housing, transportation and living
// expenses into one DerivedTotals snapshot and checks its invariants.
package budget

import (
	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/expenses"
	"github.com/movingout-dev/movingout/internal/income"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
	"github.com/movingout-dev/movingout/internal/transport"
)

// Compute derives the full monthly budget. Net income is the only value
// passed between aggregators; it feeds the housing affordability ratio.
func Compute(inputs model.Inputs, c *constants.Constants) model.DerivedTotals {
	inc := income.Resolve(inputs, c)

	housing := expenses.Housing(inputs, inc.Net)
	transportation := transport.Resolve(inputs, c)
	living := expenses.Living(inputs, c)

	total := money.Sum(housing.Total, transportation.Total, living.Total)
	return model.DerivedTotals{
		IncomeMode:           inc.Mode,
		GrossMonthlyIncome:   inc.Gross,
		NetMonthlyIncome:     inc.Net,
		Deductions:           inc.Deductions,
		Housing:              housing,
		Transportation:       transportation,
		LivingExpenses:       living,
		TotalMonthlyExpenses: total,
		MonthlySurplus:       money.Sub(inc.Net, total),
	}
}
