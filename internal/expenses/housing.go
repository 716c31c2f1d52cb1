// Package expenses aggregates the housing and living-expense categories of a
// monthly budget.
package expenses

import (
	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
)

// Housing sums the monthly housing fields. The affordability ratio is
// (rent + utilities) / net and is zero when net is not positive.
func Housing(inputs model.Inputs, net decimal.Decimal) model.HousingTotals {
	h := model.HousingTotals{
		Rent:            money.Round(inputs.Decimal(model.FieldRent)),
		Utilities:       money.Round(inputs.Decimal(model.FieldUtilities)),
		RenterInsurance: money.Round(inputs.Decimal(model.FieldRenterInsurance)),
		InternetPhone:   money.Round(inputs.Decimal(model.FieldInternetPhone)),
		Other:           money.Round(inputs.Decimal(model.FieldOtherHousing)),
	}
	h.Total = money.Sum(h.Rent, h.Utilities, h.RenterInsurance, h.InternetPhone, h.Other)

	h.AffordabilityRatio = money.FromCents(0)
	if net.IsPositive() {
		h.AffordabilityRatio = money.Round(money.Sum(h.Rent, h.Utilities).Div(net))
	}
	return h
}
