// Package income resolves gross and net monthly income and the payroll
// deduction breakdown.
package income

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
)

// Result is the resolved income for one recompute cycle.
type Result struct {
	// RequestedMode is the mode named by the inputs, or the constants default.
	RequestedMode model.IncomeMode
	// Mode is the mode actually applied. A net-paycheque request with a
	// positive wage and hours is resolved as an hourly estimate.
	Mode       model.IncomeMode
	Gross      decimal.Decimal
	Net        decimal.Decimal
	Deductions model.Deductions
}

// Mode returns the requested income mode.
func Mode(inputs model.Inputs, c *constants.Constants) model.IncomeMode {
	return model.ParseIncomeMode(inputs.Text(model.FieldIncomeMode), c.Income.DefaultMode)
}

// Resolve derives gross income, net income and deductions.
func Resolve(inputs model.Inputs, c *constants.Constants) Result {
	requested := Mode(inputs, c)
	mode := requested
	if requested == model.IncomeNetPaycheque && hasHourlyBasis(inputs) {
		mode = model.IncomeHourlyEstimate
	}

	var r Result
	switch mode {
	case model.IncomeHourlyEstimate:
		r = hourlyEstimate(inputs, c)
	case model.IncomeNetPaycheque:
		r = netPaycheque(inputs, c)
	}
	r.RequestedMode = requested
	r.Mode = mode
	return r
}

func hasHourlyBasis(inputs model.Inputs) bool {
	return inputs.Number(model.FieldHourlyWage) > 0 && inputs.Number(model.FieldHoursPerWeek) > 0
}

// hourlyEstimate computes deductions forward from gross; net is exact to the
// cent by construction.
func hourlyEstimate(inputs model.Inputs, c *constants.Constants) Result {
	gross := money.Round(
		inputs.Decimal(model.FieldHourlyWage).
			Mul(inputs.Decimal(model.FieldHoursPerWeek)).
			Mul(money.FromFloat(c.Transportation.WeeksPerMonth.Value)).
			Add(inputs.Decimal(model.FieldOtherIncome)),
	)

	rates := c.Deductions
	d := model.Deductions{
		IncomeTax: money.Round(gross.Mul(money.FromFloat(rates.IncomeTax.Value))),
		CPP:       money.Round(gross.Mul(money.FromFloat(rates.CPP.Value))),
		EI:        money.Round(gross.Mul(money.FromFloat(rates.EI.Value))),
		UnionDues: money.Round(gross.Mul(money.FromFloat(rates.UnionDues.Value))),
	}
	d.Total = money.Sum(d.IncomeTax, d.CPP, d.EI, d.UnionDues)

	return Result{
		Gross:      gross,
		Net:        money.Sub(gross, d.Total),
		Deductions: d,
	}
}

// netPaycheque grosses up take-home pay and back-derives the deductions.
func netPaycheque(inputs model.Inputs, c *constants.Constants) Result {
	cheques := math.Max(inputs.Number(model.FieldPaychequesPerMonth), 1)
	netEmployment := inputs.Decimal(model.FieldNetPayPerCheque).Mul(money.FromFloat(cheques))
	other := inputs.Decimal(model.FieldOtherIncome)

	grossEmployment := netEmployment
	if rate := c.Deductions.Total(); rate > 0 && rate < 1 {
		grossEmployment = netEmployment.Div(money.FromFloat(1 - rate))
	}

	gross := money.Round(grossEmployment.Add(other))
	net := money.Round(netEmployment.Add(other))

	return Result{
		Gross:      gross,
		Net:        net,
		Deductions: backDerive(gross, net, c.Deductions),
	}
}

// backDerive apportions gross − net among the deduction categories by their
// configured rates. Union dues absorb the rounding remainder.
func backDerive(gross, net decimal.Decimal, rates constants.DeductionRates) model.Deductions {
	total := money.Max(money.Sub(gross, net), decimal.Zero)
	if total.IsZero() || rates.Total() <= 0 {
		zero := money.FromCents(0)
		return model.Deductions{IncomeTax: zero, CPP: zero, EI: zero, UnionDues: zero, Total: zero}
	}

	parts := money.Apportion(total, rates.Weights())
	d := model.Deductions{
		IncomeTax: parts[0],
		CPP:       parts[1],
		EI:        parts[2],
		UnionDues: parts[3],
	}
	d.Total = money.Sum(parts...)
	return d
}
