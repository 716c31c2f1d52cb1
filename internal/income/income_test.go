package income

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
)

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

func hourlyInputs() model.Inputs {
	return model.Inputs{
		model.FieldIncomeMode:   "hourly_estimate",
		model.FieldHourlyWage:   24.0,
		model.FieldHoursPerWeek: 28.0,
		model.FieldOtherIncome:  140.0,
	}
}

func TestResolve_HourlyEstimate(t *testing.T) {
	r := Resolve(hourlyInputs(), constants.Default())

	assert.Equal(t, model.IncomeHourlyEstimate, r.Mode)
	// 24 × 28 × 4.33 + 140
	assertMoney(t, "3049.76", r.Gross)
	assertMoney(t, "365.97", r.Deductions.IncomeTax)
	assertMoney(t, "181.46", r.Deductions.CPP)
	assertMoney(t, "50.63", r.Deductions.EI)
	assertMoney(t, "0.00", r.Deductions.UnionDues)
	assertMoney(t, "598.06", r.Deductions.Total)
	assertMoney(t, "2451.70", r.Net)
	assert.True(t, money.Sub(r.Gross, r.Deductions.Total).Equal(r.Net))
}

func TestResolve_NetPaycheque(t *testing.T) {
	inputs := model.Inputs{
		model.FieldIncomeMode:         "net_paycheque",
		model.FieldNetPayPerCheque:    1200.0,
		model.FieldPaychequesPerMonth: 2.0,
	}
	r := Resolve(inputs, constants.Default())

	assert.Equal(t, model.IncomeNetPaycheque, r.Mode)
	// 2400 / (1 − 0.1961)
	assertMoney(t, "2985.45", r.Gross)
	assertMoney(t, "2400.00", r.Net)

	d := r.Deductions
	assert.True(t, d.Total.Equal(money.Sub(r.Gross, r.Net)), "total %s", d.Total)
	assert.True(t, money.Sum(d.IncomeTax, d.CPP, d.EI, d.UnionDues).Equal(d.Total))
	assert.True(t, d.IncomeTax.GreaterThan(d.CPP))
	assert.True(t, d.CPP.GreaterThan(d.EI))
}

func TestResolve_NetPaycheque_MinimumOneCheque(t *testing.T) {
	inputs := model.Inputs{
		model.FieldIncomeMode:         "net_paycheque",
		model.FieldNetPayPerCheque:    1000.0,
		model.FieldPaychequesPerMonth: 0.0,
		model.FieldOtherIncome:        50.0,
	}
	r := Resolve(inputs, constants.Default())
	assertMoney(t, "1050.00", r.Net)
}

func TestResolve_NetPaycheque_HourlyDataTakesPrecedence(t *testing.T) {
	inputs := hourlyInputs()
	inputs[model.FieldIncomeMode] = "net_paycheque"
	inputs[model.FieldNetPayPerCheque] = 900.0

	r := Resolve(inputs, constants.Default())
	assert.Equal(t, model.IncomeNetPaycheque, r.RequestedMode)
	assert.Equal(t, model.IncomeHourlyEstimate, r.Mode)
	assert.Equal(t, Resolve(hourlyInputs(), constants.Default()).Gross.String(), r.Gross.String())
	assertMoney(t, "2451.70", r.Net)
}

func TestResolve_DefaultMode(t *testing.T) {
	c := constants.Default()
	for _, raw := range []any{nil, "", "weekly", 3.0} {
		inputs := model.Inputs{model.FieldIncomeMode: raw}
		assert.Equal(t, c.Income.DefaultMode, Resolve(inputs, c).RequestedMode, "mode %v", raw)
	}
}

func TestResolve_RateOutOfRangeSkipsGrossUp(t *testing.T) {
	c := constants.Default()
	c.Deductions.IncomeTax.Value = 0.9
	c.Deductions.CPP.Value = 0.1
	inputs := model.Inputs{
		model.FieldIncomeMode:      "net_paycheque",
		model.FieldNetPayPerCheque: 1500.0,
	}
	r := Resolve(inputs, c)
	assertMoney(t, "1500.00", r.Gross)
	assertMoney(t, "1500.00", r.Net)
	assertMoney(t, "0.00", r.Deductions.Total)
}

func TestResolve_ZeroRates(t *testing.T) {
	c := constants.Default()
	c.Deductions = constants.DeductionRates{}
	r := Resolve(model.Inputs{model.FieldNetPayPerCheque: 800.0}, c)
	assertMoney(t, "800.00", r.Gross)
	assertMoney(t, "0.00", r.Deductions.IncomeTax)
	assertMoney(t, "0.00", r.Deductions.Total)
}

func TestResolve_EmptyInputs(t *testing.T) {
	c := constants.Default()
	c.Income.DefaultMode = model.IncomeHourlyEstimate
	r := Resolve(model.Inputs{}, c)
	assertMoney(t, "0.00", r.Gross)
	assertMoney(t, "0.00", r.Net)
	assertMoney(t, "0.00", r.Deductions.Total)
}
