// Package transport resolves the monthly cost of getting around: a financed
// vehicle (car or truck) or a transit pass.
package transport

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
)

// Mode returns the transport mode named by the inputs.
func Mode(inputs model.Inputs) model.TransportMode {
	return model.ParseTransportMode(inputs.Text(model.FieldTransportMode))
}

// Resolve computes the transportation totals for the selected mode.
func Resolve(inputs model.Inputs, c *constants.Constants) model.TransportationTotals {
	mode := Mode(inputs)
	insurance := money.Round(inputs.Decimal(model.FieldTransportInsurance))
	parking := money.Round(inputs.Decimal(model.FieldParking))
	zero := money.FromCents(0)

	t := model.TransportationTotals{
		Mode:              mode,
		VehiclePrice:      money.Round(inputs.Decimal(model.FieldVehiclePrice)),
		DownPayment:       zero,
		FinancedPrincipal: zero,
		LoanPayment:       zero,
		GasPricePerLitre:  zero,
		FuelCost:          zero,
		Maintenance:       zero,
		OperatingCost:     zero,
		Insurance:         insurance,
		Parking:           parking,
		TransitPass:       zero,
	}

	if !mode.Vehicle() {
		t.TransitPass = transitPass(inputs, c)
		t.Total = money.Sum(t.TransitPass, insurance, parking)
		return t
	}

	tc := c.Transportation
	price := inputs.Number(model.FieldVehiclePrice)
	down := inputs.Number(model.FieldDownPayment)
	if down <= 0 {
		down = price * tc.DefaultDownPayment.Value
	}
	principal := math.Max(price-down, 0)

	t.TermMonths = positiveOr(inputs.Number(model.FieldTermMonths), tc.DefaultTermMonths.Value)
	t.APRPercent = positiveOr(inputs.Number(model.FieldAPRPercent), tc.DefaultAPRPercent.Value)
	t.DownPayment = money.RoundFloat(down)
	t.FinancedPrincipal = money.RoundFloat(principal)
	t.LoanPayment = LoanPayment(tc.LoanTable, principal, t.TermMonths, t.APRPercent)

	t.KMPerMonth = inputs.Number(model.FieldKMPerMonth)
	t.FuelEconomy = inputs.Number(model.FieldFuelEconomy)
	t.GasPricePerLitre = money.Round(inputs.Decimal(model.FieldGasPrice))
	t.FuelCost = fuelCost(mode, t.KMPerMonth, t.FuelEconomy, inputs.Number(model.FieldGasPrice), tc)
	t.Maintenance = money.Round(inputs.Decimal(model.FieldMaintenance))
	t.OperatingCost = money.Sum(t.FuelCost, t.Maintenance)

	t.Total = money.Sum(t.LoanPayment, t.OperatingCost, t.TransitPass, insurance, parking)
	return t
}

func transitPass(inputs model.Inputs, c *constants.Constants) decimal.Decimal {
	if entered := inputs.Number(model.FieldTransitPass); entered > 0 {
		return money.RoundFloat(entered)
	}
	return money.RoundFloat(c.Transportation.TransitPassDefault.Value)
}

// fuelCost prices fuel from economy and pump price when both are known and
// falls back to the flat per-kilometre rate for the vehicle class.
func fuelCost(mode model.TransportMode, km, litresPer100, pricePerLitre float64, tc constants.TransportationConstants) decimal.Decimal {
	if km <= 0 {
		return money.FromCents(0)
	}
	if litresPer100 > 0 && pricePerLitre > 0 {
		return money.Round(money.FromFloat(km).
			Mul(money.FromFloat(litresPer100)).
			Mul(money.FromFloat(pricePerLitre)).
			Div(decimal.NewFromInt(100)))
	}
	return money.Round(money.FromFloat(km).Mul(money.FromFloat(tc.OperatingCostPerKM.For(mode))))
}

// LoanPayment interpolates the baseline payment for principal and rescales it
// from the table's baseline term and APR to the requested ones.
func LoanPayment(table constants.LoanTable, principal, termMonths, aprPercent float64) decimal.Decimal {
	baseline := Baseline(table.Points, principal)
	baseFactor := PaymentFactor(table.BaselineTermMonths, table.BaselineAPRPercent)
	targetFactor := PaymentFactor(termMonths, aprPercent)
	if baseFactor == 0 || targetFactor == 0 {
		return baseline
	}
	return money.Round(baseline.Mul(money.FromFloat(targetFactor / baseFactor)))
}

// Baseline returns the table payment for principal, rounded to the cent.
// Below the first point the payment scales from the origin; above the last
// point it follows the slope of the final segment.
func Baseline(points []constants.LoanPoint, principal float64) decimal.Decimal {
	if principal <= 0 || len(points) == 0 {
		return money.FromCents(0)
	}

	sorted := append([]constants.LoanPoint(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Principal < sorted[j].Principal })

	first := sorted[0]
	if principal <= first.Principal {
		if first.Principal <= 0 {
			return money.RoundFloat(first.MonthlyPayment)
		}
		return money.Round(money.FromFloat(principal).
			Mul(money.FromFloat(first.MonthlyPayment)).
			Div(money.FromFloat(first.Principal)))
	}

	last := sorted[len(sorted)-1]
	if principal >= last.Principal {
		prev := first
		if len(sorted) > 1 {
			prev = sorted[len(sorted)-2]
		}
		return money.RoundFloat(last.MonthlyPayment + (principal-last.Principal)*slope(prev, last))
	}

	for i := 0; i < len(sorted)-1; i++ {
		left, right := sorted[i], sorted[i+1]
		if principal >= left.Principal && principal <= right.Principal {
			return money.RoundFloat(left.MonthlyPayment + (principal-left.Principal)*slope(left, right))
		}
	}
	return money.FromCents(0)
}

func slope(a, b constants.LoanPoint) float64 {
	span := b.Principal - a.Principal
	if span == 0 {
		return 0
	}
	return (b.MonthlyPayment - a.MonthlyPayment) / span
}

// PaymentFactor is the amortized monthly payment per dollar borrowed. A
// non-positive term yields 0.
func PaymentFactor(termMonths, aprPercent float64) float64 {
	if termMonths <= 0 {
		return 0
	}
	r := aprPercent / 100 / 12
	if r == 0 {
		return 1 / termMonths
	}
	growth := math.Pow(1+r, termMonths)
	return r * growth / (growth - 1)
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
