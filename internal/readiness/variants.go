package readiness

import (
	"strings"

	"github.com/movingout-dev/movingout/internal/model"
)

// requirement is a field a mode makes required, with its own satisfaction
// rule.
type requirement struct {
	field     string
	satisfied func(model.Inputs) bool
}

// variant is the requirement set of one income or transport mode.
type variant struct {
	exempt         []string
	requires       []requirement
	exemptEvidence []model.EvidenceType
}

func positive(field string) requirement {
	return requirement{field: field, satisfied: func(in model.Inputs) bool { return in.Number(field) > 0 }}
}

var incomeVariants = map[model.IncomeMode]variant{
	model.IncomeHourlyEstimate: {
		exempt:   []string{model.FieldNetPayPerCheque, model.FieldPaychequesPerMonth},
		requires: []requirement{positive(model.FieldHourlyWage), positive(model.FieldHoursPerWeek)},
	},
	model.IncomeNetPaycheque: {
		exempt:   []string{model.FieldHourlyWage, model.FieldHoursPerWeek},
		requires: []requirement{positive(model.FieldNetPayPerCheque), positive(model.FieldPaychequesPerMonth)},
	},
}

var vehicleFields = []string{
	model.FieldVehiclePrice,
	model.FieldDownPayment,
	model.FieldTermMonths,
	model.FieldAPRPercent,
	model.FieldKMPerMonth,
	model.FieldFuelEconomy,
	model.FieldGasPrice,
	model.FieldMaintenance,
	model.FieldVehicleSourceURL,
}

var vehicleVariant = variant{
	exempt:   []string{model.FieldTransitPass, model.FieldTransitPassURL},
	requires: []requirement{positive(model.FieldVehiclePrice), positive(model.FieldKMPerMonth)},
}

var transportVariants = map[model.TransportMode]variant{
	model.TransportCar:   vehicleVariant,
	model.TransportTruck: vehicleVariant,
	model.TransportTransit: {
		exempt: vehicleFields,
		requires: []requirement{{
			field: model.FieldTransitPass,
			satisfied: func(in model.Inputs) bool {
				return in.Number(model.FieldTransitPass) > 0 || strings.TrimSpace(in.Text(model.FieldTransitPassURL)) != ""
			},
		}},
		exemptEvidence: []model.EvidenceType{model.EvidenceVehicleAd},
	},
}

// rules merges the active variants into one lookup.
type rules struct {
	exempt         map[string]bool
	exemptEvidence map[model.EvidenceType]bool
	requires       []requirement
	byField        map[string]requirement
}

func newRules(variants ...variant) rules {
	r := rules{
		exempt:         map[string]bool{},
		exemptEvidence: map[model.EvidenceType]bool{},
		byField:        map[string]requirement{},
	}
	for _, v := range variants {
		for _, id := range v.exempt {
			r.exempt[id] = true
		}
		for _, et := range v.exemptEvidence {
			r.exemptEvidence[et] = true
		}
		for _, req := range v.requires {
			r.requires = append(r.requires, req)
			r.byField[req.field] = req
		}
	}
	return r
}
