package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movingout-dev/movingout/internal/budget"
	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
	"github.com/movingout-dev/movingout/internal/schema"
)

func completeSubmission(c *constants.Constants) *model.Submission {
	inputs := model.Inputs{
		model.FieldIncomeMode:      "hourly_estimate",
		model.FieldHourlyWage:      24.0,
		model.FieldHoursPerWeek:    28.0,
		model.FieldOtherIncome:     140.0,
		model.FieldIncomeSourceURL: "https://jobs.example/barista",
		model.FieldRent:            700.0,
		model.FieldUtilities:       100.0,
		model.FieldRentSourceURL:   "https://rentals.example/123",
		model.FieldTransportMode:   "transit",
		model.FieldTransitPassURL:  "https://transit.example/fares",
		model.FieldFoodTable:       `[{"item":"Protein","estimated_cost":50,"source_url":"https://grocer.example"}]`,
		model.FieldClothingTable:   `[{"item":"Jacket","annual_total":120}]`,
		model.FieldHealthTable:     `[{"item":"Toiletries","quantity_per_year":12,"average_cost":5}]`,
	}
	return &model.Submission{
		Inputs: inputs,
		Reflections: map[string]string{
			"reflection_housing_choice":        "Close to work.",
			"reflection_transportation_choice": "The bus is cheaper.",
			"reflection_budget_changes":        "Cook more at home.",
		},
		Derived: budget.Compute(inputs, c),
	}
}

func rentalAd() []model.EvidenceItem {
	return []model.EvidenceItem{{ID: "e1", Type: model.EvidenceRentalAd, URL: "https://rentals.example/123"}}
}

func derived(net, rent, utilities, total int64) model.DerivedTotals {
	return model.DerivedTotals{
		NetMonthlyIncome: money.FromCents(net),
		Housing: model.HousingTotals{
			Rent:      money.FromCents(rent),
			Utilities: money.FromCents(utilities),
		},
		TotalMonthlyExpenses: money.FromCents(total),
		MonthlySurplus:       money.FromCents(net - total),
	}
}

func TestEvaluate_Complete(t *testing.T) {
	c := constants.Default()
	s := schema.Default()
	sub := completeSubmission(c)
	flags := Evaluate(s, sub, rentalAd(), c)

	assert.Empty(t, flags.MissingRequiredFields)
	assert.Empty(t, flags.MissingRequiredEvidence)
	assert.Empty(t, flags.UnsourcedCategories)
	assert.False(t, flags.AffordabilityFail)
	assert.False(t, flags.Deficit)
	assert.False(t, flags.FragileBuffer)
	assert.False(t, flags.LowVehiclePrice)
	assert.Equal(t, "1315.20", flags.SurplusOrDeficitAmount.StringFixed(2))
	assert.Empty(t, flags.FixNext)
	assert.Equal(t, 100, CompletionPercent(s, sub.Inputs, flags, c))
}

func TestEvaluate_EmptySubmission(t *testing.T) {
	c := constants.Default()
	s := schema.Default()
	sub := &model.Submission{Derived: budget.Compute(model.Inputs{}, c)}
	flags := Evaluate(s, sub, nil, c)

	assert.Equal(t, []string{
		model.FieldIncomeMode,
		model.FieldNetPayPerCheque,
		model.FieldPaychequesPerMonth,
		model.FieldRent,
		model.FieldUtilities,
		model.FieldTransportMode,
		model.FieldVehiclePrice,
		model.FieldKMPerMonth,
		model.FieldFoodTable,
		model.FieldClothingTable,
		model.FieldHealthTable,
		"reflection_housing_choice",
		"reflection_transportation_choice",
		"reflection_budget_changes",
	}, flags.MissingRequiredFields)
	assert.Equal(t, []model.EvidenceType{model.EvidenceRentalAd, model.EvidenceVehicleAd}, flags.MissingRequiredEvidence)
	assert.Equal(t, Categories, flags.UnsourcedCategories)
	assert.False(t, flags.Deficit)
	assert.True(t, flags.FragileBuffer)

	assert.Equal(t, []string{
		"Enter: How will you estimate income?",
		"Enter: Net pay per cheque",
		"Enter: Paycheques per month",
		"Enter: Monthly rent",
		"Enter: Monthly utilities",
		"Add rental ad evidence (a URL or a file).",
		"Add vehicle ad evidence (a URL or a file).",
		"Add a source URL for: income, housing, transportation, essentials.",
		MsgFragileBuffer,
	}, flags.FixNext)
	assert.Equal(t, 0, CompletionPercent(s, sub.Inputs, flags, c))
}

func TestEvaluate_AffordabilityScenario(t *testing.T) {
	c := constants.Default()
	sub := completeSubmission(c)
	sub.Derived = derived(300000, 110000, 17000, 200000)

	flags := Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.True(t, flags.AffordabilityFail, "(1100+170)/3000 = 0.4233 > 0.35")
	assert.False(t, flags.Deficit)
	assert.False(t, flags.FragileBuffer)
	assert.Equal(t, []string{MsgAffordability}, flags.FixNext)

	sub.Derived = derived(300000, 90000, 15000, 200000)
	flags = Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.False(t, flags.AffordabilityFail, "exactly at the threshold is not a failure")
}

func TestEvaluate_DeficitAndFragileBuffer(t *testing.T) {
	c := constants.Default()
	sub := completeSubmission(c)
	sub.Derived = derived(200000, 50000, 10000, 200001)

	flags := Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.True(t, flags.Deficit)
	assert.True(t, flags.FragileBuffer)
	assert.Equal(t, "-0.01", flags.SurplusOrDeficitAmount.StringFixed(2))
	assert.Equal(t, []string{MsgDeficit}, flags.FixNext)
}

func TestEvaluate_FragileWithoutDeficit(t *testing.T) {
	c := constants.Default()
	sub := completeSubmission(c)
	sub.Derived = derived(200000, 50000, 10000, 185000)

	flags := Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.False(t, flags.Deficit)
	assert.True(t, flags.FragileBuffer)
	assert.Equal(t, []string{MsgFragileBuffer}, flags.FixNext)

	sub.Derived = derived(200000, 50000, 10000, 180000)
	flags = Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.False(t, flags.FragileBuffer, "a surplus equal to the threshold is not fragile")
}

func TestEvaluate_TransitRequirement(t *testing.T) {
	c := constants.Default()
	sub := completeSubmission(c)
	delete(sub.Inputs, model.FieldTransitPassURL)

	flags := Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.Equal(t, []string{model.FieldTransitPass}, flags.MissingRequiredFields)
	assert.NotContains(t, flags.MissingRequiredEvidence, model.EvidenceVehicleAd)
	assert.Contains(t, flags.UnsourcedCategories, model.CategoryTransportation)

	sub.Inputs[model.FieldTransitPass] = 98.0
	flags = Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.Empty(t, flags.MissingRequiredFields)
}

func TestEvaluate_VehicleModeRequirements(t *testing.T) {
	c := constants.Default()
	sub := completeSubmission(c)
	sub.Inputs[model.FieldTransportMode] = "truck"

	flags := Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.Equal(t, []string{model.FieldVehiclePrice, model.FieldKMPerMonth}, flags.MissingRequiredFields)
	assert.Equal(t, []model.EvidenceType{model.EvidenceVehicleAd}, flags.MissingRequiredEvidence)
	assert.Contains(t, flags.UnsourcedCategories, model.CategoryTransportation,
		"the transit fare URL does not source a truck")
}

func TestEvaluate_IncomeModes(t *testing.T) {
	c := constants.Default()

	sub := completeSubmission(c)
	delete(sub.Inputs, model.FieldHourlyWage)
	flags := Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.Equal(t, []string{model.FieldHourlyWage}, flags.MissingRequiredFields)

	sub = completeSubmission(c)
	sub.Inputs[model.FieldIncomeMode] = "net_paycheque"
	flags = Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.Empty(t, flags.MissingRequiredFields, "wage and hours resolve as an hourly estimate")

	delete(sub.Inputs, model.FieldHoursPerWeek)
	flags = Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.Equal(t, []string{model.FieldNetPayPerCheque, model.FieldPaychequesPerMonth}, flags.MissingRequiredFields)
}

func TestEvaluate_TablePresence(t *testing.T) {
	c := constants.Default()
	sub := completeSubmission(c)
	sub.Inputs[model.FieldFoodTable] = `[{"item":"Protein","estimated_cost":0,"source_url":"https://grocer.example"}]`
	sub.Inputs[model.FieldClothingTable] = `[{"item":"Jacket"}]`
	sub.Inputs[model.FieldHealthTable] = "not json"

	flags := Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.Equal(t, []string{model.FieldFoodTable, model.FieldClothingTable, model.FieldHealthTable}, flags.MissingRequiredFields)
}

func TestEvaluate_Reflections(t *testing.T) {
	c := constants.Default()
	sub := completeSubmission(c)
	sub.Reflections["reflection_budget_changes"] = "   "

	flags := Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.Equal(t, []string{"reflection_budget_changes"}, flags.MissingRequiredFields)
	assert.Equal(t, []string{"Enter: What would you change if your budget ran short?"}, flags.FixNext)
}

func TestEvaluate_EvidenceUsability(t *testing.T) {
	c := constants.Default()
	s := schema.Default()
	sub := completeSubmission(c)

	blank := []model.EvidenceItem{{ID: "e1", Type: model.EvidenceRentalAd, URL: "  "}}
	assert.Equal(t, []model.EvidenceType{model.EvidenceRentalAd}, Evaluate(s, sub, blank, c).MissingRequiredEvidence)

	fileOnly := []model.EvidenceItem{{ID: "e1", Type: model.EvidenceRentalAd, FileIDs: []string{"f1"}}}
	assert.Empty(t, Evaluate(s, sub, fileOnly, c).MissingRequiredEvidence)

	wrongType := []model.EvidenceItem{{ID: "e1", Type: model.EvidenceOther, URL: "https://x.example"}}
	assert.Equal(t, []model.EvidenceType{model.EvidenceRentalAd}, Evaluate(s, sub, wrongType, c).MissingRequiredEvidence)
}

func TestEvaluate_LowVehiclePrice(t *testing.T) {
	c := constants.Default()
	sub := completeSubmission(c)
	sub.Inputs[model.FieldTransportMode] = "car"
	sub.Inputs[model.FieldVehiclePrice] = 2500.0
	sub.Inputs[model.FieldKMPerMonth] = 500.0
	sub.Inputs[model.FieldVehicleSourceURL] = "https://cars.example/1"
	sub.Derived = budget.Compute(sub.Inputs, c)
	evidence := append(rentalAd(), model.EvidenceItem{ID: "e2", Type: model.EvidenceVehicleAd, URL: "https://cars.example/1"})

	flags := Evaluate(schema.Default(), sub, evidence, c)
	assert.True(t, flags.LowVehiclePrice)
	assert.Equal(t, []string{"Vehicle price is below $3000.00. Check that the listing is realistic."}, flags.FixNext)

	sub.Inputs[model.FieldTransportMode] = "transit"
	assert.False(t, Evaluate(schema.Default(), sub, evidence, c).LowVehiclePrice)
}

func TestEvaluate_FixNextOrderAndCap(t *testing.T) {
	c := constants.Default()
	s := schema.Default()
	sub := &model.Submission{
		Inputs:  model.Inputs{model.FieldTransportMode: "car", model.FieldVehiclePrice: 1000.0},
		Derived: derived(100000, 60000, 10000, 150000),
	}

	flags := Evaluate(s, sub, nil, c)
	require.Greater(t, len(flags.MissingRequiredFields), maxMissingFieldPrompts)
	require.True(t, flags.AffordabilityFail)
	require.True(t, flags.Deficit)

	var enter int
	for _, msg := range flags.FixNext[:maxMissingFieldPrompts] {
		assert.Contains(t, msg, "Enter: ")
		enter++
	}
	assert.Equal(t, maxMissingFieldPrompts, enter)

	rest := flags.FixNext[maxMissingFieldPrompts:]
	require.Len(t, rest, 6)
	assert.Equal(t, "Add rental ad evidence (a URL or a file).", rest[0])
	assert.Equal(t, "Add vehicle ad evidence (a URL or a file).", rest[1])
	assert.Contains(t, rest[2], "Add a source URL for:")
	assert.Contains(t, rest[3], "Vehicle price is below")
	assert.Equal(t, MsgAffordability, rest[4])
	assert.Equal(t, MsgDeficit, rest[5])
}

func TestEvaluate_DoesNotMutateSubmission(t *testing.T) {
	c := constants.Default()
	sub := completeSubmission(c)
	before := sub.Inputs.Clone()
	Evaluate(schema.Default(), sub, rentalAd(), c)
	assert.Equal(t, before, sub.Inputs)
}

func TestVariantsCoverEveryMode(t *testing.T) {
	for _, m := range model.IncomeModes {
		_, ok := incomeVariants[m]
		assert.True(t, ok, m)
	}
	for _, m := range model.TransportModes {
		_, ok := transportVariants[m]
		assert.True(t, ok, m)
	}
}

func TestCompletionPercent(t *testing.T) {
	c := constants.Default()
	s := schema.Default()

	// Transit with an hourly estimate: 13 fields and the rental ad.
	sub := completeSubmission(c)
	delete(sub.Inputs, model.FieldTransitPassURL)
	flags := Evaluate(s, sub, rentalAd(), c)
	require.Len(t, flags.MissingRequiredFields, 1)
	assert.Equal(t, 93, CompletionPercent(s, sub.Inputs, flags, c))

	// A truck adds vehicle price, distance and the vehicle ad: 16 items.
	sub = completeSubmission(c)
	sub.Inputs[model.FieldTransportMode] = "truck"
	flags = Evaluate(s, sub, rentalAd(), c)
	require.Len(t, flags.MissingRequiredFields, 2)
	require.Len(t, flags.MissingRequiredEvidence, 1)
	assert.Equal(t, 81, CompletionPercent(s, sub.Inputs, flags, c))

	empty := model.Inputs{model.FieldTransportMode: "transit"}
	sub = &model.Submission{Inputs: empty, Derived: budget.Compute(empty, c)}
	flags = Evaluate(s, sub, nil, c)
	require.Len(t, flags.MissingRequiredFields, 12)
	assert.Equal(t, 7, CompletionPercent(s, sub.Inputs, flags, c), "only the transport mode of 14 items")

	assert.Equal(t, 100, CompletionPercent(&schema.Schema{}, model.Inputs{}, model.ReadinessFlags{}, c))
}
