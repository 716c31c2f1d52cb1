// Package readiness derives the warnings, missing-field lists and the
// prioritized fix-next list shown alongside a budget.
package readiness

import (
	"fmt"
	"math"
	"strings"

	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/income"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
	"github.com/movingout-dev/movingout/internal/schema"
	"github.com/movingout-dev/movingout/internal/tables"
	"github.com/movingout-dev/movingout/internal/transport"
)

const maxMissingFieldPrompts = 5

// Fix-next messages.
const (
	MsgAffordability = "Housing is above the affordability target. Revisit rent or utilities."
	MsgDeficit       = "You are spending more than you earn. Reduce costs or increase income."
	MsgFragileBuffer = "Your budget has a low buffer. Add savings room if possible."
)

// Categories are checked for sources in this order.
var Categories = []string{
	model.CategoryIncome,
	model.CategoryHousing,
	model.CategoryTransportation,
	model.CategoryEssentials,
}

// Evaluate computes the readiness flags for a submission whose Derived
// totals are current.
func Evaluate(s *schema.Schema, sub *model.Submission, evidence []model.EvidenceItem, c *constants.Constants) model.ReadinessFlags {
	inputs := sub.Inputs
	if inputs == nil {
		inputs = model.Inputs{}
	}
	mode := transport.Mode(inputs)
	r := rulesFor(inputs, c)
	d := sub.Derived

	flags := model.ReadinessFlags{
		MissingRequiredFields:   missingFields(s, sub, inputs, r, c),
		MissingRequiredEvidence: missingEvidence(s, evidence, r),
		UnsourcedCategories:     unsourced(s, inputs, r, c),
		SurplusOrDeficitAmount:  money.Round(d.MonthlySurplus),
	}

	affordable := money.FromFloat(c.Thresholds.AffordabilityFraction.Value).Mul(d.NetMonthlyIncome)
	flags.AffordabilityFail = money.Sum(d.Housing.Rent, d.Housing.Utilities).GreaterThan(affordable)
	flags.Deficit = d.TotalMonthlyExpenses.GreaterThan(d.NetMonthlyIncome)
	flags.FragileBuffer = flags.SurplusOrDeficitAmount.LessThan(money.FromFloat(c.Thresholds.BufferWarning.Value))

	price := inputs.Number(model.FieldVehiclePrice)
	flags.LowVehiclePrice = mode.Vehicle() && price > 0 && price < c.Transportation.MinimumVehiclePrice.Value

	flags.FixNext = fixNext(s, flags, c)
	return flags
}

// rulesFor returns the requirement rules of the income and transport modes
// the inputs resolve to.
func rulesFor(inputs model.Inputs, c *constants.Constants) rules {
	return newRules(incomeVariants[income.Resolve(inputs, c).Mode], transportVariants[transport.Mode(inputs)])
}

// requiredFields lists the fields required under r: schema fields in order,
// then mode requirements the schema does not define.
func requiredFields(s *schema.Schema, r rules) []string {
	ids := []string{}
	seen := map[string]bool{}
	for _, f := range s.Fields {
		if r.exempt[f.ID] || f.Role == schema.RoleDerived {
			continue
		}
		if _, ok := r.byField[f.ID]; ok || f.Required {
			seen[f.ID] = true
			ids = append(ids, f.ID)
		}
	}
	for _, req := range r.requires {
		if !seen[req.field] {
			seen[req.field] = true
			ids = append(ids, req.field)
		}
	}
	return ids
}

func missingFields(s *schema.Schema, sub *model.Submission, inputs model.Inputs, r rules, c *constants.Constants) []string {
	missing := []string{}
	for _, id := range requiredFields(s, r) {
		if req, ok := r.byField[id]; ok {
			if !req.satisfied(inputs) {
				missing = append(missing, id)
			}
			continue
		}
		if f, _ := s.Field(id); !present(f, sub, inputs, c) {
			missing = append(missing, id)
		}
	}
	return missing
}

// present applies the role and type specific presence rule for a field.
func present(f schema.Field, sub *model.Submission, inputs model.Inputs, c *constants.Constants) bool {
	switch {
	case f.Role == schema.RoleReflection:
		return strings.TrimSpace(sub.Reflections[f.ID]) != ""
	case f.Type == schema.TypeFoodTable:
		food := tables.ParseFood(inputs, f.ID, c.Food.DefaultItems)
		if food.Fallback {
			return false
		}
		for _, row := range food.Rows {
			if row.EstimatedCost > 0 {
				return true
			}
		}
		return false
	case f.Type == schema.TypeExpenseTable:
		for _, row := range tables.ParseExpenses(inputs, f.ID).Rows {
			if (row.QuantityPerYear > 0 && row.AverageCost > 0) || row.AnnualTotal > 0 || row.MonthlyTotal > 0 {
				return true
			}
		}
		return false
	default:
		return inputs.Present(f.ID)
	}
}

// requiredEvidence lists the evidence types required under r.
func requiredEvidence(s *schema.Schema, r rules) []schema.EvidenceRequirement {
	out := []schema.EvidenceRequirement{}
	for _, req := range s.RequiredEvidence() {
		if !r.exemptEvidence[req.ID] {
			out = append(out, req)
		}
	}
	return out
}

func missingEvidence(s *schema.Schema, items []model.EvidenceItem, r rules) []model.EvidenceType {
	missing := []model.EvidenceType{}
	for _, req := range requiredEvidence(s, r) {
		satisfied := false
		for _, item := range items {
			if item.Type == req.ID && item.Usable() {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, req.ID)
		}
	}
	return missing
}

// unsourced lists the categories that offer a place for a source but have
// none filled in. URL fields and table row source_url values both count.
func unsourced(s *schema.Schema, inputs model.Inputs, r rules, c *constants.Constants) []string {
	out := []string{}
	for _, category := range Categories {
		candidates, sourced := 0, false
		for _, f := range s.SectionFields(category) {
			if r.exempt[f.ID] {
				continue
			}
			switch f.Type {
			case schema.TypeURL:
				candidates++
				sourced = sourced || strings.TrimSpace(inputs.Text(f.ID)) != ""
			case schema.TypeFoodTable:
				candidates++
				food := tables.ParseFood(inputs, f.ID, c.Food.DefaultItems)
				for _, row := range food.Rows {
					sourced = sourced || strings.TrimSpace(row.SourceURL) != ""
				}
			case schema.TypeExpenseTable:
				candidates++
				for _, row := range tables.ParseExpenses(inputs, f.ID).Rows {
					sourced = sourced || strings.TrimSpace(row.SourceURL) != ""
				}
			}
		}
		if candidates > 0 && !sourced {
			out = append(out, category)
		}
	}
	return out
}

func fixNext(s *schema.Schema, flags model.ReadinessFlags, c *constants.Constants) []string {
	out := []string{}
	for i, id := range flags.MissingRequiredFields {
		if i == maxMissingFieldPrompts {
			break
		}
		out = append(out, "Enter: "+s.Label(id))
	}

	for _, et := range flags.MissingRequiredEvidence {
		out = append(out, fmt.Sprintf("Add %s evidence (a URL or a file).", strings.ToLower(evidenceLabel(s, et))))
	}
	if len(flags.UnsourcedCategories) > 0 {
		out = append(out, "Add a source URL for: "+strings.Join(flags.UnsourcedCategories, ", ")+".")
	}
	if flags.LowVehiclePrice {
		out = append(out, fmt.Sprintf("Vehicle price is below $%s. Check that the listing is realistic.",
			money.RoundFloat(c.Transportation.MinimumVehiclePrice.Value).StringFixed(2)))
	}
	if flags.AffordabilityFail {
		out = append(out, MsgAffordability)
	}
	if flags.Deficit {
		out = append(out, MsgDeficit)
	} else if flags.FragileBuffer {
		out = append(out, MsgFragileBuffer)
	}
	return out
}

func evidenceLabel(s *schema.Schema, et model.EvidenceType) string {
	for _, req := range s.EvidenceRequirements {
		if req.ID == et && req.Label != "" {
			return req.Label
		}
	}
	return strings.ReplaceAll(string(et), "_", " ")
}

// CompletionPercent is the share of the fields and evidence required under
// the inputs' income and transport modes that flags does not list as missing,
// rounded to a whole percent.
func CompletionPercent(s *schema.Schema, inputs model.Inputs, flags model.ReadinessFlags, c *constants.Constants) int {
	r := rulesFor(inputs, c)
	total := len(requiredFields(s, r)) + len(requiredEvidence(s, r))
	if total == 0 {
		return 100
	}
	missing := len(flags.MissingRequiredFields) + len(flags.MissingRequiredEvidence)
	return int(math.Round(float64(total-missing) / float64(total) * 100))
}
