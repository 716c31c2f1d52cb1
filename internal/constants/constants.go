// Package constants holds the versioned reference document the budget engine
// consumes: deduction rates, thresholds, transportation assumptions, food
// defaults and the economic snapshot.
package constants

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/movingout-dev/movingout/internal/model"
)

// Constants is one version of the reference document. A refreshed value is a
// new Constants, never an in-place patch.
type Constants struct {
	SchemaVersion    string                  `yaml:"schema_version" json:"schema_version"`
	ConstantsVersion string                  `yaml:"constants_version" json:"constants_version"`
	DatasetDate      string                  `yaml:"dataset_date" json:"dataset_date"`
	Currency         string                  `yaml:"currency" json:"currency"`
	Income           IncomeConstants         `yaml:"income" json:"income"`
	Deductions       DeductionRates          `yaml:"deductions" json:"deductions"`
	Thresholds       Thresholds              `yaml:"thresholds" json:"thresholds"`
	Transportation   TransportationConstants `yaml:"transportation" json:"transportation"`
	Food             FoodConstants           `yaml:"food" json:"food"`
	EconomicSnapshot EconomicSnapshot        `yaml:"economic_snapshot" json:"economic_snapshot"`
}

// Numeric is a described numeric constant.
type Numeric struct {
	Value       float64 `yaml:"value" json:"value"`
	Description string  `yaml:"description" json:"description"`
}

// Sourced is a numeric constant with provenance.
type Sourced struct {
	Value       float64 `yaml:"value" json:"value"`
	Description string  `yaml:"description" json:"description"`
	SourceURL   string  `yaml:"source_url" json:"source_url"`
	LastUpdated string  `yaml:"last_updated" json:"last_updated"`
}

// IncomeConstants configures income resolution.
type IncomeConstants struct {
	DefaultMode      model.IncomeMode `yaml:"default_mode" json:"default_mode"`
	PayrollSourceURL string           `yaml:"payroll_source_url" json:"payroll_source_url"`
}

// DeductionRates are fractions of gross income.
type DeductionRates struct {
	IncomeTax Numeric `yaml:"income_tax_rate" json:"income_tax_rate"`
	CPP       Numeric `yaml:"cpp_rate" json:"cpp_rate"`
	EI        Numeric `yaml:"ei_rate" json:"ei_rate"`
	UnionDues Numeric `yaml:"union_dues_rate" json:"union_dues_rate"`
}

// Weights returns the rates in breakdown order: tax, CPP, EI, union dues.
func (d DeductionRates) Weights() []float64 {
	return []float64{d.IncomeTax.Value, d.CPP.Value, d.EI.Value, d.UnionDues.Value}
}

// Total returns the combined deduction rate.
func (d DeductionRates) Total() float64 {
	return d.IncomeTax.Value + d.CPP.Value + d.EI.Value + d.UnionDues.Value
}

// Thresholds drive the readiness warnings.
type Thresholds struct {
	AffordabilityFraction Numeric `yaml:"affordability_housing_fraction_of_net" json:"affordability_housing_fraction_of_net"`
	BufferWarning         Numeric `yaml:"buffer_warning_threshold" json:"buffer_warning_threshold"`
}

// TransportationConstants are vehicle and transit assumptions.
type TransportationConstants struct {
	WeeksPerMonth          Numeric        `yaml:"weeks_per_month" json:"weeks_per_month"`
	DefaultDownPayment     Numeric        `yaml:"default_down_payment_fraction" json:"default_down_payment_fraction"`
	DefaultTermMonths      Numeric        `yaml:"default_term_months" json:"default_term_months"`
	DefaultAPRPercent      Numeric        `yaml:"default_apr_percent" json:"default_apr_percent"`
	MinimumVehiclePrice    Numeric        `yaml:"minimum_vehicle_price" json:"minimum_vehicle_price"`
	TransitPassDefault     Numeric        `yaml:"transit_monthly_pass_default" json:"transit_monthly_pass_default"`
	TransitPassSourceURL   string         `yaml:"transit_monthly_pass_source_url" json:"transit_monthly_pass_source_url"`
	TransitPassLastUpdated string         `yaml:"transit_monthly_pass_last_updated" json:"transit_monthly_pass_last_updated"`
	OperatingCostPerKM     OperatingCosts `yaml:"operating_cost_per_km" json:"operating_cost_per_km"`
	LoanTable              LoanTable      `yaml:"loan_payment_table" json:"loan_payment_table"`
}

// OperatingCosts is the flat per-kilometre cost by vehicle class.
type OperatingCosts struct {
	Car     Numeric `yaml:"car" json:"car"`
	Truck   Numeric `yaml:"truck" json:"truck"`
	Transit Numeric `yaml:"transit" json:"transit"`
}

// For returns the per-kilometre cost for a mode.
func (o OperatingCosts) For(mode model.TransportMode) float64 {
	switch mode {
	case model.TransportTruck:
		return o.Truck.Value
	case model.TransportTransit:
		return o.Transit.Value
	default:
		return o.Car.Value
	}
}

// LoanTable is a principal → monthly payment lookup computed at a baseline
// term and APR.
type LoanTable struct {
	Description        string      `yaml:"description" json:"description"`
	BaselineTermMonths float64     `yaml:"baseline_term_months" json:"baseline_term_months"`
	BaselineAPRPercent float64     `yaml:"baseline_apr_percent" json:"baseline_apr_percent"`
	Points             []LoanPoint `yaml:"points" json:"points"`
}

// LoanPoint is one row of the loan table.
type LoanPoint struct {
	Principal      float64 `yaml:"principal" json:"principal"`
	MonthlyPayment float64 `yaml:"monthly_payment" json:"monthly_payment"`
}

// FoodConstants seed the grocery table.
type FoodConstants struct {
	WeeksPerMonth Numeric  `yaml:"weeks_per_month" json:"weeks_per_month"`
	DefaultItems  []string `yaml:"default_items" json:"default_items"`
}

// EconomicSnapshot holds reference values refreshed from public sources.
type EconomicSnapshot struct {
	MinimumWage  Sourced `yaml:"minimum_wage" json:"minimum_wage"`
	GasBenchmark Sourced `yaml:"gas_benchmark" json:"gas_benchmark"`
	CPI          Sourced `yaml:"cpi_yoy" json:"cpi_yoy"`
}

// Load reads a constants document. JSON documents are accepted too.
func Load(path string) (*Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading constants: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a constants document.
func Parse(data []byte) (*Constants, error) {
	var c Constants
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing constants: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes a constants document as YAML.
func Save(path string, c *Constants) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling constants: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing constants: %w", err)
	}
	return nil
}

// Validate rejects documents missing sections the engine cannot run
// without. Degenerate but present values (an empty loan table, a zero APR)
// are not errors.
func (c *Constants) Validate() error {
	var errs []error
	if c.ConstantsVersion == "" {
		errs = append(errs, errors.New("constants_version is required"))
	}
	if !c.Income.DefaultMode.Valid() {
		errs = append(errs, fmt.Errorf("income.default_mode %q is not a known mode", c.Income.DefaultMode))
	}
	if c.Transportation.WeeksPerMonth.Value <= 0 {
		errs = append(errs, errors.New("transportation.weeks_per_month must be positive"))
	}
	if c.Food.WeeksPerMonth.Value <= 0 {
		errs = append(errs, errors.New("food.weeks_per_month must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid constants: %w", errors.Join(errs...))
	}
	return nil
}

// Clone returns a deep copy.
func (c *Constants) Clone() *Constants {
	out := *c
	out.Transportation.LoanTable.Points = append([]LoanPoint(nil), c.Transportation.LoanTable.Points...)
	out.Food.DefaultItems = append([]string(nil), c.Food.DefaultItems...)
	return &out
}
