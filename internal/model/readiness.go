package model

import "github.com/shopspring/decimal"

// Readiness categories used for source tracking.
const (
	CategoryIncome         = "income"
	CategoryHousing        = "housing"
	CategoryTransportation = "transportation"
	CategoryEssentials     = "essentials"
)

// ReadinessFlags are the warnings and to-dos derived alongside DerivedTotals.
type ReadinessFlags struct {
	MissingRequiredFields   []string        `json:"missing_required_fields"`
	MissingRequiredEvidence []EvidenceType  `json:"missing_required_evidence"`
	AffordabilityFail       bool            `json:"affordability_fail"`
	Deficit                 bool            `json:"deficit"`
	FragileBuffer           bool            `json:"fragile_buffer"`
	LowVehiclePrice         bool            `json:"low_vehicle_price"`
	UnsourcedCategories     []string        `json:"unsourced_categories"`
	SurplusOrDeficitAmount  decimal.Decimal `json:"surplus_or_deficit_amount"`
	FixNext                 []string        `json:"fix_next"`
}
