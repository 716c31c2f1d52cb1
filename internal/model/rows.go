package model

// FoodRow is one line of the weekly grocery table.
type FoodRow struct {
	ID              string  `json:"id"`
	Item            string  `json:"item"`
	PlannedPurchase string  `json:"planned_purchase"`
	EstimatedCost   float64 `json:"estimated_cost"`
	SourceURL       string  `json:"source_url"`
}

// ExpenseRow is one line of an annual or monthly expense table. Rows may be
// partially filled; aggregation takes the larger of the computed and the
// entered totals.
type ExpenseRow struct {
	ID              string  `json:"id"`
	Item            string  `json:"item"`
	QuantityPerYear float64 `json:"quantity_per_year"`
	AverageCost     float64 `json:"average_cost"`
	AnnualTotal     float64 `json:"annual_total"`
	MonthlyTotal    float64 `json:"monthly_total"`
	SourceURL       string  `json:"source_url"`
}
