package model

import "github.com/shopspring/decimal"

// Deductions is the payroll deduction breakdown. The four categories always
// sum exactly to Total.
type Deductions struct {
	IncomeTax decimal.Decimal `json:"income_tax"`
	CPP       decimal.Decimal `json:"cpp"`
	EI        decimal.Decimal `json:"ei"`
	UnionDues decimal.Decimal `json:"union_dues"`
	Total     decimal.Decimal `json:"total"`
}

// HousingTotals summarizes monthly housing costs.
type HousingTotals struct {
	Rent               decimal.Decimal `json:"rent"`
	Utilities          decimal.Decimal `json:"utilities"`
	RenterInsurance    decimal.Decimal `json:"renter_insurance"`
	InternetPhone      decimal.Decimal `json:"internet_phone"`
	Other              decimal.Decimal `json:"other"`
	Total              decimal.Decimal `json:"total"`
	AffordabilityRatio decimal.Decimal `json:"affordability_ratio"`
}

// TransportationTotals summarizes monthly transportation costs. Vehicle
// fields are zero in transit mode.
type TransportationTotals struct {
	Mode              TransportMode   `json:"mode"`
	VehiclePrice      decimal.Decimal `json:"vehicle_price"`
	DownPayment       decimal.Decimal `json:"down_payment"`
	FinancedPrincipal decimal.Decimal `json:"financed_principal"`
	TermMonths        float64         `json:"term_months"`
	APRPercent        float64         `json:"apr_percent"`
	LoanPayment       decimal.Decimal `json:"loan_payment"`
	FuelEconomy       float64         `json:"fuel_economy_l_per_100km"`
	GasPricePerLitre  decimal.Decimal `json:"gas_price_per_litre"`
	KMPerMonth        float64         `json:"km_per_month"`
	FuelCost          decimal.Decimal `json:"fuel_cost"`
	Maintenance       decimal.Decimal `json:"maintenance"`
	OperatingCost     decimal.Decimal `json:"operating_cost"`
	Insurance         decimal.Decimal `json:"insurance"`
	Parking           decimal.Decimal `json:"parking"`
	TransitPass       decimal.Decimal `json:"transit_pass"`
	Total             decimal.Decimal `json:"total"`
}

// LivingExpenseTotals summarizes monthly essentials.
type LivingExpenseTotals struct {
	GroceriesWeekly      decimal.Decimal `json:"groceries_weekly"`
	Groceries            decimal.Decimal `json:"groceries"`
	Clothing             decimal.Decimal `json:"clothing"`
	HouseholdMaintenance decimal.Decimal `json:"household_maintenance"`
	HealthHygiene        decimal.Decimal `json:"health_hygiene"`
	Recreation           decimal.Decimal `json:"recreation"`
	Savings              decimal.Decimal `json:"savings"`
	Misc                 decimal.Decimal `json:"misc"`
	Total                decimal.Decimal `json:"total"`
}

// DerivedTotals is one complete budget snapshot. It is recomputed from
// scratch on every edit.
type DerivedTotals struct {
	IncomeMode           IncomeMode           `json:"income_mode"`
	GrossMonthlyIncome   decimal.Decimal      `json:"gross_monthly_income"`
	NetMonthlyIncome     decimal.Decimal      `json:"net_monthly_income"`
	Deductions           Deductions           `json:"deductions"`
	Housing              HousingTotals        `json:"housing"`
	Transportation       TransportationTotals `json:"transportation"`
	LivingExpenses       LivingExpenseTotals  `json:"living_expenses"`
	TotalMonthlyExpenses decimal.Decimal      `json:"total_monthly_expenses"`
	MonthlySurplus       decimal.Decimal      `json:"monthly_surplus"`
}
