package constants

import "github.com/movingout-dev/movingout/internal/model"

// Default returns the bundled constants version.
func Default() *Constants {
	return &Constants{
		SchemaVersion:    "1.2.0",
		ConstantsVersion: "2026.1",
		DatasetDate:      "2026-01-15",
		Currency:         "CAD",
		Income: IncomeConstants{
			DefaultMode:      model.IncomeNetPaycheque,
			PayrollSourceURL: "https://www.canada.ca/en/revenue-agency/services/e-services/digital-services-businesses/payroll-deductions-online-calculator.html",
		},
		Deductions: DeductionRates{
			IncomeTax: Numeric{Value: 0.12, Description: "Blended federal and provincial income tax estimate"},
			CPP:       Numeric{Value: 0.0595, Description: "Canada Pension Plan contribution rate"},
			EI:        Numeric{Value: 0.0166, Description: "Employment Insurance premium rate"},
			UnionDues: Numeric{Value: 0, Description: "Union dues; zero unless the job is unionized"},
		},
		Thresholds: Thresholds{
			AffordabilityFraction: Numeric{Value: 0.35, Description: "Rent plus utilities should stay under this fraction of net income"},
			BufferWarning:         Numeric{Value: 200, Description: "Monthly surplus below this amount is a fragile buffer"},
		},
		Transportation: TransportationConstants{
			WeeksPerMonth:          Numeric{Value: 4.33, Description: "Average weeks in a month"},
			DefaultDownPayment:     Numeric{Value: 0.10, Description: "Down payment as a fraction of vehicle price"},
			DefaultTermMonths:      Numeric{Value: 60, Description: "Loan term in months"},
			DefaultAPRPercent:      Numeric{Value: 7.99, Description: "Annual percentage rate"},
			MinimumVehiclePrice:    Numeric{Value: 3000, Description: "Listings below this price are unlikely to be roadworthy"},
			TransitPassDefault:     Numeric{Value: 105, Description: "Adult monthly transit pass"},
			TransitPassSourceURL:   "https://www.edmonton.ca/ets/fares-passes",
			TransitPassLastUpdated: "2026-01-15",
			OperatingCostPerKM: OperatingCosts{
				Car:     Numeric{Value: 0.12, Description: "Fuel and wear per km, compact car"},
				Truck:   Numeric{Value: 0.18, Description: "Fuel and wear per km, pickup truck"},
				Transit: Numeric{Value: 0, Description: "Transit has no per-km cost"},
			},
			LoanTable: LoanTable{
				Description:        "Monthly payment by financed principal at 60 months and 7.99% APR",
				BaselineTermMonths: 60,
				BaselineAPRPercent: 7.99,
				Points: []LoanPoint{
					{Principal: 5000, MonthlyPayment: 101.36},
					{Principal: 10000, MonthlyPayment: 202.71},
					{Principal: 20000, MonthlyPayment: 405.42},
					{Principal: 30000, MonthlyPayment: 608.13},
					{Principal: 40000, MonthlyPayment: 810.84},
				},
			},
		},
		Food: FoodConstants{
			WeeksPerMonth: Numeric{Value: 4.33, Description: "Average weeks in a month"},
			DefaultItems:  []string{"Protein", "Vegetables", "Fruit", "Grains", "Dairy", "Snacks"},
		},
		EconomicSnapshot: EconomicSnapshot{
			MinimumWage: Sourced{
				Value:       15.00,
				Description: "Alberta general minimum wage per hour",
				SourceURL:   "https://www.alberta.ca/minimum-wage",
				LastUpdated: "2026-01-15",
			},
			GasBenchmark: Sourced{
				Value:       1.45,
				Description: "Regular gasoline, dollars per litre",
				SourceURL:   "https://economicdashboard.alberta.ca/dashboard/gasoline-prices",
				LastUpdated: "2026-01-15",
			},
			CPI: Sourced{
				Value:       2.4,
				Description: "Consumer price index, year over year percent",
				SourceURL:   "https://www150.statcan.gc.ca/t1/tbl1/en/tv.action?pid=1810000401",
				LastUpdated: "2026-01-15",
			},
		},
	}
}
