package model

// Field identifiers the engine reads. They are the only coupling between the
// engine and the worksheet schema.
const (
	FieldIncomeMode         = "income_mode"
	FieldHourlyWage         = "hourly_wage"
	FieldHoursPerWeek       = "hours_per_week"
	FieldNetPayPerCheque    = "net_pay_per_cheque"
	FieldPaychequesPerMonth = "paycheques_per_month"
	FieldOtherIncome        = "other_monthly_income"
	FieldIncomeSourceURL    = "income_source_url"

	FieldRent            = "rent_monthly"
	FieldUtilities       = "utilities_monthly"
	FieldRenterInsurance = "renter_insurance_monthly"
	FieldInternetPhone   = "internet_phone_monthly"
	FieldOtherHousing    = "other_housing_monthly"
	FieldRentSourceURL   = "rent_source_url"
	FieldUtilitiesURL    = "utilities_source_url"

	FieldTransportMode       = "transport_mode"
	FieldVehiclePrice        = "vehicle_price"
	FieldDownPayment         = "vehicle_down_payment_amount"
	FieldTermMonths          = "vehicle_term_months"
	FieldAPRPercent          = "vehicle_apr_percent"
	FieldKMPerMonth          = "km_per_month"
	FieldFuelEconomy         = "fuel_economy_l_per_100km"
	FieldGasPrice            = "gas_price_per_litre"
	FieldMaintenance         = "maintenance_monthly"
	FieldTransitPass         = "transit_monthly_pass"
	FieldTransportInsurance  = "transport_insurance_monthly"
	FieldParking             = "parking_monthly"
	FieldVehicleSourceURL    = "vehicle_source_url"
	FieldTransitPassURL      = "transit_pass_source_url"
	FieldInsuranceSourceURL  = "transport_insurance_source_url"
	FieldEssentialsSourceURL = "essentials_source_url"

	FieldFoodTable       = "food_table_weekly"
	FieldGroceriesWeekly = "groceries_weekly"
	FieldClothingTable   = "clothing_table_annual"
	FieldClothing        = "clothing_monthly"
	FieldHealthTable     = "health_hygiene_table_annual"
	FieldHealth          = "health_hygiene_monthly"
	FieldRecreationTable = "recreation_table_annual"
	FieldRecreation      = "recreation_monthly"
	FieldMiscTable       = "misc_table_monthly"
	FieldMisc            = "misc_monthly"
	FieldHouseholdMaint  = "household_maintenance_monthly"
	FieldSavings         = "savings_monthly"
)
