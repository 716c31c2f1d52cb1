package model

// IncomeMode selects how gross and net income are derived.
type IncomeMode string

const (
	IncomeHourlyEstimate IncomeMode = "hourly_estimate"
	IncomeNetPaycheque   IncomeMode = "net_paycheque"
)

// IncomeModes lists every income mode.
var IncomeModes = []IncomeMode{IncomeHourlyEstimate, IncomeNetPaycheque}

// Valid reports whether m is a known income mode.
func (m IncomeMode) Valid() bool {
	switch m {
	case IncomeHourlyEstimate, IncomeNetPaycheque:
		return true
	}
	return false
}

// ParseIncomeMode returns the mode named by raw, or fallback when raw is not
// a known mode.
func ParseIncomeMode(raw string, fallback IncomeMode) IncomeMode {
	if m := IncomeMode(raw); m.Valid() {
		return m
	}
	return fallback
}

// TransportMode selects the transportation cost model.
type TransportMode string

const (
	TransportCar     TransportMode = "car"
	TransportTruck   TransportMode = "truck"
	TransportTransit TransportMode = "transit"
)

// TransportModes lists every transport mode.
var TransportModes = []TransportMode{TransportCar, TransportTruck, TransportTransit}

// ParseTransportMode returns the mode named by raw. Unknown values are car.
func ParseTransportMode(raw string) TransportMode {
	switch m := TransportMode(raw); m {
	case TransportTruck, TransportTransit:
		return m
	}
	return TransportCar
}

// Vehicle reports whether the mode finances and operates a vehicle.
func (m TransportMode) Vehicle() bool {
	return m != TransportTransit
}
