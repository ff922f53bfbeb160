// README: Fare schedule definitions per vehicle type.
package fare

// Setting is the active pricing schedule for one vehicle type. Numeric
// columns are carried as text and parsed at computation time: a value that
// does not parse is a configuration defect, never a silent zero.
type Setting struct {
	ID              int64  `json:"id"`
	VehicleType     string `json:"vehicle_type"`
	BaseFare        string `json:"base_fare"`
	PerKmRate       string `json:"per_km_rate"`
	PerMinuteRate   string `json:"per_minute_rate"`
	MinimumFare     string `json:"minimum_fare"`
	SurgeMultiplier string `json:"surge_multiplier"`
	IsActive        bool   `json:"is_active"`
	Tiers           []Tier `json:"tiers"`
}

// Tier bills the distance band [KmFrom, KmTo) at its own per-km rate.
// Storage order is not trusted; the engine sorts by KmFrom before billing.
type Tier struct {
	KmFrom    string `json:"km_from"`
	KmTo      string `json:"km_to"`
	PerKmRate string `json:"per_km_rate"`
}
