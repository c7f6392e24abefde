package domain

// MaxDistanceKm bounds the distance accepted for a single job.
const MaxDistanceKm = 10_000

// Rate is a per-vehicle-class tariff. Amounts are whole currency units.
type Rate struct {
	VehicleClass VehicleClass
	BaseFare     int64
	PerKmRate    int64
	MinimumFare  int64
	Active       bool
}

// Quote is the price computed for a job before it is persisted.
type Quote struct {
	VehicleClass VehicleClass
	DistanceKm   float64
	// BasePrice is the fare before the minimum-fare floor is applied.
	BasePrice  int64
	TotalPrice int64
}
