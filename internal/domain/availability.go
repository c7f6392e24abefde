package domain

import "time"

// Availability tracks whether a courier currently accepts work and under which vehicle class.
type Availability struct {
	CourierID     string
	Available     bool
	VehicleClass  *VehicleClass
	LastHeartbeat time.Time
}

// Eligible reports whether the courier should see pending orders of the given class.
func (a Availability) Eligible(class VehicleClass) bool {
	return a.Available && a.VehicleClass != nil && *a.VehicleClass == class
}
