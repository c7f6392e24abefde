package domain

import "strings"

// VehicleClass is the closed set of vehicle classes an order can request
// and a courier can operate under.
type VehicleClass string

// List of supported vehicle classes
const (
	VehicleMoto         VehicleClass = "moto"
	VehicleMotoCarguero VehicleClass = "moto_carguero"
)

var vehicleClasses = [...]VehicleClass{
	VehicleMoto, VehicleMotoCarguero,
}

// VehicleClasses returns every supported vehicle class.
func VehicleClasses() []VehicleClass {
	out := make([]VehicleClass, len(vehicleClasses))
	copy(out, vehicleClasses[:])
	return out
}

// Valid checks if the VehicleClass is one of the supported classes
func (c VehicleClass) Valid() bool {
	for _, v := range vehicleClasses {
		if c == v {
			return true
		}
	}
	return false
}

// ParseVehicleClass normalizes raw input and reports whether it names a supported class.
func ParseVehicleClass(raw string) (VehicleClass, bool) {
	c := VehicleClass(strings.ToLower(strings.TrimSpace(raw)))
	return c, c.Valid()
}
