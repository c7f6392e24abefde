package dispatch

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

// Limits applied to order input.
const (
	MinAddressLen     = 10
	MaxReferenceLen   = 100
	MaxDescriptionLen = 200
)

// CreateOrderInput is the raw request to create an order.
type CreateOrderInput struct {
	ClientID           string
	VehicleClass       string
	Origin             domain.Address
	Destination        domain.Address
	PackageDescription *string
	// DistanceKm is optional. Nil asks the DistanceEstimator.
	DistanceKm *float64
}

type validOrder struct {
	clientID    string
	class       domain.VehicleClass
	origin      domain.Address
	destination domain.Address
	description *string
	distanceKm  *float64
}

func (in CreateOrderInput) validate() (validOrder, error) {
	var v validOrder

	clientID, err := requireID("client_id", in.ClientID)
	if err != nil {
		return v, err
	}
	v.clientID = clientID

	class, ok := domain.ParseVehicleClass(in.VehicleClass)
	if !ok {
		return v, fmt.Errorf("%w: unknown vehicle_class %q", apperr.ErrInvalid, in.VehicleClass)
	}
	v.class = class

	if v.origin, err = validAddress("origin", in.Origin); err != nil {
		return v, err
	}
	if v.destination, err = validAddress("destination", in.Destination); err != nil {
		return v, err
	}

	if v.description, err = optionalText("package_description", in.PackageDescription, MaxDescriptionLen); err != nil {
		return v, err
	}

	if in.DistanceKm != nil {
		d := *in.DistanceKm
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return v, fmt.Errorf("%w: distance_km must be a finite non-negative number", apperr.ErrInvalid)
		}
		if d > domain.MaxDistanceKm {
			return v, fmt.Errorf("%w: distance_km must not exceed %d", apperr.ErrInvalid, domain.MaxDistanceKm)
		}
		v.distanceKm = &d
	}
	return v, nil
}

func validAddress(field string, a domain.Address) (domain.Address, error) {
	line := strings.TrimSpace(a.Line)
	if utf8.RuneCountInString(line) < MinAddressLen {
		return domain.Address{}, fmt.Errorf("%w: %s address must be at least %d characters",
			apperr.ErrInvalid, field, MinAddressLen)
	}
	ref, err := optionalText(field+" reference", a.Reference, MaxReferenceLen)
	if err != nil {
		return domain.Address{}, err
	}
	return domain.Address{Line: line, Reference: ref}, nil
}

// optionalText trims s and collapses blank values to nil.
func optionalText(field string, s *string, maxLen int) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(v) > maxLen {
		return nil, fmt.Errorf("%w: %s must be at most %d characters", apperr.ErrInvalid, field, maxLen)
	}
	return &v, nil
}

func requireID(field, raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("%w: %s is required", apperr.ErrInvalid, field)
	}
	return id, nil
}
