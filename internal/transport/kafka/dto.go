package kafka

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/domain"
)

// AddressDTO is the wire form of domain.Address.
type AddressDTO struct {
	Line      string  `json:"line"`
	Reference *string `json:"reference,omitempty"`
}

// OrderDTO is the wire form of domain.Order.
type OrderDTO struct {
	ID                  string     `json:"id"`
	ClientID            string     `json:"client_id"`
	CourierID           *string    `json:"courier_id,omitempty"`
	VehicleClass        string     `json:"vehicle_class"`
	Origin              AddressDTO `json:"origin"`
	Destination         AddressDTO `json:"destination"`
	PackageDescription  *string    `json:"package_description,omitempty"`
	EstimatedDistanceKm float64    `json:"estimated_distance_km"`
	BasePrice           int64      `json:"base_price"`
	TotalPrice          int64      `json:"total_price"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	AcceptedAt          *time.Time `json:"accepted_at,omitempty"`
	DeliveredAt         *time.Time `json:"delivered_at,omitempty"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// EventDTO is a data transfer object for dispatch events
type EventDTO struct {
	Kind        string    `json:"kind"`
	Order       OrderDTO  `json:"order"`
	PublishedAt time.Time `json:"published_at"`
}

var errEmptyOrderID = errors.New("empty order id")

// FromDomain converts an order event to its wire form.
func FromDomain(kind broadcast.EventKind, o domain.Order, at time.Time) EventDTO {
	return EventDTO{
		Kind: string(kind),
		Order: OrderDTO{
			ID:                  o.ID,
			ClientID:            o.ClientID,
			CourierID:           o.CourierID,
			VehicleClass:        string(o.VehicleClass),
			Origin:              AddressDTO{Line: o.Origin.Line, Reference: o.Origin.Reference},
			Destination:         AddressDTO{Line: o.Destination.Line, Reference: o.Destination.Reference},
			PackageDescription:  o.PackageDescription,
			EstimatedDistanceKm: o.EstimatedDistanceKm,
			BasePrice:           o.BasePrice,
			TotalPrice:          o.TotalPrice,
			Status:              string(o.Status),
			CreatedAt:           o.CreatedAt,
			AcceptedAt:          o.AcceptedAt,
			DeliveredAt:         o.DeliveredAt,
			UpdatedAt:           o.UpdatedAt,
		},
		PublishedAt: at.UTC(),
	}
}

// ToDomain converts EventDTO to broadcast.Event. Malformed payloads are permanent errors.
func ToDomain(dto EventDTO) (broadcast.Event, error) {
	kind := broadcast.EventKind(strings.TrimSpace(dto.Kind))
	switch kind {
	case broadcast.EventPending, broadcast.EventStatus:
	default:
		return broadcast.Event{}, Permanent(fmt.Errorf("unknown event kind %q", dto.Kind))
	}

	id := strings.TrimSpace(dto.Order.ID)
	if id == "" {
		return broadcast.Event{}, Permanent(errEmptyOrderID)
	}
	status := domain.OrderStatus(strings.TrimSpace(dto.Order.Status))
	if !status.Valid() {
		return broadcast.Event{}, Permanent(fmt.Errorf("unknown status %q", dto.Order.Status))
	}
	class, ok := domain.ParseVehicleClass(dto.Order.VehicleClass)
	if !ok {
		return broadcast.Event{}, Permanent(fmt.Errorf("unknown vehicle class %q", dto.Order.VehicleClass))
	}

	o := dto.Order
	return broadcast.Event{
		Kind: kind,
		Order: domain.Order{
			ID:                  id,
			ClientID:            o.ClientID,
			CourierID:           o.CourierID,
			VehicleClass:        class,
			Origin:              domain.Address{Line: o.Origin.Line, Reference: o.Origin.Reference},
			Destination:         domain.Address{Line: o.Destination.Line, Reference: o.Destination.Reference},
			PackageDescription:  o.PackageDescription,
			EstimatedDistanceKm: o.EstimatedDistanceKm,
			BasePrice:           o.BasePrice,
			TotalPrice:          o.TotalPrice,
			Status:              status,
			CreatedAt:           o.CreatedAt,
			AcceptedAt:          o.AcceptedAt,
			DeliveredAt:         o.DeliveredAt,
			UpdatedAt:           o.UpdatedAt,
		},
	}, nil
}
