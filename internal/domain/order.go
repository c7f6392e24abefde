package domain

import "time"

// Address is a free-text pickup or drop-off point with an optional note for the courier.
type Address struct {
	Line      string
	Reference *string
}

// Order is a single delivery job from creation to a terminal status.
type Order struct {
	ID                  string
	ClientID            string
	CourierID           *string
	VehicleClass        VehicleClass
	Origin              Address
	Destination         Address
	PackageDescription  *string
	EstimatedDistanceKm float64
	BasePrice           int64
	TotalPrice          int64
	Status              OrderStatus
	CreatedAt           time.Time
	AcceptedAt          *time.Time
	DeliveredAt         *time.Time
	UpdatedAt           time.Time
}

// OrderDraft carries everything the repository needs to persist a new order.
// Status and timestamps are set by the repository.
type OrderDraft struct {
	ID                  string
	ClientID            string
	VehicleClass        VehicleClass
	Origin              Address
	Destination         Address
	PackageDescription  *string
	EstimatedDistanceKm float64
	BasePrice           int64
	TotalPrice          int64
}

// Transition describes a conditional status change: it applies only while the
// stored status still equals From.
type Transition struct {
	OrderID string
	From    OrderStatus
	To      OrderStatus
	// CourierID binds the courier on pending -> accepted; ignored otherwise.
	CourierID *string
	ActorID   *string
	Note      *string
}

// StatusTransition is one row of the append-only audit trail.
type StatusTransition struct {
	ID        int64
	OrderID   string
	Status    OrderStatus
	ActorID   *string
	Note      *string
	CreatedAt time.Time
}
