package domain

// OrderStatus is a state of the order lifecycle.
type OrderStatus string

// List of possible order statuses
const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusInTransit OrderStatus = "in_transit"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions is the whole lifecycle: pending -> accepted -> in_transit -> delivered,
// with cancellation allowed only before the courier picks the package up.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

// Valid checks if the OrderStatus is a known status
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, v := range transitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// HasCourier reports whether an order in this status was claimed by a courier.
// Cancelled is ambiguous and depends on where the order was cancelled from.
func (s OrderStatus) HasCourier() bool {
	switch s {
	case StatusAccepted, StatusInTransit, StatusDelivered:
		return true
	default:
		return false
	}
}
