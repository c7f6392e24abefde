package handlers

import "time"

type addressDTO struct {
	Address   string  `json:"address"`
	Reference *string `json:"reference,omitempty"`
}

type orderDTO struct {
	ID                  string     `json:"id"`
	ClientID            string     `json:"client_id"`
	CourierID           *string    `json:"courier_id"`
	VehicleClass        string     `json:"vehicle_class"`
	Origin              addressDTO `json:"origin"`
	Destination         addressDTO `json:"destination"`
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

type createOrderRequest struct {
	ClientID           string     `json:"client_id"`
	VehicleClass       string     `json:"vehicle_class"`
	Origin             addressDTO `json:"origin"`
	Destination        addressDTO `json:"destination"`
	PackageDescription *string    `json:"package_description,omitempty"`
	DistanceKm         *float64   `json:"distance_km,omitempty"`
}

type claimRequest struct {
	CourierID string `json:"courier_id"`
}

type claimUnavailableResponse struct {
	Result string `json:"result"`
}

type advanceRequest struct {
	ActorID        string  `json:"actor_id"`
	Status         string  `json:"status"`
	ExpectedStatus *string `json:"expected_status,omitempty"`
}

type cancelRequest struct {
	ActorID string `json:"actor_id"`
}

type transitionDTO struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	ActorID   *string   `json:"actor_id,omitempty"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type availabilityRequest struct {
	Available    bool    `json:"available"`
	VehicleClass *string `json:"vehicle_class,omitempty"`
}

type availabilityDTO struct {
	CourierID     string    `json:"courier_id"`
	Available     bool      `json:"available"`
	VehicleClass  *string   `json:"vehicle_class"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

type quoteDTO struct {
	VehicleClass string  `json:"vehicle_class"`
	DistanceKm   float64 `json:"distance_km"`
	BasePrice    int64   `json:"base_price"`
	TotalPrice   int64   `json:"total_price"`
}
