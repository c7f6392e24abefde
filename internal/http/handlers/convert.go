package handlers

import "courier-dispatch/internal/domain"

func addressFromDTO(a addressDTO) domain.Address {
	return domain.Address{Line: a.Address, Reference: a.Reference}
}

func addressToDTO(a domain.Address) addressDTO {
	return addressDTO{Address: a.Line, Reference: a.Reference}
}

func orderToDTO(o domain.Order) orderDTO {
	return orderDTO{
		ID:                  o.ID,
		ClientID:            o.ClientID,
		CourierID:           o.CourierID,
		VehicleClass:        string(o.VehicleClass),
		Origin:              addressToDTO(o.Origin),
		Destination:         addressToDTO(o.Destination),
		PackageDescription:  o.PackageDescription,
		EstimatedDistanceKm: o.EstimatedDistanceKm,
		BasePrice:           o.BasePrice,
		TotalPrice:          o.TotalPrice,
		Status:              string(o.Status),
		CreatedAt:           o.CreatedAt,
		AcceptedAt:          o.AcceptedAt,
		DeliveredAt:         o.DeliveredAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func ordersToDTO(list []domain.Order) []orderDTO {
	out := make([]orderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, orderToDTO(o))
	}
	return out
}

func historyToDTO(list []domain.StatusTransition) []transitionDTO {
	out := make([]transitionDTO, 0, len(list))
	for _, t := range list {
		out = append(out, transitionDTO{
			ID:        t.ID,
			Status:    string(t.Status),
			ActorID:   t.ActorID,
			Note:      t.Note,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}

func availabilityToDTO(a domain.Availability) availabilityDTO {
	var class *string
	if a.VehicleClass != nil {
		c := string(*a.VehicleClass)
		class = &c
	}
	return availabilityDTO{
		CourierID:     a.CourierID,
		Available:     a.Available,
		VehicleClass:  class,
		LastHeartbeat: a.LastHeartbeat,
	}
}

func quoteToDTO(q domain.Quote) quoteDTO {
	return quoteDTO{
		VehicleClass: string(q.VehicleClass),
		DistanceKm:   q.DistanceKm,
		BasePrice:    q.BasePrice,
		TotalPrice:   q.TotalPrice,
	}
}
