package handlers

import (
	"context"

	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/service/dispatch"
)

type orderUsecase interface {
	CreateOrder(ctx context.Context, in dispatch.CreateOrderInput) (domain.Order, error)
	ClaimOrder(ctx context.Context, orderID, courierID string) (domain.Order, error)
	Advance(ctx context.Context, orderID, actorID string, next domain.OrderStatus) (domain.Order, error)
	AdvanceFrom(ctx context.Context, orderID, actorID string, expected, next domain.OrderStatus) (domain.Order, error)
	Cancel(ctx context.Context, orderID, actorID string) (domain.Order, error)
	Get(ctx context.Context, orderID string) (domain.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Order, error)
	ListPending(ctx context.Context, class *domain.VehicleClass) ([]domain.Order, error)
	ListByCourier(ctx context.Context, courierID string) ([]domain.Order, error)
	ActiveForCourier(ctx context.Context, courierID string) (domain.Order, error)
	History(ctx context.Context, orderID string) ([]domain.StatusTransition, error)
}

type availabilityUsecase interface {
	SetAvailability(ctx context.Context, courierID string, available bool, class *string) (domain.Availability, error)
	Get(ctx context.Context, courierID string) (domain.Availability, error)
}

type quoteUsecase interface {
	Quote(ctx context.Context, class domain.VehicleClass, distanceKm float64) domain.Quote
}

type subscriber interface {
	SubscribePending(courierID string, class *domain.VehicleClass) *broadcast.Subscription
	SubscribeOrder(orderID string) *broadcast.Subscription
}

type availabilityReader interface {
	Get(ctx context.Context, courierID string) (domain.Availability, error)
}

type snapshotSource interface {
	ListPending(ctx context.Context, class *domain.VehicleClass) ([]domain.Order, error)
	Get(ctx context.Context, orderID string) (domain.Order, error)
}
