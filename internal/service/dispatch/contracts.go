//go:generate mockgen -source=contracts.go -destination=dispatch_mocks_test.go -package=dispatch_test

package dispatch

import (
	"context"

	"courier-dispatch/internal/domain"
)

type orderRepository interface {
	Create(ctx context.Context, d domain.OrderDraft) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Order, error)
	ListPendingEligible(ctx context.Context, class *domain.VehicleClass) ([]domain.Order, error)
	ListByCourier(ctx context.Context, courierID string) ([]domain.Order, error)
	ActiveForCourier(ctx context.Context, courierID string) (domain.Order, error)
	History(ctx context.Context, orderID string) ([]domain.StatusTransition, error)
	ConditionalTransition(ctx context.Context, t domain.Transition) (domain.Order, error)
}

type quoter interface {
	Quote(ctx context.Context, class domain.VehicleClass, distanceKm float64) domain.Quote
}

type publisher interface {
	PublishNewPending(ctx context.Context, o domain.Order) error
	PublishStatusChange(ctx context.Context, o domain.Order) error
}

// DistanceEstimator estimates the route length between two addresses in kilometres.
type DistanceEstimator interface {
	EstimateKm(ctx context.Context, origin, destination domain.Address) (float64, error)
}
