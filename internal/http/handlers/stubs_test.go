package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"courier-dispatch/internal/domain"
	mw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/service/dispatch"
)

type stubOrders struct {
	create      func(context.Context, dispatch.CreateOrderInput) (domain.Order, error)
	claim       func(ctx context.Context, orderID, courierID string) (domain.Order, error)
	advance     func(ctx context.Context, orderID, actorID string, next domain.OrderStatus) (domain.Order, error)
	advanceFrom func(ctx context.Context, orderID, actorID string, expected, next domain.OrderStatus) (domain.Order, error)
	cancel      func(ctx context.Context, orderID, actorID string) (domain.Order, error)
	get         func(ctx context.Context, orderID string) (domain.Order, error)
	byClient    func(ctx context.Context, clientID string) ([]domain.Order, error)
	pending     func(ctx context.Context, class *domain.VehicleClass) ([]domain.Order, error)
	byCourier   func(ctx context.Context, courierID string) ([]domain.Order, error)
	active      func(ctx context.Context, courierID string) (domain.Order, error)
	history     func(ctx context.Context, orderID string) ([]domain.StatusTransition, error)
}

func (s *stubOrders) CreateOrder(ctx context.Context, in dispatch.CreateOrderInput) (domain.Order, error) {
	return s.create(ctx, in)
}

func (s *stubOrders) ClaimOrder(ctx context.Context, orderID, courierID string) (domain.Order, error) {
	return s.claim(ctx, orderID, courierID)
}

func (s *stubOrders) Advance(ctx context.Context, orderID, actorID string, next domain.OrderStatus) (domain.Order, error) {
	return s.advance(ctx, orderID, actorID, next)
}

func (s *stubOrders) AdvanceFrom(ctx context.Context, orderID, actorID string, expected, next domain.OrderStatus) (domain.Order, error) {
	return s.advanceFrom(ctx, orderID, actorID, expected, next)
}

func (s *stubOrders) Cancel(ctx context.Context, orderID, actorID string) (domain.Order, error) {
	return s.cancel(ctx, orderID, actorID)
}

func (s *stubOrders) Get(ctx context.Context, orderID string) (domain.Order, error) {
	return s.get(ctx, orderID)
}

func (s *stubOrders) ListByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	return s.byClient(ctx, clientID)
}

func (s *stubOrders) ListPending(ctx context.Context, class *domain.VehicleClass) ([]domain.Order, error) {
	return s.pending(ctx, class)
}

func (s *stubOrders) ListByCourier(ctx context.Context, courierID string) ([]domain.Order, error) {
	return s.byCourier(ctx, courierID)
}

func (s *stubOrders) ActiveForCourier(ctx context.Context, courierID string) (domain.Order, error) {
	return s.active(ctx, courierID)
}

func (s *stubOrders) History(ctx context.Context, orderID string) ([]domain.StatusTransition, error) {
	return s.history(ctx, orderID)
}

type stubAvailability struct {
	set func(ctx context.Context, courierID string, available bool, class *string) (domain.Availability, error)
	get func(ctx context.Context, courierID string) (domain.Availability, error)
}

func (s *stubAvailability) SetAvailability(ctx context.Context, courierID string, available bool, class *string) (domain.Availability, error) {
	return s.set(ctx, courierID, available, class)
}

func (s *stubAvailability) Get(ctx context.Context, courierID string) (domain.Availability, error) {
	return s.get(ctx, courierID)
}

type stubQuoter func(ctx context.Context, class domain.VehicleClass, km float64) domain.Quote

func (f stubQuoter) Quote(ctx context.Context, class domain.VehicleClass, km float64) domain.Quote {
	return f(ctx, class, km)
}

func withURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asCaller(r *http.Request, id string, role mw.Role) *http.Request {
	return r.WithContext(mw.WithCaller(r.Context(), mw.Caller{ID: id, Role: role}))
}

func ptr[T any](v T) *T { return &v }

func sampleOrder(id string, status domain.OrderStatus) domain.Order {
	o := domain.Order{
		ID:                  id,
		ClientID:            "client-1",
		VehicleClass:        domain.VehicleMoto,
		Origin:              domain.Address{Line: "Calle 10 # 43-12, Medellín"},
		Destination:         domain.Address{Line: "Carrera 70 # 1-35, Medellín"},
		EstimatedDistanceKm: 1,
		BasePrice:           6200,
		TotalPrice:          7000,
		Status:              status,
	}
	if status != domain.StatusPending {
		o.CourierID = ptr("courier-1")
	}
	return o
}
