// Package dispatch owns the order lifecycle: creation, the claim race, status
// advancement and publication of every committed change.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/metrics"
)

// ErrAlreadyClaimed is returned to every claimant except the winner.
var ErrAlreadyClaimed = fmt.Errorf("order already claimed: %w", apperr.ErrConflict)

// Coordinator runs the order state machine. It keeps no state between calls;
// claim safety comes from the repository's conditional transition.
type Coordinator struct {
	repo     orderRepository
	pricing  quoter
	pub      publisher
	distance DistanceEstimator
	metrics  *metrics.Dispatch
	logger   logx.Logger

	operationTimeout time.Duration
	newID            func() string
}

// NewCoordinator creates a new Coordinator.
func NewCoordinator(
	repo orderRepository,
	pricing quoter,
	pub publisher,
	distance DistanceEstimator,
	m *metrics.Dispatch,
	timeout time.Duration,
	logger logx.Logger,
) *Coordinator {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if m == nil {
		m = metrics.NewDispatch()
	}
	if distance == nil {
		distance = FixedDistance(5)
	}
	return &Coordinator{
		repo:             repo,
		pricing:          pricing,
		pub:              pub,
		distance:         distance,
		metrics:          m,
		logger:           logger,
		operationTimeout: timeout,
		newID:            uuid.NewString,
	}
}

func (c *Coordinator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.operationTimeout)
}

// CreateOrder validates, prices and persists a new pending order, then offers it to couriers.
func (c *Coordinator) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	v, err := in.validate()
	if err != nil {
		return domain.Order{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var distanceKm float64
	if v.distanceKm != nil {
		distanceKm = *v.distanceKm
	} else {
		km, err := c.distance.EstimateKm(ctx, v.origin, v.destination)
		if err != nil {
			return domain.Order{}, fmt.Errorf("estimate distance: %w: %w", apperr.ErrUnavailable, err)
		}
		if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 || km > domain.MaxDistanceKm {
			return domain.Order{}, fmt.Errorf("estimate distance: %w: got %v", apperr.ErrUnavailable, km)
		}
		distanceKm = km
	}

	q := c.pricing.Quote(ctx, v.class, distanceKm)

	o, err := c.repo.Create(ctx, domain.OrderDraft{
		ID:                  c.newID(),
		ClientID:            v.clientID,
		VehicleClass:        v.class,
		Origin:              v.origin,
		Destination:         v.destination,
		PackageDescription:  v.description,
		EstimatedDistanceKm: distanceKm,
		BasePrice:           q.BasePrice,
		TotalPrice:          q.TotalPrice,
	})
	if err != nil {
		return domain.Order{}, err
	}

	c.metrics.OrdersCreated.Inc()
	c.logger.Info("order created",
		logx.String("event", "order_created"),
		logx.String("order_id", o.ID),
		logx.String("client_id", o.ClientID),
		logx.String("vehicle_class", string(o.VehicleClass)),
		logx.Float64("distance_km", o.EstimatedDistanceKm),
		logx.Int64("total_price", o.TotalPrice),
	)

	c.publish(ctx, broadcast.EventPending, o)
	return o, nil
}

// ClaimOrder lets a courier take a pending order. Exactly one concurrent
// claimant wins; the others get ErrAlreadyClaimed.
func (c *Coordinator) ClaimOrder(ctx context.Context, orderID, courierID string) (domain.Order, error) {
	orderID, err := requireID("order_id", orderID)
	if err != nil {
		return domain.Order{}, err
	}
	courierID, err = requireID("courier_id", courierID)
	if err != nil {
		return domain.Order{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	o, err := c.repo.ConditionalTransition(ctx, domain.Transition{
		OrderID:   orderID,
		From:      domain.StatusPending,
		To:        domain.StatusAccepted,
		CourierID: &courierID,
		ActorID:   &courierID,
	})
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrConflict):
		c.metrics.ClaimAttempts.WithLabelValues("lost").Inc()
		c.logger.Info("claim lost",
			logx.String("event", "claim_lost"),
			logx.String("order_id", orderID),
			logx.String("courier_id", courierID),
		)
		return domain.Order{}, fmt.Errorf("claim %s: %w", orderID, ErrAlreadyClaimed)
	default:
		c.metrics.ClaimAttempts.WithLabelValues("error").Inc()
		return domain.Order{}, err
	}

	c.metrics.ClaimAttempts.WithLabelValues("won").Inc()
	c.committed(ctx, o, courierID)
	return o, nil
}

// Advance moves the order to next from whatever status it is in now.
func (c *Coordinator) Advance(ctx context.Context, orderID, actorID string, next domain.OrderStatus) (domain.Order, error) {
	return c.advance(ctx, orderID, actorID, nil, next)
}

// AdvanceFrom is Advance with an explicit expected current status. Repeating
// the same call after it succeeded yields apperr.ErrConflict.
func (c *Coordinator) AdvanceFrom(ctx context.Context, orderID, actorID string, expected, next domain.OrderStatus) (domain.Order, error) {
	return c.advance(ctx, orderID, actorID, &expected, next)
}

// Cancel cancels a pending or accepted order. Once in transit the order can no longer be cancelled.
func (c *Coordinator) Cancel(ctx context.Context, orderID, actorID string) (domain.Order, error) {
	return c.advance(ctx, orderID, actorID, nil, domain.StatusCancelled)
}

func (c *Coordinator) advance(
	ctx context.Context,
	orderID, actorID string,
	expected *domain.OrderStatus,
	next domain.OrderStatus,
) (domain.Order, error) {
	orderID, err := requireID("order_id", orderID)
	if err != nil {
		return domain.Order{}, err
	}
	actorID, err = requireID("actor_id", actorID)
	if err != nil {
		return domain.Order{}, err
	}
	if !next.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, next)
	}
	if expected != nil && !expected.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown expected status %q", apperr.ErrInvalid, *expected)
	}

	if next == domain.StatusAccepted && (expected == nil || *expected == domain.StatusPending) {
		return c.ClaimOrder(ctx, orderID, actorID)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	current, err := c.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	from := current.Status
	if expected != nil {
		if *expected != current.Status {
			return domain.Order{}, fmt.Errorf("order %s is %s, expected %s: %w",
				orderID, current.Status, *expected, apperr.ErrConflict)
		}
		from = *expected
	}

	if !from.CanTransitionTo(next) {
		return domain.Order{}, fmt.Errorf("order %s: %s -> %s: %w", orderID, from, next, apperr.ErrInvalidTransition)
	}
	if err := authorize(current, actorID, next); err != nil {
		return domain.Order{}, err
	}

	o, err := c.repo.ConditionalTransition(ctx, domain.Transition{
		OrderID: orderID,
		From:    from,
		To:      next,
		ActorID: &actorID,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			c.logger.Info("transition lost to a concurrent change",
				logx.String("order_id", orderID),
				logx.String("from", string(from)),
				logx.String("to", string(next)),
			)
		}
		return domain.Order{}, err
	}

	c.committed(ctx, o, actorID)
	return o, nil
}

// authorize checks that actorID may drive the order to next. Only the assigned
// courier moves a claimed order forward; the client or the assigned courier may cancel.
func authorize(o domain.Order, actorID string, next domain.OrderStatus) error {
	isCourier := o.CourierID != nil && *o.CourierID == actorID
	switch next {
	case domain.StatusCancelled:
		if actorID == o.ClientID || isCourier {
			return nil
		}
	case domain.StatusInTransit, domain.StatusDelivered:
		if isCourier {
			return nil
		}
	default:
		return nil
	}
	return fmt.Errorf("%w: %s may not move order %s to %s", apperr.ErrForbidden, actorID, o.ID, next)
}

// Get returns a single order.
func (c *Coordinator) Get(ctx context.Context, orderID string) (domain.Order, error) {
	orderID, err := requireID("order_id", orderID)
	if err != nil {
		return domain.Order{}, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.repo.Get(ctx, orderID)
}

// ListByClient returns a client's orders, newest first.
func (c *Coordinator) ListByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	clientID, err := requireID("client_id", clientID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.repo.ListByClient(ctx, clientID)
}

// ListPending returns pending orders for class, oldest first. A nil class lists all.
func (c *Coordinator) ListPending(ctx context.Context, class *domain.VehicleClass) ([]domain.Order, error) {
	if class != nil && !class.Valid() {
		return nil, fmt.Errorf("%w: unknown vehicle_class %q", apperr.ErrInvalid, *class)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.repo.ListPendingEligible(ctx, class)
}

// ListByCourier returns a courier's trips, newest first.
func (c *Coordinator) ListByCourier(ctx context.Context, courierID string) ([]domain.Order, error) {
	courierID, err := requireID("courier_id", courierID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.repo.ListByCourier(ctx, courierID)
}

// ActiveForCourier returns the order the courier is currently working on.
func (c *Coordinator) ActiveForCourier(ctx context.Context, courierID string) (domain.Order, error) {
	courierID, err := requireID("courier_id", courierID)
	if err != nil {
		return domain.Order{}, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.repo.ActiveForCourier(ctx, courierID)
}

// History returns the audit trail of an order.
func (c *Coordinator) History(ctx context.Context, orderID string) ([]domain.StatusTransition, error) {
	orderID, err := requireID("order_id", orderID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	// 404 для несуществующего заказа, а не пустой список
	if _, err := c.repo.Get(ctx, orderID); err != nil {
		return nil, err
	}
	return c.repo.History(ctx, orderID)
}

func (c *Coordinator) committed(ctx context.Context, o domain.Order, actorID string) {
	c.metrics.Transitions.WithLabelValues(string(o.Status)).Inc()
	c.logger.Info("order status changed",
		logx.String("event", "order_status_changed"),
		logx.String("order_id", o.ID),
		logx.String("status", string(o.Status)),
		logx.String("actor_id", actorID),
	)
	c.publish(ctx, broadcast.EventStatus, o)
}

// publish runs after the write committed. A failure is logged and counted but
// not returned: the order is durable and subscribers re-fetch on resync.
func (c *Coordinator) publish(ctx context.Context, kind broadcast.EventKind, o domain.Order) {
	var err error
	switch kind {
	case broadcast.EventPending:
		err = c.pub.PublishNewPending(ctx, o)
	default:
		err = c.pub.PublishStatusChange(ctx, o)
	}
	if err == nil {
		return
	}
	c.metrics.PublishFailures.WithLabelValues(string(kind)).Inc()
	c.logger.Error("publish failed",
		logx.String("event", string(kind)),
		logx.String("order_id", o.ID),
		logx.String("status", string(o.Status)),
		logx.Err(err),
	)
}
