package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

const orderColumns = `id, client_id, courier_id, vehicle_class,
	origin_address, origin_reference, destination_address, destination_reference,
	package_description, estimated_distance_km, base_price, total_price, status,
	created_at, accepted_at, delivered_at, updated_at`

// OrderRepo represents order repository.
type OrderRepo struct {
	db *pgxpool.Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create persists a new pending order together with its first history row.
func (r *OrderRepo) Create(ctx context.Context, d domain.OrderDraft) (domain.Order, error) {
	var out domain.Order
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO orders (
				id, client_id, vehicle_class,
				origin_address, origin_reference, destination_address, destination_reference,
				package_description, estimated_distance_km, base_price, total_price, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING `+orderColumns,
			d.ID, d.ClientID, string(d.VehicleClass),
			d.Origin.Line, d.Origin.Reference, d.Destination.Line, d.Destination.Reference,
			d.PackageDescription, d.EstimatedDistanceKm, d.BasePrice, d.TotalPrice,
			string(domain.StatusPending),
		)
		o, err := scanOrder(row)
		if err != nil {
			return fmt.Errorf("insert order: %w", mapErr(err))
		}
		if err := appendHistory(ctx, tx, o.ID, domain.StatusPending, &o.ClientID, nil); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

// Get - returns order by its ID.
func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order %s: %w", id, mapErr(err))
	}
	return o, nil
}

// ListByClient returns a client's orders, newest first.
func (r *OrderRepo) ListByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	return r.list(ctx, "list client orders",
		`SELECT `+orderColumns+` FROM orders WHERE client_id = $1 ORDER BY created_at DESC, id DESC`,
		clientID)
}

// ListByCourier returns the orders a courier has claimed, newest first.
func (r *OrderRepo) ListByCourier(ctx context.Context, courierID string) ([]domain.Order, error) {
	return r.list(ctx, "list courier orders",
		`SELECT `+orderColumns+` FROM orders WHERE courier_id = $1 ORDER BY created_at DESC, id DESC`,
		courierID)
}

// ListPendingEligible returns pending orders, oldest first. A nil class returns every class.
func (r *OrderRepo) ListPendingEligible(ctx context.Context, class *domain.VehicleClass) ([]domain.Order, error) {
	if class == nil {
		return r.list(ctx, "list pending orders",
			`SELECT `+orderColumns+` FROM orders WHERE status = 'pending' ORDER BY created_at ASC, id ASC`)
	}
	return r.list(ctx, "list pending orders",
		`SELECT `+orderColumns+` FROM orders
		 WHERE status = 'pending' AND vehicle_class = $1
		 ORDER BY created_at ASC, id ASC`,
		string(*class))
}

// ActiveForCourier returns the courier's latest accepted or in-transit order.
func (r *OrderRepo) ActiveForCourier(ctx context.Context, courierID string) (domain.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE courier_id = $1 AND status IN ('accepted', 'in_transit')
		ORDER BY accepted_at DESC NULLS LAST, created_at DESC
		LIMIT 1`, courierID)
	o, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("active order for courier %s: %w", courierID, mapErr(err))
	}
	return o, nil
}

// History returns the audit trail of an order, oldest first.
func (r *OrderRepo) History(ctx context.Context, orderID string) ([]domain.StatusTransition, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, status, actor_id, note, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order history %s: %w", orderID, mapErr(err))
	}
	defer rows.Close()

	out := make([]domain.StatusTransition, 0, 4)
	for rows.Next() {
		var (
			st     domain.StatusTransition
			status string
		)
		if err := rows.Scan(&st.ID, &st.OrderID, &status, &st.ActorID, &st.Note, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		st.Status = domain.OrderStatus(status)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order history %s: %w", orderID, mapErr(err))
	}
	return out, nil
}

// ConditionalTransition moves the order from t.From to t.To only while the
// stored status still equals t.From. The update and its history row commit
// together. A lost race yields apperr.ErrConflict; a missing order yields
// apperr.ErrNotFound.
func (r *OrderRepo) ConditionalTransition(ctx context.Context, t domain.Transition) (domain.Order, error) {
	if !t.From.CanTransitionTo(t.To) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, t.From, t.To)
	}
	if t.To == domain.StatusAccepted && (t.CourierID == nil || *t.CourierID == "") {
		return domain.Order{}, fmt.Errorf("%w: accepting requires a courier", apperr.ErrInvalidState)
	}

	var out domain.Order
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var courier *string
		if t.To == domain.StatusAccepted {
			courier = t.CourierID
		}

		row := tx.QueryRow(ctx, `
			UPDATE orders
			SET status       = $3,
			    courier_id   = COALESCE(courier_id, $4),
			    accepted_at  = CASE WHEN $3 = 'accepted' THEN now() ELSE accepted_at END,
			    delivered_at = CASE WHEN $3 = 'delivered' THEN now() ELSE delivered_at END,
			    updated_at   = now()
			WHERE id = $1 AND status = $2
			RETURNING `+orderColumns,
			t.OrderID, string(t.From), string(t.To), courier,
		)
		o, err := scanOrder(row)
		if err != nil {
			if !IsNotFound(err) {
				return fmt.Errorf("transition order %s: %w", t.OrderID, mapErr(err))
			}
			return r.missOrConflict(ctx, tx, t)
		}

		actor := t.ActorID
		if actor == nil {
			actor = courier
		}
		if err := appendHistory(ctx, tx, o.ID, t.To, actor, t.Note); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

func (r *OrderRepo) missOrConflict(ctx context.Context, tx pgx.Tx, t domain.Transition) error {
	var current string
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, t.OrderID).Scan(&current)
	switch {
	case IsNotFound(err):
		return fmt.Errorf("order %s: %w", t.OrderID, apperr.ErrNotFound)
	case err != nil:
		return fmt.Errorf("probe order %s: %w", t.OrderID, mapErr(err))
	default:
		return fmt.Errorf("order %s is %s, expected %s: %w", t.OrderID, current, t.From, apperr.ErrConflict)
	}
}

func (r *OrderRepo) list(ctx context.Context, op, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	defer rows.Close()

	out := make([]domain.Order, 0, 16)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return out, nil
}

func appendHistory(ctx context.Context, tx pgx.Tx, orderID string, status domain.OrderStatus, actor, note *string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, status, actor_id, note)
		VALUES ($1, $2, $3, $4)`,
		orderID, string(status), actor, note)
	if err != nil {
		return fmt.Errorf("append history for %s: %w", orderID, mapErr(err))
	}
	return nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o           domain.Order
		class       string
		status      string
		acceptedAt  *time.Time
		deliveredAt *time.Time
	)
	err := row.Scan(
		&o.ID, &o.ClientID, &o.CourierID, &class,
		&o.Origin.Line, &o.Origin.Reference, &o.Destination.Line, &o.Destination.Reference,
		&o.PackageDescription, &o.EstimatedDistanceKm, &o.BasePrice, &o.TotalPrice, &status,
		&o.CreatedAt, &acceptedAt, &deliveredAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	o.VehicleClass = domain.VehicleClass(class)
	o.Status = domain.OrderStatus(status)
	o.AcceptedAt = acceptedAt
	o.DeliveredAt = deliveredAt
	return o, nil
}
