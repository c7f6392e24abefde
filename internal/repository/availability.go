package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/domain"
)

// AvailabilityRepo represents courier availability repository.
type AvailabilityRepo struct{ db *pgxpool.Pool }

// NewAvailabilityRepo creates a new AvailabilityRepo.
func NewAvailabilityRepo(db *pgxpool.Pool) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// Set upserts the courier's record and refreshes its heartbeat.
func (r *AvailabilityRepo) Set(ctx context.Context, a domain.Availability) (domain.Availability, error) {
	var class *string
	if a.VehicleClass != nil {
		s := string(*a.VehicleClass)
		class = &s
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO courier_availability (courier_id, available, vehicle_class, last_heartbeat)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (courier_id) DO UPDATE
		SET available      = EXCLUDED.available,
		    vehicle_class  = EXCLUDED.vehicle_class,
		    last_heartbeat = EXCLUDED.last_heartbeat
		RETURNING courier_id, available, vehicle_class, last_heartbeat`,
		a.CourierID, a.Available, class)
	out, err := scanAvailability(row)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("set availability %s: %w", a.CourierID, mapErr(err))
	}
	return out, nil
}

// Get - returns courier availability by courier ID.
func (r *AvailabilityRepo) Get(ctx context.Context, courierID string) (domain.Availability, error) {
	row := r.db.QueryRow(ctx, `
		SELECT courier_id, available, vehicle_class, last_heartbeat
		FROM courier_availability
		WHERE courier_id = $1`, courierID)
	out, err := scanAvailability(row)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("get availability %s: %w", courierID, mapErr(err))
	}
	return out, nil
}

// MarkStaleOffline switches off every available courier whose heartbeat is older
// than cutoff and returns the ids it changed.
func (r *AvailabilityRepo) MarkStaleOffline(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE courier_availability
		SET available = false, vehicle_class = NULL
		WHERE available AND last_heartbeat < $1
		RETURNING courier_id`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("mark stale couriers offline: %w", mapErr(err))
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("mark stale couriers offline: %w", mapErr(err))
	}
	return ids, nil
}

func scanAvailability(row pgx.Row) (domain.Availability, error) {
	var (
		a     domain.Availability
		class *string
	)
	if err := row.Scan(&a.CourierID, &a.Available, &class, &a.LastHeartbeat); err != nil {
		return domain.Availability{}, err
	}
	if class != nil {
		c := domain.VehicleClass(*class)
		a.VehicleClass = &c
	}
	return a, nil
}
