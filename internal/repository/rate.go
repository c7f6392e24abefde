package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/domain"
)

// RateRepo represents pricing config repository.
type RateRepo struct{ db *pgxpool.Pool }

// NewRateRepo creates a new RateRepo.
func NewRateRepo(db *pgxpool.Pool) *RateRepo { return &RateRepo{db: db} }

// Active returns the active tariff for class or apperr.ErrNotFound.
func (r *RateRepo) Active(ctx context.Context, class domain.VehicleClass) (domain.Rate, error) {
	row := r.db.QueryRow(ctx, `
		SELECT vehicle_class, base_fare, per_km_rate, minimum_fare, active
		FROM pricing_config
		WHERE vehicle_class = $1 AND active
		LIMIT 1`, string(class))
	rate, err := scanRate(row)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("active rate %s: %w", class, mapErr(err))
	}
	return rate, nil
}

// List returns every stored tariff, active entries first.
func (r *RateRepo) List(ctx context.Context) ([]domain.Rate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT vehicle_class, base_fare, per_km_rate, minimum_fare, active
		FROM pricing_config
		ORDER BY vehicle_class, active DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", mapErr(err))
	}
	defer rows.Close()

	var out []domain.Rate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		out = append(out, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rates: %w", mapErr(err))
	}
	return out, nil
}

// Activate stores rate as the only active tariff of its class. The previous
// active entry is kept as inactive history.
func (r *RateRepo) Activate(ctx context.Context, rate domain.Rate) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE pricing_config SET active = false WHERE vehicle_class = $1 AND active`,
			string(rate.VehicleClass)); err != nil {
			return fmt.Errorf("deactivate rates %s: %w", rate.VehicleClass, mapErr(err))
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO pricing_config (vehicle_class, base_fare, per_km_rate, minimum_fare, active)
			VALUES ($1, $2, $3, $4, true)`,
			string(rate.VehicleClass), rate.BaseFare, rate.PerKmRate, rate.MinimumFare); err != nil {
			return fmt.Errorf("insert rate %s: %w", rate.VehicleClass, mapErr(err))
		}
		return nil
	})
}

func scanRate(row pgx.Row) (domain.Rate, error) {
	var (
		rate  domain.Rate
		class string
	)
	if err := row.Scan(&class, &rate.BaseFare, &rate.PerKmRate, &rate.MinimumFare, &rate.Active); err != nil {
		return domain.Rate{}, err
	}
	rate.VehicleClass = domain.VehicleClass(class)
	return rate, nil
}
