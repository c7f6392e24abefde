package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// defaultRates is used whenever no active tariff is stored for a class.
var defaultRates = map[domain.VehicleClass]domain.Rate{
	domain.VehicleMoto: {
		VehicleClass: domain.VehicleMoto,
		BaseFare:     5000,
		PerKmRate:    1200,
		MinimumFare:  7000,
		Active:       true,
	},
	domain.VehicleMotoCarguero: {
		VehicleClass: domain.VehicleMotoCarguero,
		BaseFare:     8000,
		PerKmRate:    1800,
		MinimumFare:  12000,
		Active:       true,
	},
}

// DefaultRate returns the built-in tariff for a class.
func DefaultRate(class domain.VehicleClass) (domain.Rate, bool) {
	r, ok := defaultRates[class]
	return r, ok
}

// ValidateRate checks a tariff before it is stored.
func ValidateRate(r domain.Rate) error {
	switch {
	case !r.VehicleClass.Valid():
		return fmt.Errorf("%w: unknown vehicle_class %q", apperr.ErrInvalid, r.VehicleClass)
	case r.BaseFare < 0 || r.PerKmRate < 0 || r.MinimumFare < 0:
		return fmt.Errorf("%w: fares must not be negative", apperr.ErrInvalid)
	case r.BaseFare == 0 && r.PerKmRate == 0 && r.MinimumFare == 0:
		return fmt.Errorf("%w: tariff prices nothing", apperr.ErrInvalid)
	}
	return nil
}

// Compute prices a job of distanceKm against rate. BasePrice is the raw fare,
// TotalPrice is the fare raised to the minimum.
func Compute(rate domain.Rate, distanceKm float64) domain.Quote {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		distanceKm = 0
	}
	base := fare(rate, distanceKm)
	total := base
	if total < rate.MinimumFare {
		total = rate.MinimumFare
	}
	return domain.Quote{
		VehicleClass: rate.VehicleClass,
		DistanceKm:   distanceKm,
		BasePrice:    base,
		TotalPrice:   total,
	}
}

// fare saturates at math.MaxInt64 so a larger distance never yields a smaller price.
func fare(rate domain.Rate, distanceKm float64) int64 {
	perKm := math.Round(distanceKm * float64(rate.PerKmRate))
	if perKm >= math.MaxInt64 {
		return math.MaxInt64
	}
	p := int64(perKm)
	if p > math.MaxInt64-rate.BaseFare {
		return math.MaxInt64
	}
	return rate.BaseFare + p
}

// Engine quotes jobs against the active stored tariff.
type Engine struct {
	rates         rateSource
	logger        logx.Logger
	lookupTimeout time.Duration
}

// NewEngine creates a pricing Engine. A nil source always uses the built-in table.
func NewEngine(rates rateSource, logger logx.Logger, lookupTimeout time.Duration) *Engine {
	if logger == nil {
		logger = logx.Nop()
	}
	if lookupTimeout <= 0 {
		lookupTimeout = time.Second
	}
	return &Engine{rates: rates, logger: logger, lookupTimeout: lookupTimeout}
}

// Quote prices a job for class. It never fails for a valid class: a missing or
// unreadable tariff falls back to the built-in table.
func (e *Engine) Quote(ctx context.Context, class domain.VehicleClass, distanceKm float64) domain.Quote {
	return Compute(e.rate(ctx, class), distanceKm)
}

func (e *Engine) rate(ctx context.Context, class domain.VehicleClass) domain.Rate {
	def := defaultRates[class]
	if e.rates == nil {
		return def
	}

	ctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	r, err := e.rates.Active(ctx, class)
	switch {
	case err == nil:
		return r
	case errors.Is(err, apperr.ErrNotFound):
		return def
	default:
		e.logger.Warn("active rate lookup failed, using default tariff",
			logx.String("vehicle_class", string(class)),
			logx.Err(err),
		)
		return def
	}
}
