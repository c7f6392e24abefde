package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// Registry records which couriers accept work and under which vehicle class.
type Registry struct {
	repo             availabilityRepository
	staleAfter       time.Duration
	operationTimeout time.Duration
	staleCounter     prometheus.Counter
	logger           logx.Logger
	now              func() time.Time
	streams          StreamCloser
}

// NewRegistry creates a new Registry.
func NewRegistry(
	repo availabilityRepository,
	staleAfter, timeout time.Duration,
	staleCounter prometheus.Counter,
	logger logx.Logger,
) *Registry {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Registry{
		repo:             repo,
		staleAfter:       staleAfter,
		operationTimeout: timeout,
		staleCounter:     staleCounter,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithStreams makes the Registry end a courier's pending streams as soon as the
// courier goes offline. Without it those streams notice on their next recheck.
func (r *Registry) WithStreams(s StreamCloser) *Registry {
	r.streams = s
	return r
}

// SetAvailability switches a courier on or off. Going available requires a
// vehicle class; going offline clears it. The heartbeat is refreshed either way.
func (r *Registry) SetAvailability(ctx context.Context, courierID string, available bool, class *string) (domain.Availability, error) {
	courierID = strings.TrimSpace(courierID)
	if courierID == "" {
		return domain.Availability{}, fmt.Errorf("%w: courier_id is required", apperr.ErrInvalid)
	}

	rec := domain.Availability{CourierID: courierID, Available: available}
	if class != nil && strings.TrimSpace(*class) != "" {
		c, ok := domain.ParseVehicleClass(*class)
		if !ok {
			return domain.Availability{}, fmt.Errorf("%w: unknown vehicle_class %q", apperr.ErrInvalid, *class)
		}
		if available {
			rec.VehicleClass = &c
		}
	}
	if available && rec.VehicleClass == nil {
		return domain.Availability{}, fmt.Errorf("%w: available courier needs a vehicle class", apperr.ErrInvalidState)
	}

	ctx, cancel := context.WithTimeout(ctx, r.operationTimeout)
	defer cancel()

	out, err := r.repo.Set(ctx, rec)
	if err != nil {
		return domain.Availability{}, err
	}

	fields := []logx.Field{
		logx.String("event", "availability_changed"),
		logx.String("courier_id", out.CourierID),
		logx.Bool("available", out.Available),
	}
	if out.VehicleClass != nil {
		fields = append(fields, logx.String("vehicle_class", string(*out.VehicleClass)))
	}
	r.logger.Debug("courier availability set", fields...)
	if !out.Available {
		r.closeStreams(out.CourierID)
	}
	return out, nil
}

// Get returns the courier's record or apperr.ErrNotFound.
func (r *Registry) Get(ctx context.Context, courierID string) (domain.Availability, error) {
	courierID = strings.TrimSpace(courierID)
	if courierID == "" {
		return domain.Availability{}, fmt.Errorf("%w: courier_id is required", apperr.ErrInvalid)
	}
	ctx, cancel := context.WithTimeout(ctx, r.operationTimeout)
	defer cancel()
	return r.repo.Get(ctx, courierID)
}

// SweepStale switches off couriers that stopped sending heartbeats.
func (r *Registry) SweepStale(ctx context.Context) (int64, error) {
	if r.staleAfter <= 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.operationTimeout)
	defer cancel()

	cutoff := r.now().Add(-r.staleAfter)
	ids, err := r.repo.MarkStaleOffline(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		r.closeStreams(id)
	}
	n := int64(len(ids))
	if n > 0 {
		if r.staleCounter != nil {
			r.staleCounter.Add(float64(n))
		}
		r.logger.Info("stale couriers switched offline",
			logx.String("event", "availability_swept"),
			logx.Int64("count", n),
			logx.Time("cutoff", cutoff),
		)
	}
	return n, nil
}

func (r *Registry) closeStreams(courierID string) {
	if r.streams == nil {
		return
	}
	if n := r.streams.CloseCourier(courierID); n > 0 {
		r.logger.Debug("courier streams closed",
			logx.String("courier_id", courierID),
			logx.Int("streams", n),
		)
	}
}
