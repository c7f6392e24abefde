package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"courier-dispatch/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
	Dispatch               *metrics.Dispatch
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, provideMetrics)
}

// provideMetrics registers collectors on the default registry. A collector that
// is already registered (tests, a second container in one process) is reused.
func provideMetrics() (metricsOut, error) {
	reg := prometheus.DefaultRegisterer

	rl, err := registerOrReuse(reg, "rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal())
	if err != nil {
		return metricsOut{}, err
	}

	d := metrics.NewDispatch()
	if d.OrdersCreated, err = registerOrReuse(reg, "dispatch_orders_created_total", d.OrdersCreated); err != nil {
		return metricsOut{}, err
	}
	if d.ClaimAttempts, err = registerOrReuse(reg, "dispatch_claim_attempts_total", d.ClaimAttempts); err != nil {
		return metricsOut{}, err
	}
	if d.Transitions, err = registerOrReuse(reg, "dispatch_transitions_total", d.Transitions); err != nil {
		return metricsOut{}, err
	}
	if d.SubscribersDropped, err = registerOrReuse(reg, "dispatch_subscribers_dropped_total", d.SubscribersDropped); err != nil {
		return metricsOut{}, err
	}
	if d.PublishFailures, err = registerOrReuse(reg, "dispatch_publish_failures_total", d.PublishFailures); err != nil {
		return metricsOut{}, err
	}
	if d.StaleCouriers, err = registerOrReuse(reg, "dispatch_stale_couriers_offlined_total", d.StaleCouriers); err != nil {
		return metricsOut{}, err
	}
	if d.EstimateRetries, err = registerOrReuse(reg, "dispatch_distance_estimate_retries_total", d.EstimateRetries); err != nil {
		return metricsOut{}, err
	}

	return metricsOut{RateLimitExceededTotal: rl, Dispatch: d}, nil
}

func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, name string, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("register %s: %w", name, err)
}
