package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// Dispatch groups the coordinator and broadcaster collectors.
type Dispatch struct {
	OrdersCreated      prometheus.Counter
	ClaimAttempts      *prometheus.CounterVec
	Transitions        *prometheus.CounterVec
	SubscribersDropped prometheus.Counter
	PublishFailures    *prometheus.CounterVec
	StaleCouriers      prometheus.Counter
	EstimateRetries    prometheus.Counter
}

// NewDispatch creates unregistered dispatch collectors.
func NewDispatch() *Dispatch {
	return &Dispatch{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_orders_created_total",
			Help: "Total number of orders created in pending status",
		}),
		ClaimAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_claim_attempts_total",
			Help: "Claim attempts by outcome (won, lost, error)",
		}, []string{"outcome"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_transitions_total",
			Help: "Committed status transitions by resulting status",
		}, []string{"status"}),
		SubscribersDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_subscribers_dropped_total",
			Help: "Subscribers evicted because their buffer was full",
		}),
		PublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_publish_failures_total",
			Help: "Failed event publications by event kind",
		}, []string{"kind"}),
		StaleCouriers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_stale_couriers_offlined_total",
			Help: "Couriers switched offline by the stale heartbeat sweep",
		}),
		EstimateRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_distance_estimate_retries_total",
			Help: "Distance estimate calls retried after a transient failure",
		}),
	}
}

// Collectors returns every collector for registration.
func (d *Dispatch) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		d.OrdersCreated,
		d.ClaimAttempts,
		d.Transitions,
		d.SubscribersDropped,
		d.PublishFailures,
		d.StaleCouriers,
		d.EstimateRetries,
	}
}

// MustRegister registers all dispatch collectors on reg.
func (d *Dispatch) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(d.Collectors()...)
}
