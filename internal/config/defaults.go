package config

import "time"

const (
	defaultPort     = 8080
	defaultLogLevel = "info"
)

var defaultDB = DB{
	Host:    "127.0.0.1",
	Port:    "5432",
	User:    "dispatch",
	Pass:    "dispatch",
	Name:    "dispatch",
	SSLMode: "disable",
}

var defaultKafka = Kafka{
	Topic:       "dispatch.events",
	GroupPrefix: "dispatch-relay",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:         10,
	Burst:        20,
	CourierRate:  20,
	CourierBurst: 40,
	TTL:          5 * time.Minute,
	MaxBuckets:   10000,
}

var defaultDispatch = Dispatch{
	OperationTimeout:  3 * time.Second,
	SubscriberBuffer:  64,
	DefaultDistanceKm: 5.0,
	EstimateRetry: Retry{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    time.Second,
	},
}

var defaultAvailability = Availability{
	StaleAfter:    2 * time.Minute,
	SweepSchedule: "@every 30s",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultKafka returns the default Kafka relay settings (no brokers, relay disabled).
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultRateLimit returns the default rate limiter settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultDispatch returns the default coordinator settings.
func DefaultDispatch() Dispatch {
	return defaultDispatch
}

// DefaultAvailability returns the default availability sweep settings.
func DefaultAvailability() Availability {
	return defaultAvailability
}
