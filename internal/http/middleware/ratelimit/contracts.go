package ratelimit

import "time"

// Tier groups callers that share bucket parameters.
type Tier string

// List of tiers
const (
	TierAnonymous Tier = "ip"
	TierClient    Tier = "client"
	TierCourier   Tier = "courier"
)

// Key identifies one bucket.
type Key struct {
	Tier Tier
	ID   string
}

func (k Key) String() string { return string(k.Tier) + ":" + k.ID }

// Limiter decides whether the request identified by key may proceed.
type Limiter interface {
	Allow(key Key) bool
}

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

// RealClock is the default clock.
type RealClock struct{}

// Now returns current time.
func (RealClock) Now() time.Time { return time.Now() }

// NopLimiter lets every request through.
type NopLimiter struct{}

// Allow always returns true
func (NopLimiter) Allow(Key) bool { return true }
