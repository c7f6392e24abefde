package ratelimit

import (
	"sync"
	"time"
)

// Rule is the refill rate and capacity of a bucket.
type Rule struct {
	Rate  float64 // tokens per second
	Burst int
}

func (r Rule) normalized() Rule {
	if r.Rate <= 0 {
		r.Rate = 1
	}
	if r.Burst <= 0 {
		r.Burst = 1
	}
	return r
}

// Config stores TieredLimiter settings.
type Config struct {
	// Default applies to tiers missing from Tiers.
	Default Rule
	Tiers   map[Tier]Rule
	// TTL drops buckets idle for longer than this. Zero keeps them forever.
	TTL time.Duration
	// MaxBuckets caps tracked keys; new keys are refused once it is reached.
	MaxBuckets int
}

// TieredLimiter is a token bucket limiter whose bucket size depends on the caller tier.
// Couriers poll pending orders and race for claims, so they usually get a larger rule.
type TieredLimiter struct {
	clock Clock
	ttl   time.Duration
	max   int
	def   Rule
	tiers map[Tier]Rule

	mu        sync.Mutex
	buckets   map[Key]*bucket
	lastSweep time.Time
}

type bucket struct {
	rule    Rule
	tokens  float64
	updated time.Time
}

// NewTieredLimiter creates a limiter. A nil clock means wall time.
func NewTieredLimiter(clock Clock, cfg Config) *TieredLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	tiers := make(map[Tier]Rule, len(cfg.Tiers))
	for t, r := range cfg.Tiers {
		tiers[t] = r.normalized()
	}
	maxBuckets := cfg.MaxBuckets
	if maxBuckets < 0 {
		maxBuckets = 0
	}
	return &TieredLimiter{
		clock:   clock,
		ttl:     cfg.TTL,
		max:     maxBuckets,
		def:     cfg.Default.normalized(),
		tiers:   tiers,
		buckets: make(map[Key]*bucket),
	}
}

// Allow takes one token from the bucket of key.
func (l *TieredLimiter) Allow(key Key) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		if l.max > 0 && len(l.buckets) >= l.max {
			return false
		}
		rule := l.ruleFor(key.Tier)
		b = &bucket{rule: rule, tokens: float64(rule.Burst), updated: now}
		l.buckets[key] = b
	}
	return b.take(now)
}

// Len returns the number of tracked buckets.
func (l *TieredLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *TieredLimiter) ruleFor(t Tier) Rule {
	if r, ok := l.tiers[t]; ok {
		return r
	}
	return l.def
}

// sweep runs at most once per TTL. Caller holds l.mu.
func (l *TieredLimiter) sweep(now time.Time) {
	if l.ttl <= 0 {
		return
	}
	if !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < l.ttl {
		return
	}
	l.lastSweep = now
	for k, b := range l.buckets {
		if now.Sub(b.updated) > l.ttl {
			delete(l.buckets, k)
		}
	}
}

func (b *bucket) take(now time.Time) bool {
	if dt := now.Sub(b.updated); dt > 0 {
		b.tokens += dt.Seconds() * b.rule.Rate
		if limit := float64(b.rule.Burst); b.tokens > limit {
			b.tokens = limit
		}
	}
	b.updated = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
