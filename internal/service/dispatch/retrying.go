package dispatch

import (
	"context"
	"errors"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

type counter interface {
	Inc()
}

// RetryConfig описывает поведение RetryingEstimator
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingEstimator retries transient estimator failures with exponential backoff.
type RetryingEstimator struct {
	next    DistanceEstimator
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingEstimator wraps next. It returns nil when next is nil.
func NewRetryingEstimator(next DistanceEstimator, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingEstimator {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryingEstimator{next: next, logger: logger, retries: retries, cfg: cfg}
}

// EstimateKm implements DistanceEstimator.
func (r *RetryingEstimator) EstimateKm(ctx context.Context, origin, destination domain.Address) (float64, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		km, err := r.next.EstimateKm(ctx, origin, destination)
		if err == nil {
			return km, nil
		}
		lastErr = err
		// повторяем только временные ошибки
		if ctx.Err() != nil || attempt == r.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(r.cfg.BaseDelay, r.cfg.MaxDelay, attempt)
		if r.retries != nil {
			r.retries.Inc()
		}
		r.logger.Warn("distance estimate retry",
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return 0, lastErr
}

func isRetryable(err error) bool {
	return errors.Is(err, apperr.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

// backoff вычисляет задержку повтора
func backoff(base, limit time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	// d < 0 означает переполнение сдвига
	if d < 0 || (limit > 0 && d > limit) {
		return limit
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
