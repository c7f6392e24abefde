package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/repository"
)

const (
	dbAttemptTimeout = 3 * time.Second
	// пауза между попытками растет вдвое, но не больше maxDelayFactor*delay
	maxDelayFactor = 8
)

var (
	newPool = repository.NewPool
	migrate = repository.Migrate
)

// connectAndMigrate opens the pool and applies the embedded schema.
func connectAndMigrate(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
	pool, err := connectDbWithRetry(ctx, logger, dsn, retries, delay)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("db schema applied")
	return pool, nil
}

// connectDbWithRetry waits for Postgres to come up. Compose starts the API
// and the database together, so the first attempts usually fail.
func connectDbWithRetry(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
	if retries <= 0 {
		retries = 1
	}
	var lastErr error
	wait := delay
	for i := 1; i <= retries; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, dbAttemptTimeout)
		pool, err := newPool(attemptCtx, dsn)
		cancel()
		if err == nil {
			logger.Info("db connected", logx.Int("attempt", i))
			return pool, nil
		}
		lastErr = err
		logger.Warn("db connect failed",
			logx.Int("attempt", i),
			logx.Int("retries", retries),
			logx.Duration("next_delay", wait),
			logx.Err(err),
		)
		if i == retries {
			break
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		if wait *= 2; wait > maxDelayFactor*delay {
			wait = maxDelayFactor * delay
		}
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", retries, lastErr)
}
