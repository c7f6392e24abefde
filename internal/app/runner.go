package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the API server
type Runner struct {
	runFn func(*dig.Container) error
	exit  func(int)
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run, exit: os.Exit}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Info("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		if r.exit != nil {
			r.exit(1)
		}
	}
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

type serverIn struct {
	dig.In

	Ctx      context.Context
	Logger   logx.Logger
	Pool     *pgxpool.Pool
	Server   *http.Server
	Debug    *http.Server    `name:"debug_server" optional:"true"`
	Relay    *kafka.Consumer `optional:"true"`
	Producer *kafka.Producer `optional:"true"`
}

// appRun serves until the root context is cancelled or a listener fails.
// A failing Kafka relay is logged but does not stop the API.
func appRun(in serverIn) error {
	g, ctx := errgroup.WithContext(in.Ctx)

	serve(g, in.Server, in.Logger, "service-dispatch")
	if in.Debug != nil {
		serve(g, in.Debug, in.Logger, "debug")
	}
	if in.Relay != nil {
		g.Go(func() error {
			in.Logger.Info("kafka relay started")
			if err := in.Relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				in.Logger.Error("kafka relay stopped", logx.Err(err))
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		if in.Ctx.Err() != nil {
			in.Logger.Info("shutting down service-dispatch...")
		}
		gracefulShutdown(in.Server, in.Logger, shutdownTimeout)
		if in.Debug != nil {
			gracefulShutdown(in.Debug, in.Logger, shutdownTimeout)
		}
		return nil
	})

	err := g.Wait()
	closeResources(in)
	if err != nil {
		in.Logger.Error("listen error", logx.Err(err))
		return err
	}
	return in.Ctx.Err()
}

func serve(g *errgroup.Group, server *http.Server, logger logx.Logger, name string) {
	g.Go(func() error {
		logger.Info("listening", logx.String("server", name), logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(in serverIn) {
	if err := in.Relay.Close(); err != nil {
		in.Logger.Error("kafka consumer close error", logx.Err(err))
	}
	if err := in.Producer.Close(); err != nil {
		in.Logger.Error("kafka producer close error", logx.Err(err))
	}
	if in.Pool != nil {
		in.Pool.Close()
	}
}
