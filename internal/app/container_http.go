package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/config"
	"courier-dispatch/internal/http/debugserver"
	"courier-dispatch/internal/http/handlers"
	"courier-dispatch/internal/http/middleware/ratelimit"
	"courier-dispatch/internal/http/router"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/service/availability"
	"courier-dispatch/internal/service/dispatch"
	"courier-dispatch/internal/service/pricing"
)

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		func(logger logx.Logger, pool *pgxpool.Pool) *handlers.Handlers {
			return handlers.New(logger, pool)
		},
		func(c *dispatch.Coordinator, logger logx.Logger) *handlers.OrderHandler {
			return handlers.NewOrderHandler(c, logger)
		},
		func(r *availability.Registry, logger logx.Logger) *handlers.AvailabilityHandler {
			return handlers.NewAvailabilityHandler(r, logger)
		},
		func(e *pricing.Engine, logger logx.Logger) *handlers.QuoteHandler {
			return handlers.NewQuoteHandler(e, logger)
		},
		func(hub *broadcast.Hub, c *dispatch.Coordinator, r *availability.Registry, logger logx.Logger) *handlers.StreamHandler {
			return handlers.NewStreamHandler(hub, c, r, 0, logger)
		},
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouterDeps,
		router.New,
		newHTTPServer,
		newDebugServer,
	)
}

type routerIn struct {
	dig.In

	Logger       logx.Logger
	Base         *handlers.Handlers
	Orders       *handlers.OrderHandler
	Availability *handlers.AvailabilityHandler
	Quote        *handlers.QuoteHandler
	Stream       *handlers.StreamHandler
	RateLimit    *ratelimit.Middleware
}

func newRouterDeps(in routerIn) router.Deps {
	return router.Deps{
		Logger:       in.Logger,
		Base:         in.Base,
		Orders:       in.Orders,
		Availability: in.Availability,
		Quote:        in.Quote,
		Stream:       in.Stream,
		RateLimit:    in.RateLimit,
		Metrics:      promhttp.Handler(),
	}
}

// newHTTPServer builds the API server. Stream handlers lift WriteTimeout per response.
func newHTTPServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

type debugOut struct {
	dig.Out

	Server *http.Server `name:"debug_server"`
}

// newDebugServer returns a nil server when DEBUG_ADDR is empty.
func newDebugServer(cfg *config.Config, hub *broadcast.Hub, logger logx.Logger) debugOut {
	if cfg.Debug.Addr == "" {
		return debugOut{}
	}
	h := debugserver.Handler(debugserver.Config{
		User: cfg.Debug.User,
		Pass: cfg.Debug.Pass,
	}, hub, logger.With(logx.String("component", "debug")))
	return debugOut{Server: &http.Server{
		Addr:              cfg.Debug.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}
