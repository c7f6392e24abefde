package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"courier-dispatch/internal/http/handlers"
	mw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/http/middleware/ratelimit"
	"courier-dispatch/internal/logx"
)

const requestTimeout = 5 * time.Second

// Deps groups everything the router mounts.
type Deps struct {
	Logger       logx.Logger
	Base         *handlers.Handlers
	Orders       *handlers.OrderHandler
	Availability *handlers.AvailabilityHandler
	Quote        *handlers.QuoteHandler
	Stream       *handlers.StreamHandler
	RateLimit    *ratelimit.Middleware
	// Metrics serves GET /metrics. Nil leaves the route unmounted.
	Metrics http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
// Streams are mounted outside the request timeout.
func New(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = logx.Nop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Identity(logger))
	r.Use(mw.Observability(logger))
	r.Use(middleware.Recoverer)
	if d.RateLimit != nil {
		r.Use(d.RateLimit.Handler())
	}

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", d.Orders.Create)
			r.Get("/", d.Orders.List)
			r.Get("/{id}", d.Orders.Get)
			r.Get("/{id}/history", d.Orders.History)
			r.Post("/{id}/claim", d.Orders.Claim)
			r.Post("/{id}/advance", d.Orders.Advance)
			r.Post("/{id}/cancel", d.Orders.Cancel)
		})

		r.Route("/couriers/{id}", func(r chi.Router) {
			r.Put("/availability", d.Availability.Put)
			r.Get("/availability", d.Availability.Get)
			r.Get("/active-order", d.Orders.ActiveForCourier)
		})

		r.Get("/quote", d.Quote.Get)
	})

	r.Route("/stream", func(r chi.Router) {
		r.Get("/pending", d.Stream.Pending)
		r.Get("/orders/{id}", d.Stream.Order)
	})

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
