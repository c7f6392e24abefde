package handlers

import (
	"context"
	"net/http"
	"time"

	"courier-dispatch/internal/logx"
)

const readinessTimeout = time.Second

// Pinger checks that a backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers serves the infrastructure endpoints.
type Handlers struct {
	Logger logx.Logger
	db     Pinger
}

// New creates Handlers. A nil db makes the healthcheck report healthy unconditionally.
func New(logger logx.Logger, db Pinger) *Handlers {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Handlers{Logger: logger, db: db}
}

// Ping handles GET /ping and returns 200 with {"message":"pong"}.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// HealthcheckHead handles HEAD /healthcheck: 204 when Postgres answers, 503 otherwise.
// Without the database no order can be created or claimed, so the instance is not ready.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.Logger.Warn("healthcheck failed", logx.String("req_id", reqID(r.Context())), logx.Err(err))
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotFound returns a JSON 404 error for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(h.Logger, w, r, http.StatusNotFound, "route not found")
}
