package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/domain"
	mw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/logx"
)

const defaultKeepAlive = 15 * time.Second

// StreamHandler serves Server-Sent Events backed by the broadcast hub.
//
// Every stream subscribes before reading the snapshot so no event committed in
// between is lost; a duplicate is harmless because clients key by order id.
type StreamHandler struct {
	hub       subscriber
	snapshots snapshotSource
	couriers  availabilityReader
	logger    logx.Logger
	keepAlive time.Duration
}

// NewStreamHandler creates a StreamHandler. keepAlive <= 0 uses 15s.
// couriers scopes the pending feed of identified couriers to their registration.
func NewStreamHandler(
	hub subscriber,
	snapshots snapshotSource,
	couriers availabilityReader,
	keepAlive time.Duration,
	logger logx.Logger,
) *StreamHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &StreamHandler{hub: hub, snapshots: snapshots, couriers: couriers, logger: logger, keepAlive: keepAlive}
}

// Pending handles GET /stream/pending?vehicle_class=.
//
// An identified courier must be available and only receives orders of the
// class it is registered for. The stream ends once the courier goes offline.
func (h *StreamHandler) Pending(w http.ResponseWriter, r *http.Request) {
	var class *domain.VehicleClass
	if raw := r.URL.Query().Get("vehicle_class"); strings.TrimSpace(raw) != "" {
		c, ok := domain.ParseVehicleClass(raw)
		if !ok {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid vehicle_class")
			return
		}
		class = &c
	}

	var (
		courierID string
		recheck   func() bool
	)
	if c, ok := mw.CallerFrom(r.Context()); ok {
		if c.Role != mw.RoleCourier {
			writeError(h.logger, w, r, http.StatusForbidden, "forbidden")
			return
		}
		if h.couriers != nil {
			registered, status, msg := h.eligibleClass(r, c.ID)
			if status != 0 {
				writeError(h.logger, w, r, status, msg)
				return
			}
			if class != nil && *class != registered {
				writeError(h.logger, w, r, http.StatusForbidden, "vehicle_class does not match courier registration")
				return
			}
			class = &registered
			recheck = func() bool {
				got, status, _ := h.eligibleClass(r, c.ID)
				if status == http.StatusServiceUnavailable {
					return true
				}
				return status == 0 && got == registered
			}
		}
		courierID = c.ID
	}

	sub := h.hub.SubscribePending(courierID, class)
	defer sub.Close()

	list, err := h.snapshots.ListPending(r.Context(), class)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	h.serve(w, r, sub, ordersToDTO(list), false, recheck)
}

// eligibleClass returns the class a courier currently accepts work for. A
// non-zero status means the courier may not watch pending orders.
func (h *StreamHandler) eligibleClass(r *http.Request, courierID string) (domain.VehicleClass, int, string) {
	a, err := h.couriers.Get(r.Context(), courierID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return "", http.StatusForbidden, "courier is not available"
	case err != nil:
		h.logger.Warn("sse: availability lookup failed",
			logx.String("req_id", reqID(r.Context())),
			logx.String("courier_id", courierID),
			logx.Err(err),
		)
		return "", http.StatusServiceUnavailable, "service unavailable"
	case !a.Available || a.VehicleClass == nil:
		return "", http.StatusForbidden, "courier is not available"
	}
	return *a.VehicleClass, 0, ""
}

// Order handles GET /stream/orders/{id}. The stream ends after a terminal status.
func (h *StreamHandler) Order(w http.ResponseWriter, r *http.Request) {
	id := idFromURL(r, "id")

	sub := h.hub.SubscribeOrder(id)
	defer sub.Close()

	o, err := h.snapshots.Get(r.Context(), id)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	if c, ok := mw.CallerFrom(r.Context()); ok && !canWatch(o, c.ID) {
		writeError(h.logger, w, r, http.StatusForbidden, "forbidden")
		return
	}
	if o.Status.Terminal() {
		h.serve(w, r, nil, orderToDTO(o), true, nil)
		return
	}
	h.serve(w, r, sub, orderToDTO(o), true, nil)
}

func canWatch(o domain.Order, callerID string) bool {
	return o.ClientID == callerID || (o.CourierID != nil && *o.CourierID == callerID)
}

// serve writes the snapshot and then relays events until the client leaves,
// the subscription is evicted or, for single-order streams, the order ends.
// A non-nil recheck runs on every keep-alive tick and ends the stream when it fails.
func (h *StreamHandler) serve(
	w http.ResponseWriter,
	r *http.Request,
	sub *broadcast.Subscription,
	snapshot any,
	single bool,
	recheck func() bool,
) {
	rc := http.NewResponseController(w)
	// стримы живут дольше WriteTimeout сервера
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Warn("sse: reset write deadline", logx.Err(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := h.send(w, rc, "snapshot", snapshot); err != nil || sub == nil {
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if recheck != nil && !recheck() {
				h.logger.Info("sse: courier no longer eligible, closing stream",
					logx.String("req_id", reqID(r.Context())),
				)
				return
			}
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case ev, ok := <-sub.Events():
			if !ok {
				if sub.Dropped() {
					h.logger.Info("sse: subscriber evicted, asking client to resync",
						logx.String("req_id", reqID(r.Context())),
						logx.String("path", r.URL.Path),
					)
					_ = h.send(w, rc, "resync", struct{}{})
				}
				return
			}
			if err := h.send(w, rc, string(ev.Kind), orderToDTO(ev.Order)); err != nil {
				return
			}
			if single && ev.Order.Status.Terminal() {
				return
			}
		}
	}
}

func (h *StreamHandler) send(w http.ResponseWriter, rc *http.ResponseController, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("sse: marshal", logx.String("event", event), logx.Err(err))
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return rc.Flush()
}
