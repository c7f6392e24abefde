package handlers

import (
	"errors"
	"net/http"
	"strings"

	"courier-dispatch/internal/domain"
	mw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/service/dispatch"
)

// OrderHandler serves HTTP endpoints for order resources.
type OrderHandler struct {
	uc     orderUsecase
	logger logx.Logger
}

// NewOrderHandler wires an orderUsecase into HTTP handlers.
func NewOrderHandler(uc orderUsecase, logger logx.Logger) *OrderHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &OrderHandler{uc: uc, logger: logger}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	clientID, err := actorFor(r, req.ClientID, mw.RoleClient)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	o, err := h.uc.CreateOrder(r.Context(), dispatch.CreateOrderInput{
		ClientID:           clientID,
		VehicleClass:       req.VehicleClass,
		Origin:             addressFromDTO(req.Origin),
		Destination:        addressFromDTO(req.Destination),
		PackageDescription: req.PackageDescription,
		DistanceKm:         req.DistanceKm,
	})
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/orders/"+o.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, orderToDTO(o))
}

// List handles GET /orders. Exactly one selector is accepted:
// client_id, courier_id or status=pending with an optional vehicle_class.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clientID := strings.TrimSpace(q.Get("client_id"))
	courierID := strings.TrimSpace(q.Get("courier_id"))
	status := strings.TrimSpace(q.Get("status"))

	selectors := 0
	for _, s := range []string{clientID, courierID, status} {
		if s != "" {
			selectors++
		}
	}
	if selectors != 1 {
		writeError(h.logger, w, r, http.StatusBadRequest, "exactly one of client_id, courier_id, status is required")
		return
	}

	var (
		list []domain.Order
		err  error
	)
	switch {
	case clientID != "":
		if clientID, err = actorFor(r, clientID, mw.RoleClient); err == nil {
			list, err = h.uc.ListByClient(r.Context(), clientID)
		}
	case courierID != "":
		if courierID, err = actorFor(r, courierID, mw.RoleCourier); err == nil {
			list, err = h.uc.ListByCourier(r.Context(), courierID)
		}
	default:
		if domain.OrderStatus(status) != domain.StatusPending {
			writeError(h.logger, w, r, http.StatusBadRequest, "only status=pending can be listed")
			return
		}
		var class *domain.VehicleClass
		if raw := q.Get("vehicle_class"); strings.TrimSpace(raw) != "" {
			c, ok := domain.ParseVehicleClass(raw)
			if !ok {
				writeError(h.logger, w, r, http.StatusBadRequest, "invalid vehicle_class")
				return
			}
			class = &c
		}
		list, err = h.uc.ListPending(r.Context(), class)
	}
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersToDTO(list))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.Get(r.Context(), idFromURL(r, "id"))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// History handles GET /orders/{id}/history.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.History(r.Context(), idFromURL(r, "id"))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, historyToDTO(list))
}

// Claim handles POST /orders/{id}/claim. A lost race answers 409 with
// {"result":"unavailable"} so couriers can tell it apart from other conflicts.
func (h *OrderHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if r.ContentLength != 0 {
		if ok := decodeJSON(h.logger, w, r, &req); !ok {
			return
		}
	}
	courierID, err := actorFor(r, req.CourierID, mw.RoleCourier)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	o, err := h.uc.ClaimOrder(r.Context(), idFromURL(r, "id"), courierID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
	case errors.Is(err, dispatch.ErrAlreadyClaimed):
		writeJSON(h.logger, w, r, http.StatusConflict, claimUnavailableResponse{Result: "unavailable"})
	default:
		writeAppError(h.logger, w, r, err)
	}
}

// Advance handles POST /orders/{id}/advance.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	next := domain.OrderStatus(strings.TrimSpace(req.Status))
	// в accepted переводит только курьер, это тот же claim
	var need mw.Role
	if next == domain.StatusAccepted {
		need = mw.RoleCourier
	}
	actorID, err := actorFor(r, req.ActorID, need)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	var o domain.Order
	if req.ExpectedStatus != nil {
		expected := domain.OrderStatus(strings.TrimSpace(*req.ExpectedStatus))
		o, err = h.uc.AdvanceFrom(r.Context(), idFromURL(r, "id"), actorID, expected, next)
	} else {
		o, err = h.uc.Advance(r.Context(), idFromURL(r, "id"), actorID, next)
	}
	switch {
	case err == nil:
	case errors.Is(err, dispatch.ErrAlreadyClaimed):
		writeJSON(h.logger, w, r, http.StatusConflict, claimUnavailableResponse{Result: "unavailable"})
		return
	default:
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// Cancel handles POST /orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if r.ContentLength != 0 {
		if ok := decodeJSON(h.logger, w, r, &req); !ok {
			return
		}
	}
	actorID, err := actorFor(r, req.ActorID, "")
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	o, err := h.uc.Cancel(r.Context(), idFromURL(r, "id"), actorID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// ActiveForCourier handles GET /couriers/{id}/active-order.
func (h *OrderHandler) ActiveForCourier(w http.ResponseWriter, r *http.Request) {
	courierID, err := actorFor(r, idFromURL(r, "id"), mw.RoleCourier)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	o, err := h.uc.ActiveForCourier(r.Context(), courierID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}
