package handlers

import (
	"net/http"

	mw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/logx"
)

// AvailabilityHandler serves courier availability endpoints.
type AvailabilityHandler struct {
	uc     availabilityUsecase
	logger logx.Logger
}

// NewAvailabilityHandler wires an availabilityUsecase into HTTP handlers.
func NewAvailabilityHandler(uc availabilityUsecase, logger logx.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AvailabilityHandler{uc: uc, logger: logger}
}

// Put handles PUT /couriers/{id}/availability. It doubles as the courier heartbeat.
func (h *AvailabilityHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	courierID, err := actorFor(r, idFromURL(r, "id"), mw.RoleCourier)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	a, err := h.uc.SetAvailability(r.Context(), courierID, req.Available, req.VehicleClass)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, availabilityToDTO(a))
}

// Get handles GET /couriers/{id}/availability.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.uc.Get(r.Context(), idFromURL(r, "id"))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, availabilityToDTO(a))
}
