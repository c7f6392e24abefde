package handlers

import (
	"net/http"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// QuoteHandler prices a job without creating it.
type QuoteHandler struct {
	uc     quoteUsecase
	logger logx.Logger
}

// NewQuoteHandler wires a quoteUsecase into HTTP handlers.
func NewQuoteHandler(uc quoteUsecase, logger logx.Logger) *QuoteHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &QuoteHandler{uc: uc, logger: logger}
}

// Get handles GET /quote?vehicle_class=moto&distance_km=3.5.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	class, ok := domain.ParseVehicleClass(q.Get("vehicle_class"))
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid vehicle_class")
		return
	}
	km, err := parseDistance(q.Get("distance_km"))
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if km == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "distance_km is required")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, quoteToDTO(h.uc.Quote(r.Context(), class, *km)))
}
