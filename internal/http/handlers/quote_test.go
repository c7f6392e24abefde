package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/service/pricing"
)

func TestQuoteHandler_Get(t *testing.T) {
	t.Parallel()

	h := NewQuoteHandler(stubQuoter(func(_ context.Context, class domain.VehicleClass, km float64) domain.Quote {
		rate, _ := pricing.DefaultRate(class)
		return pricing.Compute(rate, km)
	}), nil)

	rr := httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/quote?vehicle_class=moto&distance_km=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var q quoteDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&q))
	require.EqualValues(t, 6200, q.BasePrice)
	require.EqualValues(t, 7000, q.TotalPrice)

	for _, query := range []string{
		"vehicle_class=truck&distance_km=1",
		"vehicle_class=moto",
		"vehicle_class=moto&distance_km=-1",
		"vehicle_class=moto&distance_km=NaN",
		"vehicle_class=moto&distance_km=abc",
	} {
		rr := httptest.NewRecorder()
		h.Get(rr, httptest.NewRequest(http.MethodGet, "/quote?"+query, nil))
		require.Equalf(t, http.StatusBadRequest, rr.Code, query)
	}
}
