package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/testutil"
)

func TestWriteAppError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: bad", apperr.ErrInvalid), http.StatusBadRequest},
		{apperr.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("get: %w", apperr.ErrNotFound), http.StatusNotFound},
		{apperr.ErrConflict, http.StatusConflict},
		{apperr.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{apperr.ErrInvalidState, http.StatusUnprocessableEntity},
		{apperr.ErrUnavailable, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		writeAppError(nil, rr, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
		require.Equalf(t, tc.code, rr.Code, "%v", tc.err)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	}
}

func TestWriteAppError_LogsUnclassified(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	rr := httptest.NewRecorder()
	writeAppError(rec.Logger(), rr, httptest.NewRequest(http.MethodGet, "/orders", nil), errors.New("boom"))

	var found bool
	for _, e := range rec.Entries() {
		if e.Msg == "unhandled error" {
			found = true
			require.Contains(t, e.Fields, logx.String("path", "/orders"))
		}
	}
	require.True(t, found)
}
