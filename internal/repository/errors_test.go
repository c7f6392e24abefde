package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/apperr"
)

func TestMapErr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, apperr.ErrConflict},
		{"check", &pgconn.PgError{Code: "23514"}, apperr.ErrInvalidState},
		{"deadline", context.DeadlineExceeded, apperr.ErrUnavailable},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := mapErr(tt.in)
			require.ErrorIs(t, got, tt.want)
			require.ErrorIs(t, got, tt.in)
		})
	}

	require.NoError(t, mapErr(nil))

	plain := errors.New("syntax error")
	require.Same(t, plain, mapErr(plain))
}
