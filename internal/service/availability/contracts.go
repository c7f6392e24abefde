package availability

import (
	"context"
	"time"

	"courier-dispatch/internal/domain"
)

type availabilityRepository interface {
	Set(ctx context.Context, a domain.Availability) (domain.Availability, error)
	Get(ctx context.Context, courierID string) (domain.Availability, error)
	MarkStaleOffline(ctx context.Context, cutoff time.Time) ([]string, error)
}

// StreamCloser ends the live pending-order streams of a courier.
type StreamCloser interface {
	CloseCourier(courierID string) int
}
