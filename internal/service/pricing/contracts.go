package pricing

import (
	"context"

	"courier-dispatch/internal/domain"
)

type rateSource interface {
	Active(ctx context.Context, class domain.VehicleClass) (domain.Rate, error)
}
