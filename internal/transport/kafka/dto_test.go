package kafka_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/transport/kafka"
)

func TestToDomain_TrimsAndCopiesFields(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	courier := "c-9"
	o := domain.Order{
		ID:           "order-1",
		ClientID:     "client-1",
		CourierID:    &courier,
		VehicleClass: domain.VehicleMotoCarguero,
		Origin:       domain.Address{Line: "Origin street 1"},
		Destination:  domain.Address{Line: "Destination street 2"},
		BasePrice:    12000,
		TotalPrice:   12000,
		Status:       domain.StatusAccepted,
		CreatedAt:    ts,
		AcceptedAt:   &ts,
		UpdatedAt:    ts,
	}

	dto := kafka.FromDomain(broadcast.EventStatus, o, ts)
	dto.Order.ID = "  order-1  "
	dto.Kind = " order.status "

	got, err := kafka.ToDomain(dto)
	require.NoError(t, err)
	require.Equal(t, broadcast.EventStatus, got.Kind)
	require.Equal(t, o, got.Order)
}

func TestToDomain_RejectsMalformed(t *testing.T) {
	t.Parallel()

	base := kafka.FromDomain(broadcast.EventPending, domain.Order{
		ID: "o1", VehicleClass: domain.VehicleMoto, Status: domain.StatusPending,
	}, time.Now())

	tests := []struct {
		name   string
		mutate func(*kafka.EventDTO)
	}{
		{"kind", func(d *kafka.EventDTO) { d.Kind = "order.deleted" }},
		{"retraction is derived locally", func(d *kafka.EventDTO) { d.Kind = string(broadcast.EventRetracted) }},
		{"empty id", func(d *kafka.EventDTO) { d.Order.ID = " " }},
		{"status", func(d *kafka.EventDTO) { d.Order.Status = "lost" }},
		{"class", func(d *kafka.EventDTO) { d.Order.VehicleClass = "truck" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dto := base
			tt.mutate(&dto)
			_, err := kafka.ToDomain(dto)
			require.True(t, kafka.IsPermanent(err))
		})
	}
}
