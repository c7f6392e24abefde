package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/domain"
)

func sampleOrder(status domain.OrderStatus) domain.Order {
	return domain.Order{
		ID:           "o-1",
		ClientID:     "client-1",
		VehicleClass: domain.VehicleMoto,
		Origin:       domain.Address{Line: "Av. Siempre Viva 742"},
		Destination:  domain.Address{Line: "Calle Falsa 123, Springfield"},
		TotalPrice:   7000,
		BasePrice:    6200,
		Status:       status,
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestProducer_PublishKeysByOrderID(t *testing.T) {
	t.Parallel()

	mp := mocks.NewSyncProducer(t, nil)
	mp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "o-1" {
			return fmt.Errorf("key %q", key)
		}
		if msg.Topic != "dispatch.events" {
			return fmt.Errorf("topic %q", msg.Topic)
		}
		val, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var dto EventDTO
		if err := json.Unmarshal(val, &dto); err != nil {
			return err
		}
		if dto.Kind != string(broadcast.EventPending) {
			return fmt.Errorf("kind %q", dto.Kind)
		}
		return nil
	})

	p := newProducer(mp, "dispatch.events")
	require.NoError(t, p.PublishNewPending(context.Background(), sampleOrder(domain.StatusPending)))
	require.NoError(t, p.Close())
}

func TestProducer_SendFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	mp := mocks.NewSyncProducer(t, nil)
	mp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newProducer(mp, "dispatch.events")
	err := p.PublishStatusChange(context.Background(), sampleOrder(domain.StatusAccepted))
	require.ErrorIs(t, err, apperr.ErrUnavailable)
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestProducer_CancelledContextSkipsSend(t *testing.T) {
	t.Parallel()

	mp := mocks.NewSyncProducer(t, nil)
	p := newProducer(mp, "dispatch.events")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.PublishNewPending(ctx, sampleOrder(domain.StatusPending))
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, p.Close())
}

func TestNewProducer_ReturnsErrorWhenSaramaFails(t *testing.T) {
	orig := newSyncProducer
	t.Cleanup(func() { newSyncProducer = orig })

	sentinel := errors.New("boom")
	newSyncProducer = func(_ []string, _ *sarama.Config) (sarama.SyncProducer, error) {
		return nil, sentinel
	}

	got, err := NewProducer([]string{"b:9092"}, "topic")
	require.ErrorIs(t, err, sentinel)
	require.Nil(t, got)
}
