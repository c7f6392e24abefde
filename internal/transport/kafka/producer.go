package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/domain"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes dispatch events to a Kafka topic keyed by order id,
// so all events of one order land on one partition in commit order.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

// NewProducer creates a synchronous Kafka producer.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Net.DialTimeout = 5 * time.Second
	cfg.Version = sarama.V2_8_0_0

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return newProducer(p, topic), nil
}

func newProducer(p sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: p, topic: topic, now: time.Now}
}

// PublishNewPending publishes a newly created order.
func (p *Producer) PublishNewPending(ctx context.Context, o domain.Order) error {
	return p.send(ctx, broadcast.EventPending, o)
}

// PublishStatusChange publishes an order snapshot after a transition.
func (p *Producer) PublishStatusChange(ctx context.Context, o domain.Order) error {
	return p.send(ctx, broadcast.EventStatus, o)
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}

func (p *Producer) send(ctx context.Context, kind broadcast.EventKind, o domain.Order) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish %s: %w: %w", kind, apperr.ErrUnavailable, err)
	}

	b, err := json.Marshal(FromDomain(kind, o, p.now()))
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(o.ID),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return fmt.Errorf("publish %s for order %s: %w: %w", kind, o.ID, apperr.ErrUnavailable, err)
	}
	return nil
}
