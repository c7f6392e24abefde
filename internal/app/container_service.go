package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/dig"

	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/config"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/metrics"
	"courier-dispatch/internal/repository"
	"courier-dispatch/internal/service/availability"
	"courier-dispatch/internal/service/dispatch"
	"courier-dispatch/internal/service/pricing"
	"courier-dispatch/internal/transport/kafka"
)

// eventPublisher is where the coordinator sends committed changes: the local
// hub, or Kafka when the relay is enabled.
type eventPublisher interface {
	PublishNewPending(ctx context.Context, o domain.Order) error
	PublishStatusChange(ctx context.Context, o domain.Order) error
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		repository.NewOrderRepo,
		repository.NewAvailabilityRepo,
		repository.NewRateRepo,
		newPricingEngine,
		newHub,
		newKafkaProducer,
		newEventPublisher,
		newDistanceEstimator,
		newCoordinator,
		newRegistry,
		newRelayConsumer,
	)
}

func newPricingEngine(repo *repository.RateRepo, cfg *config.Config, logger logx.Logger) *pricing.Engine {
	return pricing.NewEngine(repo, logger, cfg.Dispatch.OperationTimeout)
}

func newHub(cfg *config.Config, logger logx.Logger, m *metrics.Dispatch) *broadcast.Hub {
	return broadcast.NewHub(cfg.Dispatch.SubscriberBuffer, logger, m.SubscribersDropped)
}

// newKafkaProducer returns nil when the relay is disabled.
func newKafkaProducer(cfg *config.Config) (*kafka.Producer, error) {
	if !cfg.Kafka.Enabled() {
		return nil, nil
	}
	return kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}

func newEventPublisher(hub *broadcast.Hub, producer *kafka.Producer) eventPublisher {
	if producer != nil {
		return producer
	}
	return hub
}

func newDistanceEstimator(cfg *config.Config, logger logx.Logger, m *metrics.Dispatch) dispatch.DistanceEstimator {
	r := cfg.Dispatch.EstimateRetry
	return dispatch.NewRetryingEstimator(
		dispatch.FixedDistance(cfg.Dispatch.DefaultDistanceKm),
		logger,
		m.EstimateRetries,
		dispatch.RetryConfig{MaxAttempts: r.MaxAttempts, BaseDelay: r.BaseDelay, MaxDelay: r.MaxDelay},
	)
}

func newCoordinator(
	repo *repository.OrderRepo,
	engine *pricing.Engine,
	pub eventPublisher,
	distance dispatch.DistanceEstimator,
	m *metrics.Dispatch,
	cfg *config.Config,
	logger logx.Logger,
) *dispatch.Coordinator {
	return dispatch.NewCoordinator(repo, engine, pub, distance, m, cfg.Dispatch.OperationTimeout, logger)
}

type registryIn struct {
	dig.In

	Repo    *repository.AvailabilityRepo
	Metrics *metrics.Dispatch
	Config  *config.Config
	Logger  logx.Logger
	// нет в воркере
	Hub *broadcast.Hub `optional:"true"`
}

func newRegistry(in registryIn) *availability.Registry {
	r := availability.NewRegistry(in.Repo, in.Config.Availability.StaleAfter,
		in.Config.Dispatch.OperationTimeout, in.Metrics.StaleCouriers, in.Logger)
	if in.Hub != nil {
		r.WithStreams(in.Hub)
	}
	return r
}

// newRelayConsumer feeds Kafka dispatch events into the local hub. Every
// instance reads the whole topic under its own group id.
func newRelayConsumer(cfg *config.Config, logger logx.Logger, hub *broadcast.Hub) (*kafka.Consumer, error) {
	if !cfg.Kafka.Enabled() {
		return nil, nil
	}
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("relay group id: %w", err)
	}
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupPrefix+"-"+host, cfg.Kafka.Topic, relayToHub(hub))
}

func relayToHub(hub *broadcast.Hub) kafka.HandleFunc {
	return func(ctx context.Context, ev broadcast.Event) error {
		switch ev.Kind {
		case broadcast.EventPending:
			return hub.PublishNewPending(ctx, ev.Order)
		case broadcast.EventStatus:
			return hub.PublishStatusChange(ctx, ev.Order)
		default:
			return kafka.Permanent(fmt.Errorf("unexpected relay event kind %q", ev.Kind))
		}
	}
}
