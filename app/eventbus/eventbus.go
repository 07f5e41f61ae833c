package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventBus is a watermill publisher and subscriber pair.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// DefaultStreams cover every inbound and guild-scoped outbound topic.
var DefaultStreams = []jetstream.StreamConfig{
	{Name: "guild", Subjects: []string{"guild.>"}},
	{Name: "score", Subjects: []string{"score.>"}},
}

// Config configures the NATS JetStream bus.
type Config struct {
	URL        string
	QueueGroup string
	Streams    []jetstream.StreamConfig
}

// natsBus implements EventBus on NATS JetStream.
type natsBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	natsConn   *nc.Conn
	logger     *slog.Logger
}

// NewInProcess returns an in-memory bus for single-process runs and tests.
func NewInProcess(logger *slog.Logger) EventBus {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
}

// NewNATS connects to NATS, ensures the JetStream streams exist, and returns
// a bus whose subscribers share cfg.QueueGroup.
func NewNATS(ctx context.Context, cfg Config, logger *slog.Logger) (EventBus, error) {
	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}

	natsConn, err := nc.Connect(cfg.URL, natsOptions...)
	if err != nil {
		logger.Error("Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	streams := cfg.Streams
	if len(streams) == 0 {
		streams = DefaultStreams
	}
	if err := InitializeStreams(ctx, js, streams, logger); err != nil {
		natsConn.Close()
		return nil, err
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}
	// Streams are provisioned above with wildcard subjects.
	jsConfig := nats.JetStreamConfig{
		Disabled:      false,
		AutoProvision: false,
		SubscribeOptions: []nc.SubOpt{
			nc.DeliverAll(),
			nc.AckExplicit(),
		},
		DurablePrefix: cfg.QueueGroup,
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:               cfg.URL,
			NatsOptions:       natsOptions,
			Marshaler:         marshaler,
			JetStream:         jsConfig,
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:               cfg.URL,
			QueueGroupPrefix:  cfg.QueueGroup,
			CloseTimeout:      30 * time.Second,
			AckWaitTimeout:    30 * time.Second,
			NatsOptions:       natsOptions,
			Unmarshaler:       marshaler,
			JetStream:         jsConfig,
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		watermillLogger,
	)
	if err != nil {
		publisher.Close()
		natsConn.Close()
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &natsBus{
		publisher:  publisher,
		subscriber: subscriber,
		natsConn:   natsConn,
		logger:     logger,
	}, nil
}

// InitializeStreams creates or updates each stream.
func InitializeStreams(ctx context.Context, js jetstream.JetStream, streams []jetstream.StreamConfig, logger *slog.Logger) error {
	for _, streamConfig := range streams {
		if _, err := js.CreateOrUpdateStream(ctx, streamConfig); err != nil {
			logger.Error("Failed to provision JetStream stream",
				slog.String("stream", streamConfig.Name),
				slog.Any("error", err),
			)
			return fmt.Errorf("failed to provision stream %s: %w", streamConfig.Name, err)
		}
		logger.Info("JetStream stream ready",
			slog.String("stream", streamConfig.Name),
			slog.Any("subjects", streamConfig.Subjects),
		)
	}
	return nil
}

func (eb *natsBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	if err := eb.publisher.Publish(topic, messages...); err != nil {
		eb.logger.Error("Failed to publish message", slog.String("topic", topic), slog.Any("error", err))
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (eb *natsBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	eb.logger.Info("Subscription started", slog.String("topic", topic))
	return messages, nil
}

// Close closes the publisher, the subscriber and the connection.
func (eb *natsBus) Close() error {
	var errs []error
	if err := eb.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if err := eb.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}
	eb.natsConn.Close()
	return errors.Join(errs...)
}
