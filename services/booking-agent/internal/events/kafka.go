package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/md-rashed-zaman/apptagent/libs/kafkax"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers string
	// Topic overrides the per-event-type topic when set.
	Topic        string
	WriteTimeout time.Duration
}

type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewKafkaPublisher returns Noop when no brokers are configured.
func NewKafkaPublisher(cfg KafkaConfig, logger *slog.Logger) Publisher {
	brokers := kafkax.SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		logger.Warn("event publisher disabled (no kafka brokers configured)")
		return Noop{}
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
	}
	return newKafkaPublisher(writer, cfg, logger)
}

func newKafkaPublisher(w messageWriter, cfg KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return &KafkaPublisher{writer: w, topic: cfg.Topic, timeout: cfg.WriteTimeout, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	topic := p.topic
	if topic == "" {
		topic = evt.EventType
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(evt.AggregateID),
		Value: evt.Payload,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(evt.ID)},
			{Key: "event_type", Value: []byte(evt.EventType)},
			{Key: "aggregate_type", Value: []byte(evt.AggregateType)},
		},
	}
	msg.Headers = kafkax.InjectTraceHeaders(ctx, msg.Headers)

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return err
	}
	p.logger.Debug("event published", "event_type", evt.EventType, "event_id", evt.ID, "topic", topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
