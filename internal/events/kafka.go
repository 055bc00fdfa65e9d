package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"carbon-insights/pkg/config"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher writes events to a Kafka topic keyed by organization id so
// events for one organization stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(cfg *config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) PublishImported(ctx context.Context, event EmissionsImported) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType, err)
	}
	p.logger.Debug("Import event published",
		zap.String("event_id", event.ID),
		zap.Int64("organization_id", event.OrganizationID),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(event EmissionsImported) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize import event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(event.OrganizationID, 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// NopPublisher otherwise.
func NewPublisher(cfg *config.KafkaConfig, logger *zap.Logger) Publisher {
	if !cfg.Enabled() {
		logger.Info("Kafka brokers not configured, import events disabled")
		return NopPublisher{}
	}
	logger.Info("Import events enabled", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return NewKafkaPublisher(cfg, logger)
}
