package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/gym-wars/internal/config"
)

// KafkaPublisher sends events to a single topic with a synchronous producer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher connects a sync producer to the configured brokers.
func NewKafkaPublisher(cfg *config.KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_0_0_0
	saramaConfig.ClientID = cfg.ClientID
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = cfg.RetryAttempts
	saramaConfig.Producer.Retry.Backoff = cfg.RetryDelay
	saramaConfig.Producer.Timeout = cfg.Timeout
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}

	logger.Info("kafka publisher ready", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return NewKafkaPublisherWithProducer(producer, cfg.Topic, logger), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.ID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(ev.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("sending %s: %w", ev.Type, err)
	}

	p.logger.Debug("event published",
		"type", ev.Type,
		"id", ev.ID,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// New returns a Kafka publisher when enabled, otherwise a NopPublisher.
func New(cfg *config.KafkaConfig, logger *slog.Logger) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}
	return NewKafkaPublisher(cfg, logger)
}
