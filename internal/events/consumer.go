package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"call-insights-dashboard/internal/models"
	"call-insights-dashboard/internal/observability/logging"
	"call-insights-dashboard/internal/observability/metrics"
	"call-insights-dashboard/internal/refresh"
)

// Consume results recorded in metrics.
const (
	resultFired     = "fired"
	resultMalformed = "malformed"
	resultIgnored   = "ignored"
)

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// ConsumerConfig configures the refresh topic consumer.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Metrics *metrics.Metrics
}

// Consumer fires the refresh signal for every upload-completed event read
// from Kafka.
type Consumer struct {
	reader     messageReader
	topic      string
	notifier   refresh.Notifier
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	retryDelay time.Duration
}

// NewConsumer creates a consumer reading cfg.Topic. Without a group id the
// reader follows partition 0 only.
func NewConsumer(cfg ConsumerConfig, notifier refresh.Notifier) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, cfg.Topic, cfg.Metrics, notifier)
}

func newConsumer(reader messageReader, topic string, m *metrics.Metrics, notifier refresh.Notifier) *Consumer {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Consumer{
		reader:     reader,
		topic:      topic,
		notifier:   notifier,
		metrics:    m,
		logger:     logging.WithComponent("kafka-consumer"),
		retryDelay: time.Second,
	}
}

// Run reads until ctx is cancelled or the reader is closed. Read errors are
// retried after a short delay; undecodable messages are skipped.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info().Str("topic", c.topic).Msg("Consuming refresh events")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Warn().Err(err).Str("topic", c.topic).Msg("Kafka read error")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}
		c.handle(msg)
	}
}

func (c *Consumer) handle(msg kafka.Message) {
	var event models.RefreshEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("Skipping undecodable refresh event")
		c.metrics.RecordKafkaConsumed(c.topic, resultMalformed)
		return
	}
	if event.EventType != "" && event.EventType != models.RefreshEventType {
		c.logger.Debug().Str("eventType", event.EventType).Msg("Ignoring unrelated event")
		c.metrics.RecordKafkaConsumed(c.topic, resultIgnored)
		return
	}

	c.logger.Info().
		Str("eventId", event.EventID).
		Str("fileName", event.FileName).
		Msg("Upload completed, firing refresh")
	c.metrics.RecordKafkaConsumed(c.topic, resultFired)
	c.metrics.RecordTrigger("kafka")
	c.notifier.Fire()
}

// Close closes the underlying reader, unblocking Run.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
