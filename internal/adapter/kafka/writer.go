package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/space-weather-alerts/internal/config"
	"github.com/couchcryptid/space-weather-alerts/internal/domain"
	"github.com/couchcryptid/space-weather-alerts/internal/observability"
)

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes each poll's readings to a Kafka topic.
// It implements monitor.ReadingSink.
type Writer struct {
	writer  messageWriter
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured readings topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// readingMessage is the JSON value of a published reading.
type readingMessage struct {
	PollID     string    `json:"poll_id"`
	Category   string    `json:"category"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Severity   string    `json:"severity"`
	ObservedAt time.Time `json:"observed_at"`
}

// PublishBatch writes one message per reading in a single WriteMessages call.
// Messages are keyed by category so each feed stays on one partition. A
// reading that cannot be serialized is logged and dropped; the rest are
// still written.
func (w *Writer) PublishBatch(ctx context.Context, pollID string, readings []domain.Reading) error {
	msgs := make([]kafkago.Message, 0, len(readings))
	for i := range readings {
		msg, err := serializeToMessage(pollID, readings[i])
		if err != nil {
			w.metrics.PublishErrors.Inc()
			w.logger.Warn("reading dropped", "poll_id", pollID, "category", readings[i].Category, "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		w.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish readings: %w", err)
	}
	w.metrics.ReadingsPublished.Add(float64(len(msgs)))
	w.logger.Debug("readings published", "poll_id", pollID, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(pollID string, r domain.Reading) (kafkago.Message, error) {
	data, err := json.Marshal(readingMessage{
		PollID:     pollID,
		Category:   string(r.Category),
		Value:      r.Value,
		Unit:       r.Category.Unit(),
		Severity:   domain.Classify(r).String(),
		ObservedAt: r.Timestamp,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s reading: %w", r.Category, err)
	}
	return kafkago.Message{
		Key:   []byte(r.Category),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(r.Category)},
			{Key: "poll_id", Value: []byte(pollID)},
			{Key: "observed_at", Value: []byte(r.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
