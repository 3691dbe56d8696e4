// Package kafka publishes accepted readings for downstream consumers
// (the dashboard's realtime feed). Publishing is an optional enrichment of
// the ingestion flow: failures are reported to the caller for logging and
// metrics but never fail an upload.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/emberline/airq-ingest-service/internal/config"
	"github.com/emberline/airq-ingest-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces accepted readings to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured readings topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishAccepted serializes and publishes one accepted batch in a single
// WriteMessages call.
func (p *Publisher) PublishAccepted(ctx context.Context, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(readings))
	for i := range readings {
		msg, err := serializeToMessage(readings[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a Reading into a Kafka message keyed by its
// source node so per-sensor ordering is preserved within a partition.
func serializeToMessage(r domain.Reading) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize reading: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.SourceID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source_id", Value: []byte(r.SourceID)},
			{Key: "datetime", Value: []byte(r.Datetime.UTC().Format(time.RFC3339))},
		},
	}, nil
}
