//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/emberline/airq-ingest-service/internal/adapter/kafka"
	"github.com/emberline/airq-ingest-service/internal/adapter/memstore"
	"github.com/emberline/airq-ingest-service/internal/config"
	"github.com/emberline/airq-ingest-service/internal/domain"
	"github.com/emberline/airq-ingest-service/internal/observability"
	"github.com/emberline/airq-ingest-service/internal/pipeline"
)

const testTopic = "accepted-readings-test"

// startKafka runs a single-node Kafka in a container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("airq-ingest-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates the topic on the cluster controller so the first
// produce does not race topic auto-creation.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func f(v float64) *float64 { return &v }

// TestPublisherRoundTrip verifies the adapter layer: PublishAccepted writes
// messages that a plain Kafka consumer can read back with headers intact.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	readings := []domain.Reading{
		{Datetime: time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), SourceID: "node-01", PM25: f(12.3)},
		{Datetime: time.Date(2024, 1, 1, 6, 10, 0, 0, time.UTC), SourceID: "node-02", PM10: f(22.1)},
	}
	require.NoError(t, publisher.PublishAccepted(ctx, readings))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for i := range readings {
		msg, err := consumer.ReadMessage(ctx)
		require.NoError(t, err)

		var got domain.Reading
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, readings[i].SourceID, got.SourceID)
		assert.Equal(t, []byte(readings[i].SourceID), msg.Key)

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, readings[i].SourceID, headers["source_id"])
		_, err = time.Parse(time.RFC3339, headers["datetime"])
		assert.NoError(t, err, "datetime header should be valid RFC3339")
	}
}

// TestIngestPublishesAcceptedReadings wires the full flow: pipeline ingest
// into the in-memory store with the Kafka feed enabled, then consumes the
// accepted readings from the topic.
func TestIngestPublishesAcceptedReadings(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	store := memstore.New()
	p := pipeline.New(store, publisher, discardLogger(), observability.NewMetricsForTesting(), 500)

	csv := "datetime,from_node,pm25Standard\n" +
		"2024-01-01T06:00:00Z,node-01,12.3\n" +
		"2024-01-01T06:10:00Z,node-02,8.8\n" +
		"2024-01-01T06:20:00Z,node-01,N/A\n"

	report, err := p.Ingest(ctx, csv, domain.TimeWindow{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalSucceeded)
	assert.Equal(t, 3, store.Len())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	bySource := map[string]int{}
	for i := 0; i < 3; i++ {
		msg, err := consumer.ReadMessage(ctx)
		require.NoError(t, err)

		var got domain.Reading
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		bySource[got.SourceID]++

		if got.SourceID == "node-01" && got.Datetime.Equal(time.Date(2024, 1, 1, 6, 20, 0, 0, time.UTC)) {
			assert.Nil(t, got.PM25, "unparseable measurement must arrive absent, not zero")
		}
	}
	assert.Equal(t, 2, bySource["node-01"])
	assert.Equal(t, 1, bySource["node-02"])
}
