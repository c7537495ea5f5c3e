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

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/adapter/events"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
)

const testAuditTopic = "test-recommend-audit"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve broker addresses")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestAuditEventRoundTrip verifies the events.Writer publishes a
// consumable, well-formed audit event.
func TestAuditEventRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAuditTopic)

	writer := events.NewWriter([]string{broker}, testAuditTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	audit := domain.RankingAudit{
		UserHash:   "9f86d081884c7d65",
		Candidates: 12,
		Degraded:   true,
		TopPOI:     10,
		TopScore:   0.8123,
	}
	writer.RankingComputed(ctx, audit)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		Topic:   testAuditTopic,
		GroupID: fmt.Sprintf("test-audit-%d", time.Now().UnixNano()),
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
	defer cancelRead()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read audit event")

	assert.Equal(t, []byte("9f86d081884c7d65"), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "true", headers["degraded"])

	var event struct {
		EventID    string    `json:"event_id"`
		UserHash   string    `json:"user_hash"`
		Candidates int       `json:"candidates"`
		Degraded   bool      `json:"degraded"`
		TopPOI     int64     `json:"top_poi"`
		TopScore   float64   `json:"top_score"`
		EmittedAt  time.Time `json:"emitted_at"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "9f86d081884c7d65", event.UserHash)
	assert.Equal(t, 12, event.Candidates)
	assert.True(t, event.Degraded)
	assert.Equal(t, int64(10), event.TopPOI)
	assert.Equal(t, 0.8123, event.TopScore)
	assert.False(t, event.EmittedAt.IsZero())
}

// TestAuditPublishFailureIsSwallowed verifies a broker outage never
// surfaces as an error to the caller.
func TestAuditPublishFailureIsSwallowed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	writer := events.NewWriter([]string{"127.0.0.1:1"}, testAuditTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	// Must return without panicking or blocking past the context.
	writer.RankingComputed(ctx, domain.RankingAudit{UserHash: "abc"})
}
