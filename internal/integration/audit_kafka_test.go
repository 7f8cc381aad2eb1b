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

	"github.com/couchcryptid/georisk-console/internal/adapter/kafka"
	"github.com/couchcryptid/georisk-console/internal/domain"
)

const testAuditTopic = "test-risk-assessments"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-broker Kafka container and returns its bootstrap
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

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

// TestAuditWriterRoundTrip verifies that a published assessment record can
// be read back from the audit topic with its key and headers intact.
func TestAuditWriterRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAuditTopic)

	writer := kafka.NewAuditWriter([]string{broker}, testAuditTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	rec := domain.AssessmentRecord{
		SessionID:  "sess-integration",
		AssessedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Inputs: domain.RiskFactorInputs{
			SlopeDeg:          35,
			Curvature:         0.4,
			LithClass:         3,
			RainExceed:        0.6,
			LoreSignal:        0.2,
			Exposure:          0.5,
			Fragility:         0.4,
			CriticalityWeight: 0.7,
			HazardType:        "landslide",
		},
		Result: domain.RiskCalculationResult{
			HScore: 0.7, LScore: 0.3, VScore: 0.5, RScore: 0.47,
			HSensitivity: 0.5, LSensitivity: 0.2, VSensitivity: 0.3,
			RiskLevel: "medium", GatePassed: true,
		},
	}

	require.NoError(t, writer.Publish(ctx, rec))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAuditTopic,
		GroupID:     fmt.Sprintf("test-audit-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from audit topic")

	assert.Equal(t, "sess-integration", string(msg.Key))

	var got domain.AssessmentRecord
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, rec, got)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "medium", headers["risk_level"])
	assert.Equal(t, "true", headers["gate_passed"])
	_, err = time.Parse(time.RFC3339, headers["assessed_at"])
	assert.NoError(t, err, "assessed_at should be valid RFC3339")
}

// TestAuditWriterOrdering verifies that one session's assessments land on
// the same partition in publish order.
func TestAuditWriterOrdering(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAuditTopic)

	writer := kafka.NewAuditWriter([]string{broker}, testAuditTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	levels := []string{"low", "medium", "high"}
	for i, level := range levels {
		rec := domain.AssessmentRecord{
			SessionID:  "sess-ordered",
			AssessedAt: time.Date(2026, 8, 30, 12, i, 0, 0, time.UTC),
			Result: domain.RiskCalculationResult{
				RScore: 0.2 * float64(i+1), RiskLevel: level, GatePassed: true,
				HSensitivity: 0.5, LSensitivity: 0.2, VSensitivity: 0.3,
			},
		}
		require.NoError(t, writer.Publish(ctx, rec))
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAuditTopic,
		GroupID:     fmt.Sprintf("test-ordering-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for _, want := range levels {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err)

		var got domain.AssessmentRecord
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, want, got.Result.RiskLevel)
	}
}
