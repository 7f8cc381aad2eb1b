// Package kafka publishes completed risk assessments to the audit stream
// consumed by downstream analytics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/georisk-console/internal/domain"
)

// AuditWriter produces assessment records to the audit topic.
type AuditWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAuditWriter creates a Kafka producer for the audit topic.
func NewAuditWriter(brokers []string, topic string, logger *slog.Logger) *AuditWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AuditWriter{writer: w, logger: logger}
}

// Publish serializes and writes one assessment record.
func (w *AuditWriter) Publish(ctx context.Context, rec domain.AssessmentRecord) error {
	msg, err := serializeToMessage(rec)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *AuditWriter) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AssessmentRecord into a Kafka message
// keyed by session so one session's assessments stay ordered.
func serializeToMessage(rec domain.AssessmentRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.SessionID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(rec.Result.RiskLevel)},
			{Key: "gate_passed", Value: []byte(strconv.FormatBool(rec.Result.GatePassed))},
			{Key: "assessed_at", Value: []byte(rec.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}
