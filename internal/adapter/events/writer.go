// Package events publishes ranking audit events to Kafka for downstream
// analytics. Publishing is best effort: a broker outage degrades to a
// warning log, never to a failed recommendation.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
)

// Writer publishes audit events to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka writer for the audit topic. RequireAll acks
// keep the audit stream lossless across broker restarts.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	return &Writer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireAll,
		},
		logger: logger,
	}
}

type auditEvent struct {
	EventID    string    `json:"event_id"`
	UserHash   string    `json:"user_hash"`
	Candidates int       `json:"candidates"`
	Degraded   bool      `json:"degraded"`
	TopPOI     int64     `json:"top_poi"`
	TopScore   float64   `json:"top_score"`
	EmittedAt  time.Time `json:"emitted_at"`
}

// RankingComputed publishes the audit summary. Errors are logged and
// swallowed so the request path never blocks on the broker.
func (w *Writer) RankingComputed(ctx context.Context, audit domain.RankingAudit) {
	msg, err := serializeAudit(audit, time.Now().UTC())
	if err != nil {
		w.logger.Warn("skipping audit event", "error", err)
		return
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		w.logger.Warn("audit event publish failed", "user_hash", audit.UserHash, "error", err)
	}
}

func serializeAudit(audit domain.RankingAudit, emittedAt time.Time) (kafkago.Message, error) {
	event := auditEvent{
		EventID:    uuid.NewString(),
		UserHash:   audit.UserHash,
		Candidates: audit.Candidates,
		Degraded:   audit.Degraded,
		TopPOI:     audit.TopPOI,
		TopScore:   audit.TopScore,
		EmittedAt:  emittedAt,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal audit event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(audit.UserHash),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "degraded", Value: []byte(strconv.FormatBool(audit.Degraded))},
		},
	}, nil
}

// Close flushes and closes the underlying Kafka writer.
func (w *Writer) Close() error {
	return w.writer.Close()
}
