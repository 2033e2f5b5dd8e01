// Package publish forwards newly ingested trade records to a Kafka topic
// for downstream consumers. Publishing is best-effort: a failed write is
// reported by the caller but never blocks ingestion.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/zimpower/trade-logger/internal/models"
)

const writeTimeout = 5 * time.Second

// Publisher writes trade records to Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPublisher wraps an existing Kafka writer.
func NewPublisher(writer *kafka.Writer, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{writer: writer, logger: logger}
}

// NewWriter creates a Kafka writer for the given broker and topic with the
// batching settings the publisher expects.
func NewWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// Publish serializes rec and writes it keyed by dissemination id.
func (p *Publisher) Publish(ctx context.Context, rec *models.TradeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("serialize trade %s failed: %w", rec.DisseminationID, err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(rec.DisseminationID),
		Value: data,
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("kafka write for trade %s failed: %w", rec.DisseminationID, err)
	}

	p.logger.Debug("published trade", "id", rec.DisseminationID, "topic", p.writer.Topic)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
