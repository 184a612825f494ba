package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/observability"
	"github.com/couchcryptid/order-dashboard/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
)

// snapshotKey keys every snapshot message so a compacted topic keeps only the latest.
const snapshotKey = "order-dashboard"

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces dashboard snapshots to a Kafka topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the snapshot topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes and writes one snapshot.
func (p *Publisher) Publish(ctx context.Context, data *pipeline.DashboardData) error {
	msg, err := serializeToMessage(data)
	if err != nil {
		p.metrics.SnapshotsPublished.WithLabelValues("error").Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.SnapshotsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("write snapshot: %w", err)
	}
	p.metrics.SnapshotsPublished.WithLabelValues("success").Inc()
	p.logger.Debug("snapshot published", "bytes", len(msg.Value))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a snapshot into a Kafka message.
func serializeToMessage(data *pipeline.DashboardData) (kafkago.Message, error) {
	value, err := json.Marshal(data)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snapshotKey),
		Value: value,
		Time:  data.GeneratedAt,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(data.GeneratedAt.Format(time.RFC3339))},
			{Key: "record_count", Value: []byte(strconv.Itoa(len(data.Records)))},
		},
	}, nil
}
