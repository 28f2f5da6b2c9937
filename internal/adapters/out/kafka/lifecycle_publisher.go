// Package kafka publishes shipment lifecycle changes for downstream consumers
// such as the pick-list printer and operator dashboards.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const EventTypePhaseChanged = "shipment.phase_changed"

type Config struct {
	Brokers []string
	Topic   string
}

// ParseBrokers splits a comma-separated broker list.
func ParseBrokers(brokers string) []string {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	return list
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// LifecyclePublisher implements ports.EventPublisher. Messages are keyed by
// shipment id so one shipment's changes stay ordered on a partition.
//
// The writer is asynchronous: PublishPhaseChanged only queues messages and
// never waits on the broker. Delivery failures are logged and counted by the
// completion callback; Close flushes what is still queued.
type LifecyclePublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

func NewLifecyclePublisher(cfg Config, logger *zap.Logger) *LifecyclePublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
	}
	p := newLifecyclePublisher(writer, cfg.Topic, logger)
	writer.Completion = p.delivered
	return p
}

func newLifecyclePublisher(writer messageWriter, topic string, logger *zap.Logger) *LifecyclePublisher {
	return &LifecyclePublisher{
		writer: writer,
		topic:  topic,
		logger: logger.With(zap.String("component", "lifecycle_publisher")),
	}
}

var _ ports.EventPublisher = (*LifecyclePublisher)(nil)

// PhaseChangedMessage is the wire format of a lifecycle change.
type PhaseChangedMessage struct {
	Type         string    `json:"type"`
	ShipmentID   string    `json:"shipment_id"`
	OrderNumber  string    `json:"order_number"`
	FromPhase    string    `json:"from_phase"`
	FromSubphase string    `json:"from_subphase,omitempty"`
	ToPhase      string    `json:"to_phase"`
	ToSubphase   string    `json:"to_subphase,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (p *LifecyclePublisher) PublishPhaseChanged(ctx context.Context, events []shipment.PhaseChanged) error {
	if len(events) == 0 {
		return nil
	}

	ctx, span := otel.Tracer("fulfillment/kafka").Start(ctx, "Kafka.PublishPhaseChanged")
	defer span.End()
	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination", p.topic),
		attribute.String("messaging.operation", "publish"),
		attribute.Int("messaging.batch.message_count", len(events)),
	)

	messages := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		data, err := json.Marshal(toMessage(evt))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to marshal event")
			return fmt.Errorf("failed to marshal phase change of %s: %w", evt.ShipmentID, err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(evt.ShipmentID.String()),
			Value: data,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(EventTypePhaseChanged)},
				{Key: "order_number", Value: []byte(evt.OrderNumber)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish")
		return fmt.Errorf("failed to queue %d lifecycle events for %s: %w", len(messages), p.topic, err)
	}

	span.SetStatus(codes.Ok, "queued")
	p.logger.Debug("queued lifecycle events", zap.Int("events", len(messages)))
	return nil
}

func (p *LifecyclePublisher) Close() error {
	return p.writer.Close()
}

// delivered runs on the writer's goroutine once a batch was acknowledged or
// given up on.
func (p *LifecyclePublisher) delivered(messages []kafka.Message, err error) {
	if err != nil {
		metrics.LifecycleEventsDeliveredTotal.WithLabelValues("failed").Add(float64(len(messages)))
		p.logger.Error("lifecycle events were not delivered",
			zap.String("topic", p.topic),
			zap.Int("events", len(messages)),
			zap.Error(err))
		return
	}
	metrics.LifecycleEventsDeliveredTotal.WithLabelValues("delivered").Add(float64(len(messages)))
}

func toMessage(evt shipment.PhaseChanged) PhaseChangedMessage {
	return PhaseChangedMessage{
		Type:         EventTypePhaseChanged,
		ShipmentID:   evt.ShipmentID.String(),
		OrderNumber:  evt.OrderNumber,
		FromPhase:    string(evt.From.Phase),
		FromSubphase: evt.From.Subphase,
		ToPhase:      string(evt.To.Phase),
		ToSubphase:   evt.To.Subphase,
		OccurredAt:   evt.OccurredAt,
	}
}
