// Package events publishes insight lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/caddie/caddie/pkg/config"
)

// TypeInsightGenerated is the event type header for a new or regenerated
// round insight.
const TypeInsightGenerated = "insight.generated"

const defaultWriteTimeout = 5 * time.Second

// InsightGenerated is the event body published after a payload is stored.
type InsightGenerated struct {
	EventID       string    `json:"event_id"`
	RoundID       string    `json:"round_id"`
	Outcomes      [3]string `json:"outcomes"`
	VariantOffset int       `json:"variant_offset"`
	Mode          string    `json:"mode"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes events synchronously, one message per call, keyed by
// round id so a round's events stay ordered within a partition. A disabled
// publisher drops events.
type Publisher struct {
	writer  messageWriter
	log     *zap.Logger
	timeout time.Duration
}

var errNilLogger = errors.New("publisher requires a logger")

// NewPublisher builds a Kafka-backed publisher from cfg.
func NewPublisher(cfg config.EventsConfig, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		return nil, errNilLogger
	}
	if !cfg.Enabled {
		log.Info("event publisher disabled")
		return &Publisher{log: log}, nil
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, fmt.Errorf("events topic must not be empty")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: false,
		WriteTimeout:           defaultWriteTimeout,
	}
	log.Info("event publisher enabled",
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers))
	return newPublisherWithWriter(w, log), nil
}

// newPublisherWithWriter wires the provided writer into the publisher. It is used in tests.
func newPublisherWithWriter(w messageWriter, log *zap.Logger) *Publisher {
	return &Publisher{writer: w, log: log, timeout: defaultWriteTimeout}
}

// Enabled reports whether events are sent anywhere.
func (p *Publisher) Enabled() bool {
	return p != nil && p.writer != nil
}

// PublishInsightGenerated sends ev. The event id and timestamp are filled in
// when empty.
func (p *Publisher) PublishInsightGenerated(ctx context.Context, ev InsightGenerated) error {
	if !p.Enabled() {
		return nil
	}
	if ev.RoundID == "" {
		return fmt.Errorf("event has no round id")
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.GeneratedAt.IsZero() {
		ev.GeneratedAt = time.Now().UTC()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	msg := kafka.Message{
		Key:   []byte(ev.RoundID),
		Value: value,
		Time:  ev.GeneratedAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeInsightGenerated)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for round %s: %w", TypeInsightGenerated, ev.RoundID, err)
	}
	p.log.Debug("event published",
		zap.String("type", TypeInsightGenerated),
		zap.String("round_id", ev.RoundID),
		zap.String("event_id", ev.EventID))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
