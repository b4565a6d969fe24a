// Package events publishes business discovery events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/types"
)

// TypeBusinessDiscovered is the event type of a newly created record.
const TypeBusinessDiscovered = "business.discovered"

// MessageWriter is the subset of *kafka.Writer used here, for mocking in tests.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BusinessDiscovered is the JSON payload of one discovery event.
type BusinessDiscovered struct {
	Type            string                `json:"type"`
	OccurredAt      time.Time             `json:"occurred_at"`
	PlaceID         string                `json:"place_id"`
	Name            string                `json:"name"`
	City            string                `json:"city"`
	Sector          string                `json:"sector"`
	VisibilityScore int                   `json:"visibility_score"`
	HasWebsite      bool                  `json:"has_website"`
	Record          *types.BusinessRecord `json:"record"`
}

// Publisher writes discovery events keyed by place id.
type Publisher struct {
	writer MessageWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewKafkaPublisher creates a Publisher backed by a kafka-go writer.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return NewPublisher(w, logger)
}

// NewPublisher wraps an existing writer.
func NewPublisher(w MessageWriter, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: w,
		logger: logging.OrDefault(logger).With("component", "events"),
		now:    time.Now,
	}
}

// PublishCreated sends one business.discovered event for rec.
func (p *Publisher) PublishCreated(ctx context.Context, rec *types.BusinessRecord) error {
	event := BusinessDiscovered{
		Type:            TypeBusinessDiscovered,
		OccurredAt:      p.now().UTC(),
		PlaceID:         rec.PlaceID,
		Name:            rec.Name,
		City:            rec.City,
		Sector:          rec.Sector,
		VisibilityScore: rec.VisibilityScore,
		HasWebsite:      rec.HasWebsite(),
		Record:          rec,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(rec.PlaceID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeBusinessDiscovered)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event for %s: %w", rec.PlaceID, err)
	}
	p.logger.Debug("published discovery event", "place_id", rec.PlaceID)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
