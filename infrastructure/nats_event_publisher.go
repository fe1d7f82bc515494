package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sincroni/domain/events"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const sourceService = "sincroni"

// MessagePublisher sends raw bytes to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// PublishedEventRecorder counts forwarded events
type PublishedEventRecorder interface {
	RecordEventPublished(eventType string)
}

// EventEnvelope is the wire format of every forwarded event
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher forwards domain events from the in-process bus to NATS
type NATSEventPublisher struct {
	publisher     MessagePublisher
	subjectPrefix string
	metrics       PublishedEventRecorder
	now           func() time.Time
}

// NewNATSEventPublisher creates a publisher writing to <subjectPrefix>.<event_type>.
// metrics may be nil.
func NewNATSEventPublisher(publisher MessagePublisher, subjectPrefix string, metrics PublishedEventRecorder) *NATSEventPublisher {
	return &NATSEventPublisher{
		publisher:     publisher,
		subjectPrefix: subjectPrefix,
		metrics:       metrics,
		now:           time.Now,
	}
}

// Subject returns the subject an event type is published on
func (p *NATSEventPublisher) Subject(eventType events.EventType) string {
	return fmt.Sprintf("%s.%s", p.subjectPrefix, eventType)
}

// Subjects returns every subject this publisher may write to
func (p *NATSEventPublisher) Subjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, eventType := range events.AllEventTypes {
		subjects = append(subjects, p.Subject(eventType))
	}
	return subjects
}

// Publish wraps event in an envelope and sends it
func (p *NATSEventPublisher) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     p.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := p.Subject(event.Type())
	if err := p.publisher.Publish(ctx, subject, data); err != nil {
		// No stream captures the subject; nothing is listening.
		if errors.Is(err, nats.ErrNoStreamResponse) {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	if p.metrics != nil {
		p.metrics.RecordEventPublished(envelope.EventType)
	}

	log.WithFields(log.Fields{
		"event_type": envelope.EventType,
		"event_id":   envelope.EventID,
		"subject":    subject,
	}).Debug("Published event to NATS")

	return nil
}

// Attach subscribes the publisher to every event type on bus. Publish
// failures are logged and never reach the emitter.
func (p *NATSEventPublisher) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		// The emitter's context may already be done by the time the
		// asynchronous handler runs.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"event_type": event.Type(),
				"error":      err,
			}).Warn("Failed to forward event to NATS")
		}
	})
}
