package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"clover/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sourceService = "clover"

// EventHandler handles an event inside the publishing process
type EventHandler = func(context.Context, events.Event) error

// EventEnvelope wraps every event published to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher delivers events to local handlers and then to NATS.
// With a nil client only the local handlers run.
type NATSEventPublisher struct {
	natsClient    *NATSClient
	subjectMapper *EventSubjectMapper

	mu            sync.RWMutex
	localHandlers map[events.EventType][]EventHandler
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(natsClient *NATSClient, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		natsClient:    natsClient,
		subjectMapper: subjectMapper,
		localHandlers: make(map[events.EventType][]EventHandler),
	}
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx := context.Background()
	eventType := event.Type()

	p.mu.RLock()
	handlers := p.localHandlers[eventType]
	p.mu.RUnlock()

	for _, handler := range handlers {
		// Local handler failures never block other handlers or NATS
		if err := handler(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": eventType,
				"error":     err,
			}).Error("Local event handler failed")
		}
	}

	if p.natsClient == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(eventType),
		Timestamp:     time.Now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}
	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := p.subjectMapper.MapEventToSubject(event)
	if err := p.natsClient.Publish(ctx, subject, envelopeData); err != nil {
		// No stream bound to the subject yet; nobody is listening
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": eventType,
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

// RegisterLocalHandler registers a handler that will be invoked locally for events
func (p *NATSEventPublisher) RegisterLocalHandler(eventType events.EventType, handler EventHandler) {
	p.mu.Lock()
	p.localHandlers[eventType] = append(p.localHandlers[eventType], handler)
	count := len(p.localHandlers[eventType])
	p.mu.Unlock()

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": count,
	}).Info("Registered local event handler")
}

// EnsureDomainEventStream ensures the domain_events stream exists with the correct subjects
func (p *NATSEventPublisher) EnsureDomainEventStream() error {
	if p.natsClient == nil {
		return nil
	}
	return p.natsClient.ensureStream("economy_events", p.subjectMapper.GetAllSubjects())
}
