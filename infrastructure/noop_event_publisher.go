package infrastructure

import (
	"clover/domain/events"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher drops every event after a trace line. The migration
// commands and storage tests use it when nothing observes events.
type NoopEventPublisher struct{}

func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

func (n *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Trace("Dropping domain event")
	return nil
}
