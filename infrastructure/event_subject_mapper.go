package infrastructure

import (
	"fmt"

	"clover/domain/events"
)

var eventSubjects = map[events.EventType]string{
	events.EventTypeBalanceChange:        "economy.balance.changed",
	events.EventTypeAccountCreated:       "economy.accounts.created",
	events.EventTypeAccountRemoved:       "economy.accounts.removed",
	events.EventTypeWagerSettled:         "economy.wagers.settled",
	events.EventTypeLeaderboardRefreshed: "economy.leaderboard.refreshed",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("economy.unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range eventSubjects {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"economy.balance.changed",
		"economy.accounts.created",
		"economy.accounts.removed",
		"economy.wagers.settled",
		"economy.leaderboard.refreshed",
	}
}
