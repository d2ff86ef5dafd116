package infrastructure

import (
	"fmt"

	"warden/events"
)

// EventStreamName is the JetStream stream holding every published subject
const EventStreamName = "warden_events"

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeCaseCreated:
		return "warden.cases.created"
	case events.EventTypeCaseUpdated:
		return "warden.cases.updated"
	case events.EventTypeAutomationChanged:
		return "warden.automation.changed"
	case events.EventTypeSettingsChanged:
		return "warden.settings.changed"
	case events.EventTypeBoosterRoleRemoved:
		return "warden.boosterroles.removed"
	default:
		return fmt.Sprintf("warden.unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"warden.cases.created",
		"warden.cases.updated",
		"warden.automation.changed",
		"warden.settings.changed",
		"warden.boosterroles.removed",
		"warden.unknown.*",
	}
}
