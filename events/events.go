package events

import "warden/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeCaseCreated        EventType = "case_created"
	EventTypeCaseUpdated        EventType = "case_updated"
	EventTypeAutomationChanged  EventType = "automation_changed"
	EventTypeSettingsChanged    EventType = "settings_changed"
	EventTypeBoosterRoleRemoved EventType = "booster_role_removed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// Publisher accepts events for delivery
type Publisher interface {
	Publish(event Event) error
}

// CaseCreatedEvent is emitted after a moderation case has been recorded
type CaseCreatedEvent struct {
	GuildID         int64
	CaseNumber      int64
	Action          entities.CaseAction
	TargetID        int64
	ModeratorID     int64
	Reason          string
	DurationSeconds *int64
	RoleID          *int64
}

func (e CaseCreatedEvent) Type() EventType {
	return EventTypeCaseCreated
}

// CaseUpdatedEvent is emitted when a case reason is edited
type CaseUpdatedEvent struct {
	GuildID     int64
	CaseNumber  int64
	Reason      string
	ModeratorID int64
}

func (e CaseUpdatedEvent) Type() EventType {
	return EventTypeCaseUpdated
}

// AutomationChangedEvent is emitted when autoresponders, autoreactions,
// autoroles or reaction roles of a guild change
type AutomationChangedEvent struct {
	GuildID int64
}

func (e AutomationChangedEvent) Type() EventType {
	return EventTypeAutomationChanged
}

// SettingsChangedEvent is emitted when guild settings are updated
type SettingsChangedEvent struct {
	GuildID int64
	Setting string
}

func (e SettingsChangedEvent) Type() EventType {
	return EventTypeSettingsChanged
}

// BoosterRoleRemovedEvent is emitted when a booster role record is deleted
type BoosterRoleRemovedEvent struct {
	GuildID int64
	UserID  int64
	RoleID  int64
}

func (e BoosterRoleRemovedEvent) Type() EventType {
	return EventTypeBoosterRoleRemoved
}
