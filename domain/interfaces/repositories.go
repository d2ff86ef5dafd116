package interfaces

import (
	"context"
	"time"

	"warden/domain/entities"
)

// GuildSettingsRepository defines the interface for guild settings data access
type GuildSettingsRepository interface {
	// GetOrCreateGuildSettings retrieves guild settings or creates defaults if not found
	GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error)

	// UpdateGuildSettings updates guild settings
	UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error
}

// CaseRepository defines the interface for moderation case data access
type CaseRepository interface {
	// NextCaseNumber atomically reserves the next case number for the guild
	NextCaseNumber(ctx context.Context) (int64, error)

	// Create inserts a case and fills in its ID and CreatedAt
	Create(ctx context.Context, modCase *entities.ModCase) error

	// GetByNumber returns a case by its guild-local number, or nil if not found
	GetByNumber(ctx context.Context, caseNumber int64) (*entities.ModCase, error)

	// ListByTarget returns the newest cases against a user
	ListByTarget(ctx context.Context, targetID int64, limit int) ([]*entities.ModCase, error)

	// CountByTarget returns the number of cases against a user
	CountByTarget(ctx context.Context, targetID int64) (int, error)

	// UpdateReason changes the reason of a case
	UpdateReason(ctx context.Context, caseNumber int64, reason string) error

	// SetLogMessage stores where the case embed was posted
	SetLogMessage(ctx context.Context, caseNumber, channelID, messageID int64) error
}

// WarningRepository defines the interface for warning data access
type WarningRepository interface {
	Create(ctx context.Context, warning *entities.Warning) error
	ListByUser(ctx context.Context, userID int64) ([]*entities.Warning, error)

	// Delete removes a warning by ID and reports whether it existed
	Delete(ctx context.Context, id int64) (bool, error)

	// DeleteByUser removes all warnings of a user and returns how many were removed
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// JailRepository defines the interface for jailed member data access
type JailRepository interface {
	// Get returns the jail record for a user, or nil if not jailed
	Get(ctx context.Context, userID int64) (*entities.JailedMember, error)
	Create(ctx context.Context, member *entities.JailedMember) error
	Delete(ctx context.Context, userID int64) (bool, error)
	List(ctx context.Context) ([]*entities.JailedMember, error)
}

// ReminderRepository defines the interface for reminder data access
type ReminderRepository interface {
	Create(ctx context.Context, reminder *entities.Reminder) error
	ListByUser(ctx context.Context, userID int64) ([]*entities.Reminder, error)
	CountByUser(ctx context.Context, userID int64) (int, error)

	// Delete removes a reminder owned by userID and reports whether it existed
	Delete(ctx context.Context, userID, id int64) (bool, error)

	// PopDue deletes and returns the guild's reminders due at or before now
	PopDue(ctx context.Context, now time.Time) ([]*entities.Reminder, error)

	// GuildsWithDueReminders returns every guild that has a due reminder.
	// This query is not scoped to the repository's guild.
	GuildsWithDueReminders(ctx context.Context, now time.Time) ([]int64, error)
}

// AutoResponderRepository defines the interface for autoresponder data access
type AutoResponderRepository interface {
	// Upsert inserts a responder or replaces the one with the same trigger, ignoring case
	Upsert(ctx context.Context, responder *entities.AutoResponder) error
	Delete(ctx context.Context, trigger string) (bool, error)
	List(ctx context.Context) ([]*entities.AutoResponder, error)
}

// AutoReactionRepository defines the interface for autoreaction data access
type AutoReactionRepository interface {
	Upsert(ctx context.Context, reaction *entities.AutoReaction) error
	Delete(ctx context.Context, trigger string) (bool, error)
	List(ctx context.Context) ([]*entities.AutoReaction, error)
}

// AutoRoleRepository defines the interface for autorole data access
type AutoRoleRepository interface {
	// Add reports false when the role was already configured
	Add(ctx context.Context, roleID int64) (bool, error)
	Remove(ctx context.Context, roleID int64) (bool, error)
	List(ctx context.Context) ([]*entities.AutoRole, error)
}

// ReactionRoleRepository defines the interface for reaction role data access
type ReactionRoleRepository interface {
	Upsert(ctx context.Context, binding *entities.ReactionRole) error
	Delete(ctx context.Context, messageID int64, emoji string) (bool, error)
	DeleteForMessage(ctx context.Context, messageID int64) (int64, error)
	ListForMessage(ctx context.Context, messageID int64) ([]*entities.ReactionRole, error)
	List(ctx context.Context) ([]*entities.ReactionRole, error)
}

// BoosterRoleRepository defines the interface for booster role data access
type BoosterRoleRepository interface {
	// Get returns the booster role of a user, or nil if none
	Get(ctx context.Context, userID int64) (*entities.BoosterRole, error)
	Upsert(ctx context.Context, role *entities.BoosterRole) error
	Delete(ctx context.Context, userID int64) (bool, error)
	List(ctx context.Context) ([]*entities.BoosterRole, error)
}
