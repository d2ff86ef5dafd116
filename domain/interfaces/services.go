package interfaces

import (
	"context"
	"time"

	"warden/domain/entities"
)

// GuildSettingsService defines the interface for guild settings operations.
// A nil id disables the corresponding feature.
type GuildSettingsService interface {
	GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error)
	UpdateModLogChannel(ctx context.Context, guildID int64, channelID *int64) error
	UpdateJail(ctx context.Context, guildID int64, roleID, channelID *int64) error

	// UpdateWelcome sets the welcome channel; a nil message keeps the current one
	UpdateWelcome(ctx context.Context, guildID int64, channelID *int64, message *string) error
	UpdateLeave(ctx context.Context, guildID int64, channelID *int64, message *string) error
	UpdateBoost(ctx context.Context, guildID int64, channelID *int64, message *string) error
	SetWelcomeCard(ctx context.Context, guildID int64, enabled bool) error
	UpdateBoosterBaseRole(ctx context.Context, guildID int64, roleID *int64) error
}

// CaseService defines the interface for moderation case logging
type CaseService interface {
	// CreateCase numbers and records a case, then publishes CaseCreatedEvent
	CreateCase(ctx context.Context, newCase entities.NewCase) (*entities.ModCase, error)

	// GetCase returns ErrCaseNotFound when no case has the number
	GetCase(ctx context.Context, caseNumber int64) (*entities.ModCase, error)

	// ListForTarget returns the newest cases against a user first
	ListForTarget(ctx context.Context, targetID int64, limit int) ([]*entities.ModCase, error)
	CountForTarget(ctx context.Context, targetID int64) (int, error)

	// UpdateReason edits the reason and publishes CaseUpdatedEvent
	UpdateReason(ctx context.Context, caseNumber int64, reason string, moderatorID int64) (*entities.ModCase, error)

	// AttachLogMessage stores the mod log message that shows the case
	AttachLogMessage(ctx context.Context, caseNumber, channelID, messageID int64) error
}

// ModerationRequest identifies who acts on whom and why
type ModerationRequest struct {
	ModeratorID int64
	TargetID    int64
	Reason      string
}

// ModerationService defines the interface for moderation actions
type ModerationService interface {
	// CheckHierarchy verifies the moderator and the bot may act on the target
	CheckHierarchy(ctx context.Context, moderatorID, targetID int64) error

	Ban(ctx context.Context, req ModerationRequest, deleteMessageDays int) (*entities.ModCase, error)
	Unban(ctx context.Context, req ModerationRequest) (*entities.ModCase, error)
	Kick(ctx context.Context, req ModerationRequest) (*entities.ModCase, error)
	Timeout(ctx context.Context, req ModerationRequest, duration time.Duration) (*entities.ModCase, error)
	Untimeout(ctx context.Context, req ModerationRequest) (*entities.ModCase, error)
	Warn(ctx context.Context, req ModerationRequest) (*entities.ModCase, error)
	Jail(ctx context.Context, req ModerationRequest) (*entities.ModCase, error)
	Unjail(ctx context.Context, req ModerationRequest) (*entities.ModCase, error)
	AddRole(ctx context.Context, req ModerationRequest, roleID int64) (*entities.ModCase, error)
	RemoveRole(ctx context.Context, req ModerationRequest, roleID int64) (*entities.ModCase, error)

	// SetNickname changes the nickname; an empty nickname resets it
	SetNickname(ctx context.Context, req ModerationRequest, nickname string) (*entities.ModCase, error)

	Warnings(ctx context.Context, userID int64) ([]*entities.Warning, error)
	RemoveWarning(ctx context.Context, warningID int64) error
	ClearWarnings(ctx context.Context, userID int64) (int64, error)
	JailedMembers(ctx context.Context) ([]*entities.JailedMember, error)

	// IsJailed reports whether a jail record exists for the user
	IsJailed(ctx context.Context, userID int64) (bool, error)
}

// ReminderService defines the interface for reminder operations
type ReminderService interface {
	Create(ctx context.Context, userID, channelID int64, delay time.Duration, message string) (*entities.Reminder, error)
	ListForUser(ctx context.Context, userID int64) ([]*entities.Reminder, error)

	// Delete removes one of the caller's own reminders
	Delete(ctx context.Context, userID, reminderID int64) error

	// PopDue returns and deletes reminders due at or before now
	PopDue(ctx context.Context, now time.Time) ([]*entities.Reminder, error)
}

// AutomationService defines the interface for autoresponders, autoreactions,
// autoroles and reaction roles
type AutomationService interface {
	AddResponder(ctx context.Context, trigger, response string, strict, reply bool) (*entities.AutoResponder, error)
	RemoveResponder(ctx context.Context, trigger string) error
	Responders(ctx context.Context) ([]*entities.AutoResponder, error)

	AddReaction(ctx context.Context, trigger string, emojis []string) error
	RemoveReaction(ctx context.Context, trigger string) error
	Reactions(ctx context.Context) ([]*entities.AutoReaction, error)

	AddAutoRole(ctx context.Context, roleID int64) error
	RemoveAutoRole(ctx context.Context, roleID int64) error
	AutoRoles(ctx context.Context) ([]*entities.AutoRole, error)

	BindReactionRole(ctx context.Context, channelID, messageID int64, emoji string, roleID int64) error
	UnbindReactionRole(ctx context.Context, messageID int64, emoji string) error
	ReactionRolesForMessage(ctx context.Context, messageID int64) ([]*entities.ReactionRole, error)
	ReactionRoles(ctx context.Context) ([]*entities.ReactionRole, error)
	ClearReactionRoles(ctx context.Context, messageID int64) (int64, error)

	// Snapshot loads everything the message and reaction listeners need
	Snapshot(ctx context.Context) (*entities.AutomationSnapshot, error)
}

// BoosterRoleService defines the interface for booster role records
type BoosterRoleService interface {
	Get(ctx context.Context, userID int64) (*entities.BoosterRole, error)
	Assign(ctx context.Context, userID, roleID int64) error

	// Remove deletes and returns the record, or nil when the user had none
	Remove(ctx context.Context, userID int64) (*entities.BoosterRole, error)
	List(ctx context.Context) ([]*entities.BoosterRole, error)

	// Stale returns records whose user is not in activeBoosters
	Stale(ctx context.Context, activeBoosters map[int64]bool) ([]*entities.BoosterRole, error)
}
