package entities

import (
	"strings"
	"time"
)

// CaseAction identifies the moderation action a case records
type CaseAction string

const (
	CaseActionBan        CaseAction = "ban"
	CaseActionUnban      CaseAction = "unban"
	CaseActionKick       CaseAction = "kick"
	CaseActionTimeout    CaseAction = "timeout"
	CaseActionUntimeout  CaseAction = "untimeout"
	CaseActionWarn       CaseAction = "warn"
	CaseActionJail       CaseAction = "jail"
	CaseActionUnjail     CaseAction = "unjail"
	CaseActionRoleAdd    CaseAction = "role_add"
	CaseActionRoleRemove CaseAction = "role_remove"
	CaseActionNickname   CaseAction = "nickname"
)

// DefaultCaseReason is stored when a moderator gives no reason
const DefaultCaseReason = "No reason provided"

// Case embed colours
const (
	caseColourGreen  = 0x57F287
	caseColourRed    = 0xED4245
	caseColourYellow = 0xFEE75C
	caseColourGrey   = 0x95A5A6
)

// Emoji returns the icon shown next to the action in case embeds
func (a CaseAction) Emoji() string {
	switch a {
	case CaseActionBan:
		return "🔨"
	case CaseActionUnban:
		return "🔓"
	case CaseActionKick:
		return "👢"
	case CaseActionTimeout:
		return "⏱️"
	case CaseActionUntimeout:
		return "⏲️"
	case CaseActionWarn:
		return "⚠️"
	case CaseActionJail:
		return "⛓️"
	case CaseActionUnjail:
		return "🗝️"
	case CaseActionRoleAdd:
		return "➕"
	case CaseActionRoleRemove:
		return "➖"
	case CaseActionNickname:
		return "🏷️"
	default:
		return "📝"
	}
}

// Colour returns the embed colour for the action: green for reversals and grants,
// red for punishments
func (a CaseAction) Colour() int {
	switch a {
	case CaseActionUnban, CaseActionUntimeout, CaseActionUnjail, CaseActionRoleAdd:
		return caseColourGreen
	case CaseActionBan, CaseActionKick, CaseActionTimeout, CaseActionJail:
		return caseColourRed
	case CaseActionWarn, CaseActionNickname:
		return caseColourYellow
	default:
		return caseColourGrey
	}
}

// Title returns a display label such as "Role Add"
func (a CaseAction) Title() string {
	switch a {
	case CaseActionRoleAdd:
		return "Role Add"
	case CaseActionRoleRemove:
		return "Role Remove"
	case CaseActionUntimeout:
		return "Untimeout"
	}
	s := string(a)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ModCase represents a logged moderation action
type ModCase struct {
	ID              int64      `db:"id"`
	GuildID         int64      `db:"guild_id"`
	CaseNumber      int64      `db:"case_number"`
	Action          CaseAction `db:"action"`
	TargetID        int64      `db:"target_id"`
	ModeratorID     int64      `db:"moderator_id"`
	Reason          string     `db:"reason"`
	DurationSeconds *int64     `db:"duration_seconds"` // Nullable - only timeouts carry a duration
	RoleID          *int64     `db:"role_id"`          // Nullable - only role cases reference a role
	LogChannelID    *int64     `db:"log_channel_id"`
	LogMessageID    *int64     `db:"log_message_id"`
	CreatedAt       time.Time  `db:"created_at"`
}

// HasDuration checks if the case carries a duration
func (c *ModCase) HasDuration() bool {
	return c.DurationSeconds != nil && *c.DurationSeconds > 0
}

// Duration returns the case duration, or zero
func (c *ModCase) Duration() time.Duration {
	if !c.HasDuration() {
		return 0
	}
	return time.Duration(*c.DurationSeconds) * time.Second
}

// HasLogMessage checks if the case was posted to a mod log channel
func (c *ModCase) HasLogMessage() bool {
	return c.LogChannelID != nil && c.LogMessageID != nil
}

// NewCase holds the values needed to record a case
type NewCase struct {
	Action      CaseAction
	TargetID    int64
	ModeratorID int64
	Reason      string
	Duration    time.Duration
	RoleID      *int64
}
