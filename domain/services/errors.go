package services

import "errors"

// Moderation errors
var (
	ErrCannotTargetSelf  = errors.New("you cannot moderate yourself")
	ErrCannotTargetBot   = errors.New("you cannot moderate the bot")
	ErrTargetIsOwner     = errors.New("the server owner cannot be moderated")
	ErrTargetOutranks    = errors.New("target has an equal or higher role")
	ErrBotOutranked      = errors.New("target has a role equal to or above the bot")
	ErrRoleTooHigh       = errors.New("role is equal to or above your highest role")
	ErrBotRoleTooHigh    = errors.New("role is equal to or above the bot's highest role")
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleManaged       = errors.New("role is managed by an integration")
	ErrMemberNotFound    = errors.New("member not found")
	ErrTimeoutOutOfRange = errors.New("timeout must be between 1 minute and 28 days")
	ErrJailNotConfigured = errors.New("jail has not been set up")
	ErrAlreadyJailed     = errors.New("member is already jailed")
	ErrNotJailed         = errors.New("member is not jailed")
	ErrWarningNotFound   = errors.New("warning not found")
)

// Case errors
var (
	ErrCaseNotFound = errors.New("case not found")
)

// Reminder errors
var (
	ErrEmptyReminder       = errors.New("reminder message cannot be empty")
	ErrReminderOutOfRange  = errors.New("reminder must be between 1 minute and 1 year away")
	ErrTooManyReminders    = errors.New("too many pending reminders")
	ErrReminderNotFound    = errors.New("reminder not found")
	ErrReminderMessageSize = errors.New("reminder message is too long")
)

// Automation errors
var (
	ErrTriggerNotFound      = errors.New("trigger not found")
	ErrInvalidTrigger       = errors.New("trigger must be between 1 and 100 characters")
	ErrInvalidResponse      = errors.New("response must be between 1 and 2000 characters")
	ErrTooManyEmojis        = errors.New("at most 5 emojis per trigger")
	ErrNoEmojis             = errors.New("at least one emoji is required")
	ErrTooManyAutoRoles     = errors.New("at most 10 autoroles")
	ErrAutoRoleExists       = errors.New("role is already an autorole")
	ErrAutoRoleNotFound     = errors.New("role is not an autorole")
	ErrReactionRoleNotFound = errors.New("reaction role not found")
)
