package common

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"warden/domain/interfaces"
	"warden/domain/music"
	"warden/domain/services"
	"warden/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string      // Message shown to Discord user
	LogMessage  string      // Internal message for logging
	Ephemeral   bool        // Whether the error message should be ephemeral
	Err         error       // Underlying error
	Context     interface{} // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, hierarchy, missing records)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: systemErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

const systemErrorMessage = "Something went wrong. Please try again later."

// userFacing lists domain errors whose text is safe to show
var userFacing = []error{
	services.ErrCannotTargetSelf,
	services.ErrCannotTargetBot,
	services.ErrTargetIsOwner,
	services.ErrTargetOutranks,
	services.ErrBotOutranked,
	services.ErrRoleTooHigh,
	services.ErrBotRoleTooHigh,
	services.ErrRoleNotFound,
	services.ErrRoleManaged,
	services.ErrMemberNotFound,
	services.ErrTimeoutOutOfRange,
	services.ErrJailNotConfigured,
	services.ErrAlreadyJailed,
	services.ErrNotJailed,
	services.ErrWarningNotFound,
	services.ErrCaseNotFound,
	services.ErrEmptyReminder,
	services.ErrReminderOutOfRange,
	services.ErrTooManyReminders,
	services.ErrReminderNotFound,
	services.ErrReminderMessageSize,
	services.ErrTriggerNotFound,
	services.ErrInvalidTrigger,
	services.ErrInvalidResponse,
	services.ErrTooManyEmojis,
	services.ErrNoEmojis,
	services.ErrTooManyAutoRoles,
	services.ErrAutoRoleExists,
	services.ErrAutoRoleNotFound,
	services.ErrReactionRoleNotFound,
	music.ErrInvalidPosition,
	music.ErrInvalidVolume,
	music.ErrInvalidLoopMode,
	music.ErrNothingPlaying,
	music.ErrPlayerClosed,
	music.ErrNotSeekable,
	music.ErrSeekOutOfRange,
	music.ErrAlreadyPaused,
	music.ErrNotPaused,
	music.ErrNoResults,
	utils.ErrInvalidDuration,
	utils.ErrNotCustomEmoji,
	utils.ErrInvalidMessageLink,
	utils.ErrInvalidColor,
}

// FromError converts a domain error into a BotError. Known sentinels become
// user errors, anything else a system error.
func FromError(err error, logMessage string) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	if errors.Is(err, interfaces.ErrLockHeld) {
		return NewUserError("That operation is already running in this server.", logMessage)
	}
	for _, known := range userFacing {
		if errors.Is(err, known) {
			userErr := NewUserError(capitalize(known.Error())+".", logMessage)
			userErr.Err = err
			return userErr
		}
	}
	return NewSystemError(err, logMessage)
}

func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: errorContent(message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: errorContent(message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

func errorContent(message string) string {
	if strings.HasPrefix(message, "❌") {
		return message
	}
	return "❌ " + message
}

// HandleError logs err and replies with its user message
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	botErr := FromError(err, "Unexpected error in bot command")

	fields := log.Fields{
		"guild_id":     i.GuildID,
		"user_id":      InteractionUserID(i),
		"interaction":  InteractionName(i),
		"error":        botErr.Error(),
		"user_message": botErr.UserMessage,
	}
	if botErr.Context != nil {
		fields["context"] = botErr.Context
	}

	// User mistakes are routine
	if botErr.UserMessage == systemErrorMessage {
		log.WithFields(fields).Error(botErr.LogMessage)
	} else {
		log.WithFields(fields).Debug(botErr.LogMessage)
	}

	if deferred {
		FollowUpWithError(s, i, botErr.UserMessage)
	} else {
		RespondWithError(s, i, botErr.UserMessage)
	}
}

// InteractionName names the command or component for logs
func InteractionName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	}
	return ""
}

// InteractionUserID returns the invoking user for guild and DM interactions
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
