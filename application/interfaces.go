package application

import (
	"context"

	"warden/domain/entities"
)

// ModLogPoster renders moderation cases into the guild's mod log channel.
// The application layer uses it to reach Discord without depending on discordgo.
type ModLogPoster interface {
	// PostCase sends the case embed and returns the new message id
	PostCase(ctx context.Context, channelID int64, modCase *entities.ModCase) (int64, error)

	// EditCase rewrites an already posted case embed
	EditCase(ctx context.Context, channelID, messageID int64, modCase *entities.ModCase) error
}

// ReminderSender delivers due reminders
type ReminderSender interface {
	SendReminder(ctx context.Context, reminder *entities.Reminder) error
}
