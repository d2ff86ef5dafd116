package entities

import "time"

// Reminder is a message delivered to a user at a future time
type Reminder struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	UserID    int64     `db:"user_id"`
	ChannelID int64     `db:"channel_id"`
	Message   string    `db:"message"`
	RemindAt  time.Time `db:"remind_at"`
	CreatedAt time.Time `db:"created_at"`
}
