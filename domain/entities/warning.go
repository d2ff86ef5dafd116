package entities

import "time"

// Warning represents a warning issued to a member
type Warning struct {
	ID          int64     `db:"id"`
	GuildID     int64     `db:"guild_id"`
	UserID      int64     `db:"user_id"`
	ModeratorID int64     `db:"moderator_id"`
	Reason      string    `db:"reason"`
	CaseNumber  *int64    `db:"case_number"`
	CreatedAt   time.Time `db:"created_at"`
}
