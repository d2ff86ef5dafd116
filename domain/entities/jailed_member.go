package entities

import "time"

// JailedMember records a jailed member and the roles to restore on release
type JailedMember struct {
	GuildID     int64     `db:"guild_id"`
	UserID      int64     `db:"user_id"`
	RoleIDs     []int64   `db:"role_ids"`
	ModeratorID int64     `db:"moderator_id"`
	Reason      string    `db:"reason"`
	JailedAt    time.Time `db:"jailed_at"`
}
