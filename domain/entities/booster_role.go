package entities

// BoosterRole is the personal role owned by a server booster
type BoosterRole struct {
	GuildID int64 `db:"guild_id"`
	UserID  int64 `db:"user_id"`
	RoleID  int64 `db:"role_id"`
}
