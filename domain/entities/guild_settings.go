package entities

import "time"

// GuildSettings represents per-guild configuration settings
type GuildSettings struct {
	GuildID            int64     `db:"guild_id"`
	ModLogChannelID    *int64    `db:"mod_log_channel_id"` // Nullable - channel receiving case embeds
	JailRoleID         *int64    `db:"jail_role_id"`
	JailChannelID      *int64    `db:"jail_channel_id"`
	WelcomeChannelID   *int64    `db:"welcome_channel_id"`
	WelcomeMessage     *string   `db:"welcome_message"`
	LeaveChannelID     *int64    `db:"leave_channel_id"`
	LeaveMessage       *string   `db:"leave_message"`
	BoostChannelID     *int64    `db:"boost_channel_id"`
	BoostMessage       *string   `db:"boost_message"`
	WelcomeCardEnabled bool      `db:"welcome_card_enabled"`
	BoosterBaseRoleID  *int64    `db:"booster_base_role_id"` // Nullable - booster roles are placed below this role
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// Default messages used when a channel is configured without a custom message
const (
	DefaultWelcomeMessage = "Welcome to **{guild.name}**, {user.mention}! You are our {guild.member_count.ordinal} member."
	DefaultLeaveMessage   = "**{user.name}** has left the server."
	DefaultBoostMessage   = "Thank you for boosting **{guild.name}**, {user.mention}!"
)

// HasModLogChannel checks if a mod log channel is configured
func (gs *GuildSettings) HasModLogChannel() bool {
	return gs.ModLogChannelID != nil && *gs.ModLogChannelID > 0
}

// HasJail checks if the jail role has been set up
func (gs *GuildSettings) HasJail() bool {
	return gs.JailRoleID != nil && *gs.JailRoleID > 0
}

// HasWelcomeChannel checks if a welcome channel is configured
func (gs *GuildSettings) HasWelcomeChannel() bool {
	return gs.WelcomeChannelID != nil && *gs.WelcomeChannelID > 0
}

// HasLeaveChannel checks if a leave channel is configured
func (gs *GuildSettings) HasLeaveChannel() bool {
	return gs.LeaveChannelID != nil && *gs.LeaveChannelID > 0
}

// HasBoostChannel checks if a boost channel is configured
func (gs *GuildSettings) HasBoostChannel() bool {
	return gs.BoostChannelID != nil && *gs.BoostChannelID > 0
}

// HasBoosterBaseRole checks if booster roles have an anchor role
func (gs *GuildSettings) HasBoosterBaseRole() bool {
	return gs.BoosterBaseRoleID != nil && *gs.BoosterBaseRoleID > 0
}

// WelcomeTemplate returns the configured welcome message or the default
func (gs *GuildSettings) WelcomeTemplate() string {
	return messageOrDefault(gs.WelcomeMessage, DefaultWelcomeMessage)
}

// LeaveTemplate returns the configured leave message or the default
func (gs *GuildSettings) LeaveTemplate() string {
	return messageOrDefault(gs.LeaveMessage, DefaultLeaveMessage)
}

// BoostTemplate returns the configured boost message or the default
func (gs *GuildSettings) BoostTemplate() string {
	return messageOrDefault(gs.BoostMessage, DefaultBoostMessage)
}

// SetJail stores the jail role and channel created by jail setup
func (gs *GuildSettings) SetJail(roleID, channelID *int64) {
	gs.JailRoleID = roleID
	gs.JailChannelID = channelID
}

func messageOrDefault(message *string, fallback string) string {
	if message == nil || *message == "" {
		return fallback
	}
	return *message
}
