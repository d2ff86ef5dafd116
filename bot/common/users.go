package common

import (
	"github.com/bwmarrin/discordgo"
)

// GetDisplayName returns the nickname, then global name, then username of a member
func GetDisplayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return "Unknown"
	}
	if member.Nick != "" {
		return member.Nick
	}
	return UserDisplayName(member.User)
}

// UserDisplayName returns the global name or username of a user
func UserDisplayName(user *discordgo.User) string {
	if user == nil {
		return "Unknown"
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// InvokerID returns the invoking user's id as a snowflake
func InvokerID(i *discordgo.InteractionCreate) (int64, error) {
	return ParseID(InteractionUserID(i))
}

// GuildID returns the interaction's guild as a snowflake
func GuildID(i *discordgo.InteractionCreate) (int64, error) {
	if i.GuildID == "" {
		return 0, NewUserError("This command only works in a server.", "interaction outside guild")
	}
	return ParseID(i.GuildID)
}
