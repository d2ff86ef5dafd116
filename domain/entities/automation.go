package entities

// AutoResponder replies to messages that match a trigger
type AutoResponder struct {
	ID       int64  `db:"id"`
	GuildID  int64  `db:"guild_id"`
	Trigger  string `db:"trigger"`
	Response string `db:"response"`
	Strict   bool   `db:"strict"` // Whole message must equal the trigger
	Reply    bool   `db:"reply"`  // Respond as a reply instead of a plain message
}

// AutoReaction reacts to messages containing a trigger word
type AutoReaction struct {
	GuildID int64    `db:"guild_id"`
	Trigger string   `db:"trigger"`
	Emojis  []string `db:"emojis"`
}

// AutoRole is granted to every member that joins
type AutoRole struct {
	GuildID int64 `db:"guild_id"`
	RoleID  int64 `db:"role_id"`
}

// ReactionRole binds an emoji on a message to a role
type ReactionRole struct {
	GuildID   int64  `db:"guild_id"`
	ChannelID int64  `db:"channel_id"`
	MessageID int64  `db:"message_id"`
	Emoji     string `db:"emoji"` // unicode emoji or "name:id" for custom emojis
	RoleID    int64  `db:"role_id"`
}

// AutomationSnapshot is the per-guild view consumed by message and reaction listeners
type AutomationSnapshot struct {
	GuildID       int64
	Responders    []*AutoResponder
	Reactions     []*AutoReaction
	ReactionRoles []*ReactionRole
	AutoRoles     []*AutoRole
}

// ReactionRoleFor returns the binding for a message and emoji, or nil
func (s *AutomationSnapshot) ReactionRoleFor(messageID int64, emoji string) *ReactionRole {
	for _, rr := range s.ReactionRoles {
		if rr.MessageID == messageID && rr.Emoji == emoji {
			return rr
		}
	}
	return nil
}
