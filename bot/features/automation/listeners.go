package automation

import (
	"context"

	"warden/bot/common"
	"warden/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	reactionRoleReason = "Reaction role"
	autoRoleReason     = "Autorole"
)

// OnMessageCreate answers autoresponder triggers and adds autoreactions
func (f *Feature) OnMessageCreate(ctx context.Context, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot || m.WebhookID != "" || m.Content == "" {
		return
	}
	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		return
	}

	snapshot, err := f.snapshots.Get(ctx, guildID)
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Warn("Failed to load automation snapshot")
		return
	}

	if responder := services.MatchResponder(snapshot.Responders, m.Content); responder != nil {
		send := &discordgo.MessageSend{
			Content:         responder.Response,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		}
		if responder.Reply {
			send.Reference = m.Reference()
		}
		if _, err := f.session.ChannelMessageSendComplex(m.ChannelID, send, discordgo.WithContext(ctx)); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"guild_id": guildID,
				"trigger":  responder.Trigger,
			}).Warn("Failed to send autoresponse")
		}
	}

	for _, emoji := range services.MatchReactions(snapshot.Reactions, m.Content) {
		if err := f.session.MessageReactionAdd(m.ChannelID, m.ID, emoji, discordgo.WithContext(ctx)); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"guild_id": guildID,
				"emoji":    emoji,
			}).Debug("Failed to add autoreaction")
		}
	}
}

// OnReactionAdd grants the role bound to the reacted emoji
func (f *Feature) OnReactionAdd(ctx context.Context, r *discordgo.MessageReactionAdd) {
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}
	f.applyReactionRole(ctx, r.MessageReaction, true)
}

// OnReactionRemove revokes the role bound to the removed emoji
func (f *Feature) OnReactionRemove(ctx context.Context, r *discordgo.MessageReactionRemove) {
	f.applyReactionRole(ctx, r.MessageReaction, false)
}

func (f *Feature) applyReactionRole(ctx context.Context, r *discordgo.MessageReaction, add bool) {
	if r.GuildID == "" {
		return
	}
	guildID, err := common.ParseID(r.GuildID)
	if err != nil {
		return
	}
	userID, err := common.ParseID(r.UserID)
	if err != nil || userID == f.gateway.BotUserID() {
		return
	}
	messageID, err := common.ParseID(r.MessageID)
	if err != nil {
		return
	}

	snapshot, err := f.snapshots.Get(ctx, guildID)
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Warn("Failed to load automation snapshot")
		return
	}
	binding := snapshot.ReactionRoleFor(messageID, emojiKey(&r.Emoji))
	if binding == nil {
		return
	}

	if !add {
		// Remove events carry no member, so bots are filtered by lookup
		member, err := f.gateway.Member(ctx, guildID, userID)
		if err != nil || member == nil || member.Bot {
			return
		}
		err = f.gateway.RemoveRole(ctx, guildID, userID, binding.RoleID, reactionRoleReason)
		logRoleResult(err, guildID, userID, binding.RoleID, "revoke")
		return
	}
	err = f.gateway.AddRole(ctx, guildID, userID, binding.RoleID, reactionRoleReason)
	logRoleResult(err, guildID, userID, binding.RoleID, "grant")
}

// ApplyAutoRoles gives a newly joined member every configured autorole the bot can assign
func (f *Feature) ApplyAutoRoles(ctx context.Context, member *discordgo.Member) {
	if member == nil || member.User == nil {
		return
	}
	guildID, err := common.ParseID(member.GuildID)
	if err != nil {
		return
	}
	userID, err := common.ParseID(member.User.ID)
	if err != nil {
		return
	}

	snapshot, err := f.snapshots.Get(ctx, guildID)
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Warn("Failed to load automation snapshot")
		return
	}
	if len(snapshot.AutoRoles) == 0 {
		return
	}

	unassignable, err := f.gateway.UnassignableRoleIDs(ctx, guildID)
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Warn("Failed to resolve assignable roles")
		return
	}
	for _, autoRole := range snapshot.AutoRoles {
		if unassignable[autoRole.RoleID] {
			log.WithFields(log.Fields{
				"guild_id": guildID,
				"role_id":  autoRole.RoleID,
			}).Debug("Skipping autorole the bot cannot assign")
			continue
		}
		err := f.gateway.AddRole(ctx, guildID, userID, autoRole.RoleID, autoRoleReason)
		logRoleResult(err, guildID, userID, autoRole.RoleID, "autorole")
	}
}

// emojiKey matches the keys stored by NormalizeReactionEmoji
func emojiKey(e *discordgo.Emoji) string {
	if e.ID != "" {
		return e.Name + ":" + e.ID
	}
	return e.Name
}

func logRoleResult(err error, guildID, userID, roleID int64, action string) {
	entry := log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"role_id":  roleID,
		"action":   action,
	})
	if err != nil {
		entry.WithError(err).Warn("Failed to update member role")
		return
	}
	entry.Debug("Member role updated")
}
