package music

import (
	"context"

	"warden/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// OnVoiceStateUpdate forwards the bot's own voice state to the node, tears the
// player down when the bot is disconnected, and re-evaluates the leave timer
func (f *Feature) OnVoiceStateUpdate(ctx context.Context, vs *discordgo.VoiceStateUpdate) {
	if vs.VoiceState == nil || vs.GuildID == "" {
		return
	}
	guildID, err := common.ParseID(vs.GuildID)
	if err != nil {
		return
	}
	botID := f.session.State.User.ID

	p := f.players.Get(guildID)
	if vs.UserID == botID {
		f.node.OnVoiceStateUpdate(ctx, guildID, vs.ChannelID, vs.SessionID)
		if p == nil || p.Closed() {
			return
		}
		if vs.ChannelID == "" {
			log.WithField("guild_id", guildID).Info("Disconnected from voice, stopping player")
			if err := p.Stop(ctx); err != nil {
				log.WithError(err).WithField("guild_id", guildID).Warn("Failed to stop player after disconnect")
			}
			return
		}
		if channelID, err := common.ParseID(vs.ChannelID); err == nil && channelID != p.VoiceChannelID() {
			p.SetChannels(p.TextChannelID(), channelID)
		}
	}

	if p == nil || p.Closed() {
		return
	}
	guild, err := f.session.State.Guild(vs.GuildID)
	if err != nil {
		return
	}
	humans := countHumans(guild.VoiceStates, common.FormatID(p.VoiceChannelID()), botID, func(userID string) bool {
		return f.isBot(vs.GuildID, userID)
	})
	p.VoiceMembersChanged(humans)
}

// OnVoiceServerUpdate forwards the voice server handshake to the node
func (f *Feature) OnVoiceServerUpdate(ctx context.Context, vs *discordgo.VoiceServerUpdate) {
	guildID, err := common.ParseID(vs.GuildID)
	if err != nil {
		return
	}
	f.node.OnVoiceServerUpdate(ctx, guildID, vs.Token, vs.Endpoint)
}

func (f *Feature) isBot(guildID, userID string) bool {
	member, err := f.session.State.Member(guildID, userID)
	if err != nil || member.User == nil {
		return false
	}
	return member.User.Bot
}

// countHumans counts non-bot users connected to channelID
func countHumans(states []*discordgo.VoiceState, channelID, botID string, isBot func(userID string) bool) int {
	humans := 0
	for _, vs := range states {
		if vs.ChannelID != channelID || vs.UserID == botID {
			continue
		}
		if vs.Member != nil && vs.Member.User != nil {
			if vs.Member.User.Bot {
				continue
			}
		} else if isBot(vs.UserID) {
			continue
		}
		humans++
	}
	return humans
}
