package lockdown

import (
	"warden/bot/common"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature handles channel locks, server lockdowns and slowmode
type Feature struct {
	session *discordgo.Session
	locker  interfaces.Locker
}

// NewFeature creates a new lockdown feature
func NewFeature(session *discordgo.Session, locker interfaces.Locker) *Feature {
	return &Feature{
		session: session,
		locker:  locker,
	}
}

// HandleCommand routes /lock, /unlock, /lockdown and /slowmode
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case "lock":
		f.handleLock(s, i, common.NewOptions(data.Options), true)
	case "unlock":
		f.handleLock(s, i, common.NewOptions(data.Options), false)
	case "lockdown":
		sub, opts := common.Subcommand(data)
		switch sub {
		case "start":
			f.handleLockdown(s, i, opts, true)
		case "end":
			f.handleLockdown(s, i, opts, false)
		default:
			common.RespondWithError(s, i, "Unknown subcommand")
		}
	case "slowmode":
		f.handleSlowmode(s, i, common.NewOptions(data.Options))
	default:
		common.RespondWithError(s, i, "Unknown command")
	}
}

// Commands returns the lock related commands
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	perm := int64(discordgo.PermissionManageChannels)
	channel := &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  "Channel; defaults to this one",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
	}
	reason := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason shown in the audit log",
		MaxLength:   512,
	}
	minSlow, maxSlow := float64(0), float64(maxSlowmode)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "lock",
			Description:              "Stop members from sending messages in a channel",
			DefaultMemberPermissions: &perm,
			Options:                  []*discordgo.ApplicationCommandOption{channel, reason},
		},
		{
			Name:                     "unlock",
			Description:              "Let members send messages in a channel again",
			DefaultMemberPermissions: &perm,
			Options:                  []*discordgo.ApplicationCommandOption{channel},
		},
		{
			Name:                     "lockdown",
			Description:              "Lock or unlock every text channel",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Lock every text channel",
					Options:     []*discordgo.ApplicationCommandOption{reason},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "Unlock every text channel",
				},
			},
		},
		{
			Name:                     "slowmode",
			Description:              "Set the slowmode delay of a channel",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "seconds",
					Description: "Delay between messages; 0 disables",
					Required:    true,
					MinValue:    &minSlow,
					MaxValue:    maxSlow,
				},
				channel,
			},
		},
	}
}
