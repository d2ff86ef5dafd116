package moderation

import (
	"warden/application"
	"warden/bot/common"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature handles ban, kick, timeout, nickname and warning commands
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	gateway    interfaces.ModerationGateway
}

// NewFeature creates a new moderation feature
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, gateway interfaces.ModerationGateway) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// HandleCommand routes moderation slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "ban":
		f.handleBan(s, i)
	case "unban":
		f.handleUnban(s, i)
	case "kick":
		f.handleKick(s, i)
	case "timeout":
		f.handleTimeout(s, i)
	case "untimeout":
		f.handleUntimeout(s, i)
	case "nickname":
		f.handleNickname(s, i)
	case "warn":
		f.handleWarn(s, i)
	default:
		common.RespondWithError(s, i, "Unknown command")
	}
}

// Commands returns the slash commands this feature serves
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	banPerm := int64(discordgo.PermissionBanMembers)
	kickPerm := int64(discordgo.PermissionKickMembers)
	moderatePerm := int64(discordgo.PermissionModerateMembers)
	nickPerm := int64(discordgo.PermissionManageNicknames)
	minDays, maxDays := float64(0), float64(7)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "ban",
			Description:              "Ban a user from the server",
			DefaultMemberPermissions: &banPerm,
			Options: []*discordgo.ApplicationCommandOption{
				userOption(true),
				reasonOption(),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "delete_days",
					Description: "Days of messages to delete (0-7)",
					MinValue:    &minDays,
					MaxValue:    maxDays,
				},
			},
		},
		{
			Name:                     "unban",
			Description:              "Lift a ban",
			DefaultMemberPermissions: &banPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "user_id",
					Description: "ID of the banned user",
					Required:    true,
				},
				reasonOption(),
			},
		},
		{
			Name:                     "kick",
			Description:              "Kick a member from the server",
			DefaultMemberPermissions: &kickPerm,
			Options:                  []*discordgo.ApplicationCommandOption{userOption(true), reasonOption()},
		},
		{
			Name:                     "timeout",
			Description:              "Time out a member",
			DefaultMemberPermissions: &moderatePerm,
			Options: []*discordgo.ApplicationCommandOption{
				userOption(true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "How long, e.g. 10m, 1h30m, 2d (max 28d)",
					Required:    true,
				},
				reasonOption(),
			},
		},
		{
			Name:                     "untimeout",
			Description:              "Remove a member's timeout",
			DefaultMemberPermissions: &moderatePerm,
			Options:                  []*discordgo.ApplicationCommandOption{userOption(true), reasonOption()},
		},
		{
			Name:                     "nickname",
			Description:              "Change or reset a member's nickname",
			DefaultMemberPermissions: &nickPerm,
			Options: []*discordgo.ApplicationCommandOption{
				userOption(true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "nickname",
					Description: "New nickname; leave empty to reset",
					MaxLength:   32,
				},
			},
		},
		{
			Name:                     "warn",
			Description:              "Manage member warnings",
			DefaultMemberPermissions: &moderatePerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Warn a member",
					Options:     []*discordgo.ApplicationCommandOption{userOption(true), reasonOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List a member's warnings",
					Options:     []*discordgo.ApplicationCommandOption{userOption(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a single warning",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Warning ID",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Remove all of a member's warnings",
					Options:     []*discordgo.ApplicationCommandOption{userOption(true)},
				},
			},
		},
	}
}

func userOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Target member",
		Required:    required,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason shown in the case log",
		MaxLength:   512,
	}
}
