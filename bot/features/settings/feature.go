package settings

import (
	"context"

	"warden/application"
	"warden/bot/common"
	"warden/bot/features/welcome"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// Previewer renders member messages for /settings preview
type Previewer interface {
	Preview(ctx context.Context, settings *entities.GuildSettings, kind welcome.Kind, member *discordgo.Member) (*discordgo.MessageSend, error)
}

// Feature handles the /settings command
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	previewer  Previewer
}

// NewFeature creates a new settings feature
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, previewer Previewer) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		previewer:  previewer,
	}
}

// HandleCommand routes /settings subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	sub, opts := common.Subcommand(i.ApplicationCommandData())
	switch sub {
	case "modlog":
		f.handleModLog(s, i, opts)
	case "welcome":
		f.handleMemberMessage(s, i, opts, welcome.KindWelcome)
	case "leave":
		f.handleMemberMessage(s, i, opts, welcome.KindLeave)
	case "boost":
		f.handleMemberMessage(s, i, opts, welcome.KindBoost)
	case "welcome-card":
		f.handleWelcomeCard(s, i, opts)
	case "view":
		f.handleView(s, i)
	case "preview":
		f.handlePreview(s, i, opts)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// Commands returns the /settings command
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	perm := int64(discordgo.PermissionAdministrator)
	channel := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  desc,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
		}
	}
	message := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "message",
		Description: "Message template, e.g. Welcome {user.mention} to {guild.name}!",
		MaxLength:   1500,
	}
	memberMessage := func(name, what string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        name,
			Description: "Configure the " + what + " message; no channel disables it",
			Options:     []*discordgo.ApplicationCommandOption{channel("Channel for " + what + " messages"), message},
		}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "settings",
			Description:              "Configure the bot for this server",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "modlog",
					Description: "Set the mod log channel; no channel disables it",
					Options:     []*discordgo.ApplicationCommandOption{channel("Channel receiving case embeds")},
				},
				memberMessage("welcome", "welcome"),
				memberMessage("leave", "leave"),
				memberMessage("boost", "boost"),
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "welcome-card",
					Description: "Attach an image card to welcome messages",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "Whether to attach the card",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "Show the current settings",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "preview",
					Description: "Preview a member message using yourself",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "kind",
							Description: "Which message",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Welcome", Value: string(welcome.KindWelcome)},
								{Name: "Leave", Value: string(welcome.KindLeave)},
								{Name: "Boost", Value: string(welcome.KindBoost)},
							},
						},
					},
				},
			},
		},
	}
}
