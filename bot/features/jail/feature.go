package jail

import (
	"warden/application"
	"warden/bot/common"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature handles /jail: setup, add, remove and list
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	gateway    interfaces.ModerationGateway
	locker     interfaces.Locker
}

// NewFeature creates a new jail feature
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, gateway interfaces.ModerationGateway, locker interfaces.Locker) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		gateway:    gateway,
		locker:     locker,
	}
}

// HandleCommand routes /jail subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i.ApplicationCommandData())
	switch sub {
	case "setup":
		f.handleSetup(s, i)
	case "add":
		f.handleAdd(s, i, opts)
	case "remove":
		f.handleRemove(s, i, opts)
	case "list":
		f.handleList(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// Commands returns the /jail command
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	perm := int64(discordgo.PermissionManageRoles)
	user := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Target member",
		Required:    true,
	}
	reason := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason shown in the case log",
		MaxLength:   512,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "jail",
			Description:              "Isolate members in a jail channel",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "setup",
					Description: "Create the jail role and channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Jail a member",
					Options:     []*discordgo.ApplicationCommandOption{user, reason},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Release a member and restore their roles",
					Options:     []*discordgo.ApplicationCommandOption{user, reason},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List jailed members",
				},
			},
		},
	}
}
