package roles

import (
	"warden/application"
	"warden/bot/common"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Feature handles /role add, remove and mass
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	gateway    interfaces.ModerationGateway
	locker     interfaces.Locker
	editRate   rate.Limit
}

// NewFeature creates a new roles feature; editsPerSecond paces mass role runs
func NewFeature(
	session *discordgo.Session,
	uowFactory application.UnitOfWorkFactory,
	gateway interfaces.ModerationGateway,
	locker interfaces.Locker,
	editsPerSecond float64,
) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		gateway:    gateway,
		locker:     locker,
		editRate:   rate.Limit(editsPerSecond),
	}
}

// HandleCommand routes /role subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i.ApplicationCommandData())
	switch sub {
	case "add":
		f.handleRoleChange(s, i, opts, true)
	case "remove":
		f.handleRoleChange(s, i, opts, false)
	case "mass":
		f.handleMass(s, i, opts)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// Commands returns the /role command
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	perm := int64(discordgo.PermissionManageRoles)
	user := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Target member",
		Required:    true,
	}
	role := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "role",
		Description: "Role",
		Required:    true,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "role",
			Description:              "Manage member roles",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Give a member a role",
					Options:     []*discordgo.ApplicationCommandOption{user, role},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Take a role from a member",
					Options:     []*discordgo.ApplicationCommandOption{user, role},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "mass",
					Description: "Add or remove a role for many members",
					Options: []*discordgo.ApplicationCommandOption{
						role,
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "target",
							Description: "Which members",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Everyone", Value: string(targetAll)},
								{Name: "Humans", Value: string(targetHumans)},
								{Name: "Bots", Value: string(targetBots)},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "action",
							Description: "Add or remove",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Add", Value: "add"},
								{Name: "Remove", Value: "remove"},
							},
						},
					},
				},
			},
		},
	}
}
