package boosterrole

import (
	"context"
	"time"

	"warden/application"
	"warden/bot/common"
	"warden/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const roleDeleteTimeout = 15 * time.Second

// Feature lets server boosters own a personal role
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new booster role feature
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// Subscribe deletes the Discord role whenever a booster role record is removed
func (f *Feature) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBoosterRoleRemoved, func(ctx context.Context, event events.Event) {
		removed, ok := event.(events.BoosterRoleRemovedEvent)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(ctx, roleDeleteTimeout)
		defer cancel()

		err := f.session.GuildRoleDelete(common.FormatID(removed.GuildID), common.FormatID(removed.RoleID),
			discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Booster role removed"))
		if err != nil && !common.IsNotFound(err) {
			log.WithError(err).WithFields(log.Fields{
				"guild_id": removed.GuildID,
				"user_id":  removed.UserID,
				"role_id":  removed.RoleID,
			}).Warn("Failed to delete booster role")
		}
	})
}

// HandleCommand routes /boosterrole subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i.ApplicationCommandData())
	switch sub {
	case "base":
		f.handleBase(s, i, opts)
	case "create":
		f.handleCreate(s, i, opts)
	case "color":
		f.handleColor(s, i, opts)
	case "rename":
		f.handleRename(s, i, opts)
	case "remove":
		f.handleRemove(s, i)
	case "cleanup":
		f.handleCleanup(s, i)
	case "list":
		f.handleList(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// Commands returns the /boosterrole command
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	name := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "name",
		Description: "Role name",
		Required:    true,
		MaxLength:   maxRoleName,
	}
	colour := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "color",
		Description: "Hex colour such as #ff8800",
		Required:    true,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "boosterrole",
			Description: "Personal roles for server boosters",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "base",
					Description: "Set the role booster roles are placed under (Manage Roles)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Base role; leave empty to clear",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create or update your booster role",
					Options: []*discordgo.ApplicationCommandOption{
						colour,
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Role name",
							MaxLength:   maxRoleName,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "color",
					Description: "Change the colour of your booster role",
					Options:     []*discordgo.ApplicationCommandOption{colour},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "rename",
					Description: "Rename your booster role",
					Options:     []*discordgo.ApplicationCommandOption{name},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Delete your booster role",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cleanup",
					Description: "Delete booster roles of members who stopped boosting (Manage Roles)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List booster roles",
				},
			},
		},
	}
}
