package automation

import (
	"context"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// SnapshotSource returns the cached automation configuration of a guild
type SnapshotSource interface {
	Get(ctx context.Context, guildID int64) (*entities.AutomationSnapshot, error)
}

// Feature manages autoresponders, autoreactions, autoroles and reaction roles
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	gateway    interfaces.ModerationGateway
	snapshots  SnapshotSource
}

// NewFeature creates a new automation feature
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, gateway interfaces.ModerationGateway, snapshots SnapshotSource) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		gateway:    gateway,
		snapshots:  snapshots,
	}
}

// HandleCommand routes /autoresponder, /autoreact, /autorole and /reactionrole
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.RequirePermission(i, discordgo.PermissionManageGuild, "Manage Server"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	data := i.ApplicationCommandData()
	sub, opts := common.Subcommand(data)
	switch data.Name + " " + sub {
	case "autoresponder add":
		f.handleResponderAdd(s, i, opts)
	case "autoresponder remove":
		f.handleResponderRemove(s, i, opts)
	case "autoresponder list":
		f.handleResponderList(s, i)
	case "autoreact add":
		f.handleReactionAdd(s, i, opts)
	case "autoreact remove":
		f.handleReactionRemove(s, i, opts)
	case "autoreact list":
		f.handleReactionList(s, i)
	case "autorole add":
		f.handleAutoRoleAdd(s, i, opts)
	case "autorole remove":
		f.handleAutoRoleRemove(s, i, opts)
	case "autorole list":
		f.handleAutoRoleList(s, i)
	case "reactionrole add":
		f.handleReactionRoleAdd(s, i, opts)
	case "reactionrole remove":
		f.handleReactionRoleRemove(s, i, opts)
	case "reactionrole list":
		f.handleReactionRoleList(s, i)
	case "reactionrole clear":
		f.handleReactionRoleClear(s, i, opts)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// Commands returns the automation commands
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	perm := int64(discordgo.PermissionManageGuild)
	sub := func(name, desc string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        name,
			Description: desc,
			Options:     opts,
		}
	}
	str := func(name, desc string, required bool, maxLen int) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        name,
			Description: desc,
			Required:    required,
			MaxLength:   maxLen,
		}
	}
	boolean := func(name, desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        name,
			Description: desc,
		}
	}
	role := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "role",
		Description: "Role",
		Required:    true,
	}
	trigger := str("trigger", "Word or phrase that triggers it", true, 100)
	link := str("message", "Link to the message", true, 0)
	emoji := str("emoji", "Emoji", true, 0)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "autoresponder",
			Description:              "Reply automatically to trigger words",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				sub("add", "Add or replace an autoresponder",
					trigger,
					str("response", "What the bot replies", true, 2000),
					boolean("strict", "Only match when the whole message equals the trigger"),
					boolean("reply", "Reply to the message instead of sending a new one"),
				),
				sub("remove", "Remove an autoresponder", trigger),
				sub("list", "List autoresponders"),
			},
		},
		{
			Name:                     "autoreact",
			Description:              "React automatically to trigger words",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				sub("add", "Add or replace an autoreaction",
					trigger,
					str("emojis", "Up to 5 emojis separated by spaces", true, 0),
				),
				sub("remove", "Remove an autoreaction", trigger),
				sub("list", "List autoreactions"),
			},
		},
		{
			Name:                     "autorole",
			Description:              "Roles given to every new member",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				sub("add", "Add an autorole", role),
				sub("remove", "Remove an autorole", role),
				sub("list", "List autoroles"),
			},
		},
		{
			Name:                     "reactionrole",
			Description:              "Roles granted by reacting to a message",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				sub("add", "Bind an emoji on a message to a role", link, emoji, role),
				sub("remove", "Unbind an emoji from a message", link, emoji),
				sub("list", "List reaction roles"),
				sub("clear", "Remove every binding from a message", link),
			},
		},
	}
}
