package reminders

import (
	"warden/application"
	"warden/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature schedules reminders and delivers them for the reminder worker
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new reminders feature
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes /remind and /reminders
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name == "remind" {
		f.handleRemind(s, i, common.NewOptions(data.Options))
		return
	}

	sub, opts := common.Subcommand(data)
	switch sub {
	case "list":
		f.handleList(s, i)
	case "delete":
		f.handleDelete(s, i, opts)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// Commands returns /remind and /reminders
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	minID := float64(1)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "remind",
			Description: "Get pinged about something later",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "When, such as 10m, 2h30m or 1d",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "What to remind you about",
					Required:    true,
					MaxLength:   1500,
				},
			},
		},
		{
			Name:        "reminders",
			Description: "Manage your reminders",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your pending reminders",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a pending reminder",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Reminder id from /reminders list",
							Required:    true,
							MinValue:    &minID,
						},
					},
				},
			},
		},
	}
}
