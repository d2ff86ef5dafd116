package purge

import (
	"warden/bot/common"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature handles /purge
type Feature struct {
	session *discordgo.Session
	locker  interfaces.Locker
}

// NewFeature creates a new purge feature
func NewFeature(session *discordgo.Session, locker interfaces.Locker) *Feature {
	return &Feature{
		session: session,
		locker:  locker,
	}
}

// HandleCommand handles /purge
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePurge(s, i, common.NewOptions(i.ApplicationCommandData().Options))
}

// Commands returns the /purge command
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	perm := int64(discordgo.PermissionManageMessages)
	minAmount, maxAmount := float64(minPurge), float64(maxPurge)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "purge",
			Description:              "Bulk delete recent messages in this channel",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "How many messages to delete (1-500)",
					Required:    true,
					MinValue:    &minAmount,
					MaxValue:    maxAmount,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Only delete messages from this user",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "bots",
					Description: "Only delete messages from bots",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "contains",
					Description: "Only delete messages containing this text",
				},
			},
		},
	}
}
