package cases

import (
	"context"
	"fmt"
	"strings"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const historyPageSize = 10

// Feature handles /case and /history and posts case embeds to the mod log
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new cases feature
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes /case and /history
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name == "history" {
		f.handleHistory(s, i, common.NewOptions(data.Options))
		return
	}

	sub, opts := common.Subcommand(data)
	switch sub {
	case "view":
		f.handleView(s, i, opts)
	case "reason":
		f.handleReason(s, i, opts)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandleComponent serves the history page buttons
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, historyButtonPrefix) {
		f.handleHistoryPage(s, i, customID)
	}
}

// PostCase sends the case embed to the mod log channel
func (f *Feature) PostCase(ctx context.Context, channelID int64, modCase *entities.ModCase) (int64, error) {
	msg, err := f.session.ChannelMessageSendComplex(common.FormatID(channelID), &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{BuildCaseEmbed(modCase)},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to post case #%d: %w", modCase.CaseNumber, err)
	}
	return common.ParseID(msg.ID)
}

// EditCase rewrites a posted case embed
func (f *Feature) EditCase(ctx context.Context, channelID, messageID int64, modCase *entities.ModCase) error {
	embeds := []*discordgo.MessageEmbed{BuildCaseEmbed(modCase)}
	_, err := f.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: common.FormatID(channelID),
		ID:      common.FormatID(messageID),
		Embeds:  &embeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit case #%d: %w", modCase.CaseNumber, err)
	}
	return nil
}

// Commands returns /case and /history
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	perm := int64(discordgo.PermissionModerateMembers)
	minCase := float64(1)
	number := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "number",
		Description: "Case number",
		Required:    true,
		MinValue:    &minCase,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "case",
			Description:              "View or edit moderation cases",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "Show a case",
					Options:     []*discordgo.ApplicationCommandOption{number},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reason",
					Description: "Change the reason of a case",
					Options: []*discordgo.ApplicationCommandOption{
						number,
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "New reason",
							Required:    true,
							MaxLength:   512,
						},
					},
				},
			},
		},
		{
			Name:                     "history",
			Description:              "List the cases against a user",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to look up",
					Required:    true,
				},
			},
		},
	}
}
