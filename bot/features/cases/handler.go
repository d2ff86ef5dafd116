package cases

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const historyButtonPrefix = "history_page:"

func (f *Feature) handleView(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if err := common.RequirePermission(i, discordgo.PermissionModerateMembers, "Timeout Members"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	number := opts.Int("number", 0)

	var modCase *entities.ModCase
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var getErr error
		modCase, getErr = application.NewCaseService(uow, guildID).GetCase(ctx, number)
		return getErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	embed := BuildCaseEmbed(modCase)
	if modCase.HasLogMessage() {
		embed.URL = common.MessageLink(guildID, *modCase.LogChannelID, *modCase.LogMessageID)
	}
	common.LogResponseError(i, common.RespondWithEmbed(s, i, embed, true))
}

// handleReason updates the reason; the mod log message follows through CaseUpdatedEvent
func (f *Feature) handleReason(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if err := common.RequirePermission(i, discordgo.PermissionModerateMembers, "Timeout Members"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	moderatorID, err := common.InvokerID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	number := opts.Int("number", 0)

	var modCase *entities.ModCase
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var updateErr error
		modCase, updateErr = application.NewCaseService(uow, guildID).UpdateReason(ctx, number, opts.String("reason"), moderatorID)
		return updateErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":     guildID,
		"case_number":  number,
		"moderator_id": moderatorID,
	}).Info("Case reason updated")

	common.LogResponseError(i, common.RespondSuccess(s, i, fmt.Sprintf("Updated the reason of case #%d", modCase.CaseNumber), true))
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if err := common.RequirePermission(i, discordgo.PermissionModerateMembers, "Timeout Members"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	embed, components, err := f.historyPage(i, opts.ID("user"), 0)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	common.LogResponseError(i, err)
}

func (f *Feature) handleHistoryPage(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	userID, page, ok := parseHistoryButton(customID)
	if !ok {
		common.RespondWithError(s, i, "This button has expired.")
		return
	}

	embed, components, err := f.historyPage(i, userID, page)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.UpdateMessage(s, i, embed, components))
}

// historyPage loads one page of a user's cases, newest first
func (f *Feature) historyPage(i *discordgo.InteractionCreate, userID int64, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	guildID, err := common.GuildID(i)
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	var (
		cases []*entities.ModCase
		total int
	)
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		svc := application.NewCaseService(uow, guildID)
		var err error
		if total, err = svc.CountForTarget(ctx, userID); err != nil {
			return err
		}
		cases, err = svc.ListForTarget(ctx, userID, (page+1)*historyPageSize)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	start := page * historyPageSize
	if start > len(cases) {
		start = len(cases)
	}
	pages := (total + historyPageSize - 1) / historyPageSize
	embed := buildHistoryEmbed(userID, cases[start:], total, page, pages)
	return embed, historyButtons(userID, page, pages), nil
}

func historyButtons(userID int64, page, pages int) []discordgo.MessageComponent {
	if pages <= 1 {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Previous",
				Style:    discordgo.SecondaryButton,
				CustomID: historyButtonID(userID, page-1),
				Disabled: page == 0,
			},
			discordgo.Button{
				Label:    "Next",
				Style:    discordgo.SecondaryButton,
				CustomID: historyButtonID(userID, page+1),
				Disabled: page >= pages-1,
			},
		}},
	}
}

func historyButtonID(userID int64, page int) string {
	return fmt.Sprintf("%s%d:%d", historyButtonPrefix, userID, page)
}

func parseHistoryButton(customID string) (int64, int, bool) {
	parts := strings.Split(strings.TrimPrefix(customID, historyButtonPrefix), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil || page < 0 {
		return 0, 0, false
	}
	return userID, page, true
}
