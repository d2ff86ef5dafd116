package settings

import (
	"context"
	"fmt"

	"warden/application"
	"warden/bot/common"
	"warden/bot/features/welcome"
	"warden/domain/entities"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// update runs one settings mutation and confirms it
func (f *Feature) update(s *discordgo.Session, i *discordgo.InteractionCreate, message string, apply func(ctx context.Context, svc interfaces.GuildSettingsService, guildID int64) error) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return apply(ctx, application.NewGuildSettingsService(uow), guildID)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  common.InteractionUserID(i),
		"setting":  common.InteractionName(i),
	}).Info("Guild settings updated")

	common.LogResponseError(i, common.RespondSuccess(s, i, message, true))
}

func (f *Feature) handleModLog(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	channelID := opts.OptionalID("channel")
	message := "Mod log disabled"
	if channelID != nil {
		message = "Mod log channel set to " + common.ChannelMention(*channelID)
	}

	f.update(s, i, message, func(ctx context.Context, svc interfaces.GuildSettingsService, guildID int64) error {
		return svc.UpdateModLogChannel(ctx, guildID, channelID)
	})
}

func (f *Feature) handleMemberMessage(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options, kind welcome.Kind) {
	channelID := opts.OptionalID("channel")
	text := opts.OptionalString("message")

	message := fmt.Sprintf("%s messages disabled", titleFor(kind))
	if channelID != nil {
		message = fmt.Sprintf("%s messages will be sent in %s", titleFor(kind), common.ChannelMention(*channelID))
	}

	f.update(s, i, message, func(ctx context.Context, svc interfaces.GuildSettingsService, guildID int64) error {
		switch kind {
		case welcome.KindLeave:
			return svc.UpdateLeave(ctx, guildID, channelID, text)
		case welcome.KindBoost:
			return svc.UpdateBoost(ctx, guildID, channelID, text)
		default:
			return svc.UpdateWelcome(ctx, guildID, channelID, text)
		}
	})
}

func (f *Feature) handleWelcomeCard(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	enabled := opts.Bool("enabled", false)
	message := "Welcome card disabled"
	if enabled {
		message = "Welcome card enabled"
	}

	f.update(s, i, message, func(ctx context.Context, svc interfaces.GuildSettingsService, guildID int64) error {
		return svc.SetWelcomeCard(ctx, guildID, enabled)
	})
}

func (f *Feature) loadSettings(ctx context.Context, i *discordgo.InteractionCreate) (*entities.GuildSettings, error) {
	guildID, err := common.GuildID(i)
	if err != nil {
		return nil, err
	}

	var settings *entities.GuildSettings
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var getErr error
		settings, getErr = application.NewGuildSettingsService(uow).GetOrCreateSettings(ctx, guildID)
		return getErr
	})
	return settings, err
}

func (f *Feature) handleView(s *discordgo.Session, i *discordgo.InteractionCreate) {
	settings, err := f.loadSettings(context.Background(), i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondWithEmbed(s, i, buildSettingsEmbed(settings), true))
}

func (f *Feature) handlePreview(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if i.Member == nil {
		common.RespondWithError(s, i, "This command only works in a server.")
		return
	}

	ctx := context.Background()
	settings, err := f.loadSettings(ctx, i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	member := *i.Member
	member.GuildID = i.GuildID
	msg, err := f.previewer.Preview(ctx, settings, welcome.Kind(opts.String("kind")), &member)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         msg.Content,
			Files:           msg.Files,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
			Flags:           discordgo.MessageFlagsEphemeral,
		},
	})
	common.LogResponseError(i, err)
}

func titleFor(kind welcome.Kind) string {
	switch kind {
	case welcome.KindLeave:
		return "Leave"
	case welcome.KindBoost:
		return "Boost"
	}
	return "Welcome"
}
