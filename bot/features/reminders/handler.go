package reminders

import (
	"context"
	"fmt"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleRemind(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	userID, err := common.InvokerID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	delay, err := utils.ParseDuration(opts.String("duration"))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	channelID, err := common.ParseID(i.ChannelID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var reminder *entities.Reminder
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var createErr error
		reminder, createErr = application.NewReminderService(uow, guildID).Create(ctx, userID, channelID, delay, opts.String("message"))
		return createErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	message := fmt.Sprintf("I'll remind you %s (reminder `#%d`).",
		common.FormatDiscordTimestamp(reminder.RemindAt, "R"), reminder.ID)
	common.LogResponseError(i, common.RespondSuccess(s, i, message, true))
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	userID, err := common.InvokerID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var pending []*entities.Reminder
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var listErr error
		pending, listErr = application.NewReminderService(uow, guildID).ListForUser(ctx, userID)
		return listErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondWithEmbed(s, i, buildListEmbed(pending), true))
}

func (f *Feature) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	userID, err := common.InvokerID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	reminderID := opts.Int("id", 0)
	ctx := context.Background()
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return application.NewReminderService(uow, guildID).Delete(ctx, userID, reminderID)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, fmt.Sprintf("Deleted reminder `#%d`.", reminderID), true))
}

// SendReminder posts the reminder in its channel, falling back to a direct message
func (f *Feature) SendReminder(ctx context.Context, reminder *entities.Reminder) error {
	content := FormatReminder(reminder)
	userID := common.FormatID(reminder.UserID)

	_, err := f.session.ChannelMessageSendComplex(common.FormatID(reminder.ChannelID), &discordgo.MessageSend{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{userID}},
	}, discordgo.WithContext(ctx))
	if err == nil {
		return nil
	}

	log.WithError(err).WithFields(log.Fields{
		"reminder_id": reminder.ID,
		"channel_id":  reminder.ChannelID,
	}).Debug("Reminder channel unavailable, sending a direct message")

	dm, dmErr := f.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if dmErr != nil {
		return fmt.Errorf("failed to open direct message: %w", dmErr)
	}
	if _, dmErr := f.session.ChannelMessageSend(dm.ID, content, discordgo.WithContext(ctx)); dmErr != nil {
		return fmt.Errorf("failed to send reminder: %w", dmErr)
	}
	return nil
}

// FormatReminder renders the delivered reminder text
func FormatReminder(reminder *entities.Reminder) string {
	return fmt.Sprintf("⏰ **Reminder** %s: %s", common.UserMention(reminder.UserID), reminder.Message)
}
