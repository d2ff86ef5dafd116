package automation

import (
	"context"
	"fmt"
	"strings"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// run executes fn against the guild's automation service and answers with message on success
func (f *Feature) run(s *discordgo.Session, i *discordgo.InteractionCreate, message string, fn func(ctx context.Context, svc interfaces.AutomationService) error) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return fn(ctx, application.NewAutomationService(uow, guildID))
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, message, true))
}

func (f *Feature) handleResponderAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	trigger := opts.String("trigger")
	f.run(s, i, fmt.Sprintf("Autoresponder for `%s` saved.", trigger), func(ctx context.Context, svc interfaces.AutomationService) error {
		_, err := svc.AddResponder(ctx, trigger, opts.String("response"), opts.Bool("strict", false), opts.Bool("reply", false))
		return err
	})
}

func (f *Feature) handleResponderRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	trigger := opts.String("trigger")
	f.run(s, i, fmt.Sprintf("Autoresponder for `%s` removed.", trigger), func(ctx context.Context, svc interfaces.AutomationService) error {
		return svc.RemoveResponder(ctx, trigger)
	})
}

func (f *Feature) handleReactionAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	trigger := opts.String("trigger")
	emojis := parseEmojiList(opts.String("emojis"))
	f.run(s, i, fmt.Sprintf("Autoreaction for `%s` saved.", trigger), func(ctx context.Context, svc interfaces.AutomationService) error {
		return svc.AddReaction(ctx, trigger, emojis)
	})
}

func (f *Feature) handleReactionRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	trigger := opts.String("trigger")
	f.run(s, i, fmt.Sprintf("Autoreaction for `%s` removed.", trigger), func(ctx context.Context, svc interfaces.AutomationService) error {
		return svc.RemoveReaction(ctx, trigger)
	})
}

func (f *Feature) handleAutoRoleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if err := f.checkRole(i, opts.ID("role")); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	roleID := opts.ID("role")
	f.run(s, i, fmt.Sprintf("New members will get %s.", common.RoleMention(roleID)), func(ctx context.Context, svc interfaces.AutomationService) error {
		return svc.AddAutoRole(ctx, roleID)
	})
}

func (f *Feature) handleAutoRoleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	roleID := opts.ID("role")
	f.run(s, i, fmt.Sprintf("%s is no longer an autorole.", common.RoleMention(roleID)), func(ctx context.Context, svc interfaces.AutomationService) error {
		return svc.RemoveAutoRole(ctx, roleID)
	})
}

// handleReactionRoleAdd reacts to the target message with the emoji and stores the binding
func (f *Feature) handleReactionRoleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	link, err := f.parseLink(i, opts.String("message"))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	roleID := opts.ID("role")
	if err := f.checkRole(i, roleID); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	channelID := common.FormatID(link.ChannelID)
	messageID := common.FormatID(link.MessageID)
	if _, err := s.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		if common.IsNotFound(err) {
			common.HandleError(s, i, common.NewUserError("That message no longer exists.", "reaction role target missing"), false)
			return
		}
		common.HandleError(s, i, err, false)
		return
	}

	emoji := utils.NormalizeReactionEmoji(strings.TrimSpace(opts.String("emoji")))
	if err := s.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		log.WithError(err).WithField("emoji", emoji).Debug("Reaction role emoji rejected")
		common.HandleError(s, i, common.NewUserError("I can't react with that emoji.", "reaction role emoji rejected"), false)
		return
	}

	message := fmt.Sprintf("Reacting with %s on that message now grants %s.", opts.String("emoji"), common.RoleMention(roleID))
	f.run(s, i, message, func(ctx context.Context, svc interfaces.AutomationService) error {
		return svc.BindReactionRole(ctx, link.ChannelID, link.MessageID, emoji, roleID)
	})
}

func (f *Feature) handleReactionRoleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	link, err := f.parseLink(i, opts.String("message"))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	emoji := utils.NormalizeReactionEmoji(strings.TrimSpace(opts.String("emoji")))

	f.run(s, i, "Reaction role removed.", func(ctx context.Context, svc interfaces.AutomationService) error {
		return svc.UnbindReactionRole(ctx, link.MessageID, emoji)
	})
}

func (f *Feature) handleReactionRoleClear(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	link, err := f.parseLink(i, opts.String("message"))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var cleared int64
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var clearErr error
		cleared, clearErr = application.NewAutomationService(uow, guildID).ClearReactionRoles(ctx, link.MessageID)
		return clearErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	message := fmt.Sprintf("Removed %s from that message.", common.Plural(int(cleared), "reaction role", "reaction roles"))
	common.LogResponseError(i, common.RespondSuccess(s, i, message, true))
}

func (f *Feature) handleResponderList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.list(s, i, func(snapshot *entities.AutomationSnapshot) *discordgo.MessageEmbed {
		return buildRespondersEmbed(snapshot.Responders)
	})
}

func (f *Feature) handleReactionList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.list(s, i, func(snapshot *entities.AutomationSnapshot) *discordgo.MessageEmbed {
		return buildReactionsEmbed(snapshot.Reactions)
	})
}

func (f *Feature) handleAutoRoleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.list(s, i, func(snapshot *entities.AutomationSnapshot) *discordgo.MessageEmbed {
		return buildAutoRolesEmbed(snapshot.AutoRoles)
	})
}

func (f *Feature) handleReactionRoleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.list(s, i, func(snapshot *entities.AutomationSnapshot) *discordgo.MessageEmbed {
		return buildReactionRolesEmbed(snapshot.GuildID, snapshot.ReactionRoles)
	})
}

// list reads from the database rather than the cache so the answer reflects the latest commit
func (f *Feature) list(s *discordgo.Session, i *discordgo.InteractionCreate, build func(*entities.AutomationSnapshot) *discordgo.MessageEmbed) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var snapshot *entities.AutomationSnapshot
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var snapErr error
		snapshot, snapErr = application.NewAutomationService(uow, guildID).Snapshot(ctx)
		return snapErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondWithEmbed(s, i, build(snapshot), true))
}

func (f *Feature) checkRole(i *discordgo.InteractionCreate, roleID int64) error {
	guildID, err := common.GuildID(i)
	if err != nil {
		return err
	}
	moderatorID, err := common.InvokerID(i)
	if err != nil {
		return err
	}
	return common.CheckAssignableRole(context.Background(), f.gateway, guildID, moderatorID, roleID)
}

// parseLink accepts only links to messages in the current guild
func (f *Feature) parseLink(i *discordgo.InteractionCreate, raw string) (*utils.MessageLink, error) {
	link, err := utils.ParseMessageLink(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	guildID, err := common.GuildID(i)
	if err != nil {
		return nil, err
	}
	if link.GuildID != guildID {
		return nil, common.NewUserError("That message is not in this server.", "message link points to another guild")
	}
	return link, nil
}

// parseEmojiList splits a space separated emoji list into reaction keys
func parseEmojiList(raw string) []string {
	fields := strings.Fields(raw)
	emojis := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		key := utils.NormalizeReactionEmoji(field)
		if seen[key] {
			continue
		}
		seen[key] = true
		emojis = append(emojis, key)
	}
	return emojis
}
