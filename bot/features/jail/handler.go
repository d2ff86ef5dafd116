package jail

import (
	"context"
	"fmt"
	"time"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	jailRoleName    = "Jailed"
	jailChannelName = "jail"
	setupLockTTL    = 5 * time.Minute
	overwriteLimit  = 5
)

// handleSetup creates (or reuses) the jail role and channel and hides every other channel from the role
func (f *Feature) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.RequirePermission(i, discordgo.PermissionAdministrator, "Administrator"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupLockTTL)
	defer cancel()

	release, err := f.locker.Acquire(ctx, fmt.Sprintf("jail-setup:%d", guildID), setupLockTTL)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	defer release()

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	var settings *entities.GuildSettings
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var getErr error
		settings, getErr = application.NewGuildSettingsService(uow).GetOrCreateSettings(ctx, guildID)
		return getErr
	})
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	roleID, err := f.ensureRole(ctx, s, i.GuildID, settings.JailRoleID)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	channelID, err := f.ensureChannel(ctx, s, i.GuildID, roleID, settings.JailChannelID)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	hidden, err := hideChannels(ctx, s, i.GuildID, roleID, channelID)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	roleInt, _ := common.ParseID(roleID)
	channelInt, _ := common.ParseID(channelID)
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return application.NewGuildSettingsService(uow).UpdateJail(ctx, guildID, &roleInt, &channelInt)
	})
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":   guildID,
		"role_id":    roleID,
		"channel_id": channelID,
		"channels":   hidden,
	}).Info("Jail configured")

	message := fmt.Sprintf("Jail ready: role <@&%s>, channel <#%s>. Hidden %s from the role.",
		roleID, channelID, common.Plural(hidden, "channel", "channels"))
	common.LogResponseError(i, common.FollowUpSuccess(s, i, message, true))
}

// ensureRole returns the configured jail role when it still exists, otherwise creates one
func (f *Feature) ensureRole(ctx context.Context, s *discordgo.Session, guildID string, configured *int64) (string, error) {
	if configured != nil {
		roles, err := common.GuildRoles(ctx, s, guildID)
		if err != nil {
			return "", err
		}
		if role := common.FindRole(roles, common.FormatID(*configured)); role != nil {
			return role.ID, nil
		}
	}

	perms := int64(0)
	hoist := false
	role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        jailRoleName,
		Permissions: &perms,
		Hoist:       &hoist,
	}, discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Jail setup"))
	if err != nil {
		return "", fmt.Errorf("failed to create jail role: %w", err)
	}
	return role.ID, nil
}

// ensureChannel returns the configured jail channel when it still exists, otherwise creates one
func (f *Feature) ensureChannel(ctx context.Context, s *discordgo.Session, guildID, roleID string, configured *int64) (string, error) {
	if configured != nil {
		if channel, err := s.Channel(common.FormatID(*configured), discordgo.WithContext(ctx)); err == nil {
			return channel.ID, nil
		}
	}

	channel, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:  jailChannelName,
		Type:  discordgo.ChannelTypeGuildText,
		Topic: "Jailed members can talk to moderators here.",
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    roleID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
			},
		},
	}, discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Jail setup"))
	if err != nil {
		return "", fmt.Errorf("failed to create jail channel: %w", err)
	}
	return channel.ID, nil
}

// hideChannels denies the jail role view access on every channel but the jail channel
func hideChannels(ctx context.Context, s *discordgo.Session, guildID, roleID, jailChannelID string) (int, error) {
	channels, err := s.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to list channels: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overwriteLimit)

	count := 0
	for _, channel := range channels {
		if channel.ID == jailChannelID {
			continue
		}
		count++
		channelID := channel.ID
		g.Go(func() error {
			err := s.ChannelPermissionSet(channelID, roleID, discordgo.PermissionOverwriteTypeRole,
				0, discordgo.PermissionViewChannel, discordgo.WithContext(gctx))
			if err != nil {
				return fmt.Errorf("failed to hide channel %s: %w", channelID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return count, nil
}

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.runAction(s, i, opts, func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error) {
		return svc.Jail(ctx, req)
	})
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.runAction(s, i, opts, func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error) {
		return svc.Unjail(ctx, req)
	})
}

func (f *Feature) runAction(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts common.Options,
	action func(context.Context, interfaces.ModerationService, interfaces.ModerationRequest) (*entities.ModCase, error),
) {
	if err := common.RequirePermission(i, discordgo.PermissionManageRoles, "Manage Roles"); err != nil {
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

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	ctx := context.Background()
	req := interfaces.ModerationRequest{
		ModeratorID: moderatorID,
		TargetID:    opts.ID("user"),
		Reason:      opts.String("reason"),
	}

	var modCase *entities.ModCase
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var actionErr error
		modCase, actionErr = action(ctx, application.NewModerationService(uow, guildID, f.gateway), req)
		return actionErr
	})
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	observability.GetMetrics().RecordModerationAction(string(modCase.Action))
	common.LogResponseError(i, common.FollowUpWithEmbed(s, i, buildJailEmbed(modCase), false))
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.RequirePermission(i, discordgo.PermissionManageRoles, "Manage Roles"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var jailed []*entities.JailedMember
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var listErr error
		jailed, listErr = application.NewModerationService(uow, guildID, f.gateway).JailedMembers(ctx)
		return listErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.LogResponseError(i, common.RespondWithEmbed(s, i, buildListEmbed(jailed), true))
}
