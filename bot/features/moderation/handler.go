package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/domain/utils"
	"warden/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// actionFunc performs one moderation action inside a unit of work
type actionFunc func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error)

// runAction defers the reply, runs the action, and reports the recorded case
func (f *Feature) runAction(s *discordgo.Session, i *discordgo.InteractionCreate, perm int64, permName string, targetID int64, reason string, action actionFunc) {
	if err := common.RequirePermission(i, perm, permName); err != nil {
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
		TargetID:    targetID,
		Reason:      reason,
	}

	var modCase *entities.ModCase
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		svc := application.NewModerationService(uow, guildID, f.gateway)
		var actionErr error
		modCase, actionErr = action(ctx, svc, req)
		return actionErr
	})
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	observability.GetMetrics().RecordModerationAction(string(modCase.Action))
	log.WithFields(log.Fields{
		"guild_id":     guildID,
		"case_number":  modCase.CaseNumber,
		"action":       modCase.Action,
		"target_id":    targetID,
		"moderator_id": moderatorID,
	}).Info("Moderation action recorded")

	common.LogResponseError(i, common.FollowUpWithEmbed(s, i, buildActionEmbed(modCase), false))
}

func (f *Feature) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	days := int(opts.Int("delete_days", 0))

	f.runAction(s, i, discordgo.PermissionBanMembers, "Ban Members", opts.ID("user"), opts.String("reason"),
		func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error) {
			return svc.Ban(ctx, req, days)
		})
}

func (f *Feature) handleUnban(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	targetID, err := common.ParseID(strings.TrimSpace(opts.String("user_id")))
	if err != nil {
		common.HandleError(s, i, common.NewUserError("That is not a valid user ID.", "invalid unban id"), false)
		return
	}

	f.runAction(s, i, discordgo.PermissionBanMembers, "Ban Members", targetID, opts.String("reason"),
		func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error) {
			return svc.Unban(ctx, req)
		})
}

func (f *Feature) handleKick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	f.runAction(s, i, discordgo.PermissionKickMembers, "Kick Members", opts.ID("user"), opts.String("reason"),
		func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error) {
			return svc.Kick(ctx, req)
		})
}

func (f *Feature) handleTimeout(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	duration, err := utils.ParseDuration(opts.String("duration"))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	f.runAction(s, i, discordgo.PermissionModerateMembers, "Timeout Members", opts.ID("user"), opts.String("reason"),
		func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error) {
			return svc.Timeout(ctx, req, duration)
		})
}

func (f *Feature) handleUntimeout(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	f.runAction(s, i, discordgo.PermissionModerateMembers, "Timeout Members", opts.ID("user"), opts.String("reason"),
		func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error) {
			return svc.Untimeout(ctx, req)
		})
}

func (f *Feature) handleNickname(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	nickname := strings.TrimSpace(opts.String("nickname"))
	reason := "Nickname reset"
	if nickname != "" {
		reason = "Nickname set to " + nickname
	}

	f.runAction(s, i, discordgo.PermissionManageNicknames, "Manage Nicknames", opts.ID("user"), reason,
		func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error) {
			return svc.SetNickname(ctx, req, nickname)
		})
}

// handleWarn routes the /warn subcommands
func (f *Feature) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i.ApplicationCommandData())
	switch sub {
	case "add":
		f.runAction(s, i, discordgo.PermissionModerateMembers, "Timeout Members", opts.ID("user"), opts.String("reason"),
			func(ctx context.Context, svc interfaces.ModerationService, req interfaces.ModerationRequest) (*entities.ModCase, error) {
				return svc.Warn(ctx, req)
			})
	case "list":
		f.handleWarnList(s, i, opts)
	case "remove":
		f.handleWarnRemove(s, i, opts)
	case "clear":
		f.handleWarnClear(s, i, opts)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

func (f *Feature) handleWarnList(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
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
	userID := opts.ID("user")

	var warnings []*entities.Warning
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var listErr error
		warnings, listErr = application.NewModerationService(uow, guildID, f.gateway).Warnings(ctx, userID)
		return listErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.LogResponseError(i, common.RespondWithEmbed(s, i, buildWarningsEmbed(userID, warnings), true))
}

func (f *Feature) handleWarnRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
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
	warningID := opts.Int("id", 0)

	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return application.NewModerationService(uow, guildID, f.gateway).RemoveWarning(ctx, warningID)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.LogResponseError(i, common.RespondSuccess(s, i, fmt.Sprintf("Removed warning #%d", warningID), true))
}

func (f *Feature) handleWarnClear(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
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
	userID := opts.ID("user")

	var removed int64
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var clearErr error
		removed, clearErr = application.NewModerationService(uow, guildID, f.gateway).ClearWarnings(ctx, userID)
		return clearErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	message := fmt.Sprintf("Cleared %s for %s", common.Plural(int(removed), "warning", "warnings"), common.UserMention(userID))
	common.LogResponseError(i, common.RespondSuccess(s, i, message, true))
}

// pastTense maps an action to the verb used in confirmations
func pastTense(action entities.CaseAction) string {
	switch action {
	case entities.CaseActionBan:
		return "banned"
	case entities.CaseActionUnban:
		return "unbanned"
	case entities.CaseActionKick:
		return "kicked"
	case entities.CaseActionTimeout:
		return "timed out"
	case entities.CaseActionUntimeout:
		return "released from timeout"
	case entities.CaseActionWarn:
		return "warned"
	case entities.CaseActionJail:
		return "jailed"
	case entities.CaseActionUnjail:
		return "released from jail"
	case entities.CaseActionNickname:
		return "renamed"
	}
	return string(action)
}

func durationSuffix(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return " for " + utils.HumanDuration(d)
}
