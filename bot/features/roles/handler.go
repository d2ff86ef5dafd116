package roles

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
	"golang.org/x/time/rate"
)

const (
	// Interaction tokens expire after 15 minutes; the summary follow-up has to land before that
	massRoleMaxRun = 14 * time.Minute
	memberPageSize = 1000
)

type massTarget string

const (
	targetAll    massTarget = "all"
	targetHumans massTarget = "humans"
	targetBots   massTarget = "bots"
)

func (f *Feature) handleRoleChange(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options, add bool) {
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

	ctx := context.Background()
	roleID := opts.ID("role")
	req := interfaces.ModerationRequest{
		ModeratorID: moderatorID,
		TargetID:    opts.ID("user"),
	}

	var modCase *entities.ModCase
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		svc := application.NewModerationService(uow, guildID, f.gateway)
		var changeErr error
		if add {
			modCase, changeErr = svc.AddRole(ctx, req, roleID)
		} else {
			modCase, changeErr = svc.RemoveRole(ctx, req, roleID)
		}
		return changeErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	observability.GetMetrics().RecordModerationAction(string(modCase.Action))

	message := fmt.Sprintf("Gave %s to %s", common.RoleMention(roleID), common.UserMention(req.TargetID))
	if !add {
		message = fmt.Sprintf("Removed %s from %s", common.RoleMention(roleID), common.UserMention(req.TargetID))
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, message, false))
}

// massRoleTargets returns the members a mass role run must edit.
// Members that already have (or lack) the role are skipped.
func massRoleTargets(members []*discordgo.Member, roleID string, target massTarget, add bool) []string {
	var ids []string
	for _, m := range members {
		if m.User == nil {
			continue
		}
		switch target {
		case targetHumans:
			if m.User.Bot {
				continue
			}
		case targetBots:
			if !m.User.Bot {
				continue
			}
		}
		if common.HasRole(m, roleID) == add {
			continue
		}
		ids = append(ids, m.User.ID)
	}
	return ids
}

// handleMass validates the run, acknowledges it, and edits members in the background
func (f *Feature) handleMass(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
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

	roleID := opts.ID("role")
	target := massTarget(opts.String("target"))
	add := opts.String("action") != "remove"

	ctx := context.Background()
	if err := common.CheckAssignableRole(ctx, f.gateway, guildID, moderatorID, roleID); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	runCtx, cancel := context.WithTimeout(context.Background(), massRoleMaxRun)
	release, err := f.locker.Acquire(runCtx, fmt.Sprintf("massrole:%d", guildID), massRoleMaxRun)
	if err != nil {
		cancel()
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		release()
		cancel()
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	go func() {
		defer cancel()
		defer release()
		f.runMass(runCtx, s, i, roleID, target, add)
	}()
}

func (f *Feature) runMass(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, roleID int64, target massTarget, add bool) {
	members, err := listMembers(ctx, s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	role := common.FormatID(roleID)
	ids := massRoleTargets(members, role, target, add)
	limiter := rate.NewLimiter(f.editRate, 1)
	reason := fmt.Sprintf("Mass role by %s", common.InteractionUserID(i))

	edited, failed := 0, 0
	for _, userID := range ids {
		if err := limiter.Wait(ctx); err != nil {
			break
		}

		opts := []discordgo.RequestOption{discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason)}
		if add {
			err = s.GuildMemberRoleAdd(i.GuildID, userID, role, opts...)
		} else {
			err = s.GuildMemberRoleRemove(i.GuildID, userID, role, opts...)
		}
		if err != nil {
			failed++
			log.WithFields(log.Fields{
				"guild_id": i.GuildID,
				"user_id":  userID,
				"role_id":  role,
				"error":    err,
			}).Warn("Mass role edit failed")
			continue
		}
		edited++
	}

	log.WithFields(log.Fields{
		"guild_id": i.GuildID,
		"role_id":  role,
		"target":   target,
		"add":      add,
		"edited":   edited,
		"failed":   failed,
		"pending":  len(ids) - edited - failed,
	}).Info("Mass role finished")

	message := massRoleSummary(roleID, add, edited, failed, len(ids))
	if err := common.FollowUpSuccess(s, i, message, false); err != nil {
		// The interaction may have expired; the channel still gets the result
		common.LogResponseError(i, err)
		if _, err := s.ChannelMessageSend(i.ChannelID, message); err != nil {
			log.WithError(err).WithField("guild_id", i.GuildID).Error("Failed to post mass role summary")
		}
	}
}

// massRoleSummary describes a finished run; members never reached count as left
func massRoleSummary(roleID int64, add bool, edited, failed, total int) string {
	verb := "Added"
	if !add {
		verb = "Removed"
	}
	message := fmt.Sprintf("%s %s for %s", verb, common.RoleMention(roleID), common.Plural(edited, "member", "members"))
	if failed > 0 {
		message += fmt.Sprintf(" (%d failed)", failed)
	}
	if left := total - edited - failed; left > 0 {
		message += fmt.Sprintf(" (stopped with %d left)", left)
	}
	return message
}

// listMembers pages through every guild member
func listMembers(ctx context.Context, s *discordgo.Session, guildID string) ([]*discordgo.Member, error) {
	var (
		all   []*discordgo.Member
		after string
	)
	for {
		page, err := s.GuildMembers(guildID, after, memberPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list members: %w", err)
		}
		all = append(all, page...)
		if len(page) < memberPageSize {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}
