package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"warden/domain/entities"
	"warden/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Timeout bounds enforced by the platform
const (
	MinTimeout = time.Minute
	MaxTimeout = 28 * 24 * time.Hour
)

type moderationService struct {
	guildID           int64
	gateway           interfaces.ModerationGateway
	caseService       interfaces.CaseService
	warningRepo       interfaces.WarningRepository
	jailRepo          interfaces.JailRepository
	guildSettingsRepo interfaces.GuildSettingsRepository
	now               func() time.Time
}

// NewModerationService creates a moderation service scoped to one guild
func NewModerationService(
	guildID int64,
	gateway interfaces.ModerationGateway,
	caseService interfaces.CaseService,
	warningRepo interfaces.WarningRepository,
	jailRepo interfaces.JailRepository,
	guildSettingsRepo interfaces.GuildSettingsRepository,
) interfaces.ModerationService {
	return &moderationService{
		guildID:           guildID,
		gateway:           gateway,
		caseService:       caseService,
		warningRepo:       warningRepo,
		jailRepo:          jailRepo,
		guildSettingsRepo: guildSettingsRepo,
		now:               time.Now,
	}
}

// CheckHierarchy applies the moderation rules in order: self, bot, owner,
// moderator rank, bot rank. A target outside the guild only gets the first three.
func (s *moderationService) CheckHierarchy(ctx context.Context, moderatorID, targetID int64) error {
	if moderatorID == targetID {
		return ErrCannotTargetSelf
	}
	if targetID == s.gateway.BotUserID() {
		return ErrCannotTargetBot
	}

	guild, err := s.gateway.Guild(ctx, s.guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild: %w", err)
	}
	if targetID == guild.OwnerID {
		return ErrTargetIsOwner
	}

	target, err := s.gateway.Member(ctx, s.guildID, targetID)
	if err != nil {
		return fmt.Errorf("failed to get target member: %w", err)
	}
	if target == nil {
		return nil
	}

	if moderatorID != guild.OwnerID {
		moderator, err := s.gateway.Member(ctx, s.guildID, moderatorID)
		if err != nil {
			return fmt.Errorf("failed to get moderator member: %w", err)
		}
		if moderator == nil || moderator.TopRolePosition <= target.TopRolePosition {
			return ErrTargetOutranks
		}
	}

	bot, err := s.gateway.Member(ctx, s.guildID, s.gateway.BotUserID())
	if err != nil {
		return fmt.Errorf("failed to get bot member: %w", err)
	}
	if bot == nil || bot.TopRolePosition <= target.TopRolePosition {
		return ErrBotOutranked
	}

	return nil
}

// Ban bans a user, who does not need to be in the guild
func (s *moderationService) Ban(ctx context.Context, req interfaces.ModerationRequest, deleteMessageDays int) (*entities.ModCase, error) {
	if err := s.CheckHierarchy(ctx, req.ModeratorID, req.TargetID); err != nil {
		return nil, err
	}
	if deleteMessageDays < 0 {
		deleteMessageDays = 0
	}
	if deleteMessageDays > 7 {
		deleteMessageDays = 7
	}

	s.notify(ctx, req, "banned")

	if err := s.gateway.Ban(ctx, s.guildID, req.TargetID, auditReason(req), deleteMessageDays); err != nil {
		return nil, fmt.Errorf("failed to ban member: %w", err)
	}

	return s.record(ctx, req, entities.CaseActionBan, 0, nil)
}

// Unban lifts a ban; hierarchy does not apply to users outside the guild
func (s *moderationService) Unban(ctx context.Context, req interfaces.ModerationRequest) (*entities.ModCase, error) {
	if err := s.gateway.Unban(ctx, s.guildID, req.TargetID, auditReason(req)); err != nil {
		return nil, fmt.Errorf("failed to unban user: %w", err)
	}
	return s.record(ctx, req, entities.CaseActionUnban, 0, nil)
}

// Kick removes a member from the guild
func (s *moderationService) Kick(ctx context.Context, req interfaces.ModerationRequest) (*entities.ModCase, error) {
	if err := s.checkMember(ctx, req); err != nil {
		return nil, err
	}

	s.notify(ctx, req, "kicked")

	if err := s.gateway.Kick(ctx, s.guildID, req.TargetID, auditReason(req)); err != nil {
		return nil, fmt.Errorf("failed to kick member: %w", err)
	}

	return s.record(ctx, req, entities.CaseActionKick, 0, nil)
}

// Timeout mutes a member for the given duration
func (s *moderationService) Timeout(ctx context.Context, req interfaces.ModerationRequest, duration time.Duration) (*entities.ModCase, error) {
	if duration < MinTimeout || duration > MaxTimeout {
		return nil, ErrTimeoutOutOfRange
	}
	if err := s.checkMember(ctx, req); err != nil {
		return nil, err
	}

	s.notify(ctx, req, "timed out")

	until := s.now().Add(duration)
	if err := s.gateway.Timeout(ctx, s.guildID, req.TargetID, &until, auditReason(req)); err != nil {
		return nil, fmt.Errorf("failed to timeout member: %w", err)
	}

	return s.record(ctx, req, entities.CaseActionTimeout, duration, nil)
}

// Untimeout clears a member's timeout
func (s *moderationService) Untimeout(ctx context.Context, req interfaces.ModerationRequest) (*entities.ModCase, error) {
	if err := s.checkMember(ctx, req); err != nil {
		return nil, err
	}

	if err := s.gateway.Timeout(ctx, s.guildID, req.TargetID, nil, auditReason(req)); err != nil {
		return nil, fmt.Errorf("failed to remove timeout: %w", err)
	}

	return s.record(ctx, req, entities.CaseActionUntimeout, 0, nil)
}

// Warn records a warn case and a warning row linked to it
func (s *moderationService) Warn(ctx context.Context, req interfaces.ModerationRequest) (*entities.ModCase, error) {
	if err := s.checkMember(ctx, req); err != nil {
		return nil, err
	}

	modCase, err := s.record(ctx, req, entities.CaseActionWarn, 0, nil)
	if err != nil {
		return nil, err
	}

	caseNumber := modCase.CaseNumber
	warning := &entities.Warning{
		GuildID:     s.guildID,
		UserID:      req.TargetID,
		ModeratorID: req.ModeratorID,
		Reason:      modCase.Reason,
		CaseNumber:  &caseNumber,
	}
	if err := s.warningRepo.Create(ctx, warning); err != nil {
		return nil, fmt.Errorf("failed to create warning: %w", err)
	}

	return modCase, nil
}

// Jail strips a member's roles, stores them, and assigns the jail role
func (s *moderationService) Jail(ctx context.Context, req interfaces.ModerationRequest) (*entities.ModCase, error) {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, s.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	if !settings.HasJail() {
		return nil, ErrJailNotConfigured
	}
	jailRoleID := *settings.JailRoleID

	if err := s.CheckHierarchy(ctx, req.ModeratorID, req.TargetID); err != nil {
		return nil, err
	}

	existing, err := s.jailRepo.Get(ctx, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check jail record: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyJailed
	}

	member, err := s.gateway.Member(ctx, s.guildID, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	unassignable, err := s.gateway.UnassignableRoleIDs(ctx, s.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unassignable roles: %w", err)
	}

	// Unassignable roles stay on the member because the platform refuses to remove them
	stored := make([]int64, 0, len(member.RoleIDs))
	newRoles := []int64{jailRoleID}
	for _, roleID := range member.RoleIDs {
		switch {
		case roleID == jailRoleID:
		case unassignable[roleID]:
			newRoles = append(newRoles, roleID)
		default:
			stored = append(stored, roleID)
		}
	}

	s.notify(ctx, req, "jailed")

	if err := s.gateway.SetRoles(ctx, s.guildID, req.TargetID, newRoles, auditReason(req)); err != nil {
		return nil, fmt.Errorf("failed to replace member roles: %w", err)
	}

	if err := s.jailRepo.Create(ctx, &entities.JailedMember{
		GuildID:     s.guildID,
		UserID:      req.TargetID,
		RoleIDs:     stored,
		ModeratorID: req.ModeratorID,
		Reason:      normalizeReason(req.Reason),
	}); err != nil {
		return nil, fmt.Errorf("failed to store jail record: %w", err)
	}

	return s.record(ctx, req, entities.CaseActionJail, 0, nil)
}

// Unjail restores the stored roles and removes the jail record
func (s *moderationService) Unjail(ctx context.Context, req interfaces.ModerationRequest) (*entities.ModCase, error) {
	record, err := s.jailRepo.Get(ctx, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get jail record: %w", err)
	}
	if record == nil {
		return nil, ErrNotJailed
	}

	if err := s.CheckHierarchy(ctx, req.ModeratorID, req.TargetID); err != nil {
		return nil, err
	}

	member, err := s.gateway.Member(ctx, s.guildID, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	// A member who left keeps nothing to restore; the record is still cleared
	if member != nil {
		settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, s.guildID)
		if err != nil {
			return nil, fmt.Errorf("failed to get guild settings: %w", err)
		}

		restorable, err := s.restorableRoles(ctx, record.RoleIDs)
		if err != nil {
			return nil, err
		}

		roles := make([]int64, 0, len(restorable)+len(member.RoleIDs))
		roles = append(roles, restorable...)
		for _, roleID := range member.RoleIDs {
			if settings.HasJail() && roleID == *settings.JailRoleID {
				continue
			}
			if !slices.Contains(roles, roleID) {
				roles = append(roles, roleID)
			}
		}

		if err := s.gateway.SetRoles(ctx, s.guildID, req.TargetID, roles, auditReason(req)); err != nil {
			return nil, fmt.Errorf("failed to restore member roles: %w", err)
		}
	}

	if _, err := s.jailRepo.Delete(ctx, req.TargetID); err != nil {
		return nil, fmt.Errorf("failed to delete jail record: %w", err)
	}

	return s.record(ctx, req, entities.CaseActionUnjail, 0, nil)
}

// AddRole grants a role after checking both member and role hierarchy
func (s *moderationService) AddRole(ctx context.Context, req interfaces.ModerationRequest, roleID int64) (*entities.ModCase, error) {
	if err := s.checkRoleChange(ctx, req, roleID); err != nil {
		return nil, err
	}

	if err := s.gateway.AddRole(ctx, s.guildID, req.TargetID, roleID, auditReason(req)); err != nil {
		return nil, fmt.Errorf("failed to add role: %w", err)
	}

	return s.record(ctx, req, entities.CaseActionRoleAdd, 0, &roleID)
}

// RemoveRole revokes a role after checking both member and role hierarchy
func (s *moderationService) RemoveRole(ctx context.Context, req interfaces.ModerationRequest, roleID int64) (*entities.ModCase, error) {
	if err := s.checkRoleChange(ctx, req, roleID); err != nil {
		return nil, err
	}

	if err := s.gateway.RemoveRole(ctx, s.guildID, req.TargetID, roleID, auditReason(req)); err != nil {
		return nil, fmt.Errorf("failed to remove role: %w", err)
	}

	return s.record(ctx, req, entities.CaseActionRoleRemove, 0, &roleID)
}

// SetNickname changes or resets a member's nickname
func (s *moderationService) SetNickname(ctx context.Context, req interfaces.ModerationRequest, nickname string) (*entities.ModCase, error) {
	if err := s.checkMember(ctx, req); err != nil {
		return nil, err
	}

	if err := s.gateway.SetNickname(ctx, s.guildID, req.TargetID, nickname, auditReason(req)); err != nil {
		return nil, fmt.Errorf("failed to set nickname: %w", err)
	}

	return s.record(ctx, req, entities.CaseActionNickname, 0, nil)
}

// Warnings lists a member's warnings
func (s *moderationService) Warnings(ctx context.Context, userID int64) ([]*entities.Warning, error) {
	warnings, err := s.warningRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	return warnings, nil
}

// RemoveWarning deletes a single warning
func (s *moderationService) RemoveWarning(ctx context.Context, warningID int64) error {
	deleted, err := s.warningRepo.Delete(ctx, warningID)
	if err != nil {
		return fmt.Errorf("failed to delete warning: %w", err)
	}
	if !deleted {
		return ErrWarningNotFound
	}
	return nil
}

// ClearWarnings deletes all of a member's warnings
func (s *moderationService) ClearWarnings(ctx context.Context, userID int64) (int64, error) {
	count, err := s.warningRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings: %w", err)
	}
	return count, nil
}

// JailedMembers lists current jail records
func (s *moderationService) JailedMembers(ctx context.Context) ([]*entities.JailedMember, error) {
	members, err := s.jailRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jailed members: %w", err)
	}
	return members, nil
}

// IsJailed reports whether a member has a jail record
func (s *moderationService) IsJailed(ctx context.Context, userID int64) (bool, error) {
	record, err := s.jailRepo.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get jail record: %w", err)
	}
	return record != nil, nil
}

// restorableRoles drops stored roles that were deleted or moved out of the
// bot's reach while the member was jailed; the platform rejects the whole
// edit if any of them is sent
func (s *moderationService) restorableRoles(ctx context.Context, stored []int64) ([]int64, error) {
	unassignable, err := s.gateway.UnassignableRoleIDs(ctx, s.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unassignable roles: %w", err)
	}

	roles := make([]int64, 0, len(stored))
	for _, roleID := range stored {
		if unassignable[roleID] {
			continue
		}
		role, err := s.gateway.Role(ctx, s.guildID, roleID)
		if err != nil {
			return nil, fmt.Errorf("failed to get role %d: %w", roleID, err)
		}
		if role == nil {
			continue
		}
		roles = append(roles, roleID)
	}
	return roles, nil
}

// checkMember runs the hierarchy check and requires the target to be in the guild
func (s *moderationService) checkMember(ctx context.Context, req interfaces.ModerationRequest) error {
	if err := s.CheckHierarchy(ctx, req.ModeratorID, req.TargetID); err != nil {
		return err
	}

	member, err := s.gateway.Member(ctx, s.guildID, req.TargetID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return ErrMemberNotFound
	}
	return nil
}

func (s *moderationService) checkRoleChange(ctx context.Context, req interfaces.ModerationRequest, roleID int64) error {
	if err := s.checkMember(ctx, req); err != nil {
		return err
	}

	role, err := s.gateway.Role(ctx, s.guildID, roleID)
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return ErrRoleNotFound
	}
	if role.Managed {
		return ErrRoleManaged
	}

	guild, err := s.gateway.Guild(ctx, s.guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild: %w", err)
	}
	if req.ModeratorID != guild.OwnerID {
		moderator, err := s.gateway.Member(ctx, s.guildID, req.ModeratorID)
		if err != nil {
			return fmt.Errorf("failed to get moderator member: %w", err)
		}
		if moderator == nil || moderator.TopRolePosition <= role.Position {
			return ErrRoleTooHigh
		}
	}

	bot, err := s.gateway.Member(ctx, s.guildID, s.gateway.BotUserID())
	if err != nil {
		return fmt.Errorf("failed to get bot member: %w", err)
	}
	if bot == nil || bot.TopRolePosition <= role.Position {
		return ErrBotRoleTooHigh
	}
	return nil
}

// notify sends the punishment DM; failures are logged and ignored
func (s *moderationService) notify(ctx context.Context, req interfaces.ModerationRequest, verb string) {
	guildName := "the server"
	if guild, err := s.gateway.Guild(ctx, s.guildID); err == nil && guild.Name != "" {
		guildName = guild.Name
	}

	content := fmt.Sprintf("You have been %s in **%s** | %s", verb, guildName, normalizeReason(req.Reason))
	if err := s.gateway.SendDirectMessage(ctx, req.TargetID, content); err != nil {
		log.WithFields(log.Fields{
			"guild_id":  s.guildID,
			"target_id": req.TargetID,
			"error":     err,
		}).Debug("Could not send moderation DM")
	}
}

func (s *moderationService) record(ctx context.Context, req interfaces.ModerationRequest, action entities.CaseAction, duration time.Duration, roleID *int64) (*entities.ModCase, error) {
	modCase, err := s.caseService.CreateCase(ctx, entities.NewCase{
		Action:      action,
		TargetID:    req.TargetID,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		Duration:    duration,
		RoleID:      roleID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record case: %w", err)
	}
	return modCase, nil
}

// auditReason formats the reason shown in the guild audit log
func auditReason(req interfaces.ModerationRequest) string {
	return fmt.Sprintf("%s (by %d)", normalizeReason(req.Reason), req.ModeratorID)
}

