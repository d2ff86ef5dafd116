package boosterrole

import (
	"context"
	"fmt"
	"strings"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	maxRoleName   = 100
	maxGuildRoles = 250
)

var errNotBooster = common.NewUserError("Only server boosters can use this.", "booster role used by non-booster")

// requireBooster rejects members who are not boosting the server
func requireBooster(i *discordgo.InteractionCreate) error {
	if i.Member == nil || i.Member.PremiumSince == nil {
		return errNotBooster
	}
	return nil
}

// handleCreate creates the caller's role, or edits it when one already exists
func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.createOrUpdate(s, i, opts.String("color"), strings.TrimSpace(opts.String("name")))
}

// handleColor recolours the caller's role, creating it when missing
func (f *Feature) handleColor(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.createOrUpdate(s, i, opts.String("color"), "")
}

func (f *Feature) createOrUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, rawColor, name string) {
	if err := requireBooster(i); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
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
	colour, err := utils.ParseHexColor(rawColor)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var (
		settings *entities.GuildSettings
		existing *entities.BoosterRole
	)
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var getErr error
		if settings, getErr = application.NewGuildSettingsService(uow).GetOrCreateSettings(ctx, guildID); getErr != nil {
			return getErr
		}
		existing, getErr = application.NewBoosterRoleService(uow, guildID).Get(ctx, userID)
		return getErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if !settings.HasBoosterBaseRole() {
		common.HandleError(s, i, common.NewUserError(
			"The base role has not been set yet. Ask a moderator to run `/boosterrole base`.",
			"booster base role missing"), false)
		return
	}

	roles, err := common.GuildRoles(ctx, s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if existing != nil {
		if role := common.FindRole(roles, common.FormatID(existing.RoleID)); role != nil {
			params := &discordgo.RoleParams{Color: &colour}
			if name != "" {
				params.Name = name
			}
			if _, err := s.GuildRoleEdit(i.GuildID, role.ID, params, discordgo.WithContext(ctx)); err != nil {
				common.HandleError(s, i, err, false)
				return
			}
			if !common.HasRole(i.Member, role.ID) {
				if err := s.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, role.ID,
					discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Booster role")); err != nil {
					common.HandleError(s, i, err, false)
					return
				}
			}
			embed := common.SuccessEmbed(fmt.Sprintf("Updated %s to `%s`.", common.RoleMention(existing.RoleID), utils.FormatHexColor(colour)))
			embed.Color = colour
			common.LogResponseError(i, common.RespondWithEmbed(s, i, embed, true))
			return
		}
	}

	if len(roles) >= maxGuildRoles {
		common.HandleError(s, i, common.NewUserError("This server has reached the role limit.", "guild role limit reached"), false)
		return
	}
	base := common.FindRole(roles, common.FormatID(*settings.BoosterBaseRoleID))
	if base == nil {
		common.HandleError(s, i, common.NewUserError(
			"The base role no longer exists. Ask a moderator to set a new one.",
			"booster base role deleted"), false)
		return
	}

	if name == "" {
		name = common.Truncate(common.GetDisplayName(i.Member)+"'s role", maxRoleName)
	}
	role, err := s.GuildRoleCreate(i.GuildID, &discordgo.RoleParams{
		Name:  name,
		Color: &colour,
	}, discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Booster role"))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if _, err := s.GuildRoleReorder(i.GuildID, []*discordgo.Role{{ID: role.ID, Position: belowPosition(base.Position)}},
		discordgo.WithContext(ctx)); err != nil {
		log.WithError(err).WithField("guild_id", guildID).Warn("Failed to move booster role under the base role")
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, role.ID,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Booster role")); err != nil {
		f.discardRole(ctx, i.GuildID, role.ID)
		common.HandleError(s, i, common.NewUserError("I don't have permission to give you that role.", "booster role assign failed"), false)
		return
	}

	roleID, _ := common.ParseID(role.ID)
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return application.NewBoosterRoleService(uow, guildID).Assign(ctx, userID, roleID)
	})
	if err != nil {
		f.discardRole(ctx, i.GuildID, role.ID)
		common.HandleError(s, i, err, false)
		return
	}

	embed := common.SuccessEmbed(fmt.Sprintf("Created %s.", common.RoleMention(roleID)))
	embed.Color = colour
	common.LogResponseError(i, common.RespondWithEmbed(s, i, embed, true))
}

// belowPosition returns the slot directly under position, never the @everyone slot
func belowPosition(position int) int {
	if position <= 1 {
		return 1
	}
	return position - 1
}

func (f *Feature) discardRole(ctx context.Context, guildID, roleID string) {
	if err := f.session.GuildRoleDelete(guildID, roleID, discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason("Booster role setup failed")); err != nil {
		log.WithError(err).WithField("role_id", roleID).Warn("Failed to delete orphaned booster role")
	}
}

func (f *Feature) handleRename(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if err := requireBooster(i); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	name := strings.TrimSpace(opts.String("name"))
	if name == "" {
		common.HandleError(s, i, common.NewUserError("The name cannot be empty.", "empty booster role name"), false)
		return
	}

	role, err := f.ownRole(s, i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if _, err := s.GuildRoleEdit(i.GuildID, role.ID, &discordgo.RoleParams{Name: name}, discordgo.WithContext(context.Background())); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, fmt.Sprintf("Renamed your booster role to **%s**.", name), true))
}

// ownRole returns the caller's booster role when both the record and the role exist
func (f *Feature) ownRole(s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.Role, error) {
	guildID, err := common.GuildID(i)
	if err != nil {
		return nil, err
	}
	userID, err := common.InvokerID(i)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	var record *entities.BoosterRole
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var getErr error
		record, getErr = application.NewBoosterRoleService(uow, guildID).Get(ctx, userID)
		return getErr
	})
	if err != nil {
		return nil, err
	}
	noRole := common.NewUserError("You don't have a booster role yet. Use `/boosterrole create`.", "booster role missing")
	if record == nil {
		return nil, noRole
	}

	roles, err := common.GuildRoles(ctx, s, i.GuildID)
	if err != nil {
		return nil, err
	}
	role := common.FindRole(roles, common.FormatID(record.RoleID))
	if role == nil {
		return nil, noRole
	}
	return role, nil
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := requireBooster(i); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
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
	var removed *entities.BoosterRole
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var removeErr error
		removed, removeErr = application.NewBoosterRoleService(uow, guildID).Remove(ctx, userID)
		return removeErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if removed == nil {
		common.HandleError(s, i, common.NewUserError("You don't have a booster role.", "booster role missing"), false)
		return
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, "Removed your booster role.", true))
}

func (f *Feature) handleBase(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if err := common.RequirePermission(i, discordgo.PermissionManageRoles, "Manage Roles"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	roleID := opts.OptionalID("role")
	ctx := context.Background()
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return application.NewGuildSettingsService(uow).UpdateBoosterBaseRole(ctx, guildID, roleID)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	message := "Booster base role cleared."
	if roleID != nil {
		message = fmt.Sprintf("Booster roles will be placed under %s.", common.RoleMention(*roleID))
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, message, true))
}

// handleCleanup removes records whose owner left, stopped boosting, or lost the role
func (f *Feature) handleCleanup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.RequirePermission(i, discordgo.PermissionManageRoles, "Manage Roles"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	ctx := context.Background()
	var records []*entities.BoosterRole
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var listErr error
		records, listErr = application.NewBoosterRoleService(uow, guildID).List(ctx)
		return listErr
	})
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	roles, err := common.GuildRoles(ctx, s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	active := make(map[int64]bool, len(records))
	for _, record := range records {
		member, err := common.GuildMember(ctx, s, i.GuildID, common.FormatID(record.UserID))
		if err != nil {
			common.HandleError(s, i, err, true)
			return
		}
		active[record.UserID] = keepsBoosterRole(member, roles, record.RoleID)
	}

	var removed int
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		svc := application.NewBoosterRoleService(uow, guildID)
		stale, staleErr := svc.Stale(ctx, active)
		if staleErr != nil {
			return staleErr
		}
		for _, record := range stale {
			if _, err := svc.Remove(ctx, record.UserID); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"removed":  removed,
	}).Info("Booster roles cleaned up")

	message := "There are no booster roles to clean up."
	if removed > 0 {
		message = fmt.Sprintf("Cleaned up %s.", common.Plural(removed, "booster role", "booster roles"))
	}
	common.LogResponseError(i, common.FollowUpSuccess(s, i, message, true))
}

// keepsBoosterRole reports whether member still boosts and wears the role
func keepsBoosterRole(member *discordgo.Member, roles []*discordgo.Role, roleID int64) bool {
	if member == nil || member.PremiumSince == nil {
		return false
	}
	id := common.FormatID(roleID)
	return common.FindRole(roles, id) != nil && common.HasRole(member, id)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var records []*entities.BoosterRole
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var listErr error
		records, listErr = application.NewBoosterRoleService(uow, guildID).List(ctx)
		return listErr
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondWithEmbed(s, i, buildListEmbed(records), true))
}

// OnBoostEnd removes the member's booster role once they stop boosting
func (f *Feature) OnBoostEnd(ctx context.Context, guildID, userID int64) {
	var removed *entities.BoosterRole
	err := application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var removeErr error
		removed, removeErr = application.NewBoosterRoleService(uow, guildID).Remove(ctx, userID)
		return removeErr
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id": guildID,
			"user_id":  userID,
		}).Error("Failed to remove booster role after boost ended")
		return
	}
	if removed != nil {
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"user_id":  userID,
			"role_id":  removed.RoleID,
		}).Info("Booster role removed after boost ended")
	}
}
