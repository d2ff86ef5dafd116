package common

import (
	"context"

	"warden/domain/interfaces"
	"warden/domain/services"
)

// CheckAssignableRole verifies the moderator and the bot both outrank the role
// and that the role is not managed by an integration
func CheckAssignableRole(ctx context.Context, gateway interfaces.ModerationGateway, guildID, moderatorID, roleID int64) error {
	role, err := gateway.Role(ctx, guildID, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return services.ErrRoleNotFound
	}
	if role.Managed || role.ID == guildID {
		return services.ErrRoleManaged
	}

	guild, err := gateway.Guild(ctx, guildID)
	if err != nil {
		return err
	}
	if moderatorID != guild.OwnerID {
		moderator, err := gateway.Member(ctx, guildID, moderatorID)
		if err != nil {
			return err
		}
		if moderator == nil || moderator.TopRolePosition <= role.Position {
			return services.ErrRoleTooHigh
		}
	}

	bot, err := gateway.Member(ctx, guildID, gateway.BotUserID())
	if err != nil {
		return err
	}
	if bot == nil || bot.TopRolePosition <= role.Position {
		return services.ErrBotRoleTooHigh
	}
	return nil
}
