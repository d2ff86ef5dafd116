package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"warden/bot/common"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// discordGateway implements interfaces.ModerationGateway over a discordgo session
type discordGateway struct {
	session *discordgo.Session
}

// NewModerationGateway wraps a session for the moderation service
func NewModerationGateway(s *discordgo.Session) interfaces.ModerationGateway {
	return &discordGateway{session: s}
}

func (g *discordGateway) Guild(ctx context.Context, guildID int64) (*interfaces.GuildInfo, error) {
	id := common.FormatID(guildID)
	guild, err := g.session.State.Guild(id)
	if err != nil {
		guild, err = g.session.Guild(id, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to get guild %d: %w", guildID, err)
		}
	}

	ownerID, _ := strconv.ParseInt(guild.OwnerID, 10, 64)
	return &interfaces.GuildInfo{
		ID:      guildID,
		Name:    guild.Name,
		OwnerID: ownerID,
	}, nil
}

func (g *discordGateway) Member(ctx context.Context, guildID, userID int64) (*interfaces.MemberInfo, error) {
	gid := common.FormatID(guildID)
	member, err := common.GuildMember(ctx, g.session, gid, common.FormatID(userID))
	if err != nil || member == nil {
		return nil, err
	}

	roles, err := common.GuildRoles(ctx, g.session, gid)
	if err != nil {
		return nil, err
	}

	roleIDs := make([]int64, 0, len(member.Roles))
	for _, r := range member.Roles {
		if id, err := strconv.ParseInt(r, 10, 64); err == nil {
			roleIDs = append(roleIDs, id)
		}
	}

	info := &interfaces.MemberInfo{
		UserID:          userID,
		RoleIDs:         roleIDs,
		TopRolePosition: common.TopRolePosition(roles, member.Roles),
	}
	if member.User != nil {
		info.Username = member.User.Username
		info.Bot = member.User.Bot
	}
	return info, nil
}

func (g *discordGateway) BotUserID() int64 {
	if g.session.State == nil || g.session.State.User == nil {
		return 0
	}
	id, _ := strconv.ParseInt(g.session.State.User.ID, 10, 64)
	return id
}

func (g *discordGateway) Role(ctx context.Context, guildID, roleID int64) (*interfaces.RoleInfo, error) {
	roles, err := common.GuildRoles(ctx, g.session, common.FormatID(guildID))
	if err != nil {
		return nil, err
	}
	role := common.FindRole(roles, common.FormatID(roleID))
	if role == nil {
		return nil, nil
	}
	return &interfaces.RoleInfo{
		ID:       roleID,
		Name:     role.Name,
		Position: role.Position,
		Managed:  role.Managed,
	}, nil
}

func (g *discordGateway) UnassignableRoleIDs(ctx context.Context, guildID int64) (map[int64]bool, error) {
	gid := common.FormatID(guildID)
	roles, err := common.GuildRoles(ctx, g.session, gid)
	if err != nil {
		return nil, err
	}

	botTop := 0
	if bot, err := common.GuildMember(ctx, g.session, gid, common.FormatID(g.BotUserID())); err == nil && bot != nil {
		botTop = common.TopRolePosition(roles, bot.Roles)
	}

	result := make(map[int64]bool)
	for _, role := range roles {
		if role.Managed || role.Position >= botTop || role.ID == gid {
			if id, err := strconv.ParseInt(role.ID, 10, 64); err == nil {
				result[id] = true
			}
		}
	}
	return result, nil
}

func (g *discordGateway) Ban(ctx context.Context, guildID, userID int64, reason string, deleteMessageDays int) error {
	return g.session.GuildBanCreateWithReason(common.FormatID(guildID), common.FormatID(userID), reason, deleteMessageDays,
		discordgo.WithContext(ctx))
}

func (g *discordGateway) Unban(ctx context.Context, guildID, userID int64, reason string) error {
	return g.session.GuildBanDelete(common.FormatID(guildID), common.FormatID(userID),
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (g *discordGateway) Kick(ctx context.Context, guildID, userID int64, reason string) error {
	return g.session.GuildMemberDeleteWithReason(common.FormatID(guildID), common.FormatID(userID), reason,
		discordgo.WithContext(ctx))
}

func (g *discordGateway) Timeout(ctx context.Context, guildID, userID int64, until *time.Time, reason string) error {
	return g.session.GuildMemberTimeout(common.FormatID(guildID), common.FormatID(userID), until,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (g *discordGateway) AddRole(ctx context.Context, guildID, userID, roleID int64, reason string) error {
	return g.session.GuildMemberRoleAdd(common.FormatID(guildID), common.FormatID(userID), common.FormatID(roleID),
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (g *discordGateway) RemoveRole(ctx context.Context, guildID, userID, roleID int64, reason string) error {
	return g.session.GuildMemberRoleRemove(common.FormatID(guildID), common.FormatID(userID), common.FormatID(roleID),
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (g *discordGateway) SetRoles(ctx context.Context, guildID, userID int64, roleIDs []int64, reason string) error {
	ids := make([]string, len(roleIDs))
	for i, id := range roleIDs {
		ids[i] = common.FormatID(id)
	}
	_, err := g.session.GuildMemberEdit(common.FormatID(guildID), common.FormatID(userID), &discordgo.GuildMemberParams{
		Roles: &ids,
	}, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return err
}

func (g *discordGateway) SetNickname(ctx context.Context, guildID, userID int64, nickname, reason string) error {
	return g.session.GuildMemberNickname(common.FormatID(guildID), common.FormatID(userID), nickname,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (g *discordGateway) SendDirectMessage(ctx context.Context, userID int64, content string) error {
	channel, err := g.session.UserChannelCreate(common.FormatID(userID), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	if _, err := g.session.ChannelMessageSend(channel.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}
