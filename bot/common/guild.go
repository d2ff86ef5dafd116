package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// GuildRoles returns the guild's roles, from state when cached
func GuildRoles(ctx context.Context, s *discordgo.Session, guildID string) ([]*discordgo.Role, error) {
	if guild, err := s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	roles, err := s.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get roles for guild %s: %w", guildID, err)
	}
	return roles, nil
}

// GuildMember returns the member from state, falling back to the API.
// A member that is not in the guild yields (nil, nil).
func GuildMember(ctx context.Context, s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if member, err := s.State.Member(guildID, userID); err == nil {
		return member, nil
	}
	member, err := s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member %s: %w", userID, err)
	}
	return member, nil
}

// TopRolePosition returns the highest position among the given role ids
func TopRolePosition(roles []*discordgo.Role, roleIDs []string) int {
	held := make(map[string]bool, len(roleIDs))
	for _, id := range roleIDs {
		held[id] = true
	}
	top := 0
	for _, role := range roles {
		if held[role.ID] && role.Position > top {
			top = role.Position
		}
	}
	return top
}

// FindRole returns the role with the id, or nil
func FindRole(roles []*discordgo.Role, roleID string) *discordgo.Role {
	for _, role := range roles {
		if role.ID == roleID {
			return role
		}
	}
	return nil
}

// HasRole reports whether a member holds the role
func HasRole(member *discordgo.Member, roleID string) bool {
	for _, id := range member.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// IsNotFound reports a 404 or an "unknown ..." API error
func IsNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return true
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser, discordgo.ErrCodeUnknownRole,
			discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownBan:
			return true
		}
	}
	return false
}
