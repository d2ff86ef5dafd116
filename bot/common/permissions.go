package common

import (
	"github.com/bwmarrin/discordgo"
)

// HasPermission checks the invoking member's resolved permissions.
// Administrator grants everything.
func HasPermission(i *discordgo.InteractionCreate, permission int64) bool {
	if i.Member == nil {
		return false
	}
	perms := i.Member.Permissions
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&permission == permission
}

// IsUserAdmin reports whether the invoker has Administrator
func IsUserAdmin(i *discordgo.InteractionCreate) bool {
	return HasPermission(i, discordgo.PermissionAdministrator)
}

// RequirePermission returns a user error naming the missing permission
func RequirePermission(i *discordgo.InteractionCreate, permission int64, name string) error {
	if HasPermission(i, permission) {
		return nil
	}
	return NewUserError("You need the **"+name+"** permission to do that.", "missing permission "+name)
}
