package utils

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// MemberVars holds the values substituted into welcome, leave and boost messages
type MemberVars struct {
	UserID      int64
	Username    string
	DisplayName string
	AvatarURL   string
	GuildID     int64
	GuildName   string
	MemberCount int
	BoostCount  int
}

// RenderMemberTemplate replaces {user.*} and {guild.*} variables.
// Unknown variables are left as written.
func RenderMemberTemplate(tpl string, vars MemberVars) string {
	mention := "<@" + strconv.FormatInt(vars.UserID, 10) + ">"
	displayName := vars.DisplayName
	if displayName == "" {
		displayName = vars.Username
	}

	// Longer keys first so {guild.member_count.ordinal} wins over {guild.member_count}
	r := strings.NewReplacer(
		"{guild.member_count.ordinal}", humanize.Ordinal(vars.MemberCount),
		"{guild.member_count}", strconv.Itoa(vars.MemberCount),
		"{guild.boost_count}", strconv.Itoa(vars.BoostCount),
		"{guild.name}", vars.GuildName,
		"{guild.id}", strconv.FormatInt(vars.GuildID, 10),
		"{user.mention}", mention,
		"{user.name}", vars.Username,
		"{user.display_name}", displayName,
		"{user.id}", strconv.FormatInt(vars.UserID, 10),
		"{user.avatar}", vars.AvatarURL,
		"{user}", mention,
	)
	return r.Replace(tpl)
}
