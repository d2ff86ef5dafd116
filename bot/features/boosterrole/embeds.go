package boosterrole

import (
	"fmt"
	"strings"

	"warden/bot/common"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildListEmbed(records []*entities.BoosterRole) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Booster roles",
		Color: common.ColorPrimary,
	}
	if len(records) == 0 {
		embed.Description = "Nobody has a booster role yet."
		return embed
	}

	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("%s → %s", common.UserMention(r.UserID), common.RoleMention(r.RoleID))
	}
	embed.Description = common.Truncate(strings.Join(lines, "\n"), common.MaxEmbedDescription)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: common.Plural(len(records), "booster role", "booster roles")}
	return embed
}
