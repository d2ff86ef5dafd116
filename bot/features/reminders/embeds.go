package reminders

import (
	"fmt"
	"strings"

	"warden/bot/common"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildListEmbed(pending []*entities.Reminder) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Your reminders",
		Color: common.ColorInfo,
	}
	if len(pending) == 0 {
		embed.Description = "You have no pending reminders."
		return embed
	}

	lines := make([]string, len(pending))
	for i, r := range pending {
		lines[i] = fmt.Sprintf("`#%d` %s in %s\n%s",
			r.ID,
			common.FormatDiscordTimestamp(r.RemindAt, "R"),
			common.ChannelMention(r.ChannelID),
			common.Truncate(r.Message, 100))
	}
	embed.Description = common.Truncate(strings.Join(lines, "\n\n"), common.MaxEmbedDescription)
	return embed
}
