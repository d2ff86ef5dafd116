package jail

import (
	"fmt"
	"strings"

	"warden/bot/common"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildJailEmbed(modCase *entities.ModCase) *discordgo.MessageEmbed {
	verb := "jailed"
	if modCase.Action == entities.CaseActionUnjail {
		verb = "released from jail"
	}
	return &discordgo.MessageEmbed{
		Description: fmt.Sprintf("%s %s was **%s** | %s",
			modCase.Action.Emoji(), common.UserMention(modCase.TargetID), verb, modCase.Reason),
		Color:  modCase.Action.Colour(),
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%d", modCase.CaseNumber)},
	}
}

func buildListEmbed(jailed []*entities.JailedMember) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "⛓️ Jailed members",
		Color: common.ColorDanger,
	}
	if len(jailed) == 0 {
		embed.Description = "Nobody is jailed."
		return embed
	}

	var sb strings.Builder
	for _, m := range jailed {
		line := fmt.Sprintf("%s since %s | %s\n",
			common.UserMention(m.UserID), common.FormatDiscordTimestamp(m.JailedAt, "R"), common.Truncate(m.Reason, 100))
		if sb.Len()+len(line) > common.MaxEmbedDescription-16 {
			sb.WriteString("…")
			break
		}
		sb.WriteString(line)
	}
	embed.Description = sb.String()
	return embed
}
