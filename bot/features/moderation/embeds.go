package moderation

import (
	"fmt"
	"strings"

	"warden/bot/common"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

// buildActionEmbed confirms a moderation action in the channel
func buildActionEmbed(modCase *entities.ModCase) *discordgo.MessageEmbed {
	description := fmt.Sprintf("%s %s was **%s**%s | %s",
		modCase.Action.Emoji(),
		common.UserMention(modCase.TargetID),
		pastTense(modCase.Action),
		durationSuffix(modCase.Duration()),
		modCase.Reason,
	)

	return &discordgo.MessageEmbed{
		Description: description,
		Color:       modCase.Action.Colour(),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Case #%d", modCase.CaseNumber),
		},
	}
}

// buildWarningsEmbed lists a member's warnings, newest first
func buildWarningsEmbed(userID int64, warnings []*entities.Warning) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "⚠️ Warnings",
		Color: common.ColorWarning,
	}

	if len(warnings) == 0 {
		embed.Description = fmt.Sprintf("%s has no warnings.", common.UserMention(userID))
		return embed
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s has %s\n\n", common.UserMention(userID), common.Plural(len(warnings), "warning", "warnings"))
	for _, w := range warnings {
		line := fmt.Sprintf("`#%d` %s by %s, %s\n", w.ID, w.Reason, common.UserMention(w.ModeratorID), humanize.Time(w.CreatedAt))
		if sb.Len()+len(line) > common.MaxEmbedDescription-16 {
			sb.WriteString("…")
			break
		}
		sb.WriteString(line)
	}
	embed.Description = sb.String()
	return embed
}
