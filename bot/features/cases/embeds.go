package cases

import (
	"fmt"
	"strings"

	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

// BuildCaseEmbed renders a case as posted to the mod log
func BuildCaseEmbed(modCase *entities.ModCase) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "User",
			Value:  fmt.Sprintf("%s (`%d`)", common.UserMention(modCase.TargetID), modCase.TargetID),
			Inline: true,
		},
		{
			Name:   "Moderator",
			Value:  common.UserMention(modCase.ModeratorID),
			Inline: true,
		},
	}
	if modCase.HasDuration() {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Duration",
			Value:  utils.HumanDuration(modCase.Duration()),
			Inline: true,
		})
	}
	if modCase.RoleID != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Role",
			Value:  common.RoleMention(*modCase.RoleID),
			Inline: true,
		})
	}
	fields = append(fields, &discordgo.MessageEmbedField{
		Name:  "Reason",
		Value: common.Truncate(common.FormatReason(modCase.Reason), common.MaxFieldValue),
	})

	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%s Case #%d | %s", modCase.Action.Emoji(), modCase.CaseNumber, modCase.Action.Title()),
		Color:  modCase.Action.Colour(),
		Fields: fields,
	}
	if !modCase.CreatedAt.IsZero() {
		embed.Timestamp = modCase.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return embed
}

func buildHistoryEmbed(userID int64, cases []*entities.ModCase, total, page, pages int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📋 Case history",
		Color: common.ColorInfo,
	}
	if total == 0 {
		embed.Description = fmt.Sprintf("%s has a clean record.", common.UserMention(userID))
		return embed
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s has %s\n\n", common.UserMention(userID), common.Plural(total, "case", "cases"))
	for _, c := range cases {
		fmt.Fprintf(&sb, "`#%d` %s **%s** %s | %s\n",
			c.CaseNumber, c.Action.Emoji(), c.Action.Title(), humanize.Time(c.CreatedAt), common.Truncate(c.Reason, 80))
	}
	embed.Description = common.Truncate(sb.String(), common.MaxEmbedDescription)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d of %d", page+1, pages)}
	return embed
}
