package automation

import (
	"fmt"
	"strings"

	"warden/bot/common"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildRespondersEmbed(responders []*entities.AutoResponder) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Autoresponders",
		Color: common.ColorPrimary,
	}
	if len(responders) == 0 {
		embed.Description = "No autoresponders configured."
		return embed
	}

	for _, r := range responders {
		if len(embed.Fields) == common.MaxEmbedFields {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Showing %d of %d", common.MaxEmbedFields, len(responders)),
			}
			break
		}
		var flags []string
		if r.Strict {
			flags = append(flags, "strict")
		}
		if r.Reply {
			flags = append(flags, "reply")
		}
		name := r.Trigger
		if len(flags) > 0 {
			name = fmt.Sprintf("%s (%s)", r.Trigger, strings.Join(flags, ", "))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  common.Truncate(name, 256),
			Value: common.Truncate(r.Response, common.MaxFieldValue),
		})
	}
	return embed
}

func buildReactionsEmbed(reactions []*entities.AutoReaction) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Autoreactions",
		Color: common.ColorPrimary,
	}
	if len(reactions) == 0 {
		embed.Description = "No autoreactions configured."
		return embed
	}

	lines := make([]string, 0, len(reactions))
	for _, r := range reactions {
		rendered := make([]string, len(r.Emojis))
		for i, e := range r.Emojis {
			rendered[i] = renderEmoji(e)
		}
		lines = append(lines, fmt.Sprintf("`%s` → %s", r.Trigger, strings.Join(rendered, " ")))
	}
	embed.Description = common.Truncate(strings.Join(lines, "\n"), common.MaxEmbedDescription)
	return embed
}

func buildAutoRolesEmbed(autoRoles []*entities.AutoRole) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Autoroles",
		Color: common.ColorPrimary,
	}
	if len(autoRoles) == 0 {
		embed.Description = "No autoroles configured."
		return embed
	}

	mentions := make([]string, len(autoRoles))
	for i, r := range autoRoles {
		mentions[i] = common.RoleMention(r.RoleID)
	}
	embed.Description = strings.Join(mentions, "\n")
	return embed
}

func buildReactionRolesEmbed(guildID int64, bindings []*entities.ReactionRole) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Reaction roles",
		Color: common.ColorPrimary,
	}
	if len(bindings) == 0 {
		embed.Description = "No reaction roles configured."
		return embed
	}

	// Group by message, keeping first-seen order
	var order []int64
	byMessage := make(map[int64][]*entities.ReactionRole)
	for _, b := range bindings {
		if _, ok := byMessage[b.MessageID]; !ok {
			order = append(order, b.MessageID)
		}
		byMessage[b.MessageID] = append(byMessage[b.MessageID], b)
	}

	var sb strings.Builder
	for _, messageID := range order {
		group := byMessage[messageID]
		fmt.Fprintf(&sb, "[Message](%s)\n", common.MessageLink(guildID, group[0].ChannelID, messageID))
		for _, b := range group {
			fmt.Fprintf(&sb, "%s → %s\n", renderEmoji(b.Emoji), common.RoleMention(b.RoleID))
		}
	}
	embed.Description = common.Truncate(strings.TrimSpace(sb.String()), common.MaxEmbedDescription)
	return embed
}

// renderEmoji turns a stored "name:id" key back into a mention
func renderEmoji(key string) string {
	if name, id, ok := strings.Cut(key, ":"); ok {
		return fmt.Sprintf("<:%s:%s>", name, id)
	}
	return key
}
