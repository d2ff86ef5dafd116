package settings

import (
	"warden/bot/common"
	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildSettingsEmbed(settings *entities.GuildSettings) *discordgo.MessageEmbed {
	card := "Off"
	if settings.WelcomeCardEnabled {
		card = "On"
	}

	return &discordgo.MessageEmbed{
		Title: "⚙️ Server settings",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Mod log", Value: common.OptionalChannel(settings.ModLogChannelID), Inline: true},
			{Name: "Jail role", Value: common.OptionalRole(settings.JailRoleID), Inline: true},
			{Name: "Jail channel", Value: common.OptionalChannel(settings.JailChannelID), Inline: true},
			{Name: "Welcome", Value: common.OptionalChannel(settings.WelcomeChannelID), Inline: true},
			{Name: "Leave", Value: common.OptionalChannel(settings.LeaveChannelID), Inline: true},
			{Name: "Boost", Value: common.OptionalChannel(settings.BoostChannelID), Inline: true},
			{Name: "Welcome card", Value: card, Inline: true},
			{Name: "Booster base role", Value: common.OptionalRole(settings.BoosterBaseRoleID), Inline: true},
			{Name: "Welcome message", Value: templateField(settings.WelcomeTemplate())},
			{Name: "Leave message", Value: templateField(settings.LeaveTemplate())},
			{Name: "Boost message", Value: templateField(settings.BoostTemplate())},
		},
	}
}

func templateField(tpl string) string {
	return "```" + common.Truncate(tpl, common.MaxFieldValue-8) + "```"
}
