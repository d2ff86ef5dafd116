package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// commandHandler is a feature that owns one or more slash commands
type commandHandler interface {
	HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate)
	Commands() []*discordgo.ApplicationCommand
}

// features lists every enabled command feature
func (b *Bot) features() []commandHandler {
	features := []commandHandler{
		b.moderation,
		b.jail,
		b.cases,
		b.lockdown,
		b.purge,
		b.roles,
		b.settings,
		b.autoFeature,
		b.boosterRole,
		b.emoji,
		b.reminders,
	}
	if b.music != nil {
		features = append(features, b.music)
	}
	return features
}

// buildCommandTable maps each command name to its feature and collects the definitions to register
func (b *Bot) buildCommandTable() error {
	table := make(map[string]commandHandler)
	var definitions []*discordgo.ApplicationCommand

	for _, feature := range b.features() {
		for _, cmd := range feature.Commands() {
			if _, exists := table[cmd.Name]; exists {
				return fmt.Errorf("command %q registered twice", cmd.Name)
			}
			table[cmd.Name] = feature
			definitions = append(definitions, cmd)
		}
	}

	b.commands = table
	b.definitions = definitions
	return nil
}

// registerCommands overwrites the slash commands with Discord.
// An empty guild id registers them globally.
func (b *Bot) registerCommands() error {
	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, b.definitions)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	log.WithFields(log.Fields{
		"count":   len(registered),
		"guildID": b.config.GuildID,
	}).Info("Registered slash commands")
	return nil
}
