package bot

import (
	"context"
	"strconv"
	"time"

	"warden/application"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// listenerTimeout bounds the work done for a single gateway event
const listenerTimeout = 30 * time.Second

// registerListeners attaches the gateway event handlers
func (b *Bot) registerListeners() {
	b.session.AddHandler(b.handleGuildCreate)
	b.session.AddHandler(b.handleMemberAdd)
	b.session.AddHandler(b.handleMemberRemove)
	b.session.AddHandler(b.handleMemberUpdate)
	b.session.AddHandler(b.handleMessageCreate)
	b.session.AddHandler(b.handleReactionAdd)
	b.session.AddHandler(b.handleReactionRemove)
	b.session.AddHandler(b.handleVoiceStateUpdate)
	b.session.AddHandler(b.handleVoiceServerUpdate)
}

func listenerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), listenerTimeout)
}

// handleGuildCreate makes sure every guild the bot sees has a settings row
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx, cancel := listenerContext()
	defer cancel()

	guildID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	err = application.RunInUnitOfWork(ctx, b.uowFactory, guildID, func(uow application.UnitOfWork) error {
		_, err := application.NewGuildSettingsService(uow).GetOrCreateSettings(ctx, guildID)
		return err
	})
	if err != nil {
		log.Errorf("Failed to track guild %s (%s): %v", g.Name, g.ID, err)
		return
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"name":    g.Name,
		"members": g.MemberCount,
	}).Info("Guild available")
}

// handleMemberAdd re-applies the jail first; jailed members skip autoroles
func (b *Bot) handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	ctx, cancel := listenerContext()
	defer cancel()

	if m.Member == nil || m.User == nil {
		return
	}

	if !b.jail.OnMemberAdd(ctx, m.Member) {
		b.autoFeature.ApplyAutoRoles(ctx, m.Member)
	}
	b.welcome.OnMemberAdd(ctx, m.Member)
}

func (b *Bot) handleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	ctx, cancel := listenerContext()
	defer cancel()

	if m.Member == nil || m.User == nil {
		return
	}
	b.welcome.OnMemberRemove(ctx, m.GuildID, m.User)
}

// handleMemberUpdate detects boosts starting and ending
func (b *Bot) handleMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	if m.Member == nil || m.User == nil || m.BeforeUpdate == nil {
		return
	}

	wasBoosting := m.BeforeUpdate.PremiumSince != nil
	isBoosting := m.PremiumSince != nil
	if wasBoosting == isBoosting {
		return
	}

	ctx, cancel := listenerContext()
	defer cancel()

	if isBoosting {
		b.welcome.OnBoost(ctx, m.Member)
		return
	}

	guildID, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		return
	}
	userID, err := strconv.ParseInt(m.User.ID, 10, 64)
	if err != nil {
		return
	}
	b.boosterRole.OnBoostEnd(ctx, guildID, userID)
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.GuildID == "" {
		return
	}
	// Skip our own messages to avoid loops
	if s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	ctx, cancel := listenerContext()
	defer cancel()
	b.autoFeature.OnMessageCreate(ctx, m)
}

func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" {
		return
	}
	ctx, cancel := listenerContext()
	defer cancel()
	b.autoFeature.OnReactionAdd(ctx, r)
}

func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.GuildID == "" {
		return
	}
	ctx, cancel := listenerContext()
	defer cancel()
	b.autoFeature.OnReactionRemove(ctx, r)
}

func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if b.music == nil {
		return
	}
	ctx, cancel := listenerContext()
	defer cancel()
	b.music.OnVoiceStateUpdate(ctx, vs)
}

func (b *Bot) handleVoiceServerUpdate(s *discordgo.Session, vs *discordgo.VoiceServerUpdate) {
	if b.music == nil {
		return
	}
	ctx, cancel := listenerContext()
	defer cancel()
	b.music.OnVoiceServerUpdate(ctx, vs)
}
