package bot

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"warden/application"
	"warden/bot/features/automation"
	"warden/bot/features/boosterrole"
	"warden/bot/features/cases"
	"warden/bot/features/emoji"
	"warden/bot/features/jail"
	"warden/bot/features/lockdown"
	"warden/bot/features/moderation"
	"warden/bot/features/music"
	"warden/bot/features/purge"
	"warden/bot/features/reminders"
	"warden/bot/features/roles"
	"warden/bot/features/settings"
	"warden/bot/features/welcome"
	audio "warden/domain/music"
	"warden/domain/interfaces"
	"warden/events"
	"warden/infrastructure"
	"warden/infrastructure/lavalink"
	"warden/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// automationCacheTTL bounds how stale a guild's automation snapshot may get
const automationCacheTTL = 10 * time.Minute

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string

	StatusAPIPort        int
	MassRoleRate         float64
	ReminderPollInterval time.Duration

	// Lavalink is nil when music is disabled
	Lavalink *lavalink.NodeConfig
	Music    audio.Options
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	// Core components
	config     Config
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	bus        *events.Bus
	gateway    interfaces.ModerationGateway
	automation *infrastructure.AutomationCache
	lavalink   *lavalink.Client
	startedAt  time.Time

	// Feature modules
	moderation  *moderation.Feature
	jail        *jail.Feature
	cases       *cases.Feature
	lockdown    *lockdown.Feature
	purge       *purge.Feature
	roles       *roles.Feature
	settings    *settings.Feature
	welcome     *welcome.Feature
	autoFeature *automation.Feature
	boosterRole *boosterrole.Feature
	emoji       *emoji.Feature
	reminders   *reminders.Feature
	music       *music.Feature

	commands    map[string]commandHandler
	definitions []*discordgo.ApplicationCommand

	// Worker cleanup functions
	stopReminderWorker func()
	statusServer       *http.Server
}

// New creates a new bot instance with all features and connects it to Discord
func New(config Config, uowFactory application.UnitOfWorkFactory, bus *events.Bus, locker interfaces.Locker) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:     config,
		session:    dg,
		uowFactory: uowFactory,
		bus:        bus,
		gateway:    NewModerationGateway(dg),
		startedAt:  time.Now(),
	}
	bot.automation = infrastructure.NewAutomationCache(newSnapshotLoader(uowFactory), automationCacheTTL)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	// Create feature modules
	bot.moderation = moderation.NewFeature(dg, uowFactory, bot.gateway)
	bot.jail = jail.NewFeature(dg, uowFactory, bot.gateway, locker)
	bot.cases = cases.NewFeature(dg, uowFactory)
	bot.lockdown = lockdown.NewFeature(dg, locker)
	bot.purge = purge.NewFeature(dg, locker)
	bot.roles = roles.NewFeature(dg, uowFactory, bot.gateway, locker, config.MassRoleRate)
	bot.welcome, err = welcome.NewFeature(dg, uowFactory, httpClient)
	if err != nil {
		return nil, fmt.Errorf("error creating welcome feature: %w", err)
	}
	// Settings previews member messages through the welcome feature
	bot.settings = settings.NewFeature(dg, uowFactory, bot.welcome)
	bot.autoFeature = automation.NewFeature(dg, uowFactory, bot.gateway, bot.automation)
	bot.boosterRole = boosterrole.NewFeature(dg, uowFactory)
	bot.emoji = emoji.NewFeature(httpClient)
	bot.reminders = reminders.NewFeature(dg, uowFactory)

	if config.Lavalink != nil {
		if err := bot.setupMusic(*config.Lavalink); err != nil {
			return nil, err
		}
	} else {
		log.Info("Lavalink not configured, music commands disabled")
	}

	if err := bot.buildCommandTable(); err != nil {
		bot.closeMusic()
		return nil, err
	}
	bot.registerSubscriptions()

	// Register handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)
	bot.registerListeners()

	// Open websocket connection
	if err := dg.Open(); err != nil {
		bot.closeMusic()
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		bot.closeMusic()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start background workers
	bot.stopReminderWorker = bot.StartReminderWorker(context.Background())
	log.Info("Background workers started")

	if config.StatusAPIPort > 0 {
		if err := bot.StartStatusAPI(config.StatusAPIPort); err != nil {
			log.Warnf("Failed to start status API on port %d: %v", config.StatusAPIPort, err)
		}
	}

	return bot, nil
}

// setupMusic connects the Lavalink node and creates the music feature.
// The bot user is fetched over REST because the gateway is not open yet.
func (b *Bot) setupMusic(node lavalink.NodeConfig) error {
	me, err := b.session.User("@me")
	if err != nil {
		return fmt.Errorf("error fetching bot user: %w", err)
	}
	botID, err := strconv.ParseInt(me.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid bot user id %q: %w", me.ID, err)
	}

	client := lavalink.NewClient(botID, b.session)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.Connect(ctx, node); err != nil {
		return err
	}

	b.lavalink = client
	b.music = music.NewFeature(b.session, client, b.config.Music)
	client.Bind(b.music.Players())
	return nil
}

func (b *Bot) closeMusic() {
	if b.music != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.music.StopAll(ctx)
	}
	if b.lavalink != nil {
		b.lavalink.Close()
	}
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	// Stop background workers
	if b.stopReminderWorker != nil {
		b.stopReminderWorker()
	}
	log.Info("Background workers stopped")

	if b.statusServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := b.statusServer.Shutdown(ctx); err != nil {
			log.Warnf("Error stopping status API: %v", err)
		}
		cancel()
	}

	b.closeMusic()

	return b.session.Close()
}

// handleCommands routes slash commands to the feature that registered them
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	handler, ok := b.commands[name]
	if !ok {
		log.WithField("command", name).Warn("Received unknown command")
		return
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordCommand(name)
	}
	handler.HandleCommand(s, i)
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case b.music != nil && music.IsComponent(customID):
		b.music.HandleComponent(s, i)

	case strings.HasPrefix(customID, "history_page:"):
		b.cases.HandleComponent(s, i)
	}
}
