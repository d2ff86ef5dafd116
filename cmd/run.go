package cmd

import (
	"context"
	"fmt"
	"time"

	"warden/bot"
	"warden/config"
	"warden/database"
	"warden/domain/interfaces"
	audio "warden/domain/music"
	"warden/events"
	"warden/infrastructure"
	"warden/infrastructure/lavalink"
	"warden/infrastructure/observability"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()
	configureLogging(cfg)
	log.Info("Starting warden bot...")

	// Initialize error reporting
	if cfg.SentryDSN != "" {
		log.Info("Initializing Sentry...")
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			return fmt.Errorf("failed to initialize sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
		log.AddHook(infrastructure.NewSentryHook(nil))
		log.Info("Sentry initialized successfully")
	}

	// Initialize metrics
	log.Info("Initializing metrics...")
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.Warnf("Failed to initialize metrics, continuing without them: %v", err)
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	log.Info("Initializing event bus...")
	eventBus := events.NewBus()
	var publisher interfaces.EventPublisher = eventBus
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		log.Infof("Connecting to NATS at %s...", cfg.NATSServers)
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			db.Close()
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		natsPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper(), eventBus)
		if err := natsPublisher.EnsureEventStream(natsClient); err != nil {
			log.Warnf("Failed to ensure event stream, events stay local: %v", err)
		}
		publisher = natsPublisher
	}
	log.Info("Event bus initialized successfully")

	// Initialize unit of work factory
	log.Info("Initializing unit of work factory...")
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)
	log.Info("Unit of work factory initialized successfully")

	// Initialize guild locks
	var locker interfaces.Locker
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		log.Info("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			db.Close()
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			db.Close()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		locker = infrastructure.NewRedisLocker(redisClient)
		log.Info("Redis locks initialized successfully")
	} else {
		locker = infrastructure.NewMemoryLocker()
		log.Info("Using in-process locks")
	}

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(botConfig(cfg), uowFactory, eventBus, locker)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Errorf("Error closing Redis client: %v", err)
		}
	}
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Errorf("Error closing NATS client: %v", err)
		}
	}

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Errorf("Error shutting down metrics: %v", err)
	}

	// Close database connection
	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}

// configureLogging applies the log level and formatter for the environment
func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// botConfig maps the application config onto the bot's
func botConfig(cfg *config.Config) bot.Config {
	defaults := audio.DefaultOptions()
	bc := bot.Config{
		Token:                cfg.DiscordToken,
		GuildID:              cfg.GuildID,
		StatusAPIPort:        cfg.StatusAPIPort,
		MassRoleRate:         cfg.MassRoleRate,
		ReminderPollInterval: cfg.ReminderPollInterval,
		Music: audio.Options{
			DefaultVolume:      cfg.MusicDefaultVolume,
			IdleTimeout:        cfg.MusicIdleTimeout,
			LeaveTimeout:       cfg.MusicLeaveTimeout,
			AutoplayLead:       cfg.MusicAutoplayLead,
			MaxRecommendations: defaults.MaxRecommendations,
		},
	}
	if cfg.MusicEnabled() {
		bc.Lavalink = &lavalink.NodeConfig{
			Name:     cfg.LavalinkNodeName,
			Address:  cfg.LavalinkAddress,
			Password: cfg.LavalinkPassword,
			Secure:   cfg.LavalinkSecure,
		}
	}
	return bc
}
