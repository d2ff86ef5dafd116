package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"warden/database"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `env:"DISCORD_TOKEN"`
	GuildID      string `env:"GUILD_ID"` // Development guild; empty registers commands globally

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// Logging and error reporting
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN string `env:"SENTRY_DSN"`

	// Redis backs the distributed guild locks; empty falls back to in-process locks
	RedisURL string `env:"REDIS_URL"`

	// NATS configuration; empty keeps events on the local bus only
	NATSServers string `env:"NATS_SERVERS"`

	// Lavalink configuration; empty address disables music
	LavalinkNodeName string `env:"LAVALINK_NODE_NAME" envDefault:"main"`
	LavalinkAddress  string `env:"LAVALINK_ADDRESS"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE" envDefault:"false"`

	// Music player tuning
	MusicDefaultVolume int           `env:"MUSIC_DEFAULT_VOLUME" envDefault:"65"`
	MusicIdleTimeout   time.Duration `env:"MUSIC_IDLE_TIMEOUT" envDefault:"300s"`
	MusicLeaveTimeout  time.Duration `env:"MUSIC_LEAVE_TIMEOUT" envDefault:"60s"`
	MusicAutoplayLead  time.Duration `env:"MUSIC_AUTOPLAY_LEAD" envDefault:"15s"`

	// Workers
	ReminderPollInterval time.Duration `env:"REMINDER_POLL_INTERVAL" envDefault:"30s"`
	MassRoleRate         float64       `env:"MASS_ROLE_RATE" envDefault:"5"` // role edits per second

	// Status API port; 0 disables it
	StatusAPIPort int `env:"STATUS_API_PORT" envDefault:"8899"`

	// OpenTelemetry configuration
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"`
	OTelOTLPEndpoint         string `env:"OTEL_OTLP_ENDPOINT" envDefault:"otel-collector:4317"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"warden"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MILLIS" envDefault:"30000"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
				instance.DiscordToken = "test-token"
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// MusicEnabled reports whether a Lavalink node is configured
func (c *Config) MusicEnabled() bool {
	return c.LavalinkAddress != ""
}

// IsProduction reports whether the bot runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from the environment, reading a .env file first when present
func load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks required values; the test environment skips validation
func (c *Config) validate() error {
	if c.Environment == "test" {
		return nil
	}

	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	if c.MusicDefaultVolume < 0 || c.MusicDefaultVolume > 100 {
		return fmt.Errorf("MUSIC_DEFAULT_VOLUME must be between 0 and 100")
	}
	if c.MassRoleRate <= 0 {
		return fmt.Errorf("MASS_ROLE_RATE must be positive")
	}
	switch c.OTelExporterType {
	case "console", "otlp", "none":
	default:
		return fmt.Errorf("OTEL_EXPORTER_TYPE must be one of console, otlp, none")
	}

	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:          "test",
		LogLevel:             "debug",
		LavalinkNodeName:     "main",
		MusicDefaultVolume:   65,
		MusicIdleTimeout:     300 * time.Second,
		MusicLeaveTimeout:    60 * time.Second,
		MusicAutoplayLead:    15 * time.Second,
		ReminderPollInterval: 30 * time.Second,
		MassRoleRate:         5,
		OTelExporterType:     "none",
		OTelServiceName:      "warden-test",
	}
}
