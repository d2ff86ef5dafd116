package cmd

import (
	"testing"
	"time"

	"warden/config"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.DiscordToken = "token"
	cfg.GuildID = "42"
	cfg.MusicDefaultVolume = 80

	bc := botConfig(cfg)
	assert.Equal(t, "token", bc.Token)
	assert.Equal(t, "42", bc.GuildID)
	assert.Equal(t, 80, bc.Music.DefaultVolume)
	assert.Equal(t, 300*time.Second, bc.Music.IdleTimeout)
	assert.Nil(t, bc.Lavalink)

	cfg.LavalinkAddress = "lavalink:2333"
	cfg.LavalinkPassword = "secret"
	bc = botConfig(cfg)
	require.NotNil(t, bc.Lavalink)
	assert.Equal(t, "main", bc.Lavalink.Name)
	assert.Equal(t, "lavalink:2333", bc.Lavalink.Address)
	assert.Equal(t, "secret", bc.Lavalink.Password)
}

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	cfg := config.NewTestConfig()
	cfg.LogLevel = "warn"
	cfg.Environment = "production"
	configureLogging(cfg)
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	cfg.LogLevel = "nonsense"
	cfg.Environment = "development"
	configureLogging(cfg)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
}
