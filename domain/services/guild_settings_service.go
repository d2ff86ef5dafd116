package services

import (
	"context"
	"fmt"

	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/events"
)

// guildSettingsService implements the GuildSettingsService interface
type guildSettingsService struct {
	guildSettingsRepo interfaces.GuildSettingsRepository
	eventPublisher    interfaces.EventPublisher
}

// NewGuildSettingsService creates a new guild settings service
func NewGuildSettingsService(guildSettingsRepo interfaces.GuildSettingsRepository, eventPublisher interfaces.EventPublisher) interfaces.GuildSettingsService {
	return &guildSettingsService{
		guildSettingsRepo: guildSettingsRepo,
		eventPublisher:    eventPublisher,
	}
}

// GetOrCreateSettings retrieves guild settings or creates default ones if not found
func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild settings: %w", err)
	}
	return settings, nil
}

// UpdateModLogChannel updates the channel receiving case embeds
func (s *guildSettingsService) UpdateModLogChannel(ctx context.Context, guildID int64, channelID *int64) error {
	return s.update(ctx, guildID, "modlog", func(settings *entities.GuildSettings) {
		settings.ModLogChannelID = channelID
	})
}

// UpdateJail stores the jail role and channel
func (s *guildSettingsService) UpdateJail(ctx context.Context, guildID int64, roleID, channelID *int64) error {
	return s.update(ctx, guildID, "jail", func(settings *entities.GuildSettings) {
		settings.SetJail(roleID, channelID)
	})
}

// UpdateWelcome updates the welcome channel and optionally its message
func (s *guildSettingsService) UpdateWelcome(ctx context.Context, guildID int64, channelID *int64, message *string) error {
	return s.update(ctx, guildID, "welcome", func(settings *entities.GuildSettings) {
		settings.WelcomeChannelID = channelID
		if message != nil {
			settings.WelcomeMessage = message
		}
	})
}

// UpdateLeave updates the leave channel and optionally its message
func (s *guildSettingsService) UpdateLeave(ctx context.Context, guildID int64, channelID *int64, message *string) error {
	return s.update(ctx, guildID, "leave", func(settings *entities.GuildSettings) {
		settings.LeaveChannelID = channelID
		if message != nil {
			settings.LeaveMessage = message
		}
	})
}

// UpdateBoost updates the boost channel and optionally its message
func (s *guildSettingsService) UpdateBoost(ctx context.Context, guildID int64, channelID *int64, message *string) error {
	return s.update(ctx, guildID, "boost", func(settings *entities.GuildSettings) {
		settings.BoostChannelID = channelID
		if message != nil {
			settings.BoostMessage = message
		}
	})
}

// SetWelcomeCard toggles the image card attached to welcome messages
func (s *guildSettingsService) SetWelcomeCard(ctx context.Context, guildID int64, enabled bool) error {
	return s.update(ctx, guildID, "welcome_card", func(settings *entities.GuildSettings) {
		settings.WelcomeCardEnabled = enabled
	})
}

// UpdateBoosterBaseRole sets the role booster roles are placed under
func (s *guildSettingsService) UpdateBoosterBaseRole(ctx context.Context, guildID int64, roleID *int64) error {
	return s.update(ctx, guildID, "booster_base_role", func(settings *entities.GuildSettings) {
		settings.BoosterBaseRoleID = roleID
	})
}

func (s *guildSettingsService) update(ctx context.Context, guildID int64, setting string, apply func(*entities.GuildSettings)) error {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	apply(settings)

	if err := s.guildSettingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	if err := s.eventPublisher.Publish(events.SettingsChangedEvent{GuildID: guildID, Setting: setting}); err != nil {
		return fmt.Errorf("failed to publish settings changed event: %w", err)
	}
	return nil
}
