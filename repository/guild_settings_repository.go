package repository

import (
	"context"
	"errors"
	"fmt"

	"warden/database"
	"warden/domain/entities"
	"warden/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const guildSettingsColumns = `guild_id, mod_log_channel_id, jail_role_id, jail_channel_id,
	welcome_channel_id, welcome_message, leave_channel_id, leave_message,
	boost_channel_id, boost_message, welcome_card_enabled, booster_base_role_id,
	created_at, updated_at`

type guildSettingsRepository struct {
	q Queryable
}

// NewGuildSettingsRepository creates a guild settings repository on the pool
func NewGuildSettingsRepository(db *database.DB) interfaces.GuildSettingsRepository {
	return &guildSettingsRepository{q: db.Pool}
}

func newGuildSettingsRepositoryWithTx(tx Queryable) interfaces.GuildSettingsRepository {
	return &guildSettingsRepository{q: tx}
}

// GetOrCreateGuildSettings retrieves guild settings or creates default ones if not found
func (r *guildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	query := `SELECT ` + guildSettingsColumns + ` FROM guild_settings WHERE guild_id = $1`

	settings, err := scanGuildSettings(r.q.QueryRow(ctx, query, guildID))
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get guild settings for guild %d: %w", guildID, err)
	}

	// ON CONFLICT covers two handlers creating the row at the same time
	insertQuery := `
		INSERT INTO guild_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING ` + guildSettingsColumns

	settings, err = scanGuildSettings(r.q.QueryRow(ctx, insertQuery, guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to create guild settings for guild %d: %w", guildID, err)
	}
	return settings, nil
}

// UpdateGuildSettings updates guild settings
func (r *guildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET mod_log_channel_id = $2,
		    jail_role_id = $3,
		    jail_channel_id = $4,
		    welcome_channel_id = $5,
		    welcome_message = $6,
		    leave_channel_id = $7,
		    leave_message = $8,
		    boost_channel_id = $9,
		    boost_message = $10,
		    welcome_card_enabled = $11,
		    booster_base_role_id = $12,
		    updated_at = NOW()
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		settings.GuildID,
		settings.ModLogChannelID,
		settings.JailRoleID,
		settings.JailChannelID,
		settings.WelcomeChannelID,
		settings.WelcomeMessage,
		settings.LeaveChannelID,
		settings.LeaveMessage,
		settings.BoostChannelID,
		settings.BoostMessage,
		settings.WelcomeCardEnabled,
		settings.BoosterBaseRoleID,
	)
	if err != nil {
		return fmt.Errorf("failed to update guild settings for guild %d: %w", settings.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild settings for guild %d not found", settings.GuildID)
	}
	return nil
}

func scanGuildSettings(row pgx.Row) (*entities.GuildSettings, error) {
	var s entities.GuildSettings
	err := row.Scan(
		&s.GuildID,
		&s.ModLogChannelID,
		&s.JailRoleID,
		&s.JailChannelID,
		&s.WelcomeChannelID,
		&s.WelcomeMessage,
		&s.LeaveChannelID,
		&s.LeaveMessage,
		&s.BoostChannelID,
		&s.BoostMessage,
		&s.WelcomeCardEnabled,
		&s.BoosterBaseRoleID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
