package repository

import (
	"context"
	"fmt"

	"warden/domain/entities"
	"warden/domain/interfaces"
)

type autoResponderRepository struct {
	q       Queryable
	guildID int64
}

// NewAutoResponderRepositoryScoped creates an autoresponder repository scoped to a guild
func NewAutoResponderRepositoryScoped(q Queryable, guildID int64) interfaces.AutoResponderRepository {
	return &autoResponderRepository{q: q, guildID: guildID}
}

func (r *autoResponderRepository) Upsert(ctx context.Context, responder *entities.AutoResponder) error {
	query := `
		INSERT INTO auto_responders (guild_id, trigger, response, strict, reply)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (guild_id, (LOWER(trigger))) DO UPDATE
		SET trigger = EXCLUDED.trigger,
		    response = EXCLUDED.response,
		    strict = EXCLUDED.strict,
		    reply = EXCLUDED.reply
		RETURNING id
	`

	responder.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		responder.Trigger,
		responder.Response,
		responder.Strict,
		responder.Reply,
	).Scan(&responder.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert autoresponder: %w", err)
	}
	return nil
}

func (r *autoResponderRepository) Delete(ctx context.Context, trigger string) (bool, error) {
	result, err := r.q.Exec(ctx,
		`DELETE FROM auto_responders WHERE guild_id = $1 AND LOWER(trigger) = LOWER($2)`,
		r.guildID, trigger,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete autoresponder: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *autoResponderRepository) List(ctx context.Context) ([]*entities.AutoResponder, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, guild_id, trigger, response, strict, reply
		FROM auto_responders
		WHERE guild_id = $1
		ORDER BY id
	`, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query autoresponders: %w", err)
	}
	defer rows.Close()

	var responders []*entities.AutoResponder
	for rows.Next() {
		var a entities.AutoResponder
		if err := rows.Scan(&a.ID, &a.GuildID, &a.Trigger, &a.Response, &a.Strict, &a.Reply); err != nil {
			return nil, fmt.Errorf("failed to scan autoresponder: %w", err)
		}
		responders = append(responders, &a)
	}
	return responders, rows.Err()
}

type autoReactionRepository struct {
	q       Queryable
	guildID int64
}

// NewAutoReactionRepositoryScoped creates an autoreaction repository scoped to a guild
func NewAutoReactionRepositoryScoped(q Queryable, guildID int64) interfaces.AutoReactionRepository {
	return &autoReactionRepository{q: q, guildID: guildID}
}

func (r *autoReactionRepository) Upsert(ctx context.Context, reaction *entities.AutoReaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO auto_reactions (guild_id, trigger, emojis)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, trigger) DO UPDATE SET emojis = EXCLUDED.emojis
	`, r.guildID, reaction.Trigger, reaction.Emojis)
	if err != nil {
		return fmt.Errorf("failed to upsert autoreaction: %w", err)
	}
	reaction.GuildID = r.guildID
	return nil
}

func (r *autoReactionRepository) Delete(ctx context.Context, trigger string) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM auto_reactions WHERE guild_id = $1 AND trigger = $2`, r.guildID, trigger)
	if err != nil {
		return false, fmt.Errorf("failed to delete autoreaction: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *autoReactionRepository) List(ctx context.Context) ([]*entities.AutoReaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT guild_id, trigger, emojis
		FROM auto_reactions
		WHERE guild_id = $1
		ORDER BY trigger
	`, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query autoreactions: %w", err)
	}
	defer rows.Close()

	var reactions []*entities.AutoReaction
	for rows.Next() {
		var a entities.AutoReaction
		if err := rows.Scan(&a.GuildID, &a.Trigger, &a.Emojis); err != nil {
			return nil, fmt.Errorf("failed to scan autoreaction: %w", err)
		}
		reactions = append(reactions, &a)
	}
	return reactions, rows.Err()
}

type autoRoleRepository struct {
	q       Queryable
	guildID int64
}

// NewAutoRoleRepositoryScoped creates an autorole repository scoped to a guild
func NewAutoRoleRepositoryScoped(q Queryable, guildID int64) interfaces.AutoRoleRepository {
	return &autoRoleRepository{q: q, guildID: guildID}
}

func (r *autoRoleRepository) Add(ctx context.Context, roleID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `
		INSERT INTO auto_roles (guild_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, r.guildID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to add autorole: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *autoRoleRepository) Remove(ctx context.Context, roleID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM auto_roles WHERE guild_id = $1 AND role_id = $2`, r.guildID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to remove autorole: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *autoRoleRepository) List(ctx context.Context) ([]*entities.AutoRole, error) {
	rows, err := r.q.Query(ctx, `SELECT guild_id, role_id FROM auto_roles WHERE guild_id = $1 ORDER BY role_id`, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query autoroles: %w", err)
	}
	defer rows.Close()

	var roles []*entities.AutoRole
	for rows.Next() {
		var a entities.AutoRole
		if err := rows.Scan(&a.GuildID, &a.RoleID); err != nil {
			return nil, fmt.Errorf("failed to scan autorole: %w", err)
		}
		roles = append(roles, &a)
	}
	return roles, rows.Err()
}

type reactionRoleRepository struct {
	q       Queryable
	guildID int64
}

// NewReactionRoleRepositoryScoped creates a reaction role repository scoped to a guild
func NewReactionRoleRepositoryScoped(q Queryable, guildID int64) interfaces.ReactionRoleRepository {
	return &reactionRoleRepository{q: q, guildID: guildID}
}

func (r *reactionRoleRepository) Upsert(ctx context.Context, binding *entities.ReactionRole) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO reaction_roles (guild_id, channel_id, message_id, emoji, role_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (guild_id, message_id, emoji) DO UPDATE
		SET role_id = EXCLUDED.role_id, channel_id = EXCLUDED.channel_id
	`, r.guildID, binding.ChannelID, binding.MessageID, binding.Emoji, binding.RoleID)
	if err != nil {
		return fmt.Errorf("failed to upsert reaction role: %w", err)
	}
	binding.GuildID = r.guildID
	return nil
}

func (r *reactionRoleRepository) Delete(ctx context.Context, messageID int64, emoji string) (bool, error) {
	result, err := r.q.Exec(ctx,
		`DELETE FROM reaction_roles WHERE guild_id = $1 AND message_id = $2 AND emoji = $3`,
		r.guildID, messageID, emoji,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete reaction role: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *reactionRoleRepository) DeleteForMessage(ctx context.Context, messageID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM reaction_roles WHERE guild_id = $1 AND message_id = $2`, r.guildID, messageID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear reaction roles: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *reactionRoleRepository) ListForMessage(ctx context.Context, messageID int64) ([]*entities.ReactionRole, error) {
	return r.query(ctx, `
		SELECT guild_id, channel_id, message_id, emoji, role_id
		FROM reaction_roles
		WHERE guild_id = $1 AND message_id = $2
		ORDER BY emoji
	`, r.guildID, messageID)
}

func (r *reactionRoleRepository) List(ctx context.Context) ([]*entities.ReactionRole, error) {
	return r.query(ctx, `
		SELECT guild_id, channel_id, message_id, emoji, role_id
		FROM reaction_roles
		WHERE guild_id = $1
		ORDER BY message_id, emoji
	`, r.guildID)
}

func (r *reactionRoleRepository) query(ctx context.Context, query string, args ...any) ([]*entities.ReactionRole, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reaction roles: %w", err)
	}
	defer rows.Close()

	var bindings []*entities.ReactionRole
	for rows.Next() {
		var b entities.ReactionRole
		if err := rows.Scan(&b.GuildID, &b.ChannelID, &b.MessageID, &b.Emoji, &b.RoleID); err != nil {
			return nil, fmt.Errorf("failed to scan reaction role: %w", err)
		}
		bindings = append(bindings, &b)
	}
	return bindings, rows.Err()
}
