package repository

import (
	"context"
	"errors"
	"fmt"

	"warden/domain/entities"
	"warden/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type jailRepository struct {
	q       Queryable
	guildID int64
}

// NewJailRepositoryScoped creates a jail repository scoped to a guild
func NewJailRepositoryScoped(q Queryable, guildID int64) interfaces.JailRepository {
	return &jailRepository{q: q, guildID: guildID}
}

// Get returns nil when the user is not jailed
func (r *jailRepository) Get(ctx context.Context, userID int64) (*entities.JailedMember, error) {
	query := `
		SELECT guild_id, user_id, role_ids, moderator_id, reason, jailed_at
		FROM jailed_members
		WHERE guild_id = $1 AND user_id = $2
	`

	var m entities.JailedMember
	err := r.q.QueryRow(ctx, query, r.guildID, userID).Scan(&m.GuildID, &m.UserID, &m.RoleIDs, &m.ModeratorID, &m.Reason, &m.JailedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get jail record: %w", err)
	}
	return &m, nil
}

// Create inserts a jail record
func (r *jailRepository) Create(ctx context.Context, member *entities.JailedMember) error {
	query := `
		INSERT INTO jailed_members (guild_id, user_id, role_ids, moderator_id, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING jailed_at
	`

	roleIDs := member.RoleIDs
	if roleIDs == nil {
		roleIDs = []int64{}
	}

	member.GuildID = r.guildID
	if err := r.q.QueryRow(ctx, query, r.guildID, member.UserID, roleIDs, member.ModeratorID, member.Reason).Scan(&member.JailedAt); err != nil {
		return fmt.Errorf("failed to insert jail record: %w", err)
	}
	return nil
}

// Delete removes a jail record
func (r *jailRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM jailed_members WHERE guild_id = $1 AND user_id = $2`, r.guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete jail record: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// List returns every jailed member of the guild
func (r *jailRepository) List(ctx context.Context) ([]*entities.JailedMember, error) {
	query := `
		SELECT guild_id, user_id, role_ids, moderator_id, reason, jailed_at
		FROM jailed_members
		WHERE guild_id = $1
		ORDER BY jailed_at
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query jailed members: %w", err)
	}
	defer rows.Close()

	var members []*entities.JailedMember
	for rows.Next() {
		var m entities.JailedMember
		if err := rows.Scan(&m.GuildID, &m.UserID, &m.RoleIDs, &m.ModeratorID, &m.Reason, &m.JailedAt); err != nil {
			return nil, fmt.Errorf("failed to scan jailed member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}
