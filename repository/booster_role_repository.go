package repository

import (
	"context"
	"errors"
	"fmt"

	"warden/domain/entities"
	"warden/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type boosterRoleRepository struct {
	q       Queryable
	guildID int64
}

// NewBoosterRoleRepositoryScoped creates a booster role repository scoped to a guild
func NewBoosterRoleRepositoryScoped(q Queryable, guildID int64) interfaces.BoosterRoleRepository {
	return &boosterRoleRepository{q: q, guildID: guildID}
}

func (r *boosterRoleRepository) Get(ctx context.Context, userID int64) (*entities.BoosterRole, error) {
	var b entities.BoosterRole
	err := r.q.QueryRow(ctx,
		`SELECT guild_id, user_id, role_id FROM booster_roles WHERE guild_id = $1 AND user_id = $2`,
		r.guildID, userID,
	).Scan(&b.GuildID, &b.UserID, &b.RoleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booster role: %w", err)
	}
	return &b, nil
}

func (r *boosterRoleRepository) Upsert(ctx context.Context, role *entities.BoosterRole) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO booster_roles (guild_id, user_id, role_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET role_id = EXCLUDED.role_id
	`, r.guildID, role.UserID, role.RoleID)
	if err != nil {
		return fmt.Errorf("failed to upsert booster role: %w", err)
	}
	role.GuildID = r.guildID
	return nil
}

func (r *boosterRoleRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM booster_roles WHERE guild_id = $1 AND user_id = $2`, r.guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete booster role: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *boosterRoleRepository) List(ctx context.Context) ([]*entities.BoosterRole, error) {
	rows, err := r.q.Query(ctx,
		`SELECT guild_id, user_id, role_id FROM booster_roles WHERE guild_id = $1 ORDER BY user_id`,
		r.guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query booster roles: %w", err)
	}
	defer rows.Close()

	var roles []*entities.BoosterRole
	for rows.Next() {
		var b entities.BoosterRole
		if err := rows.Scan(&b.GuildID, &b.UserID, &b.RoleID); err != nil {
			return nil, fmt.Errorf("failed to scan booster role: %w", err)
		}
		roles = append(roles, &b)
	}
	return roles, rows.Err()
}
