package repository

import (
	"context"
	"fmt"

	"warden/domain/entities"
	"warden/domain/interfaces"
)

type warningRepository struct {
	q       Queryable
	guildID int64
}

// NewWarningRepositoryScoped creates a warning repository scoped to a guild
func NewWarningRepositoryScoped(q Queryable, guildID int64) interfaces.WarningRepository {
	return &warningRepository{q: q, guildID: guildID}
}

// Create inserts a warning
func (r *warningRepository) Create(ctx context.Context, warning *entities.Warning) error {
	query := `
		INSERT INTO warnings (guild_id, user_id, moderator_id, reason, case_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	warning.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		warning.UserID,
		warning.ModeratorID,
		warning.Reason,
		warning.CaseNumber,
	).Scan(&warning.ID, &warning.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert warning: %w", err)
	}
	return nil
}

// ListByUser returns a user's warnings, oldest first
func (r *warningRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Warning, error) {
	query := `
		SELECT id, guild_id, user_id, moderator_id, reason, case_number, created_at
		FROM warnings
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query, r.guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query warnings: %w", err)
	}
	defer rows.Close()

	var warnings []*entities.Warning
	for rows.Next() {
		var w entities.Warning
		if err := rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.ModeratorID, &w.Reason, &w.CaseNumber, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		warnings = append(warnings, &w)
	}
	return warnings, rows.Err()
}

// Delete removes a warning by id
func (r *warningRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM warnings WHERE guild_id = $1 AND id = $2`, r.guildID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete warning: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteByUser removes all warnings of a user
func (r *warningRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM warnings WHERE guild_id = $1 AND user_id = $2`, r.guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings: %w", err)
	}
	return result.RowsAffected(), nil
}
