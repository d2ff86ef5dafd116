package repository

import (
	"context"
	"errors"
	"fmt"

	"warden/domain/entities"
	"warden/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const caseColumns = `id, guild_id, case_number, action, target_id, moderator_id, reason,
	duration_seconds, role_id, log_channel_id, log_message_id, created_at`

type caseRepository struct {
	q       Queryable
	guildID int64
}

// NewCaseRepositoryScoped creates a case repository scoped to a guild
func NewCaseRepositoryScoped(q Queryable, guildID int64) interfaces.CaseRepository {
	return &caseRepository{q: q, guildID: guildID}
}

// NextCaseNumber increments the guild counter and returns the new value
func (r *caseRepository) NextCaseNumber(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO case_counters (guild_id, last_case_number)
		VALUES ($1, 1)
		ON CONFLICT (guild_id) DO UPDATE
		SET last_case_number = case_counters.last_case_number + 1
		RETURNING last_case_number
	`

	var number int64
	if err := r.q.QueryRow(ctx, query, r.guildID).Scan(&number); err != nil {
		return 0, fmt.Errorf("failed to increment case counter: %w", err)
	}
	return number, nil
}

// Create inserts a case
func (r *caseRepository) Create(ctx context.Context, modCase *entities.ModCase) error {
	query := `
		INSERT INTO mod_cases (guild_id, case_number, action, target_id, moderator_id, reason, duration_seconds, role_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	modCase.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		modCase.CaseNumber,
		string(modCase.Action),
		modCase.TargetID,
		modCase.ModeratorID,
		modCase.Reason,
		modCase.DurationSeconds,
		modCase.RoleID,
	).Scan(&modCase.ID, &modCase.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert case: %w", err)
	}
	return nil
}

// GetByNumber returns nil when the case does not exist
func (r *caseRepository) GetByNumber(ctx context.Context, caseNumber int64) (*entities.ModCase, error) {
	query := `SELECT ` + caseColumns + ` FROM mod_cases WHERE guild_id = $1 AND case_number = $2`

	modCase, err := scanCase(r.q.QueryRow(ctx, query, r.guildID, caseNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case %d: %w", caseNumber, err)
	}
	return modCase, nil
}

// ListByTarget returns cases against a user, newest first
func (r *caseRepository) ListByTarget(ctx context.Context, targetID int64, limit int) ([]*entities.ModCase, error) {
	query := `
		SELECT ` + caseColumns + `
		FROM mod_cases
		WHERE guild_id = $1 AND target_id = $2
		ORDER BY case_number DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, r.guildID, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var cases []*entities.ModCase
	for rows.Next() {
		modCase, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, modCase)
	}
	return cases, rows.Err()
}

// CountByTarget returns the number of cases against a user
func (r *caseRepository) CountByTarget(ctx context.Context, targetID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM mod_cases WHERE guild_id = $1 AND target_id = $2`,
		r.guildID, targetID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return count, nil
}

// UpdateReason changes the reason of a case
func (r *caseRepository) UpdateReason(ctx context.Context, caseNumber int64, reason string) error {
	result, err := r.q.Exec(ctx,
		`UPDATE mod_cases SET reason = $3 WHERE guild_id = $1 AND case_number = $2`,
		r.guildID, caseNumber, reason,
	)
	if err != nil {
		return fmt.Errorf("failed to update case reason: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("case %d not found", caseNumber)
	}
	return nil
}

// SetLogMessage stores the mod log message of a case
func (r *caseRepository) SetLogMessage(ctx context.Context, caseNumber, channelID, messageID int64) error {
	result, err := r.q.Exec(ctx,
		`UPDATE mod_cases SET log_channel_id = $3, log_message_id = $4 WHERE guild_id = $1 AND case_number = $2`,
		r.guildID, caseNumber, channelID, messageID,
	)
	if err != nil {
		return fmt.Errorf("failed to set case log message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("case %d not found", caseNumber)
	}
	return nil
}

func scanCase(row pgx.Row) (*entities.ModCase, error) {
	var c entities.ModCase
	var action string
	err := row.Scan(
		&c.ID,
		&c.GuildID,
		&c.CaseNumber,
		&action,
		&c.TargetID,
		&c.ModeratorID,
		&c.Reason,
		&c.DurationSeconds,
		&c.RoleID,
		&c.LogChannelID,
		&c.LogMessageID,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Action = entities.CaseAction(action)
	return &c, nil
}
