package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"warden/domain/entities"
	"warden/domain/interfaces"
)

const reminderColumns = `id, guild_id, user_id, channel_id, message, remind_at, created_at`

type reminderRepository struct {
	q       Queryable
	guildID int64
}

// NewReminderRepositoryScoped creates a reminder repository scoped to a guild
func NewReminderRepositoryScoped(q Queryable, guildID int64) interfaces.ReminderRepository {
	return &reminderRepository{q: q, guildID: guildID}
}

// Create inserts a reminder
func (r *reminderRepository) Create(ctx context.Context, reminder *entities.Reminder) error {
	query := `
		INSERT INTO reminders (guild_id, user_id, channel_id, message, remind_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	reminder.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		reminder.UserID,
		reminder.ChannelID,
		reminder.Message,
		reminder.RemindAt,
	).Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// ListByUser returns a user's pending reminders, soonest first
func (r *reminderRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY remind_at, id
	`
	return r.queryReminders(ctx, query, r.guildID, userID)
}

// CountByUser returns the number of pending reminders of a user
func (r *reminderRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM reminders WHERE guild_id = $1 AND user_id = $2`,
		r.guildID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reminders: %w", err)
	}
	return count, nil
}

// Delete removes a reminder owned by the user
func (r *reminderRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result, err := r.q.Exec(ctx,
		`DELETE FROM reminders WHERE guild_id = $1 AND user_id = $2 AND id = $3`,
		r.guildID, userID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete reminder: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// PopDue deletes due reminders and returns them
func (r *reminderRepository) PopDue(ctx context.Context, now time.Time) ([]*entities.Reminder, error) {
	query := `
		DELETE FROM reminders
		WHERE guild_id = $1 AND remind_at <= $2
		RETURNING ` + reminderColumns
	reminders, err := r.queryReminders(ctx, query, r.guildID, now)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(reminders, func(a, b *entities.Reminder) int {
		return a.RemindAt.Compare(b.RemindAt)
	})
	return reminders, nil
}

// GuildsWithDueReminders is not scoped to the repository guild
func (r *reminderRepository) GuildsWithDueReminders(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT guild_id FROM reminders WHERE remind_at <= $1`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminder guilds: %w", err)
	}
	defer rows.Close()

	var guildIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan guild id: %w", err)
		}
		guildIDs = append(guildIDs, id)
	}
	return guildIDs, rows.Err()
}

func (r *reminderRepository) queryReminders(ctx context.Context, query string, args ...any) ([]*entities.Reminder, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*entities.Reminder
	for rows.Next() {
		var rem entities.Reminder
		if err := rows.Scan(&rem.ID, &rem.GuildID, &rem.UserID, &rem.ChannelID, &rem.Message, &rem.RemindAt, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, &rem)
	}
	return reminders, rows.Err()
}
