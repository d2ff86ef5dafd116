package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"warden/domain/entities"
	"warden/domain/interfaces"
)

// Reminder limits
const (
	MinReminderDelay       = time.Minute
	MaxReminderDelay       = 365 * 24 * time.Hour
	MaxRemindersPerUser    = 25
	MaxReminderMessageSize = 1500
)

type reminderService struct {
	guildID      int64
	reminderRepo interfaces.ReminderRepository
	now          func() time.Time
}

// NewReminderService creates a reminder service scoped to one guild
func NewReminderService(guildID int64, reminderRepo interfaces.ReminderRepository) interfaces.ReminderService {
	return &reminderService{
		guildID:      guildID,
		reminderRepo: reminderRepo,
		now:          time.Now,
	}
}

// Create schedules a reminder delay from now
func (s *reminderService) Create(ctx context.Context, userID, channelID int64, delay time.Duration, message string) (*entities.Reminder, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyReminder
	}
	if utf8.RuneCountInString(message) > MaxReminderMessageSize {
		return nil, ErrReminderMessageSize
	}
	if delay < MinReminderDelay || delay > MaxReminderDelay {
		return nil, ErrReminderOutOfRange
	}

	count, err := s.reminderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reminders: %w", err)
	}
	if count >= MaxRemindersPerUser {
		return nil, ErrTooManyReminders
	}

	reminder := &entities.Reminder{
		GuildID:   s.guildID,
		UserID:    userID,
		ChannelID: channelID,
		Message:   message,
		RemindAt:  s.now().UTC().Add(delay),
	}
	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return reminder, nil
}

// ListForUser returns a user's pending reminders, soonest first
func (s *reminderService) ListForUser(ctx context.Context, userID int64) ([]*entities.Reminder, error) {
	reminders, err := s.reminderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// Delete removes a reminder if the user owns it
func (s *reminderService) Delete(ctx context.Context, userID, reminderID int64) error {
	deleted, err := s.reminderRepo.Delete(ctx, userID, reminderID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if !deleted {
		return ErrReminderNotFound
	}
	return nil
}

// PopDue removes and returns all reminders that should fire
func (s *reminderService) PopDue(ctx context.Context, now time.Time) ([]*entities.Reminder, error) {
	reminders, err := s.reminderRepo.PopDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to pop due reminders: %w", err)
	}
	return reminders, nil
}
