package application

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// ReminderWorker delivers reminders once they are due
type ReminderWorker struct {
	uowFactory UnitOfWorkFactory
	sender     ReminderSender
	interval   time.Duration
	now        func() time.Time
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(uowFactory UnitOfWorkFactory, sender ReminderSender, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		uowFactory: uowFactory,
		sender:     sender,
		interval:   interval,
		now:        time.Now,
	}
}

// Start begins polling and returns a function that stops the worker
func (w *ReminderWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})
	ticker := time.NewTicker(w.interval)

	go func() {
		defer ticker.Stop()
		log.WithField("interval", w.interval).Info("Reminder worker started")

		for {
			if _, err := w.ProcessDue(ctx); err != nil {
				log.Errorf("Error processing due reminders: %v", err)
			}

			select {
			case <-ctx.Done():
				log.Info("Reminder worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Reminder worker shutting down (stop requested)...")
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// ProcessDue sends every due reminder and returns how many were delivered
func (w *ReminderWorker) ProcessDue(ctx context.Context) (int, error) {
	now := w.now().UTC()

	// Guild 0 for the cross-guild query
	uow := w.uowFactory.CreateForGuild(0)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	guildIDs, err := uow.ReminderRepository().GuildsWithDueReminders(ctx, now)
	uow.Rollback()
	if err != nil {
		return 0, fmt.Errorf("failed to get guilds with due reminders: %w", err)
	}

	sent := 0
	for _, guildID := range guildIDs {
		n, err := w.processGuild(ctx, guildID, now)
		if err != nil {
			log.Errorf("Error processing reminders for guild %d: %v", guildID, err)
			continue
		}
		sent += n
	}

	if sent > 0 {
		log.WithFields(log.Fields{
			"guilds": len(guildIDs),
			"sent":   sent,
		}).Info("Delivered due reminders")
	}
	return sent, nil
}

// processGuild pops the guild's due reminders, commits, then delivers them
func (w *ReminderWorker) processGuild(ctx context.Context, guildID int64, now time.Time) (int, error) {
	uow := w.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	reminderService := NewReminderService(uow, guildID)
	due, err := reminderService.PopDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to pop due reminders: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	sent := 0
	for _, reminder := range due {
		if err := w.sender.SendReminder(ctx, reminder); err != nil {
			log.WithFields(log.Fields{
				"guild_id":    guildID,
				"reminder_id": reminder.ID,
				"user_id":     reminder.UserID,
				"error":       err,
			}).Warn("Failed to deliver reminder")
			continue
		}
		sent++
	}
	return sent, nil
}
