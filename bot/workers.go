package bot

import (
	"context"

	"warden/application"
)

// StartReminderWorker starts the background worker that delivers due reminders.
// Returns a cleanup function to stop the worker gracefully.
func (b *Bot) StartReminderWorker(ctx context.Context) func() {
	worker := application.NewReminderWorker(b.uowFactory, b.reminders, b.config.ReminderPollInterval)
	return worker.Start(ctx)
}
