package bot

import (
	"context"

	"warden/application"
	"warden/domain/entities"
	"warden/infrastructure"

	log "github.com/sirupsen/logrus"
)

// registerSubscriptions registers all bot-level event subscriptions.
// Events reach the bus only after their unit of work commits.
func (b *Bot) registerSubscriptions() {
	// Mod log posts and edits for created and updated cases
	application.RegisterApplicationSubscriptions(b.bus, b.uowFactory, b.cases)

	// Discord role cleanup for removed booster roles
	b.boosterRole.Subscribe(b.bus)

	// Automation snapshots are rebuilt after any configuration change
	b.automation.Subscribe(b.bus)

	log.Info("Bot event subscriptions registered successfully")
}

// newSnapshotLoader reads a guild's automation configuration in its own unit of work
func newSnapshotLoader(uowFactory application.UnitOfWorkFactory) infrastructure.SnapshotLoader {
	return func(ctx context.Context, guildID int64) (*entities.AutomationSnapshot, error) {
		var snapshot *entities.AutomationSnapshot
		err := application.RunInUnitOfWork(ctx, uowFactory, guildID, func(uow application.UnitOfWork) error {
			var err error
			snapshot, err = application.NewAutomationService(uow, guildID).Snapshot(ctx)
			return err
		})
		return snapshot, err
	}
}
