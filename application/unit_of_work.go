package application

import (
	"context"
	"fmt"

	"warden/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	GuildSettingsRepository() interfaces.GuildSettingsRepository
	CaseRepository() interfaces.CaseRepository
	WarningRepository() interfaces.WarningRepository
	JailRepository() interfaces.JailRepository
	ReminderRepository() interfaces.ReminderRepository
	AutoResponderRepository() interfaces.AutoResponderRepository
	AutoReactionRepository() interfaces.AutoReactionRepository
	AutoRoleRepository() interfaces.AutoRoleRepository
	ReactionRoleRepository() interfaces.ReactionRoleRepository
	BoosterRoleRepository() interfaces.BoosterRoleRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork instance scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}

// RunInUnitOfWork begins a guild-scoped unit of work, runs fn, and commits when fn succeeds.
// Any error rolls the transaction back and drops its pending events.
func RunInUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, guildID int64, fn func(uow UnitOfWork) error) error {
	uow := factory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
