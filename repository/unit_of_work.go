package repository

import (
	"context"
	"errors"
	"fmt"

	"warden/application"
	"warden/database"
	"warden/domain/interfaces"
	"warden/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

const notStarted = "unit of work not started - call Begin() first"

type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	guildID                int64
	transactionalPublisher interfaces.TransactionalEventPublisher

	guildSettingsRepo interfaces.GuildSettingsRepository
	caseRepo          interfaces.CaseRepository
	warningRepo       interfaces.WarningRepository
	jailRepo          interfaces.JailRepository
	reminderRepo      interfaces.ReminderRepository
	autoResponderRepo interfaces.AutoResponderRepository
	autoReactionRepo  interfaces.AutoReactionRepository
	autoRoleRepo      interfaces.AutoRoleRepository
	reactionRoleRepo  interfaces.ReactionRoleRepository
	boosterRoleRepo   interfaces.BoosterRoleRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// CreateForGuildWithPublisher creates a UnitOfWork whose events go through the given transactional publisher
func (f *unitOfWorkFactory) CreateForGuildWithPublisher(guildID int64, publisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		guildID:                guildID,
		transactionalPublisher: publisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.guildSettingsRepo = newGuildSettingsRepositoryWithTx(tx)
	u.caseRepo = NewCaseRepositoryScoped(tx, u.guildID)
	u.warningRepo = NewWarningRepositoryScoped(tx, u.guildID)
	u.jailRepo = NewJailRepositoryScoped(tx, u.guildID)
	u.reminderRepo = NewReminderRepositoryScoped(tx, u.guildID)
	u.autoResponderRepo = NewAutoResponderRepositoryScoped(tx, u.guildID)
	u.autoReactionRepo = NewAutoReactionRepositoryScoped(tx, u.guildID)
	u.autoRoleRepo = NewAutoRoleRepositoryScoped(tx, u.guildID)
	u.reactionRoleRepo = NewReactionRoleRepositoryScoped(tx, u.guildID)
	u.boosterRoleRepo = NewBoosterRoleRepositoryScoped(tx, u.guildID)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	done := observability.GetMetrics().MeasureDatabaseQuery("unit_of_work", "commit")
	err := u.tx.Commit(u.ctx)
	done()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}
	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}
	return nil
}

func (u *unitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	if u.guildSettingsRepo == nil {
		panic(notStarted)
	}
	return u.guildSettingsRepo
}

func (u *unitOfWork) CaseRepository() interfaces.CaseRepository {
	if u.caseRepo == nil {
		panic(notStarted)
	}
	return u.caseRepo
}

func (u *unitOfWork) WarningRepository() interfaces.WarningRepository {
	if u.warningRepo == nil {
		panic(notStarted)
	}
	return u.warningRepo
}

func (u *unitOfWork) JailRepository() interfaces.JailRepository {
	if u.jailRepo == nil {
		panic(notStarted)
	}
	return u.jailRepo
}

func (u *unitOfWork) ReminderRepository() interfaces.ReminderRepository {
	if u.reminderRepo == nil {
		panic(notStarted)
	}
	return u.reminderRepo
}

func (u *unitOfWork) AutoResponderRepository() interfaces.AutoResponderRepository {
	if u.autoResponderRepo == nil {
		panic(notStarted)
	}
	return u.autoResponderRepo
}

func (u *unitOfWork) AutoReactionRepository() interfaces.AutoReactionRepository {
	if u.autoReactionRepo == nil {
		panic(notStarted)
	}
	return u.autoReactionRepo
}

func (u *unitOfWork) AutoRoleRepository() interfaces.AutoRoleRepository {
	if u.autoRoleRepo == nil {
		panic(notStarted)
	}
	return u.autoRoleRepo
}

func (u *unitOfWork) ReactionRoleRepository() interfaces.ReactionRoleRepository {
	if u.reactionRoleRepo == nil {
		panic(notStarted)
	}
	return u.reactionRoleRepo
}

func (u *unitOfWork) BoosterRoleRepository() interfaces.BoosterRoleRepository {
	if u.boosterRoleRepo == nil {
		panic(notStarted)
	}
	return u.boosterRoleRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic(notStarted)
	}
	return u.transactionalPublisher
}
