package testhelpers

import (
	"context"

	"warden/domain/interfaces"
)

// FakeUnitOfWork hands out preset repositories without a database.
// Getters for repositories that were not set return nil.
type FakeUnitOfWork struct {
	GuildSettings interfaces.GuildSettingsRepository
	Cases         interfaces.CaseRepository
	Warnings      interfaces.WarningRepository
	Jail          interfaces.JailRepository
	Reminders     interfaces.ReminderRepository
	Responders    interfaces.AutoResponderRepository
	Reactions     interfaces.AutoReactionRepository
	AutoRoles     interfaces.AutoRoleRepository
	ReactionRoles interfaces.ReactionRoleRepository
	BoosterRoles  interfaces.BoosterRoleRepository
	Events        interfaces.EventPublisher

	Committed bool
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) error { return nil }

func (u *FakeUnitOfWork) Commit() error {
	u.Committed = true
	return nil
}

func (u *FakeUnitOfWork) Rollback() error { return nil }

func (u *FakeUnitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	return u.GuildSettings
}
func (u *FakeUnitOfWork) CaseRepository() interfaces.CaseRepository       { return u.Cases }
func (u *FakeUnitOfWork) WarningRepository() interfaces.WarningRepository { return u.Warnings }
func (u *FakeUnitOfWork) JailRepository() interfaces.JailRepository       { return u.Jail }
func (u *FakeUnitOfWork) ReminderRepository() interfaces.ReminderRepository {
	return u.Reminders
}
func (u *FakeUnitOfWork) AutoResponderRepository() interfaces.AutoResponderRepository {
	return u.Responders
}
func (u *FakeUnitOfWork) AutoReactionRepository() interfaces.AutoReactionRepository {
	return u.Reactions
}
func (u *FakeUnitOfWork) AutoRoleRepository() interfaces.AutoRoleRepository { return u.AutoRoles }
func (u *FakeUnitOfWork) ReactionRoleRepository() interfaces.ReactionRoleRepository {
	return u.ReactionRoles
}
func (u *FakeUnitOfWork) BoosterRoleRepository() interfaces.BoosterRoleRepository {
	return u.BoosterRoles
}

func (u *FakeUnitOfWork) EventBus() interfaces.EventPublisher {
	if u.Events == nil {
		return &RecordingPublisher{}
	}
	return u.Events
}
