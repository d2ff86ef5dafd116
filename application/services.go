package application

import (
	"warden/domain/interfaces"
	"warden/domain/services"
)

// Service constructors bound to a unit of work's repositories

func NewCaseService(uow UnitOfWork, guildID int64) interfaces.CaseService {
	return services.NewCaseService(guildID, uow.CaseRepository(), uow.EventBus())
}

func NewModerationService(uow UnitOfWork, guildID int64, gateway interfaces.ModerationGateway) interfaces.ModerationService {
	return services.NewModerationService(
		guildID,
		gateway,
		NewCaseService(uow, guildID),
		uow.WarningRepository(),
		uow.JailRepository(),
		uow.GuildSettingsRepository(),
	)
}

func NewGuildSettingsService(uow UnitOfWork) interfaces.GuildSettingsService {
	return services.NewGuildSettingsService(uow.GuildSettingsRepository(), uow.EventBus())
}

func NewReminderService(uow UnitOfWork, guildID int64) interfaces.ReminderService {
	return services.NewReminderService(guildID, uow.ReminderRepository())
}

func NewAutomationService(uow UnitOfWork, guildID int64) interfaces.AutomationService {
	return services.NewAutomationService(guildID, services.AutomationRepositories{
		Responders:    uow.AutoResponderRepository(),
		Reactions:     uow.AutoReactionRepository(),
		AutoRoles:     uow.AutoRoleRepository(),
		ReactionRoles: uow.ReactionRoleRepository(),
	}, uow.EventBus())
}

func NewBoosterRoleService(uow UnitOfWork, guildID int64) interfaces.BoosterRoleService {
	return services.NewBoosterRoleService(guildID, uow.BoosterRoleRepository(), uow.EventBus())
}
