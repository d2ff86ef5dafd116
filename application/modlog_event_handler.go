package application

import (
	"context"
	"fmt"

	"warden/events"

	log "github.com/sirupsen/logrus"
)

// ModLogEventHandler keeps the mod log channel in sync with recorded cases
type ModLogEventHandler struct {
	uowFactory UnitOfWorkFactory
	poster     ModLogPoster
}

// NewModLogEventHandler creates a new ModLogEventHandler
func NewModLogEventHandler(uowFactory UnitOfWorkFactory, poster ModLogPoster) *ModLogEventHandler {
	return &ModLogEventHandler{
		uowFactory: uowFactory,
		poster:     poster,
	}
}

// HandleCaseCreated posts the case embed and remembers where it was posted
func (h *ModLogEventHandler) HandleCaseCreated(ctx context.Context, event interface{}) error {
	e, err := AssertEventType[events.CaseCreatedEvent](event, "CaseCreatedEvent")
	if err != nil {
		return err
	}

	uow := h.uowFactory.CreateForGuild(e.GuildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx, e.GuildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}
	if !settings.HasModLogChannel() {
		log.WithFields(log.Fields{
			"guild_id":    e.GuildID,
			"case_number": e.CaseNumber,
		}).Debug("No mod log channel configured, skipping case post")
		return nil
	}
	channelID := *settings.ModLogChannelID

	caseService := NewCaseService(uow, e.GuildID)
	modCase, err := caseService.GetCase(ctx, e.CaseNumber)
	if err != nil {
		return fmt.Errorf("failed to load case %d: %w", e.CaseNumber, err)
	}

	messageID, err := h.poster.PostCase(ctx, channelID, modCase)
	if err != nil {
		return fmt.Errorf("failed to post case %d: %w", e.CaseNumber, err)
	}

	if err := caseService.AttachLogMessage(ctx, e.CaseNumber, channelID, messageID); err != nil {
		return fmt.Errorf("failed to store log message for case %d: %w", e.CaseNumber, err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"guild_id":    e.GuildID,
		"case_number": e.CaseNumber,
		"action":      e.Action,
		"message_id":  messageID,
	}).Info("Posted case to mod log")
	return nil
}

// HandleCaseUpdated edits the posted case embed; cases that were never posted are left alone
func (h *ModLogEventHandler) HandleCaseUpdated(ctx context.Context, event interface{}) error {
	e, err := AssertEventType[events.CaseUpdatedEvent](event, "CaseUpdatedEvent")
	if err != nil {
		return err
	}

	uow := h.uowFactory.CreateForGuild(e.GuildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	caseService := NewCaseService(uow, e.GuildID)
	modCase, err := caseService.GetCase(ctx, e.CaseNumber)
	if err != nil {
		return fmt.Errorf("failed to load case %d: %w", e.CaseNumber, err)
	}

	// Read only
	if err := uow.Commit(); err != nil {
		log.Warnf("Failed to commit read-only transaction for case %d: %v", e.CaseNumber, err)
	}

	if modCase.LogChannelID == nil || modCase.LogMessageID == nil {
		return nil
	}

	if err := h.poster.EditCase(ctx, *modCase.LogChannelID, *modCase.LogMessageID, modCase); err != nil {
		return fmt.Errorf("failed to edit case %d: %w", e.CaseNumber, err)
	}
	return nil
}
