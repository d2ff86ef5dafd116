package services

import (
	"context"
	"fmt"
	"strings"

	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/events"

	log "github.com/sirupsen/logrus"
)

// maxReasonLength matches the embed field limit used by the mod log
const maxReasonLength = 1024

type caseService struct {
	guildID        int64
	caseRepo       interfaces.CaseRepository
	eventPublisher interfaces.EventPublisher
}

// NewCaseService creates a case service scoped to one guild
func NewCaseService(guildID int64, caseRepo interfaces.CaseRepository, eventPublisher interfaces.EventPublisher) interfaces.CaseService {
	return &caseService{
		guildID:        guildID,
		caseRepo:       caseRepo,
		eventPublisher: eventPublisher,
	}
}

// CreateCase reserves the next case number, stores the case and publishes CaseCreatedEvent
func (s *caseService) CreateCase(ctx context.Context, newCase entities.NewCase) (*entities.ModCase, error) {
	number, err := s.caseRepo.NextCaseNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve case number: %w", err)
	}

	modCase := &entities.ModCase{
		GuildID:     s.guildID,
		CaseNumber:  number,
		Action:      newCase.Action,
		TargetID:    newCase.TargetID,
		ModeratorID: newCase.ModeratorID,
		Reason:      normalizeReason(newCase.Reason),
		RoleID:      newCase.RoleID,
	}
	if newCase.Duration > 0 {
		seconds := int64(newCase.Duration.Seconds())
		modCase.DurationSeconds = &seconds
	}

	if err := s.caseRepo.Create(ctx, modCase); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	if err := s.eventPublisher.Publish(events.CaseCreatedEvent{
		GuildID:         s.guildID,
		CaseNumber:      modCase.CaseNumber,
		Action:          modCase.Action,
		TargetID:        modCase.TargetID,
		ModeratorID:     modCase.ModeratorID,
		Reason:          modCase.Reason,
		DurationSeconds: modCase.DurationSeconds,
		RoleID:          modCase.RoleID,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish case created event: %w", err)
	}

	log.WithFields(log.Fields{
		"guild_id":     s.guildID,
		"case":         modCase.CaseNumber,
		"action":       modCase.Action,
		"target_id":    modCase.TargetID,
		"moderator_id": modCase.ModeratorID,
	}).Info("Recorded moderation case")

	return modCase, nil
}

// GetCase retrieves a case by number
func (s *caseService) GetCase(ctx context.Context, caseNumber int64) (*entities.ModCase, error) {
	modCase, err := s.caseRepo.GetByNumber(ctx, caseNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	if modCase == nil {
		return nil, ErrCaseNotFound
	}
	return modCase, nil
}

// ListForTarget returns the newest cases against a user
func (s *caseService) ListForTarget(ctx context.Context, targetID int64, limit int) ([]*entities.ModCase, error) {
	cases, err := s.caseRepo.ListByTarget(ctx, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// CountForTarget returns how many cases exist against a user
func (s *caseService) CountForTarget(ctx context.Context, targetID int64) (int, error) {
	count, err := s.caseRepo.CountByTarget(ctx, targetID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return count, nil
}

// UpdateReason edits the reason of an existing case
func (s *caseService) UpdateReason(ctx context.Context, caseNumber int64, reason string, moderatorID int64) (*entities.ModCase, error) {
	modCase, err := s.GetCase(ctx, caseNumber)
	if err != nil {
		return nil, err
	}

	modCase.Reason = normalizeReason(reason)
	if err := s.caseRepo.UpdateReason(ctx, caseNumber, modCase.Reason); err != nil {
		return nil, fmt.Errorf("failed to update case reason: %w", err)
	}

	if err := s.eventPublisher.Publish(events.CaseUpdatedEvent{
		GuildID:     s.guildID,
		CaseNumber:  caseNumber,
		Reason:      modCase.Reason,
		ModeratorID: moderatorID,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish case updated event: %w", err)
	}

	return modCase, nil
}

// AttachLogMessage records the mod log message for a case
func (s *caseService) AttachLogMessage(ctx context.Context, caseNumber, channelID, messageID int64) error {
	if err := s.caseRepo.SetLogMessage(ctx, caseNumber, channelID, messageID); err != nil {
		return fmt.Errorf("failed to attach log message: %w", err)
	}
	return nil
}

func normalizeReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entities.DefaultCaseReason
	}
	if len([]rune(reason)) > maxReasonLength {
		reason = string([]rune(reason)[:maxReasonLength])
	}
	return reason
}
