package services

import (
	"context"
	"fmt"

	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/events"
)

type boosterRoleService struct {
	guildID         int64
	boosterRoleRepo interfaces.BoosterRoleRepository
	eventPublisher  interfaces.EventPublisher
}

// NewBoosterRoleService creates a booster role service scoped to one guild
func NewBoosterRoleService(guildID int64, boosterRoleRepo interfaces.BoosterRoleRepository, eventPublisher interfaces.EventPublisher) interfaces.BoosterRoleService {
	return &boosterRoleService{
		guildID:         guildID,
		boosterRoleRepo: boosterRoleRepo,
		eventPublisher:  eventPublisher,
	}
}

// Get returns the user's booster role, or nil
func (s *boosterRoleService) Get(ctx context.Context, userID int64) (*entities.BoosterRole, error) {
	role, err := s.boosterRoleRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booster role: %w", err)
	}
	return role, nil
}

// Assign records roleID as the user's booster role
func (s *boosterRoleService) Assign(ctx context.Context, userID, roleID int64) error {
	if err := s.boosterRoleRepo.Upsert(ctx, &entities.BoosterRole{
		GuildID: s.guildID,
		UserID:  userID,
		RoleID:  roleID,
	}); err != nil {
		return fmt.Errorf("failed to save booster role: %w", err)
	}
	return nil
}

// Remove deletes the user's record and returns what was removed
func (s *boosterRoleService) Remove(ctx context.Context, userID int64) (*entities.BoosterRole, error) {
	role, err := s.boosterRoleRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booster role: %w", err)
	}
	if role == nil {
		return nil, nil
	}

	if _, err := s.boosterRoleRepo.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete booster role: %w", err)
	}

	if err := s.eventPublisher.Publish(events.BoosterRoleRemovedEvent{
		GuildID: s.guildID,
		UserID:  userID,
		RoleID:  role.RoleID,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish booster role removed event: %w", err)
	}
	return role, nil
}

// List returns every booster role record of the guild
func (s *boosterRoleService) List(ctx context.Context) ([]*entities.BoosterRole, error) {
	roles, err := s.boosterRoleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list booster roles: %w", err)
	}
	return roles, nil
}

// Stale returns records whose owner no longer boosts
func (s *boosterRoleService) Stale(ctx context.Context, activeBoosters map[int64]bool) ([]*entities.BoosterRole, error) {
	roles, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var stale []*entities.BoosterRole
	for _, role := range roles {
		if !activeBoosters[role.UserID] {
			stale = append(stale, role)
		}
	}
	return stale, nil
}
