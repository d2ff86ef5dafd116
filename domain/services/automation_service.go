package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/events"
)

// Automation limits
const (
	MaxTriggerLength     = 100
	MaxResponseLength    = 2000
	MaxEmojisPerReaction = 5
	MaxAutoRolesPerGuild = 10
)

// AutomationRepositories groups the repositories the automation service needs
type AutomationRepositories struct {
	Responders    interfaces.AutoResponderRepository
	Reactions     interfaces.AutoReactionRepository
	AutoRoles     interfaces.AutoRoleRepository
	ReactionRoles interfaces.ReactionRoleRepository
}

type automationService struct {
	guildID        int64
	repos          AutomationRepositories
	eventPublisher interfaces.EventPublisher
}

// NewAutomationService creates an automation service scoped to one guild
func NewAutomationService(guildID int64, repos AutomationRepositories, eventPublisher interfaces.EventPublisher) interfaces.AutomationService {
	return &automationService{
		guildID:        guildID,
		repos:          repos,
		eventPublisher: eventPublisher,
	}
}

// AddResponder creates or replaces the responder for a trigger
func (s *automationService) AddResponder(ctx context.Context, trigger, response string, strict, reply bool) (*entities.AutoResponder, error) {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" || utf8.RuneCountInString(trigger) > MaxTriggerLength {
		return nil, ErrInvalidTrigger
	}
	if strings.TrimSpace(response) == "" || utf8.RuneCountInString(response) > MaxResponseLength {
		return nil, ErrInvalidResponse
	}

	responder := &entities.AutoResponder{
		GuildID:  s.guildID,
		Trigger:  trigger,
		Response: response,
		Strict:   strict,
		Reply:    reply,
	}
	if err := s.repos.Responders.Upsert(ctx, responder); err != nil {
		return nil, fmt.Errorf("failed to save autoresponder: %w", err)
	}

	if err := s.changed(); err != nil {
		return nil, err
	}
	return responder, nil
}

// RemoveResponder deletes the responder for a trigger
func (s *automationService) RemoveResponder(ctx context.Context, trigger string) error {
	deleted, err := s.repos.Responders.Delete(ctx, strings.TrimSpace(trigger))
	if err != nil {
		return fmt.Errorf("failed to delete autoresponder: %w", err)
	}
	if !deleted {
		return ErrTriggerNotFound
	}
	return s.changed()
}

// Responders lists all autoresponders
func (s *automationService) Responders(ctx context.Context) ([]*entities.AutoResponder, error) {
	responders, err := s.repos.Responders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list autoresponders: %w", err)
	}
	return responders, nil
}

// AddReaction sets the emojis added to messages containing trigger
func (s *automationService) AddReaction(ctx context.Context, trigger string, emojis []string) error {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	if trigger == "" || utf8.RuneCountInString(trigger) > MaxTriggerLength {
		return ErrInvalidTrigger
	}

	cleaned := make([]string, 0, len(emojis))
	for _, e := range emojis {
		if e = strings.TrimSpace(e); e != "" {
			cleaned = append(cleaned, e)
		}
	}
	if len(cleaned) == 0 {
		return ErrNoEmojis
	}
	if len(cleaned) > MaxEmojisPerReaction {
		return ErrTooManyEmojis
	}

	if err := s.repos.Reactions.Upsert(ctx, &entities.AutoReaction{
		GuildID: s.guildID,
		Trigger: trigger,
		Emojis:  cleaned,
	}); err != nil {
		return fmt.Errorf("failed to save autoreaction: %w", err)
	}
	return s.changed()
}

// RemoveReaction deletes the autoreaction for a trigger
func (s *automationService) RemoveReaction(ctx context.Context, trigger string) error {
	deleted, err := s.repos.Reactions.Delete(ctx, strings.ToLower(strings.TrimSpace(trigger)))
	if err != nil {
		return fmt.Errorf("failed to delete autoreaction: %w", err)
	}
	if !deleted {
		return ErrTriggerNotFound
	}
	return s.changed()
}

// Reactions lists all autoreactions
func (s *automationService) Reactions(ctx context.Context) ([]*entities.AutoReaction, error) {
	reactions, err := s.repos.Reactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list autoreactions: %w", err)
	}
	return reactions, nil
}

// AddAutoRole grants roleID to every new member
func (s *automationService) AddAutoRole(ctx context.Context, roleID int64) error {
	existing, err := s.repos.AutoRoles.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list autoroles: %w", err)
	}
	if len(existing) >= MaxAutoRolesPerGuild {
		return ErrTooManyAutoRoles
	}

	added, err := s.repos.AutoRoles.Add(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to add autorole: %w", err)
	}
	if !added {
		return ErrAutoRoleExists
	}
	return s.changed()
}

// RemoveAutoRole stops granting roleID to new members
func (s *automationService) RemoveAutoRole(ctx context.Context, roleID int64) error {
	removed, err := s.repos.AutoRoles.Remove(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to remove autorole: %w", err)
	}
	if !removed {
		return ErrAutoRoleNotFound
	}
	return s.changed()
}

// AutoRoles lists the configured autoroles
func (s *automationService) AutoRoles(ctx context.Context) ([]*entities.AutoRole, error) {
	roles, err := s.repos.AutoRoles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list autoroles: %w", err)
	}
	return roles, nil
}

// BindReactionRole binds emoji on a message to a role, replacing any existing binding
func (s *automationService) BindReactionRole(ctx context.Context, channelID, messageID int64, emoji string, roleID int64) error {
	if err := s.repos.ReactionRoles.Upsert(ctx, &entities.ReactionRole{
		GuildID:   s.guildID,
		ChannelID: channelID,
		MessageID: messageID,
		Emoji:     emoji,
		RoleID:    roleID,
	}); err != nil {
		return fmt.Errorf("failed to save reaction role: %w", err)
	}
	return s.changed()
}

// UnbindReactionRole removes one binding
func (s *automationService) UnbindReactionRole(ctx context.Context, messageID int64, emoji string) error {
	deleted, err := s.repos.ReactionRoles.Delete(ctx, messageID, emoji)
	if err != nil {
		return fmt.Errorf("failed to delete reaction role: %w", err)
	}
	if !deleted {
		return ErrReactionRoleNotFound
	}
	return s.changed()
}

// ReactionRolesForMessage lists bindings on one message
func (s *automationService) ReactionRolesForMessage(ctx context.Context, messageID int64) ([]*entities.ReactionRole, error) {
	bindings, err := s.repos.ReactionRoles.ListForMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reaction roles: %w", err)
	}
	return bindings, nil
}

// ReactionRoles lists every binding in the guild
func (s *automationService) ReactionRoles(ctx context.Context) ([]*entities.ReactionRole, error) {
	bindings, err := s.repos.ReactionRoles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reaction roles: %w", err)
	}
	return bindings, nil
}

// ClearReactionRoles removes every binding on a message
func (s *automationService) ClearReactionRoles(ctx context.Context, messageID int64) (int64, error) {
	count, err := s.repos.ReactionRoles.DeleteForMessage(ctx, messageID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear reaction roles: %w", err)
	}
	if count > 0 {
		if err := s.changed(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// Snapshot loads the full automation configuration of the guild
func (s *automationService) Snapshot(ctx context.Context) (*entities.AutomationSnapshot, error) {
	responders, err := s.Responders(ctx)
	if err != nil {
		return nil, err
	}
	reactions, err := s.Reactions(ctx)
	if err != nil {
		return nil, err
	}
	bindings, err := s.ReactionRoles(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.AutoRoles(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.AutomationSnapshot{
		GuildID:       s.guildID,
		Responders:    responders,
		Reactions:     reactions,
		ReactionRoles: bindings,
		AutoRoles:     roles,
	}, nil
}

func (s *automationService) changed() error {
	if err := s.eventPublisher.Publish(events.AutomationChangedEvent{GuildID: s.guildID}); err != nil {
		return fmt.Errorf("failed to publish automation changed event: %w", err)
	}
	return nil
}

// MatchResponder returns the first responder whose trigger matches content, or nil
func MatchResponder(responders []*entities.AutoResponder, content string) *entities.AutoResponder {
	for _, r := range responders {
		if matchTrigger(r.Trigger, content, r.Strict) {
			return r
		}
	}
	return nil
}

// MatchReactions returns the emojis of every autoreaction matching content, without duplicates
func MatchReactions(reactions []*entities.AutoReaction, content string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range reactions {
		if !matchTrigger(r.Trigger, content, false) {
			continue
		}
		for _, e := range r.Emojis {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// matchTrigger compares case-insensitively; non-strict triggers must appear as whole words
func matchTrigger(trigger, content string, strict bool) bool {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	content = strings.ToLower(strings.TrimSpace(content))
	if trigger == "" || content == "" {
		return false
	}
	if strict {
		return content == trigger
	}

	for start := 0; start <= len(content)-len(trigger); {
		idx := strings.Index(content[start:], trigger)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(trigger)
		if isBoundary(content, idx-1, true) && isBoundary(content, end, false) {
			return true
		}
		_, size := utf8.DecodeRuneInString(content[idx:])
		start = idx + size
	}
	return false
}

// isBoundary reports whether the rune at or before pos is not part of a word
func isBoundary(s string, pos int, before bool) bool {
	if pos < 0 || pos >= len(s) {
		return true
	}
	var r rune
	if before {
		r, _ = utf8.DecodeLastRuneInString(s[:pos+1])
	} else {
		r, _ = utf8.DecodeRuneInString(s[pos:])
	}
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
