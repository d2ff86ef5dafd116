package testhelpers

import (
	"context"
	"sync"
	"time"

	"warden/domain/interfaces"
	"warden/events"

	"github.com/stretchr/testify/mock"
)

// MockModerationGateway is a mock implementation of ModerationGateway
type MockModerationGateway struct {
	mock.Mock
}

func (m *MockModerationGateway) Guild(ctx context.Context, guildID int64) (*interfaces.GuildInfo, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.GuildInfo), args.Error(1)
}

func (m *MockModerationGateway) Member(ctx context.Context, guildID, userID int64) (*interfaces.MemberInfo, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.MemberInfo), args.Error(1)
}

func (m *MockModerationGateway) BotUserID() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *MockModerationGateway) Role(ctx context.Context, guildID, roleID int64) (*interfaces.RoleInfo, error) {
	args := m.Called(ctx, guildID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.RoleInfo), args.Error(1)
}

func (m *MockModerationGateway) UnassignableRoleIDs(ctx context.Context, guildID int64) (map[int64]bool, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockModerationGateway) Ban(ctx context.Context, guildID, userID int64, reason string, deleteMessageDays int) error {
	args := m.Called(ctx, guildID, userID, reason, deleteMessageDays)
	return args.Error(0)
}

func (m *MockModerationGateway) Unban(ctx context.Context, guildID, userID int64, reason string) error {
	args := m.Called(ctx, guildID, userID, reason)
	return args.Error(0)
}

func (m *MockModerationGateway) Kick(ctx context.Context, guildID, userID int64, reason string) error {
	args := m.Called(ctx, guildID, userID, reason)
	return args.Error(0)
}

func (m *MockModerationGateway) Timeout(ctx context.Context, guildID, userID int64, until *time.Time, reason string) error {
	args := m.Called(ctx, guildID, userID, until, reason)
	return args.Error(0)
}

func (m *MockModerationGateway) AddRole(ctx context.Context, guildID, userID, roleID int64, reason string) error {
	args := m.Called(ctx, guildID, userID, roleID, reason)
	return args.Error(0)
}

func (m *MockModerationGateway) RemoveRole(ctx context.Context, guildID, userID, roleID int64, reason string) error {
	args := m.Called(ctx, guildID, userID, roleID, reason)
	return args.Error(0)
}

func (m *MockModerationGateway) SetRoles(ctx context.Context, guildID, userID int64, roleIDs []int64, reason string) error {
	args := m.Called(ctx, guildID, userID, roleIDs, reason)
	return args.Error(0)
}

func (m *MockModerationGateway) SetNickname(ctx context.Context, guildID, userID int64, nickname, reason string) error {
	args := m.Called(ctx, guildID, userID, nickname, reason)
	return args.Error(0)
}

func (m *MockModerationGateway) SendDirectMessage(ctx context.Context, userID int64, content string) error {
	args := m.Called(ctx, userID, content)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// RecordingPublisher collects published events for assertions
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return nil
}

// OfType returns the recorded events with the given type
func (p *RecordingPublisher) OfType(eventType events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []events.Event
	for _, e := range p.Events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
