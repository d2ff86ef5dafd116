package testhelpers

import (
	"context"
	"time"

	"warden/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockCaseRepository is a mock implementation of CaseRepository
type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) NextCaseNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCaseRepository) Create(ctx context.Context, modCase *entities.ModCase) error {
	args := m.Called(ctx, modCase)
	return args.Error(0)
}

func (m *MockCaseRepository) GetByNumber(ctx context.Context, caseNumber int64) (*entities.ModCase, error) {
	args := m.Called(ctx, caseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ModCase), args.Error(1)
}

func (m *MockCaseRepository) ListByTarget(ctx context.Context, targetID int64, limit int) ([]*entities.ModCase, error) {
	args := m.Called(ctx, targetID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ModCase), args.Error(1)
}

func (m *MockCaseRepository) CountByTarget(ctx context.Context, targetID int64) (int, error) {
	args := m.Called(ctx, targetID)
	return args.Int(0), args.Error(1)
}

func (m *MockCaseRepository) UpdateReason(ctx context.Context, caseNumber int64, reason string) error {
	args := m.Called(ctx, caseNumber, reason)
	return args.Error(0)
}

func (m *MockCaseRepository) SetLogMessage(ctx context.Context, caseNumber, channelID, messageID int64) error {
	args := m.Called(ctx, caseNumber, channelID, messageID)
	return args.Error(0)
}

// MockWarningRepository is a mock implementation of WarningRepository
type MockWarningRepository struct {
	mock.Mock
}

func (m *MockWarningRepository) Create(ctx context.Context, warning *entities.Warning) error {
	args := m.Called(ctx, warning)
	return args.Error(0)
}

func (m *MockWarningRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Warning, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Warning), args.Error(1)
}

func (m *MockWarningRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarningRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockJailRepository is a mock implementation of JailRepository
type MockJailRepository struct {
	mock.Mock
}

func (m *MockJailRepository) Get(ctx context.Context, userID int64) (*entities.JailedMember, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.JailedMember), args.Error(1)
}

func (m *MockJailRepository) Create(ctx context.Context, member *entities.JailedMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockJailRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJailRepository) List(ctx context.Context) ([]*entities.JailedMember, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.JailedMember), args.Error(1)
}

// MockReminderRepository is a mock implementation of ReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) Create(ctx context.Context, reminder *entities.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Reminder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reminder), args.Error(1)
}

func (m *MockReminderRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockReminderRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderRepository) PopDue(ctx context.Context, now time.Time) ([]*entities.Reminder, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reminder), args.Error(1)
}

func (m *MockReminderRepository) GuildsWithDueReminders(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockAutoResponderRepository is a mock implementation of AutoResponderRepository
type MockAutoResponderRepository struct {
	mock.Mock
}

func (m *MockAutoResponderRepository) Upsert(ctx context.Context, responder *entities.AutoResponder) error {
	args := m.Called(ctx, responder)
	return args.Error(0)
}

func (m *MockAutoResponderRepository) Delete(ctx context.Context, trigger string) (bool, error) {
	args := m.Called(ctx, trigger)
	return args.Bool(0), args.Error(1)
}

func (m *MockAutoResponderRepository) List(ctx context.Context) ([]*entities.AutoResponder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AutoResponder), args.Error(1)
}

// MockAutoReactionRepository is a mock implementation of AutoReactionRepository
type MockAutoReactionRepository struct {
	mock.Mock
}

func (m *MockAutoReactionRepository) Upsert(ctx context.Context, reaction *entities.AutoReaction) error {
	args := m.Called(ctx, reaction)
	return args.Error(0)
}

func (m *MockAutoReactionRepository) Delete(ctx context.Context, trigger string) (bool, error) {
	args := m.Called(ctx, trigger)
	return args.Bool(0), args.Error(1)
}

func (m *MockAutoReactionRepository) List(ctx context.Context) ([]*entities.AutoReaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AutoReaction), args.Error(1)
}

// MockAutoRoleRepository is a mock implementation of AutoRoleRepository
type MockAutoRoleRepository struct {
	mock.Mock
}

func (m *MockAutoRoleRepository) Add(ctx context.Context, roleID int64) (bool, error) {
	args := m.Called(ctx, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAutoRoleRepository) Remove(ctx context.Context, roleID int64) (bool, error) {
	args := m.Called(ctx, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAutoRoleRepository) List(ctx context.Context) ([]*entities.AutoRole, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AutoRole), args.Error(1)
}

// MockReactionRoleRepository is a mock implementation of ReactionRoleRepository
type MockReactionRoleRepository struct {
	mock.Mock
}

func (m *MockReactionRoleRepository) Upsert(ctx context.Context, binding *entities.ReactionRole) error {
	args := m.Called(ctx, binding)
	return args.Error(0)
}

func (m *MockReactionRoleRepository) Delete(ctx context.Context, messageID int64, emoji string) (bool, error) {
	args := m.Called(ctx, messageID, emoji)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRoleRepository) DeleteForMessage(ctx context.Context, messageID int64) (int64, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReactionRoleRepository) ListForMessage(ctx context.Context, messageID int64) ([]*entities.ReactionRole, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ReactionRole), args.Error(1)
}

func (m *MockReactionRoleRepository) List(ctx context.Context) ([]*entities.ReactionRole, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ReactionRole), args.Error(1)
}

// MockBoosterRoleRepository is a mock implementation of BoosterRoleRepository
type MockBoosterRoleRepository struct {
	mock.Mock
}

func (m *MockBoosterRoleRepository) Get(ctx context.Context, userID int64) (*entities.BoosterRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BoosterRole), args.Error(1)
}

func (m *MockBoosterRoleRepository) Upsert(ctx context.Context, role *entities.BoosterRole) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockBoosterRoleRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBoosterRoleRepository) List(ctx context.Context) ([]*entities.BoosterRole, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BoosterRole), args.Error(1)
}
