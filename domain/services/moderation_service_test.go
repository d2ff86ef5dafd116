package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID     = int64(1000)
	testOwnerID     = int64(1)
	testBotID       = int64(2)
	testModeratorID = int64(10)
	testTargetID    = int64(20)
	testJailRoleID  = int64(500)
)

type moderationFixture struct {
	gateway   *testhelpers.MockModerationGateway
	cases     *testhelpers.MockCaseRepository
	warnings  *testhelpers.MockWarningRepository
	jail      *testhelpers.MockJailRepository
	settings  *testhelpers.MockGuildSettingsRepository
	publisher *testhelpers.RecordingPublisher
	service   interfaces.ModerationService
}

// newModerationFixture wires a guild where the bot outranks the moderator,
// who outranks the target
func newModerationFixture(t *testing.T, members map[int64]*interfaces.MemberInfo) *moderationFixture {
	t.Helper()

	f := &moderationFixture{
		gateway:   new(testhelpers.MockModerationGateway),
		cases:     new(testhelpers.MockCaseRepository),
		warnings:  new(testhelpers.MockWarningRepository),
		jail:      new(testhelpers.MockJailRepository),
		settings:  new(testhelpers.MockGuildSettingsRepository),
		publisher: &testhelpers.RecordingPublisher{},
	}

	if members == nil {
		members = map[int64]*interfaces.MemberInfo{
			testBotID:       {UserID: testBotID, TopRolePosition: 10},
			testModeratorID: {UserID: testModeratorID, TopRolePosition: 5},
			testTargetID:    {UserID: testTargetID, TopRolePosition: 3, RoleIDs: []int64{301, 302}},
		}
	}

	f.gateway.On("BotUserID").Return(testBotID)
	f.gateway.On("Guild", mock.Anything, testGuildID).Return(&interfaces.GuildInfo{ID: testGuildID, Name: "Test", OwnerID: testOwnerID}, nil)
	for id, member := range members {
		f.gateway.On("Member", mock.Anything, testGuildID, id).Return(member, nil)
	}
	f.gateway.On("Member", mock.Anything, testGuildID, mock.Anything).Return(nil, nil).Maybe()
	f.gateway.On("SendDirectMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	f.cases.On("NextCaseNumber", mock.Anything).Return(int64(7), nil)
	f.cases.On("Create", mock.Anything, mock.AnythingOfType("*entities.ModCase")).Return(nil)

	caseService := NewCaseService(testGuildID, f.cases, f.publisher)
	f.service = NewModerationService(testGuildID, f.gateway, caseService, f.warnings, f.jail, f.settings)
	return f
}

func TestModerationService_CheckHierarchy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		moderatorID int64
		targetID    int64
		members     map[int64]*interfaces.MemberInfo
		wantErr     error
	}{
		{
			name:        "moderator outranks target",
			moderatorID: testModeratorID,
			targetID:    testTargetID,
		},
		{
			name:        "self",
			moderatorID: testModeratorID,
			targetID:    testModeratorID,
			wantErr:     ErrCannotTargetSelf,
		},
		{
			name:        "bot",
			moderatorID: testModeratorID,
			targetID:    testBotID,
			wantErr:     ErrCannotTargetBot,
		},
		{
			name:        "owner",
			moderatorID: testModeratorID,
			targetID:    testOwnerID,
			wantErr:     ErrTargetIsOwner,
		},
		{
			name:        "equal rank",
			moderatorID: testModeratorID,
			targetID:    testTargetID,
			members: map[int64]*interfaces.MemberInfo{
				testBotID:       {UserID: testBotID, TopRolePosition: 10},
				testModeratorID: {UserID: testModeratorID, TopRolePosition: 4},
				testTargetID:    {UserID: testTargetID, TopRolePosition: 4},
			},
			wantErr: ErrTargetOutranks,
		},
		{
			name:        "owner bypasses moderator rank",
			moderatorID: testOwnerID,
			targetID:    testTargetID,
			members: map[int64]*interfaces.MemberInfo{
				testBotID:    {UserID: testBotID, TopRolePosition: 10},
				testOwnerID:  {UserID: testOwnerID, TopRolePosition: 0},
				testTargetID: {UserID: testTargetID, TopRolePosition: 8},
			},
		},
		{
			name:        "bot outranked",
			moderatorID: testModeratorID,
			targetID:    testTargetID,
			members: map[int64]*interfaces.MemberInfo{
				testBotID:       {UserID: testBotID, TopRolePosition: 6},
				testModeratorID: {UserID: testModeratorID, TopRolePosition: 9},
				testTargetID:    {UserID: testTargetID, TopRolePosition: 6},
			},
			wantErr: ErrBotOutranked,
		},
		{
			name:        "target not in guild",
			moderatorID: testModeratorID,
			targetID:    999,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newModerationFixture(t, tt.members)
			err := f.service.CheckHierarchy(context.Background(), tt.moderatorID, tt.targetID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestModerationService_Ban(t *testing.T) {
	t.Parallel()

	t.Run("bans and records case", func(t *testing.T) {
		t.Parallel()

		f := newModerationFixture(t, nil)
		f.gateway.On("Ban", mock.Anything, testGuildID, testTargetID, mock.AnythingOfType("string"), 7).Return(nil)

		modCase, err := f.service.Ban(context.Background(), interfaces.ModerationRequest{
			ModeratorID: testModeratorID,
			TargetID:    testTargetID,
			Reason:      "spam",
		}, 30)
		require.NoError(t, err)

		assert.Equal(t, entities.CaseActionBan, modCase.Action)
		assert.Equal(t, int64(7), modCase.CaseNumber)
		assert.Equal(t, "spam", modCase.Reason)
		f.gateway.AssertCalled(t, "SendDirectMessage", mock.Anything, testTargetID, "You have been banned in **Test** | spam")
		assert.Len(t, f.publisher.Events, 1)
	})

	t.Run("api failure records no case", func(t *testing.T) {
		t.Parallel()

		f := newModerationFixture(t, nil)
		f.gateway.On("Ban", mock.Anything, testGuildID, testTargetID, mock.Anything, 0).Return(errors.New("missing permissions"))

		_, err := f.service.Ban(context.Background(), interfaces.ModerationRequest{
			ModeratorID: testModeratorID,
			TargetID:    testTargetID,
		}, 0)
		require.Error(t, err)
		f.cases.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Events)
	})

	t.Run("DM failure does not abort", func(t *testing.T) {
		t.Parallel()

		f := newModerationFixture(t, nil)
		f.gateway.ExpectedCalls = filterCalls(f.gateway.ExpectedCalls, "SendDirectMessage")
		f.gateway.On("SendDirectMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("cannot send messages to this user"))
		f.gateway.On("Ban", mock.Anything, testGuildID, testTargetID, mock.Anything, 0).Return(nil)

		_, err := f.service.Ban(context.Background(), interfaces.ModerationRequest{
			ModeratorID: testModeratorID,
			TargetID:    testTargetID,
		}, 0)
		assert.NoError(t, err)
	})
}

func TestModerationService_Unban_SkipsHierarchy(t *testing.T) {
	t.Parallel()

	f := newModerationFixture(t, nil)
	f.gateway.On("Unban", mock.Anything, testGuildID, testOwnerID, mock.Anything).Return(nil)

	modCase, err := f.service.Unban(context.Background(), interfaces.ModerationRequest{
		ModeratorID: testModeratorID,
		TargetID:    testOwnerID,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.CaseActionUnban, modCase.Action)
	assert.Equal(t, entities.DefaultCaseReason, modCase.Reason)
}

func TestModerationService_Timeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		wantErr  error
	}{
		{name: "too short", duration: 30 * time.Second, wantErr: ErrTimeoutOutOfRange},
		{name: "too long", duration: 29 * 24 * time.Hour, wantErr: ErrTimeoutOutOfRange},
		{name: "minimum", duration: time.Minute},
		{name: "maximum", duration: 28 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newModerationFixture(t, nil)
			f.gateway.On("Timeout", mock.Anything, testGuildID, testTargetID, mock.AnythingOfType("*time.Time"), mock.Anything).Return(nil)

			modCase, err := f.service.Timeout(context.Background(), interfaces.ModerationRequest{
				ModeratorID: testModeratorID,
				TargetID:    testTargetID,
			}, tt.duration)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.gateway.AssertNotCalled(t, "Timeout", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.duration, modCase.Duration())
		})
	}
}

func TestModerationService_Kick_RequiresMember(t *testing.T) {
	t.Parallel()

	f := newModerationFixture(t, nil)

	_, err := f.service.Kick(context.Background(), interfaces.ModerationRequest{
		ModeratorID: testModeratorID,
		TargetID:    999,
	})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestModerationService_Warn(t *testing.T) {
	t.Parallel()

	f := newModerationFixture(t, nil)
	f.warnings.On("Create", mock.Anything, mock.MatchedBy(func(w *entities.Warning) bool {
		return w.UserID == testTargetID && w.CaseNumber != nil && *w.CaseNumber == 7 && w.Reason == "rude"
	})).Return(nil)

	modCase, err := f.service.Warn(context.Background(), interfaces.ModerationRequest{
		ModeratorID: testModeratorID,
		TargetID:    testTargetID,
		Reason:      "rude",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.CaseActionWarn, modCase.Action)
	f.warnings.AssertExpectations(t)
	f.gateway.AssertNotCalled(t, "SendDirectMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerationService_Jail(t *testing.T) {
	t.Parallel()

	jailRole := testJailRoleID
	jailSettings := &entities.GuildSettings{GuildID: testGuildID, JailRoleID: &jailRole}

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()

		f := newModerationFixture(t, nil)
		f.settings.On("GetOrCreateGuildSettings", mock.Anything, testGuildID).Return(&entities.GuildSettings{GuildID: testGuildID}, nil)

		_, err := f.service.Jail(context.Background(), interfaces.ModerationRequest{ModeratorID: testModeratorID, TargetID: testTargetID})
		assert.ErrorIs(t, err, ErrJailNotConfigured)
	})

	t.Run("already jailed", func(t *testing.T) {
		t.Parallel()

		f := newModerationFixture(t, nil)
		f.settings.On("GetOrCreateGuildSettings", mock.Anything, testGuildID).Return(jailSettings, nil)
		f.jail.On("Get", mock.Anything, testTargetID).Return(&entities.JailedMember{UserID: testTargetID}, nil)

		_, err := f.service.Jail(context.Background(), interfaces.ModerationRequest{ModeratorID: testModeratorID, TargetID: testTargetID})
		assert.ErrorIs(t, err, ErrAlreadyJailed)
	})

	t.Run("stores assignable roles and applies jail role", func(t *testing.T) {
		t.Parallel()

		members := map[int64]*interfaces.MemberInfo{
			testBotID:       {UserID: testBotID, TopRolePosition: 10},
			testModeratorID: {UserID: testModeratorID, TopRolePosition: 5},
			testTargetID:    {UserID: testTargetID, TopRolePosition: 3, RoleIDs: []int64{301, 302, 900, testJailRoleID}},
		}
		f := newModerationFixture(t, members)
		f.settings.On("GetOrCreateGuildSettings", mock.Anything, testGuildID).Return(jailSettings, nil)
		f.jail.On("Get", mock.Anything, testTargetID).Return(nil, nil)
		f.gateway.On("UnassignableRoleIDs", mock.Anything, testGuildID).Return(map[int64]bool{900: true}, nil)
		f.gateway.On("SetRoles", mock.Anything, testGuildID, testTargetID, []int64{testJailRoleID, 900}, mock.Anything).Return(nil)
		f.jail.On("Create", mock.Anything, mock.MatchedBy(func(m *entities.JailedMember) bool {
			return assert.ObjectsAreEqual([]int64{301, 302}, m.RoleIDs)
		})).Return(nil)

		modCase, err := f.service.Jail(context.Background(), interfaces.ModerationRequest{ModeratorID: testModeratorID, TargetID: testTargetID})
		require.NoError(t, err)
		assert.Equal(t, entities.CaseActionJail, modCase.Action)
		f.jail.AssertExpectations(t)
		f.gateway.AssertExpectations(t)
	})
}

func TestModerationService_Unjail(t *testing.T) {
	t.Parallel()

	jailRole := testJailRoleID
	jailSettings := &entities.GuildSettings{GuildID: testGuildID, JailRoleID: &jailRole}

	t.Run("not jailed", func(t *testing.T) {
		t.Parallel()

		f := newModerationFixture(t, nil)
		f.jail.On("Get", mock.Anything, testTargetID).Return(nil, nil)

		_, err := f.service.Unjail(context.Background(), interfaces.ModerationRequest{ModeratorID: testModeratorID, TargetID: testTargetID})
		assert.ErrorIs(t, err, ErrNotJailed)
	})

	t.Run("restores stored roles", func(t *testing.T) {
		t.Parallel()

		members := map[int64]*interfaces.MemberInfo{
			testBotID:       {UserID: testBotID, TopRolePosition: 10},
			testModeratorID: {UserID: testModeratorID, TopRolePosition: 5},
			testTargetID:    {UserID: testTargetID, TopRolePosition: 1, RoleIDs: []int64{testJailRoleID, 900}},
		}
		f := newModerationFixture(t, members)
		f.settings.On("GetOrCreateGuildSettings", mock.Anything, testGuildID).Return(jailSettings, nil)
		f.jail.On("Get", mock.Anything, testTargetID).Return(&entities.JailedMember{UserID: testTargetID, RoleIDs: []int64{301, 302}}, nil)
		f.jail.On("Delete", mock.Anything, testTargetID).Return(true, nil)
		f.gateway.On("UnassignableRoleIDs", mock.Anything, testGuildID).Return(map[int64]bool{}, nil)
		f.gateway.On("Role", mock.Anything, testGuildID, mock.Anything).Return(&interfaces.RoleInfo{Position: 2}, nil)
		f.gateway.On("SetRoles", mock.Anything, testGuildID, testTargetID, []int64{301, 302, 900}, mock.Anything).Return(nil)

		modCase, err := f.service.Unjail(context.Background(), interfaces.ModerationRequest{ModeratorID: testModeratorID, TargetID: testTargetID})
		require.NoError(t, err)
		assert.Equal(t, entities.CaseActionUnjail, modCase.Action)
		f.gateway.AssertExpectations(t)
		f.jail.AssertExpectations(t)
	})

	t.Run("skips deleted and unassignable roles", func(t *testing.T) {
		t.Parallel()

		members := map[int64]*interfaces.MemberInfo{
			testBotID:       {UserID: testBotID, TopRolePosition: 10},
			testModeratorID: {UserID: testModeratorID, TopRolePosition: 5},
			testTargetID:    {UserID: testTargetID, TopRolePosition: 1, RoleIDs: []int64{testJailRoleID}},
		}
		f := newModerationFixture(t, members)
		f.settings.On("GetOrCreateGuildSettings", mock.Anything, testGuildID).Return(jailSettings, nil)
		f.jail.On("Get", mock.Anything, testTargetID).Return(&entities.JailedMember{UserID: testTargetID, RoleIDs: []int64{301, 302, 303}}, nil)
		f.jail.On("Delete", mock.Anything, testTargetID).Return(true, nil)
		f.gateway.On("UnassignableRoleIDs", mock.Anything, testGuildID).Return(map[int64]bool{302: true}, nil)
		f.gateway.On("Role", mock.Anything, testGuildID, int64(301)).Return(&interfaces.RoleInfo{ID: 301, Position: 2}, nil)
		f.gateway.On("Role", mock.Anything, testGuildID, int64(303)).Return(nil, nil)
		f.gateway.On("SetRoles", mock.Anything, testGuildID, testTargetID, []int64{301}, mock.Anything).Return(nil)

		_, err := f.service.Unjail(context.Background(), interfaces.ModerationRequest{ModeratorID: testModeratorID, TargetID: testTargetID})
		require.NoError(t, err)
		f.gateway.AssertExpectations(t)
		f.gateway.AssertNotCalled(t, "Role", mock.Anything, testGuildID, int64(302))
	})
}

func TestModerationService_AddRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		role    *interfaces.RoleInfo
		wantErr error
	}{
		{name: "assignable", role: &interfaces.RoleInfo{ID: 77, Position: 2}},
		{name: "missing role", role: nil, wantErr: ErrRoleNotFound},
		{name: "managed", role: &interfaces.RoleInfo{ID: 77, Position: 1, Managed: true}, wantErr: ErrRoleManaged},
		{name: "above moderator", role: &interfaces.RoleInfo{ID: 77, Position: 5}, wantErr: ErrRoleTooHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newModerationFixture(t, nil)
			if tt.role == nil {
				f.gateway.On("Role", mock.Anything, testGuildID, int64(77)).Return(nil, nil)
			} else {
				f.gateway.On("Role", mock.Anything, testGuildID, int64(77)).Return(tt.role, nil)
			}
			f.gateway.On("AddRole", mock.Anything, testGuildID, testTargetID, int64(77), mock.Anything).Return(nil)

			modCase, err := f.service.AddRole(context.Background(), interfaces.ModerationRequest{
				ModeratorID: testModeratorID,
				TargetID:    testTargetID,
			}, 77)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, modCase.RoleID)
			assert.Equal(t, int64(77), *modCase.RoleID)
			assert.Equal(t, entities.CaseActionRoleAdd, modCase.Action)
		})
	}
}

func TestModerationService_Warnings(t *testing.T) {
	t.Parallel()

	f := newModerationFixture(t, nil)
	f.warnings.On("Delete", mock.Anything, int64(3)).Return(false, nil)
	f.warnings.On("Delete", mock.Anything, int64(4)).Return(true, nil)
	f.warnings.On("DeleteByUser", mock.Anything, testTargetID).Return(int64(2), nil)

	ctx := context.Background()
	assert.ErrorIs(t, f.service.RemoveWarning(ctx, 3), ErrWarningNotFound)
	assert.NoError(t, f.service.RemoveWarning(ctx, 4))

	count, err := f.service.ClearWarnings(ctx, testTargetID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

// filterCalls drops expectations for a method so a test can override them
func filterCalls(calls []*mock.Call, method string) []*mock.Call {
	out := calls[:0]
	for _, c := range calls {
		if c.Method != method {
			out = append(out, c)
		}
	}
	return out
}
