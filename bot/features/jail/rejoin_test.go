package jail

import (
	"context"
	"errors"
	"testing"

	"warden/application"
	"warden/domain/entities"
	"warden/domain/testhelpers"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeFactory struct {
	uow *testhelpers.FakeUnitOfWork
}

func (f fakeFactory) CreateForGuild(int64) application.UnitOfWork { return f.uow }

func TestOnMemberAdd(t *testing.T) {
	t.Parallel()

	const (
		guildID int64 = 1
		userID  int64 = 200
	)
	jailRole := int64(77)
	record := &entities.JailedMember{GuildID: guildID, UserID: userID, RoleIDs: []int64{10}}
	member := &discordgo.Member{GuildID: "1", User: &discordgo.User{ID: "200"}}

	tests := []struct {
		name      string
		record    *entities.JailedMember
		repoErr   error
		settings  *entities.GuildSettings
		wantJail  bool
		wantRoles bool
	}{
		{
			name:     "not jailed",
			wantJail: false,
		},
		{
			name:      "jailed member gets the jail role back",
			record:    record,
			settings:  &entities.GuildSettings{GuildID: guildID, JailRoleID: &jailRole},
			wantJail:  true,
			wantRoles: true,
		},
		{
			name:     "jailed but jail no longer configured",
			record:   record,
			settings: &entities.GuildSettings{GuildID: guildID},
			wantJail: true,
		},
		{
			name:     "repository failure",
			repoErr:  errors.New("connection reset"),
			wantJail: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			jailRepo := new(testhelpers.MockJailRepository)
			settingsRepo := new(testhelpers.MockGuildSettingsRepository)
			gateway := new(testhelpers.MockModerationGateway)

			jailRepo.On("Get", mock.Anything, userID).Return(tt.record, tt.repoErr)
			if tt.settings != nil {
				settingsRepo.On("GetOrCreateGuildSettings", mock.Anything, guildID).Return(tt.settings, nil)
			}
			if tt.wantRoles {
				gateway.On("SetRoles", mock.Anything, guildID, userID, []int64{jailRole}, rejoinReason).Return(nil)
			}

			uow := &testhelpers.FakeUnitOfWork{Jail: jailRepo, GuildSettings: settingsRepo}
			f := NewFeature(nil, fakeFactory{uow: uow}, gateway, nil)

			assert.Equal(t, tt.wantJail, f.OnMemberAdd(ctx, member))
			assert.Equal(t, tt.repoErr == nil, uow.Committed)

			jailRepo.AssertExpectations(t)
			settingsRepo.AssertExpectations(t)
			gateway.AssertExpectations(t)
			if !tt.wantRoles {
				gateway.AssertNotCalled(t, "SetRoles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOnMemberAdd_IgnoresIncompleteMembers(t *testing.T) {
	t.Parallel()

	f := NewFeature(nil, fakeFactory{uow: &testhelpers.FakeUnitOfWork{}}, nil, nil)
	assert.False(t, f.OnMemberAdd(context.Background(), nil))
	assert.False(t, f.OnMemberAdd(context.Background(), &discordgo.Member{GuildID: "1"}))
	assert.False(t, f.OnMemberAdd(context.Background(), &discordgo.Member{GuildID: "x", User: &discordgo.User{ID: "2"}}))
}
