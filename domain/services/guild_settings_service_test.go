package services

import (
	"context"
	"errors"
	"testing"

	"warden/domain/entities"
	"warden/domain/testhelpers"
	"warden/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuildSettingsService_UpdateWelcome(t *testing.T) {
	t.Parallel()

	channelID := int64(42)
	message := "hey {user}"

	tests := []struct {
		name        string
		message     *string
		existing    *string
		wantMessage *string
	}{
		{name: "sets message", message: &message, wantMessage: &message},
		{name: "nil keeps existing", existing: &message, wantMessage: &message},
		{name: "nil without existing", wantMessage: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := new(testhelpers.MockGuildSettingsRepository)
			settings := &entities.GuildSettings{GuildID: testGuildID, WelcomeMessage: tt.existing}
			repo.On("GetOrCreateGuildSettings", mock.Anything, testGuildID).Return(settings, nil)
			repo.On("UpdateGuildSettings", mock.Anything, settings).Return(nil)
			publisher := &testhelpers.RecordingPublisher{}

			err := NewGuildSettingsService(repo, publisher).UpdateWelcome(context.Background(), testGuildID, &channelID, tt.message)
			require.NoError(t, err)

			assert.Equal(t, &channelID, settings.WelcomeChannelID)
			assert.Equal(t, tt.wantMessage, settings.WelcomeMessage)
			changed := publisher.OfType(events.EventTypeSettingsChanged)
			require.Len(t, changed, 1)
			assert.Equal(t, "welcome", changed[0].(events.SettingsChangedEvent).Setting)
		})
	}
}

func TestGuildSettingsService_UpdateModLogChannel_Disable(t *testing.T) {
	t.Parallel()

	channelID := int64(9)
	settings := &entities.GuildSettings{GuildID: testGuildID, ModLogChannelID: &channelID}
	repo := new(testhelpers.MockGuildSettingsRepository)
	repo.On("GetOrCreateGuildSettings", mock.Anything, testGuildID).Return(settings, nil)
	repo.On("UpdateGuildSettings", mock.Anything, settings).Return(nil)

	err := NewGuildSettingsService(repo, &testhelpers.RecordingPublisher{}).UpdateModLogChannel(context.Background(), testGuildID, nil)
	require.NoError(t, err)
	assert.False(t, settings.HasModLogChannel())
}

func TestGuildSettingsService_RepositoryError(t *testing.T) {
	t.Parallel()

	repo := new(testhelpers.MockGuildSettingsRepository)
	repo.On("GetOrCreateGuildSettings", mock.Anything, testGuildID).Return(nil, errors.New("database connection failed"))
	publisher := &testhelpers.RecordingPublisher{}

	err := NewGuildSettingsService(repo, publisher).SetWelcomeCard(context.Background(), testGuildID, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get guild settings")
	assert.Empty(t, publisher.Events)
}
