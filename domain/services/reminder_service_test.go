package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"warden/domain/entities"
	"warden/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReminderService_Create(t *testing.T) {
	t.Parallel()

	fixedNow := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		message  string
		delay    time.Duration
		existing int
		wantErr  error
	}{
		{name: "valid", message: "drink water", delay: time.Hour},
		{name: "empty message", message: "   ", delay: time.Hour, wantErr: ErrEmptyReminder},
		{name: "too long message", message: strings.Repeat("a", MaxReminderMessageSize+1), delay: time.Hour, wantErr: ErrReminderMessageSize},
		{name: "too soon", message: "x", delay: 30 * time.Second, wantErr: ErrReminderOutOfRange},
		{name: "too far", message: "x", delay: 366 * 24 * time.Hour, wantErr: ErrReminderOutOfRange},
		{name: "limit reached", message: "x", delay: time.Hour, existing: MaxRemindersPerUser, wantErr: ErrTooManyReminders},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := new(testhelpers.MockReminderRepository)
			repo.On("CountByUser", mock.Anything, int64(5)).Return(tt.existing, nil)
			repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Reminder")).Return(nil)

			service := &reminderService{guildID: testGuildID, reminderRepo: repo, now: func() time.Time { return fixedNow }}
			got, err := service.Create(context.Background(), 5, 6, tt.delay, tt.message)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, fixedNow.Add(tt.delay), got.RemindAt)
			assert.Equal(t, testGuildID, got.GuildID)
			assert.Equal(t, int64(6), got.ChannelID)
		})
	}
}

func TestReminderService_Delete(t *testing.T) {
	t.Parallel()

	repo := new(testhelpers.MockReminderRepository)
	repo.On("Delete", mock.Anything, int64(5), int64(1)).Return(true, nil)
	repo.On("Delete", mock.Anything, int64(6), int64(1)).Return(false, nil)

	service := NewReminderService(testGuildID, repo)
	assert.NoError(t, service.Delete(context.Background(), 5, 1))
	assert.ErrorIs(t, service.Delete(context.Background(), 6, 1), ErrReminderNotFound)
}

func TestReminderService_PopDue(t *testing.T) {
	t.Parallel()

	now := time.Now()
	due := []*entities.Reminder{{ID: 1, Message: "a"}, {ID: 2, Message: "b"}}
	repo := new(testhelpers.MockReminderRepository)
	repo.On("PopDue", mock.Anything, now).Return(due, nil)

	service := NewReminderService(testGuildID, repo)
	got, err := service.PopDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, due, got)
}
