package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"warden/domain/entities"
	"warden/domain/testhelpers"
	"warden/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCaseService_CreateCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		newCase    entities.NewCase
		setupMock  func(*testhelpers.MockCaseRepository)
		wantReason string
		wantErr    string
	}{
		{
			name:    "empty reason gets default",
			newCase: entities.NewCase{Action: entities.CaseActionKick, TargetID: 2, ModeratorID: 3},
			setupMock: func(repo *testhelpers.MockCaseRepository) {
				repo.On("NextCaseNumber", mock.Anything).Return(int64(1), nil)
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			wantReason: entities.DefaultCaseReason,
		},
		{
			name:    "duration stored in seconds",
			newCase: entities.NewCase{Action: entities.CaseActionTimeout, TargetID: 2, ModeratorID: 3, Reason: "  loud  ", Duration: 10 * time.Minute},
			setupMock: func(repo *testhelpers.MockCaseRepository) {
				repo.On("NextCaseNumber", mock.Anything).Return(int64(12), nil)
				repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.ModCase) bool {
					return c.DurationSeconds != nil && *c.DurationSeconds == 600 && c.CaseNumber == 12
				})).Return(nil)
			},
			wantReason: "loud",
		},
		{
			name:    "counter failure",
			newCase: entities.NewCase{Action: entities.CaseActionBan},
			setupMock: func(repo *testhelpers.MockCaseRepository) {
				repo.On("NextCaseNumber", mock.Anything).Return(int64(0), errors.New("connection reset"))
			},
			wantErr: "failed to reserve case number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := new(testhelpers.MockCaseRepository)
			tt.setupMock(repo)
			publisher := &testhelpers.RecordingPublisher{}

			service := NewCaseService(testGuildID, repo, publisher)
			got, err := service.CreateCase(context.Background(), tt.newCase)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, publisher.Events)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, testGuildID, got.GuildID)

			created := publisher.OfType(events.EventTypeCaseCreated)
			require.Len(t, created, 1)
			assert.Equal(t, got.CaseNumber, created[0].(events.CaseCreatedEvent).CaseNumber)
			repo.AssertExpectations(t)
		})
	}
}

func TestCaseService_GetCase_NotFound(t *testing.T) {
	t.Parallel()

	repo := new(testhelpers.MockCaseRepository)
	repo.On("GetByNumber", mock.Anything, int64(99)).Return(nil, nil)

	service := NewCaseService(testGuildID, repo, &testhelpers.RecordingPublisher{})
	_, err := service.GetCase(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestCaseService_UpdateReason(t *testing.T) {
	t.Parallel()

	repo := new(testhelpers.MockCaseRepository)
	repo.On("GetByNumber", mock.Anything, int64(5)).Return(&entities.ModCase{CaseNumber: 5, Reason: "old"}, nil)
	repo.On("UpdateReason", mock.Anything, int64(5), "new reason").Return(nil)
	publisher := &testhelpers.RecordingPublisher{}

	service := NewCaseService(testGuildID, repo, publisher)
	got, err := service.UpdateReason(context.Background(), 5, "new reason", 3)
	require.NoError(t, err)
	assert.Equal(t, "new reason", got.Reason)

	updated := publisher.OfType(events.EventTypeCaseUpdated)
	require.Len(t, updated, 1)
	assert.Equal(t, events.CaseUpdatedEvent{GuildID: testGuildID, CaseNumber: 5, Reason: "new reason", ModeratorID: 3}, updated[0])
}

func TestNormalizeReason_Truncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", maxReasonLength+10)
	assert.Equal(t, maxReasonLength, len([]rune(normalizeReason(long))))
}
