package services

import (
	"context"
	"strings"
	"testing"

	"warden/domain/entities"
	"warden/domain/testhelpers"
	"warden/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type automationMocks struct {
	responders    *testhelpers.MockAutoResponderRepository
	reactions     *testhelpers.MockAutoReactionRepository
	autoRoles     *testhelpers.MockAutoRoleRepository
	reactionRoles *testhelpers.MockReactionRoleRepository
	publisher     *testhelpers.RecordingPublisher
}

func newAutomationService() (*automationService, *automationMocks) {
	m := &automationMocks{
		responders:    new(testhelpers.MockAutoResponderRepository),
		reactions:     new(testhelpers.MockAutoReactionRepository),
		autoRoles:     new(testhelpers.MockAutoRoleRepository),
		reactionRoles: new(testhelpers.MockReactionRoleRepository),
		publisher:     &testhelpers.RecordingPublisher{},
	}
	svc := NewAutomationService(testGuildID, AutomationRepositories{
		Responders:    m.responders,
		Reactions:     m.reactions,
		AutoRoles:     m.autoRoles,
		ReactionRoles: m.reactionRoles,
	}, m.publisher).(*automationService)
	return svc, m
}

func TestAutomationService_AddResponder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		trigger  string
		response string
		wantErr  error
	}{
		{name: "valid", trigger: "hello", response: "hi there"},
		{name: "empty trigger", trigger: " ", response: "x", wantErr: ErrInvalidTrigger},
		{name: "long trigger", trigger: strings.Repeat("t", MaxTriggerLength+1), response: "x", wantErr: ErrInvalidTrigger},
		{name: "empty response", trigger: "hi", response: "", wantErr: ErrInvalidResponse},
		{name: "long response", trigger: "hi", response: strings.Repeat("r", MaxResponseLength+1), wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, m := newAutomationService()
			m.responders.On("Upsert", mock.Anything, mock.Anything).Return(nil)

			got, err := svc.AddResponder(context.Background(), tt.trigger, tt.response, false, true)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, m.publisher.Events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.trigger, got.Trigger)
			assert.True(t, got.Reply)
			assert.Len(t, m.publisher.OfType(events.EventTypeAutomationChanged), 1)
		})
	}
}

func TestAutomationService_RemoveResponder_NotFound(t *testing.T) {
	t.Parallel()

	svc, m := newAutomationService()
	m.responders.On("Delete", mock.Anything, "nope").Return(false, nil)

	err := svc.RemoveResponder(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTriggerNotFound)
	assert.Empty(t, m.publisher.Events)
}

func TestAutomationService_AddReaction(t *testing.T) {
	t.Parallel()

	svc, m := newAutomationService()
	m.reactions.On("Upsert", mock.Anything, mock.MatchedBy(func(r *entities.AutoReaction) bool {
		return r.Trigger == "pizza" && len(r.Emojis) == 2
	})).Return(nil)

	ctx := context.Background()
	require.NoError(t, svc.AddReaction(ctx, " Pizza ", []string{"🍕", " ", "😋"}))
	assert.ErrorIs(t, svc.AddReaction(ctx, "x", []string{"1", "2", "3", "4", "5", "6"}), ErrTooManyEmojis)
	assert.ErrorIs(t, svc.AddReaction(ctx, "x", nil), ErrNoEmojis)
}

func TestAutomationService_AddAutoRole(t *testing.T) {
	t.Parallel()

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		svc, m := newAutomationService()
		full := make([]*entities.AutoRole, MaxAutoRolesPerGuild)
		m.autoRoles.On("List", mock.Anything).Return(full, nil)

		assert.ErrorIs(t, svc.AddAutoRole(context.Background(), 1), ErrTooManyAutoRoles)
	})

	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()

		svc, m := newAutomationService()
		m.autoRoles.On("List", mock.Anything).Return([]*entities.AutoRole{}, nil)
		m.autoRoles.On("Add", mock.Anything, int64(1)).Return(false, nil)

		assert.ErrorIs(t, svc.AddAutoRole(context.Background(), 1), ErrAutoRoleExists)
	})
}

func TestAutomationService_ClearReactionRoles(t *testing.T) {
	t.Parallel()

	svc, m := newAutomationService()
	m.reactionRoles.On("DeleteForMessage", mock.Anything, int64(10)).Return(int64(0), nil)
	m.reactionRoles.On("DeleteForMessage", mock.Anything, int64(11)).Return(int64(3), nil)

	count, err := svc.ClearReactionRoles(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, m.publisher.Events)

	count, err = svc.ClearReactionRoles(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Len(t, m.publisher.Events, 1)
}

func TestMatchResponder(t *testing.T) {
	t.Parallel()

	responders := []*entities.AutoResponder{
		{Trigger: "good morning", Response: "gm", Strict: true},
		{Trigger: "cat", Response: "meow"},
	}

	tests := []struct {
		content string
		want    string
	}{
		{content: "Good Morning", want: "gm"},
		{content: "  good morning  ", want: "gm"},
		{content: "good morning everyone", want: ""},
		{content: "I love my CAT!", want: "meow"},
		{content: "cat", want: "meow"},
		{content: "concatenate", want: ""},
		{content: "cats", want: ""},
		{content: "category cat", want: "meow"},
		{content: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			t.Parallel()

			got := MatchResponder(responders, tt.content)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Response)
		})
	}
}

func TestMatchReactions(t *testing.T) {
	t.Parallel()

	reactions := []*entities.AutoReaction{
		{Trigger: "pizza", Emojis: []string{"🍕", "😋"}},
		{Trigger: "food", Emojis: []string{"😋", "🍔"}},
	}

	assert.Equal(t, []string{"🍕", "😋", "🍔"}, MatchReactions(reactions, "Pizza is my favourite food"))
	assert.Empty(t, MatchReactions(reactions, "pizzas"))
}
