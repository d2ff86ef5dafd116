package application_test

import (
	"context"
	"testing"

	"warden/application"
	"warden/domain/entities"
	"warden/domain/services"
	"warden/domain/testhelpers"
	"warden/events"
	"warden/repository"
	"warden/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCase(t *testing.T, factory application.UnitOfWorkFactory, guildID int64) *entities.ModCase {
	t.Helper()
	ctx := context.Background()

	uow := factory.CreateForGuild(guildID)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	modCase, err := services.NewCaseService(guildID, uow.CaseRepository(), uow.EventBus()).CreateCase(ctx, entities.NewCase{
		Action:      entities.CaseActionBan,
		TargetID:    200,
		ModeratorID: 100,
		Reason:      "spam",
	})
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	return modCase
}

func setModLogChannel(t *testing.T, factory application.UnitOfWorkFactory, guildID, channelID int64) {
	t.Helper()
	ctx := context.Background()

	uow := factory.CreateForGuild(guildID)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	svc := services.NewGuildSettingsService(uow.GuildSettingsRepository(), uow.EventBus())
	require.NoError(t, svc.UpdateModLogChannel(ctx, guildID, &channelID))
	require.NoError(t, uow.Commit())
}

func TestModLogEventHandler(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	t.Run("posts and stores the log message", func(t *testing.T) {
		recorder := &testhelpers.RecordingPublisher{}
		factory := &testUnitOfWorkFactory{db: testDB.DB, recorder: recorder}
		poster := &fakeModLogPoster{}
		handler := application.NewModLogEventHandler(factory, poster)

		const guildID = 1001
		setModLogChannel(t, factory, guildID, 77)
		modCase := createCase(t, factory, guildID)

		created := recorder.OfType(events.EventTypeCaseCreated)
		require.Len(t, created, 1)
		require.NoError(t, handler.HandleCaseCreated(ctx, created[0]))

		require.Len(t, poster.posts, 1)
		assert.Equal(t, int64(77), poster.posts[0].channelID)
		assert.Equal(t, modCase.CaseNumber, poster.posts[0].modCase.CaseNumber)

		stored, err := repository.NewCaseRepositoryScoped(testDB.DB.Pool, guildID).GetByNumber(ctx, modCase.CaseNumber)
		require.NoError(t, err)
		require.NotNil(t, stored.LogMessageID)
		assert.Equal(t, poster.posts[0].messageID, *stored.LogMessageID)
		assert.Equal(t, int64(77), *stored.LogChannelID)
	})

	t.Run("skips guilds without a mod log channel", func(t *testing.T) {
		recorder := &testhelpers.RecordingPublisher{}
		factory := &testUnitOfWorkFactory{db: testDB.DB, recorder: recorder}
		poster := &fakeModLogPoster{}
		handler := application.NewModLogEventHandler(factory, poster)

		createCase(t, factory, 1002)
		require.NoError(t, handler.HandleCaseCreated(ctx, recorder.OfType(events.EventTypeCaseCreated)[0]))
		assert.Empty(t, poster.posts)
	})

	t.Run("edits a posted case after a reason change", func(t *testing.T) {
		recorder := &testhelpers.RecordingPublisher{}
		factory := &testUnitOfWorkFactory{db: testDB.DB, recorder: recorder}
		poster := &fakeModLogPoster{}
		handler := application.NewModLogEventHandler(factory, poster)

		const guildID = 1003
		setModLogChannel(t, factory, guildID, 88)
		modCase := createCase(t, factory, guildID)
		require.NoError(t, handler.HandleCaseCreated(ctx, recorder.OfType(events.EventTypeCaseCreated)[0]))

		uow := factory.CreateForGuild(guildID)
		require.NoError(t, uow.Begin(ctx))
		_, err := services.NewCaseService(guildID, uow.CaseRepository(), uow.EventBus()).UpdateReason(ctx, modCase.CaseNumber, "raiding", 100)
		require.NoError(t, err)
		require.NoError(t, uow.Commit())

		updated := recorder.OfType(events.EventTypeCaseUpdated)
		require.Len(t, updated, 1)
		require.NoError(t, handler.HandleCaseUpdated(ctx, updated[0]))

		require.Len(t, poster.edits, 1)
		assert.Equal(t, int64(88), poster.edits[0].channelID)
		assert.Equal(t, poster.posts[0].messageID, poster.edits[0].messageID)
		assert.Equal(t, "raiding", poster.edits[0].modCase.Reason)
	})

	t.Run("unposted case is not edited", func(t *testing.T) {
		recorder := &testhelpers.RecordingPublisher{}
		factory := &testUnitOfWorkFactory{db: testDB.DB, recorder: recorder}
		poster := &fakeModLogPoster{}
		handler := application.NewModLogEventHandler(factory, poster)

		modCase := createCase(t, factory, 1004)
		err := handler.HandleCaseUpdated(ctx, events.CaseUpdatedEvent{GuildID: 1004, CaseNumber: modCase.CaseNumber, Reason: "x"})
		require.NoError(t, err)
		assert.Empty(t, poster.edits)
	})

	t.Run("wrong event type", func(t *testing.T) {
		handler := application.NewModLogEventHandler(&testUnitOfWorkFactory{db: testDB.DB, recorder: &testhelpers.RecordingPublisher{}}, &fakeModLogPoster{})
		err := handler.HandleCaseCreated(ctx, events.AutomationChangedEvent{GuildID: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected CaseCreatedEvent")
	})
}
