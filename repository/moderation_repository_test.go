package repository

import (
	"context"
	"testing"

	"warden/domain/entities"
	"warden/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarningRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewWarningRepositoryScoped(testDB.DB.Pool, 111)

	caseNumber := int64(3)
	first := &entities.Warning{UserID: 42, ModeratorID: 7, Reason: "spam", CaseNumber: &caseNumber}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, &entities.Warning{UserID: 42, ModeratorID: 7, Reason: "caps"}))
	require.NoError(t, repo.Create(ctx, &entities.Warning{UserID: 43, ModeratorID: 7, Reason: "links"}))

	warnings, err := repo.ListByUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Equal(t, "spam", warnings[0].Reason)
	assert.Equal(t, &caseNumber, warnings[0].CaseNumber)

	deleted, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	removed, err := repo.DeleteByUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestJailRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewJailRepositoryScoped(testDB.DB.Pool, 111)

	t.Run("missing record", func(t *testing.T) {
		record, err := repo.Get(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("stores role ids", func(t *testing.T) {
		record := &entities.JailedMember{UserID: 42, RoleIDs: []int64{10, 20, 30}, ModeratorID: 7, Reason: "raid"}
		require.NoError(t, repo.Create(ctx, record))
		assert.False(t, record.JailedAt.IsZero())

		got, err := repo.Get(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []int64{10, 20, 30}, got.RoleIDs)

		assert.Error(t, repo.Create(ctx, &entities.JailedMember{UserID: 42, ModeratorID: 7, Reason: "again"}))
	})

	t.Run("nil roles stored as empty", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &entities.JailedMember{UserID: 43, ModeratorID: 7, Reason: "spam"}))
		got, err := repo.Get(ctx, 43)
		require.NoError(t, err)
		assert.Empty(t, got.RoleIDs)
	})

	t.Run("list and delete", func(t *testing.T) {
		members, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, members, 2)

		deleted, err := repo.Delete(ctx, 42)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, 42)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestGuildSettingsRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewGuildSettingsRepository(testDB.DB)

	settings, err := repo.GetOrCreateGuildSettings(ctx, 111)
	require.NoError(t, err)
	assert.Equal(t, int64(111), settings.GuildID)
	assert.False(t, settings.HasModLogChannel())
	assert.False(t, settings.WelcomeCardEnabled)

	channelID := int64(555)
	message := "hi {user.mention}"
	settings.ModLogChannelID = &channelID
	settings.WelcomeChannelID = &channelID
	settings.WelcomeMessage = &message
	settings.WelcomeCardEnabled = true
	require.NoError(t, repo.UpdateGuildSettings(ctx, settings))

	again, err := repo.GetOrCreateGuildSettings(ctx, 111)
	require.NoError(t, err)
	assert.True(t, again.HasModLogChannel())
	assert.Equal(t, message, again.WelcomeTemplate())
	assert.True(t, again.WelcomeCardEnabled)

	assert.Error(t, repo.UpdateGuildSettings(ctx, &entities.GuildSettings{GuildID: 999}))
}
