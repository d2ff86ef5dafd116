package repository

import (
	"context"
	"testing"

	"warden/domain/entities"
	"warden/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoResponderRepository_UpsertIgnoresCase(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewAutoResponderRepositoryScoped(testDB.DB.Pool, 111)

	first := &entities.AutoResponder{Trigger: "Hello", Response: "hi"}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &entities.AutoResponder{Trigger: "hello", Response: "hey there", Strict: true}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	responders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, responders, 1)
	assert.Equal(t, "hello", responders[0].Trigger)
	assert.Equal(t, "hey there", responders[0].Response)
	assert.True(t, responders[0].Strict)

	deleted, err := repo.Delete(ctx, "HELLO")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "hello")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAutoReactionRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewAutoReactionRepositoryScoped(testDB.DB.Pool, 111)

	require.NoError(t, repo.Upsert(ctx, &entities.AutoReaction{Trigger: "cat", Emojis: []string{"🐱"}}))
	require.NoError(t, repo.Upsert(ctx, &entities.AutoReaction{Trigger: "cat", Emojis: []string{"🐱", "meow:123"}}))

	reactions, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, reactions, 1)
	assert.Equal(t, []string{"🐱", "meow:123"}, reactions[0].Emojis)

	deleted, err := repo.Delete(ctx, "cat")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestAutoRoleRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewAutoRoleRepositoryScoped(testDB.DB.Pool, 111)

	added, err := repo.Add(ctx, 10)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, 10)
	require.NoError(t, err)
	assert.False(t, added)

	roles, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, int64(10), roles[0].RoleID)

	removed, err := repo.Remove(ctx, 10)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestReactionRoleRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewReactionRoleRepositoryScoped(testDB.DB.Pool, 111)

	require.NoError(t, repo.Upsert(ctx, &entities.ReactionRole{ChannelID: 1, MessageID: 100, Emoji: "👍", RoleID: 10}))
	require.NoError(t, repo.Upsert(ctx, &entities.ReactionRole{ChannelID: 1, MessageID: 100, Emoji: "👍", RoleID: 11}))
	require.NoError(t, repo.Upsert(ctx, &entities.ReactionRole{ChannelID: 1, MessageID: 100, Emoji: "party:55", RoleID: 12}))
	require.NoError(t, repo.Upsert(ctx, &entities.ReactionRole{ChannelID: 1, MessageID: 200, Emoji: "👍", RoleID: 13}))

	bindings, err := repo.ListForMessage(ctx, 100)
	require.NoError(t, err)
	require.Len(t, bindings, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	deleted, err := repo.Delete(ctx, 100, "👍")
	require.NoError(t, err)
	assert.True(t, deleted)

	cleared, err := repo.DeleteForMessage(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)
}

func TestBoosterRoleRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewBoosterRoleRepositoryScoped(testDB.DB.Pool, 111)

	role, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, role)

	require.NoError(t, repo.Upsert(ctx, &entities.BoosterRole{UserID: 42, RoleID: 10}))
	require.NoError(t, repo.Upsert(ctx, &entities.BoosterRole{UserID: 42, RoleID: 11}))

	role, err = repo.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, int64(11), role.RoleID)

	roles, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	deleted, err := repo.Delete(ctx, 42)
	require.NoError(t, err)
	assert.True(t, deleted)
}
