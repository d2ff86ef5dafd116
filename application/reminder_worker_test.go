package application_test

import (
	"context"
	"testing"
	"time"

	"warden/application"
	"warden/domain/testhelpers"
	"warden/repository"
	"warden/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderWorker_ProcessDue(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	guildA := repository.NewReminderRepositoryScoped(testDB.DB.Pool, 1)
	guildB := repository.NewReminderRepositoryScoped(testDB.DB.Pool, 2)

	require.NoError(t, guildA.Create(ctx, testutil.CreateTestReminder(10, "stand up", -time.Minute)))
	require.NoError(t, guildA.Create(ctx, testutil.CreateTestReminder(10, "later", time.Hour)))
	require.NoError(t, guildB.Create(ctx, testutil.CreateTestReminder(20, "drink water", -time.Second)))
	require.NoError(t, guildB.Create(ctx, testutil.CreateTestReminder(30, "blocked dms", -time.Second)))

	sender := &fakeReminderSender{failFor: map[int64]bool{30: true}}
	factory := &testUnitOfWorkFactory{db: testDB.DB, recorder: &testhelpers.RecordingPublisher{}}
	worker := application.NewReminderWorker(factory, sender, time.Minute)

	sent, err := worker.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	messages := []string{}
	for _, r := range sender.sent {
		messages = append(messages, r.Message)
	}
	assert.ElementsMatch(t, []string{"stand up", "drink water"}, messages)

	// Failed deliveries are not retried
	sent, err = worker.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	pending, err := guildA.ListByUser(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "later", pending[0].Message)
}
