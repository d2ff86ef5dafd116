package infrastructure

import (
	"context"
	"testing"
	"time"

	"warden/domain/interfaces"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestMemoryLocker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("second acquire fails while held", func(t *testing.T) {
		t.Parallel()
		locker := NewMemoryLocker()

		release, err := locker.Acquire(ctx, "purge:1", time.Minute)
		require.NoError(t, err)

		_, err = locker.Acquire(ctx, "purge:1", time.Minute)
		assert.ErrorIs(t, err, interfaces.ErrLockHeld)

		// Other keys are independent
		releaseOther, err := locker.Acquire(ctx, "purge:2", time.Minute)
		require.NoError(t, err)
		releaseOther()

		release()
		release2, err := locker.Acquire(ctx, "purge:1", time.Minute)
		require.NoError(t, err)
		release2()
	})

	t.Run("expired lock can be taken and stale release is ignored", func(t *testing.T) {
		t.Parallel()
		locker := NewMemoryLocker()
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		locker.now = func() time.Time { return now }

		staleRelease, err := locker.Acquire(ctx, "massrole:1", time.Minute)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, err = locker.Acquire(ctx, "massrole:1", time.Minute)
		require.NoError(t, err)

		staleRelease()
		_, err = locker.Acquire(ctx, "massrole:1", time.Minute)
		assert.ErrorIs(t, err, interfaces.ErrLockHeld)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewMemoryLocker().Acquire(cancelled, "lockdown:1", time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRedisLocker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithLabels(map[string]string{"test": "warden-locker", "cleanup": "auto"}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate redis container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	first := NewRedisLocker(client)
	second := NewRedisLocker(client)

	release, err := first.Acquire(ctx, "jailsetup:1", time.Minute)
	require.NoError(t, err)

	_, err = second.Acquire(ctx, "jailsetup:1", time.Minute)
	assert.ErrorIs(t, err, interfaces.ErrLockHeld)

	release()
	releaseAgain, err := second.Acquire(ctx, "jailsetup:1", time.Minute)
	require.NoError(t, err)
	releaseAgain()
}
