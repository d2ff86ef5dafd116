package infrastructure

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"warden/domain/entities"
	"warden/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutomationCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var loads atomic.Int32
	loader := func(ctx context.Context, guildID int64) (*entities.AutomationSnapshot, error) {
		loads.Add(1)
		if guildID == 0 {
			return nil, errors.New("boom")
		}
		return &entities.AutomationSnapshot{
			GuildID:    guildID,
			Responders: []*entities.AutoResponder{{Trigger: "hi", Response: "hello"}},
		}, nil
	}

	c := NewAutomationCache(loader, time.Minute)

	t.Run("loads once then serves from cache", func(t *testing.T) {
		first, err := c.Get(ctx, 1)
		require.NoError(t, err)
		second, err := c.Get(ctx, 1)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), loads.Load())
		assert.Equal(t, 1, c.Len())
	})

	t.Run("loader errors are not cached", func(t *testing.T) {
		_, err := c.Get(ctx, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "guild 0")
		assert.Equal(t, 1, c.Len())
	})

	t.Run("automation change event invalidates", func(t *testing.T) {
		bus := events.NewBus()
		c.Subscribe(bus)
		before := loads.Load()

		bus.Emit(ctx, events.AutomationChangedEvent{GuildID: 1})
		require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)

		_, err := c.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, before+1, loads.Load())
	})
}

func TestAutomationCache_InvalidateDuringLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	var loads atomic.Int32
	loader := func(ctx context.Context, guildID int64) (*entities.AutomationSnapshot, error) {
		n := loads.Add(1)
		if n == 1 {
			close(started)
			<-release
			return &entities.AutomationSnapshot{GuildID: guildID}, nil
		}
		return &entities.AutomationSnapshot{
			GuildID:    guildID,
			Responders: []*entities.AutoResponder{{Trigger: "new", Response: "fresh"}},
		}, nil
	}
	c := NewAutomationCache(loader, time.Minute)

	done := make(chan *entities.AutomationSnapshot)
	go func() {
		snapshot, _ := c.Get(ctx, 1)
		done <- snapshot
	}()

	<-started
	c.Invalidate(1)
	close(release)

	stale := <-done
	require.NotNil(t, stale)
	assert.Empty(t, stale.Responders)
	assert.Equal(t, 0, c.Len())

	fresh, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, fresh.Responders, 1)
	assert.Equal(t, int32(2), loads.Load())
}
