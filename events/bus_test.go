package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"warden/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransactionalPublisherFlush tests the flow from a unit-of-work publisher to the bus
func TestTransactionalPublisherFlush(t *testing.T) {
	bus := NewBus()
	tx := NewTransactionalPublisher(bus)

	received := make(chan CaseCreatedEvent, 1)
	bus.Subscribe(EventTypeCaseCreated, func(ctx context.Context, event Event) {
		if e, ok := event.(CaseCreatedEvent); ok {
			received <- e
		}
	})

	want := CaseCreatedEvent{
		GuildID:     789,
		CaseNumber:  4,
		Action:      entities.CaseActionBan,
		TargetID:    123,
		ModeratorID: 456,
		Reason:      "spam",
	}
	require.NoError(t, tx.Publish(want))
	assert.Equal(t, 1, tx.Pending())

	require.NoError(t, tx.Flush(context.Background()))
	assert.Equal(t, 0, tx.Pending())

	select {
	case got := <-received:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not received within timeout")
	}
}

func TestTransactionalPublisherDiscard(t *testing.T) {
	bus := NewBus()
	tx := NewTransactionalPublisher(bus)

	received := make(chan struct{}, 1)
	bus.Subscribe(EventTypeAutomationChanged, func(ctx context.Context, event Event) {
		received <- struct{}{}
	})

	require.NoError(t, tx.Publish(AutomationChangedEvent{GuildID: 1}))
	tx.Discard()
	require.NoError(t, tx.Flush(context.Background()))

	select {
	case <-received:
		t.Fatal("event was received despite being discarded")
	case <-time.After(100 * time.Millisecond):
	}
}

type failingPublisher struct {
	mu    sync.Mutex
	calls int
}

func (p *failingPublisher) Publish(event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return errors.New("broker unavailable")
}

func TestTransactionalPublisherFlushContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	real := &failingPublisher{}
	tx := NewTransactionalPublisher(real)

	require.NoError(t, tx.Publish(SettingsChangedEvent{GuildID: 1, Setting: "modlog"}))
	require.NoError(t, tx.Publish(SettingsChangedEvent{GuildID: 1, Setting: "welcome"}))

	assert.NoError(t, tx.Flush(context.Background()))
	assert.Equal(t, 2, real.calls)
}

func TestBusRecoversFromHandlerPanic(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(EventTypeSettingsChanged, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeSettingsChanged, func(ctx context.Context, event Event) {
		wg.Done()
	})

	require.NoError(t, bus.Publish(SettingsChangedEvent{GuildID: 1}))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler did not run")
	}
}
