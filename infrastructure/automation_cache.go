package infrastructure

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"warden/domain/entities"
	"warden/events"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// SnapshotLoader reads the automation configuration of a guild from the database
type SnapshotLoader func(ctx context.Context, guildID int64) (*entities.AutomationSnapshot, error)

// AutomationCache keeps one automation snapshot per guild for the message and reaction listeners
type AutomationCache struct {
	cache  *cache.Cache
	loads  singleflight.Group
	loader SnapshotLoader

	// generations advance on Invalidate so loads that began earlier are not stored
	mu          sync.Mutex
	generations map[int64]uint64
}

// NewAutomationCache creates a cache whose entries expire after ttl
func NewAutomationCache(loader SnapshotLoader, ttl time.Duration) *AutomationCache {
	return &AutomationCache{
		cache:       cache.New(ttl, 2*ttl),
		loader:      loader,
		generations: make(map[int64]uint64),
	}
}

// Get returns the cached snapshot, loading it on a miss
func (c *AutomationCache) Get(ctx context.Context, guildID int64) (*entities.AutomationSnapshot, error) {
	key := strconv.FormatInt(guildID, 10)
	if v, ok := c.cache.Get(key); ok {
		return v.(*entities.AutomationSnapshot), nil
	}

	gen := c.generation(guildID)
	flight := key + ":" + strconv.FormatUint(gen, 10)
	v, err, _ := c.loads.Do(flight, func() (interface{}, error) {
		snapshot, err := c.loader(ctx, guildID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generations[guildID] == gen {
			c.cache.SetDefault(key, snapshot)
		}
		return snapshot, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load automation snapshot for guild %d: %w", guildID, err)
	}
	return v.(*entities.AutomationSnapshot), nil
}

// Invalidate drops the guild's snapshot
func (c *AutomationCache) Invalidate(guildID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[guildID]++
	c.cache.Delete(strconv.FormatInt(guildID, 10))
}

func (c *AutomationCache) generation(guildID int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[guildID]
}

// Len returns the number of cached guilds
func (c *AutomationCache) Len() int {
	return c.cache.ItemCount()
}

// Subscribe invalidates snapshots whenever a guild's automation changes
func (c *AutomationCache) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeAutomationChanged, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.AutomationChangedEvent)
		if !ok {
			return
		}
		c.Invalidate(e.GuildID)
		log.WithField("guild_id", e.GuildID).Debug("Invalidated automation cache")
	})
}
