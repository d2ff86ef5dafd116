package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"warden/domain/interfaces"

	"github.com/go-redis/redis/v8"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v8"
	log "github.com/sirupsen/logrus"
)

const lockKeyPrefix = "warden:lock:"

// RedisLocker hands out per-key locks shared by every bot process using the same Redis
type RedisLocker struct {
	rs *redsync.Redsync
}

// NewRedisLocker creates a locker backed by redsync
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{rs: redsync.New(goredis.NewPool(client))}
}

// Acquire takes the lock with a single attempt
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	mutex := l.rs.NewMutex(lockKeyPrefix+key,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isLockTaken(err) {
			return nil, interfaces.ErrLockHeld
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	return func() {
		// A fresh context so a cancelled command still releases its lock
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := mutex.UnlockContext(releaseCtx); err != nil {
			log.WithFields(log.Fields{
				"key":   key,
				"error": err,
			}).Warn("Failed to release lock")
		}
	}, nil
}

func isLockTaken(err error) bool {
	if errors.Is(err, redsync.ErrFailed) {
		return true
	}
	var takenPtr *redsync.ErrTaken
	if errors.As(err, &takenPtr) {
		return true
	}
	var taken redsync.ErrTaken
	return errors.As(err, &taken)
}

// MemoryLocker is the single-process fallback when Redis is not configured
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]memoryLock
	seq   uint64
	now   func() time.Time
}

type memoryLock struct {
	token   uint64
	expires time.Time
}

// NewMemoryLocker creates an in-process locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		locks: make(map[string]memoryLock),
		now:   time.Now,
	}
}

// Acquire takes the lock unless an unexpired holder exists
func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.locks[key]; ok && now.Before(held.expires) {
		return nil, interfaces.ErrLockHeld
	}

	l.seq++
	token := l.seq
	l.locks[key] = memoryLock{token: token, expires: now.Add(ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			// Only the holder that set the lock may clear it
			if held, ok := l.locks[key]; ok && held.token == token {
				delete(l.locks, key)
			}
		})
	}, nil
}
