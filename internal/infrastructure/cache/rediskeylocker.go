package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/coachly/coachly/internal/shared/keylock"
	"github.com/coachly/coachly/internal/shared/logger"
)

const (
	lockKeyPrefix      = "coachly:lock:"
	defaultRetryPeriod = 25 * time.Millisecond
)

// ErrLockHeld is returned when a non-blocking acquisition finds the key taken.
var ErrLockHeld = errors.New("lock is held by another owner")

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisKeyLocker serialises work on a key across instances with SET NX PX.
type RedisKeyLocker struct {
	client      *redis.Client
	ttl         time.Duration
	retryPeriod time.Duration
	logger      logger.Interface
}

var _ keylock.Locker = (*RedisKeyLocker)(nil)

func NewRedisKeyLocker(client *redis.Client, ttl time.Duration, log logger.Interface) *RedisKeyLocker {
	return &RedisKeyLocker{
		client:      client,
		ttl:         ttl,
		retryPeriod: defaultRetryPeriod,
		logger:      log,
	}
}

// Lock blocks until the key is acquired or ctx is done.
func (l *RedisKeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	for {
		unlock, err := l.TryLock(ctx, key)
		if err == nil {
			return unlock, nil
		}
		if !errors.Is(err, ErrLockHeld) {
			return nil, err
		}

		timer := time.NewTimer(l.retryPeriod)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// TryLock makes a single acquisition attempt.
func (l *RedisKeyLocker) TryLock(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !acquired {
		return nil, ErrLockHeld
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := l.release(redisKey, token); err != nil {
				l.logger.Warnw("failed to release lock", "key", key, "error", err)
			}
		})
	}, nil
}

func (l *RedisKeyLocker) release(redisKey, token string) error {
	// Release even when the caller's context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err()
}

// SchedulerLocker adapts RedisKeyLocker to gocron's distributed locker so a
// periodic job runs on one instance per tick.
type SchedulerLocker struct {
	locker *RedisKeyLocker
}

var _ gocron.Locker = (*SchedulerLocker)(nil)

func NewSchedulerLocker(locker *RedisKeyLocker) *SchedulerLocker {
	return &SchedulerLocker{locker: locker}
}

func (s *SchedulerLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	unlock, err := s.locker.TryLock(ctx, "job:"+key)
	if err != nil {
		return nil, err
	}
	return schedulerLock(unlock), nil
}

type schedulerLock func()

func (l schedulerLock) Unlock(_ context.Context) error {
	l()
	return nil
}
