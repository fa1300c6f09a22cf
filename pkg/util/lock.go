package util

import (
	"context"
	"time"

	"propt-api-io/api/pkg/errs"

	"github.com/bsm/redislock"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisLocker hands out short-lived distributed locks.
type RedisLocker struct {
	locker *redislock.Client
	ttl    time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{locker: redislock.New(rdb), ttl: ttl}
}

// Lock blocks (with bounded retry) until key is held. The returned func
// releases it.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := l.locker.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 40),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, errs.Conflictf("%s is busy, try again", key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "obtain lock %s", key)
	}

	return func() {
		// the caller's ctx may already be cancelled by now
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lock.Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			LogError("util", "RedisLocker.Lock", "release", key, err)
		}
	}, nil
}
