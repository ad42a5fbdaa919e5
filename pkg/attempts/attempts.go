// Package attempts counts failed attempts per key inside a fixed window.
package attempts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter blocks a user after Max failures until the first failure's
// window expires. Counters live under "<prefix>:<userID>".
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	max    int64
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix, max: int64(max), window: window}
}

func (l *RedisLimiter) Key(userID uint) string {
	return fmt.Sprintf("%s:%d", l.prefix, userID)
}

func (l *RedisLimiter) Blocked(ctx context.Context, userID uint) (bool, error) {
	n, err := l.rdb.Get(ctx, l.Key(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.max, nil
}

// Fail records one failure. The window starts at the first failure and is not
// extended by later ones.
func (l *RedisLimiter) Fail(ctx context.Context, userID uint) error {
	key := l.Key(userID)
	pipe := l.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	_, err := pipe.Exec(ctx)
	return err
}

func (l *RedisLimiter) Reset(ctx context.Context, userID uint) error {
	return l.rdb.Del(ctx, l.Key(userID)).Err()
}

// Noop never blocks; used when no Redis is configured.
type Noop struct{}

func (Noop) Blocked(context.Context, uint) (bool, error) { return false, nil }
func (Noop) Fail(context.Context, uint) error { return nil }
func (Noop) Reset(context.Context, uint) error { return nil }
