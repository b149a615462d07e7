// Package lock serialises writes to one employee pay period across
// processes. The Postgres partial unique index remains the source of truth;
// the lock only turns a racing second write into a clean conflict.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"backoffice/internal/domain/apperr"
	"backoffice/internal/platform/logging"
)

var ErrBusy = apperr.StateConflict("another change to this pay period is in progress")

type Redis struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

func NewRedis(rdb *redis.Client, ttl, wait time.Duration) *Redis {
	return &Redis{client: redislock.New(rdb), ttl: ttl, wait: wait}
}

// Connect builds a go-redis client and checks it answers before use.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	opts := &redislock.Options{}
	if r.wait > 0 {
		attempts := int(r.wait / (100 * time.Millisecond))
		opts.RetryStrategy = redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), attempts)
	}
	held, err := r.client.Obtain(ctx, "lock:"+key, r.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrBusy
	}
	if err != nil {
		return nil, err
	}
	return func() {
		if err := held.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logging.LogError(logging.For("lock"), "Release", "release period lock", key, err)
		}
	}, nil
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
