package osu

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes access to a shared upstream resource across all worker
// processes.
type Locker interface {
	AcquireLock(ctx context.Context, resource string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock; releasing an expired lease is a no-op.
type Lease interface {
	Release(ctx context.Context) error
}

// RedisLocker implements Locker with SETNX leases.
type RedisLocker struct {
	client *redis.Client
	// pollInterval spaces out acquisition retries while another process
	// holds the lease.
	pollInterval time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client:       client,
		pollInterval: 100 * time.Millisecond,
	}
}

func (l *RedisLocker) AcquireLock(ctx context.Context, resource string, ttl time.Duration) (Lease, error) {
	key := "otr:lock:" + resource
	token := uuid.NewString()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", resource, err)
		}
		if ok {
			return &redisLease{client: l.client, key: key, token: token}, nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

type redisLease struct {
	client *redis.Client
	key    string
	token  string
}

// releaseScript deletes the lease only if this process still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *redisLease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	return nil
}
