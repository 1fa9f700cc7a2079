package osu

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator prevents two in-flight messages for the same external id from
// both issuing a fetch. A pending marker reserves the fetch; a shorter-lived
// processed marker suppresses immediate re-fetches after success.
type Deduplicator interface {
	// TryReserve returns false when another worker holds the pending marker
	// or the id was processed recently.
	TryReserve(ctx context.Context, fetchType string, id int64) (bool, error)
	// MarkProcessed swaps the pending marker for a recently-processed one.
	MarkProcessed(ctx context.Context, fetchType string, id int64) error
	// Release drops the pending marker so a failed fetch can be retried.
	Release(ctx context.Context, fetchType string, id int64) error
}

// RedisDeduplicator implements Deduplicator with TTL'd reservation keys.
// Dedup can be disabled per fetch type.
type RedisDeduplicator struct {
	client       *redis.Client
	pendingTTL   time.Duration
	processedTTL time.Duration
	disabled     map[string]bool
}

func NewRedisDeduplicator(client *redis.Client, pendingTTL, processedTTL time.Duration, disabledFetchTypes []string) *RedisDeduplicator {
	disabled := make(map[string]bool, len(disabledFetchTypes))
	for _, t := range disabledFetchTypes {
		disabled[t] = true
	}
	return &RedisDeduplicator{
		client:       client,
		pendingTTL:   pendingTTL,
		processedTTL: processedTTL,
		disabled:     disabled,
	}
}

func (d *RedisDeduplicator) TryReserve(ctx context.Context, fetchType string, id int64) (bool, error) {
	if d.disabled[fetchType] {
		return true, nil
	}
	processed, err := d.client.Exists(ctx, d.processedKey(fetchType, id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check processed marker: %w", err)
	}
	if processed > 0 {
		return false, nil
	}
	ok, err := d.client.SetNX(ctx, d.pendingKey(fetchType, id), "pending", d.pendingTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve fetch: %w", err)
	}
	return ok, nil
}

func (d *RedisDeduplicator) MarkProcessed(ctx context.Context, fetchType string, id int64) error {
	if d.disabled[fetchType] {
		return nil
	}
	pipe := d.client.TxPipeline()
	pipe.Del(ctx, d.pendingKey(fetchType, id))
	pipe.Set(ctx, d.processedKey(fetchType, id), "done", d.processedTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mark fetch processed: %w", err)
	}
	return nil
}

func (d *RedisDeduplicator) Release(ctx context.Context, fetchType string, id int64) error {
	if d.disabled[fetchType] {
		return nil
	}
	if err := d.client.Del(ctx, d.pendingKey(fetchType, id)).Err(); err != nil {
		return fmt.Errorf("failed to release fetch reservation: %w", err)
	}
	return nil
}

func (d *RedisDeduplicator) pendingKey(fetchType string, id int64) string {
	return fmt.Sprintf("otr:fetch:pending:%s:%d", fetchType, id)
}

func (d *RedisDeduplicator) processedKey(fetchType string, id int64) string {
	return fmt.Sprintf("otr:fetch:processed:%s:%d", fetchType, id)
}
