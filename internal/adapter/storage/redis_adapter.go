package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	decisionKeyPrefix = "decision:"
	decisionGuardTTL  = 30 * time.Second
)

// RedisAdapter holds the per-request decision guard: a SetNX key taken for
// the duration of one approve/reject call so the same request is never
// processed by two units of work at once. The database transaction remains
// the authority on the final state; the TTL only bounds a crashed holder.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) AcquireDecision(ctx context.Context, requestID string) (bool, error) {
	key := decisionKeyPrefix + requestID

	ok, err := r.client.SetNX(ctx, key, 1, decisionGuardTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RedisAdapter) ReleaseDecision(ctx context.Context, requestID string) error {
	key := decisionKeyPrefix + requestID
	return r.client.Del(ctx, key).Err()
}
