package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	itemTotalKeyPrefix       = "item_total:"
	DefaultIdempotencyKeyTTL = 24 * time.Hour
)

type RedisAdapter struct {
	client         *redis.Client
	idempotencyTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, idempotencyTTL time.Duration) *RedisAdapter {
	if idempotencyTTL <= 0 {
		idempotencyTTL = DefaultIdempotencyKeyTTL
	}
	return &RedisAdapter{client: client, idempotencyTTL: idempotencyTTL}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, r.idempotencyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) SetItemTotal(ctx context.Context, itemID string, quantity int) error {
	return r.client.Set(ctx, itemTotalKeyPrefix+itemID, quantity, 0).Err()
}

// ItemTotal returns -1 when no total was published for the item.
func (r *RedisAdapter) ItemTotal(ctx context.Context, itemID string) (int, error) {
	n, err := r.client.Get(ctx, itemTotalKeyPrefix+itemID).Int()
	if errors.Is(err, redis.Nil) {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}

	return n, nil
}
