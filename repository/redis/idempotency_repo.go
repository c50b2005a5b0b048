package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/salescore/repository"
)

type idempotencyRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewIdempotencyRepository creates a Redis-backed duplicate-request
// guard. Keys expire after the configured TTL, bounding how long a
// request id stays claimed.
func NewIdempotencyRepository(client *redislib.Client, ttl time.Duration) repository.IdempotencyRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &idempotencyRepository{
		client: client,
		prefix: "request:",
		ttl:    ttl,
	}
}

func (r *idempotencyRepository) Acquire(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, r.key(key), "1", r.ttl).Result()
}

func (r *idempotencyRepository) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *idempotencyRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
