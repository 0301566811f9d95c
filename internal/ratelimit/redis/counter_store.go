package redis

import (
	"context"
	"fmt"
	"time"

	autherror "github.com/AnthoniusHendriyanto/blog-service/internal/errors"
	"github.com/redis/go-redis/v9"
)

// CounterStore implements domain.CounterStore on Redis. INCR is atomic across
// concurrent callers; the store itself carries that guarantee, not the
// limiter.
type CounterStore struct {
	client redis.UniversalClient
}

func NewCounterStore(client redis.UniversalClient) *CounterStore {
	return &CounterStore{client: client}
}

func (s *CounterStore) Increment(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: redis incr: %v", autherror.ErrStoreUnavailable, err)
	}
	return count, nil
}

func (s *CounterStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis expire: %v", autherror.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *CounterStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping: %v", autherror.ErrStoreUnavailable, err)
	}
	return nil
}
