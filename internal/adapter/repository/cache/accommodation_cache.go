package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusnest/accommodation-service/internal/domain"
)

const cacheTTL = 1 * time.Hour

// AccommodationCache is a read-through cache for accommodation lookups.
type AccommodationCache struct {
	client *redis.Client
}

func NewAccommodationCache(addr string) (*AccommodationCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &AccommodationCache{client: client}, nil
}

// Get returns the cached accommodation or (nil, nil) on a cache miss.
func (c *AccommodationCache) Get(ctx context.Context, id int64) (*domain.Accommodation, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var acc domain.Accommodation
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *AccommodationCache) Set(ctx context.Context, acc *domain.Accommodation) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(acc.ID), data, cacheTTL).Err()
}

func (c *AccommodationCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, key(id)).Err()
}

func key(id int64) string {
	return fmt.Sprintf("accommodation:%d", id)
}
