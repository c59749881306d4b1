package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreNameCache implements usecase.StoreNameCache using Redis.
type StoreNameCache struct {
	client *redis.Client
	prefix string
}

// NewStoreNameCache creates a new StoreNameCache.
func NewStoreNameCache(client *redis.Client) *StoreNameCache {
	return &StoreNameCache{
		client: client,
		prefix: "stores:",
	}
}

// Get returns the cached store names of an owner. A miss reports found == false.
func (c *StoreNameCache) Get(ctx context.Context, ownerID string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+ownerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, false, fmt.Errorf("decode cached store names: %w", err)
	}
	if names == nil {
		names = []string{}
	}

	return names, true, nil
}

// Set stores the names with TTL.
func (c *StoreNameCache) Set(ctx context.Context, ownerID string, names []string, ttl time.Duration) error {
	if names == nil {
		names = []string{}
	}

	raw, err := json.Marshal(names)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.prefix+ownerID, raw, ttl).Err()
}

// Invalidate removes the cached names of an owner.
func (c *StoreNameCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.client.Del(ctx, c.prefix+ownerID).Err()
}
