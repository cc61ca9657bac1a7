package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shelfwise/shelfwise/internal/db"
	"github.com/shelfwise/shelfwise/internal/domain"
)

// kv is the consumer interface over the database (ISP).
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Redis is a TTL cache backed by the shared database. Expiry is enforced
// server-side, so reads never see stale entries.
type Redis struct {
	kv     kv
	prefix string
}

func NewRedis(kv kv, prefix string) *Redis {
	return &Redis{kv: kv, prefix: prefix}
}

// Get returns the cached value or domain.ErrNotFound on a miss.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.kv.Get(ctx, c.prefix+key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key for ttl.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.kv.SetWithTTL(ctx, c.prefix+key, value, ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops one entry.
func (c *Redis) Invalidate(ctx context.Context, key string) error {
	if err := c.kv.Del(ctx, c.prefix+key); err != nil {
		return fmt.Errorf("cache del %s: %w", key, err)
	}
	return nil
}
