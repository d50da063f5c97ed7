// Package redis holds the optional short-TTL tenant cache. The cache only
// ever stores active tenants, so a suspended or deleted tenant is re-checked
// against the backend within one TTL.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dineos/edge/internal/tenancy"
)

// Cache implements tenancy.Cache on Redis.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Cache{client: client}, nil
}

func (c *Cache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("redis.Cache.Close: %w", err)
	}
	return nil
}

// tenantKey returns the Redis key for a tenant's cached record.
func tenantKey(slug string) string {
	return "tenant:active:" + slug
}

// Get returns a cached tenant. Misses, decode failures, and Redis errors all
// read as absent; the caller falls through to the backend.
func (c *Cache) Get(ctx context.Context, slug string) (*tenancy.Tenant, bool) {
	raw, err := c.client.Get(ctx, tenantKey(slug)).Bytes()
	if err != nil {
		return nil, false
	}

	t := &tenancy.Tenant{}
	if json.Unmarshal(raw, t) != nil {
		return nil, false
	}
	// Fail-closed guard: never serve a non-active record, whatever was stored.
	if t.Status != tenancy.StatusActive {
		return nil, false
	}

	return t, true
}

// Set stores an active tenant for ttl. Non-active tenants are never cached.
// Write failures are logged and ignored; the cache is best-effort.
func (c *Cache) Set(ctx context.Context, slug string, t *tenancy.Tenant, ttl time.Duration) {
	if t == nil || t.Status != tenancy.StatusActive {
		return
	}

	raw, err := json.Marshal(t)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, tenantKey(slug), raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("tenant cache write failed")
	}
}
