package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

const DefaultProfileTTL = 30 * time.Minute

var ErrCacheMiss = errors.New("cache miss")

// ProfileCache stores serialized profiles under "profile:<id>".
type ProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

func (c *ProfileCache) key(id string) string {
	return fmt.Sprintf("profile:%s", id)
}

// Get returns ErrCacheMiss for absent keys. Corrupted entries are removed and
// also reported as a miss.
func (c *ProfileCache) Get(ctx context.Context, id string) (*domain.UserProfile, error) {
	val, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: read profile: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(val, &profile); err != nil {
		c.rdb.Del(ctx, c.key(id))
		return nil, ErrCacheMiss
	}
	return &profile, nil
}

func (c *ProfileCache) Set(ctx context.Context, profile *domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(profile.ID), data, c.ttl).Err()
}

func (c *ProfileCache) Invalidate(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, c.key(id)).Err()
}
