package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bankabc/backoffice-api/internal/api/metrics"
	"github.com/bankabc/backoffice-api/internal/core/ports"
)

const defaultRoleTTL = 5 * time.Minute

// RoleCache is a read-through cache in front of a RoleResolver. Role sets
// change rarely and are read on every login, so a short TTL absorbs most
// resolver traffic. A cache failure falls back to the inner resolver; it is
// never allowed to fail a login.
type RoleCache struct {
	client *redis.Client
	inner  ports.RoleResolver
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRoleCache wraps inner with a Redis-backed cache. If ttl <= 0,
// defaultRoleTTL is used.
func NewRoleCache(client *redis.Client, inner ports.RoleResolver, ttl time.Duration, log zerolog.Logger) *RoleCache {
	if ttl <= 0 {
		ttl = defaultRoleTTL
	}
	return &RoleCache{client: client, inner: inner, ttl: ttl, log: log}
}

// RolesFor returns the cached role list when present, otherwise reads
// through to the inner resolver and stores the result. The cached value is
// the already-sorted list, so a hit is byte-identical to a miss.
func (c *RoleCache) RolesFor(ctx context.Context, userID int64) ([]string, error) {
	key := c.key(userID)

	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var roles []string
		if jsonErr := json.Unmarshal([]byte(raw), &roles); jsonErr == nil {
			metrics.RoleCacheTotal.WithLabelValues("hit").Inc()
			return roles, nil
		}
		// Unreadable entry: fall through to the resolver and rewrite it.
	case err != redis.Nil:
		metrics.RoleCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Int64("user_id", userID).Msg("role cache read failed")
	}

	metrics.RoleCacheTotal.WithLabelValues("miss").Inc()
	roles, err := c.inner.RolesFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if encoded, jsonErr := json.Marshal(roles); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.log.Warn().Err(setErr).Int64("user_id", userID).Msg("role cache write failed")
		}
	}
	return roles, nil
}

// Assign writes through to the inner resolver and drops the cached entry so
// the next login observes the new role set.
func (c *RoleCache) Assign(ctx context.Context, userID int64, role string) error {
	if err := c.inner.Assign(ctx, userID, role); err != nil {
		return err
	}
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		c.log.Warn().Err(err).Int64("user_id", userID).Msg("role cache invalidation failed")
	}
	return nil
}

func (c *RoleCache) key(userID int64) string {
	return fmt.Sprintf("roles:%d", userID)
}
