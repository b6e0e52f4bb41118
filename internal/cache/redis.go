package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kevin1015wang/SentimentAnalyzers/pkg/config"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/logging"
)

// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
var ErrCacheDisabled = fmt.Errorf("cache is disabled")

// seenTTL bounds how long a dedup key stays cached; the database remains
// the source of truth on a miss.
const seenTTL = 24 * time.Hour

// Cache wraps a Redis client used as a read-through front for dedup-key
// lookups. A nil *Cache is valid and behaves as a permanent miss.
type Cache struct {
	client *redis.Client
}

// New creates a new Redis cache client
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &Cache{client: client}, nil
}

// WasSeen reports whether a dedup key was cached earlier. false means
// "unknown": callers must fall through to the database.
func (c *Cache) WasSeen(ctx context.Context, platform, key string) bool {
	if c == nil || c.client == nil {
		return false
	}
	count, err := c.client.Exists(ctx, c.NamespaceKey(platform, key)).Result()
	if err != nil {
		return false
	}
	return count > 0
}

// MarkSeen records a dedup key after an insert or a confirmed duplicate.
// Errors are dropped: the cache is an optimization only.
func (c *Cache) MarkSeen(ctx context.Context, platform, key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, c.NamespaceKey(platform, key), 1, seenTTL)
}

// NamespaceKey prefixes a dedup key with the application namespace and platform
func (c *Cache) NamespaceKey(platform, key string) string {
	return "sentiment:" + platform + ":seen:" + HashKey(key)
}

// HashKey produces a fixed-length key segment from arbitrary parts
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}
