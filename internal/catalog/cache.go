// internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "catalog:search:"
	cacheTTL       = 5 * time.Minute
)

// Cached wraps a catalog Service with a Redis read-through cache. Cache
// failures fall back to the inner service.
type Cached struct {
	inner  Service
	client *redis.Client
	logger logger.Logger
}

func NewCached(inner Service, client *redis.Client, log logger.Logger) *Cached {
	return &Cached{inner: inner, client: client, logger: log}
}

func (c *Cached) Search(ctx context.Context, categories []string) []models.CardRecord {
	key := cacheKey(categories)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var cards []models.CardRecord
		if err := json.Unmarshal([]byte(raw), &cards); err == nil {
			return cards
		}
		c.logger.Warn("catalog cache entry corrupt", map[string]interface{}{"key": key})
	} else if err != redis.Nil {
		c.logger.Warn("catalog cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	cards := c.inner.Search(ctx, categories)

	if raw, err := json.Marshal(cards); err == nil {
		if err := c.client.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return cards
}

// cacheKey is order-insensitive so [travel general] and [general travel]
// share an entry.
func cacheKey(categories []string) string {
	sorted := append([]string(nil), categories...)
	sort.Strings(sorted)
	return cacheKeyPrefix + strings.Join(sorted, ",")
}
