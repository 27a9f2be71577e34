package registry

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"admission-workers/internal/admission"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/common/metrics"
	"admission-workers/internal/models"
)

const DefaultCachePrefix = "certificate-type:"

// cacheEntry records misses as well as hits so unregistered types do not
// reach the database on every document.
type cacheEntry struct {
	Found      bool                              `json:"found"`
	Descriptor *models.CertificateTypeDescriptor `json:"descriptor,omitempty"`
}

// CachedRegistry serves lookups from Redis and falls back to the wrapped
// registry. Redis failures degrade to uncached lookups.
type CachedRegistry struct {
	next   admission.CertificateTypeRegistry
	redis  *redis.Client
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedRegistry(next admission.CertificateTypeRegistry, rdb *redis.Client, ttl time.Duration, prefix string, log logger.Logger) *CachedRegistry {
	if prefix == "" {
		prefix = DefaultCachePrefix
	}
	return &CachedRegistry{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		prefix: prefix,
		logger: log,
	}
}

func (c *CachedRegistry) key(name string) string {
	return c.prefix + normalize(name)
}

func (c *CachedRegistry) LookupByName(ctx context.Context, name string) (*models.CertificateTypeDescriptor, error) {
	key := c.key(name)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var entry cacheEntry
		if jsonErr := json.Unmarshal([]byte(val), &entry); jsonErr == nil {
			metrics.RegistryCacheLookups.WithLabelValues("hit").Inc()
			return entry.Descriptor, nil
		}
		c.logger.Warn("discarding malformed registry cache entry", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
		metrics.RegistryCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.RegistryCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("registry cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	descriptor, err := c.next.LookupByName(ctx, name)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(cacheEntry{Found: descriptor != nil, Descriptor: descriptor})
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("registry cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return descriptor, nil
}

// Invalidate drops the cached entry for name.
func (c *CachedRegistry) Invalidate(ctx context.Context, name string) error {
	return c.redis.Del(ctx, c.key(name)).Err()
}
