package memory

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// Cache implements ports.CacheStore with an in-process expiring cache.
// This is the client tier for non-browser deployments: shared address
// space across all wizard instances in the session, no locking beyond
// the cache's own.
type Cache struct {
	cache *gocache.Cache
}

// NewCache creates a cache whose entries expire after domain.DraftTTL.
// go-cache evicts lazily on Get plus a janitor sweep, which matches the
// draft store's purge-on-read semantics.
func NewCache() *Cache {
	return &Cache{
		cache: gocache.New(domain.DraftTTL, 10*time.Minute),
	}
}

// NewCacheWithTTL creates a cache with a custom expiration, for tests.
func NewCacheWithTTL(ttl time.Duration) *Cache {
	return &Cache{
		cache: gocache.New(ttl, ttl),
	}
}

// GetItem returns the raw value for a key.
func (c *Cache) GetItem(key string) ([]byte, bool, error) {
	v, found := c.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		// Foreign value under our key; treat as absent.
		c.cache.Delete(key)
		return nil, false, nil
	}
	return b, true, nil
}

// SetItem stores a value with the default expiration.
func (c *Cache) SetItem(key string, value []byte) error {
	c.cache.Set(key, value, gocache.DefaultExpiration)
	return nil
}

// RemoveItem deletes a key.
func (c *Cache) RemoveItem(key string) error {
	c.cache.Delete(key)
	return nil
}

// Keys enumerates live keys with the given prefix.
func (c *Cache) Keys(prefix string) ([]string, error) {
	var keys []string
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
