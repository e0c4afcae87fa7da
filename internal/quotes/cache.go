// Package quotes fetches and normalizes plan quotes from the carrier quote
// endpoints.
package quotes

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// DefaultCacheTTL bounds how long a quote result is reused for the same
// applicant snapshot and plan scope.
const DefaultCacheTTL = 5 * time.Minute

// DefaultCacheMaxEntries bounds the cache size.
const DefaultCacheMaxEntries = 1024

// Cache is an explicit bounded TTL cache for quote results, keyed by a hash
// of the applicant snapshot and quote scope. Entries are evicted on TTL
// expiry and, at capacity, oldest-first.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
	nowFn      func() time.Time
}

type cacheEntry struct {
	plans    []types.InsurancePlan
	storedAt time.Time
}

// NewCache creates a cache. Zero values use the defaults.
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
		nowFn:      time.Now,
	}
}

// Get returns the cached plans for a key if present and fresh.
func (c *Cache) Get(key string) ([]types.InsurancePlan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.nowFn().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.plans, true
}

// Put stores plans under a key, evicting expired entries first and the
// oldest entry when still at capacity.
func (c *Cache) Put(key string, plans []types.InsurancePlan) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFn()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}

	if len(c.entries) >= c.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.storedAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.storedAt
			}
		}
		delete(c.entries, oldestKey)
	}

	c.entries[key] = cacheEntry{plans: plans, storedAt: now}
}

// Len returns the number of entries currently stored.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fingerprint derives the cache key from a quote request: a hash of its
// canonical JSON encoding.
func Fingerprint(req QuoteRequest) string {
	data, err := json.Marshal(req)
	if err != nil {
		// QuoteRequest contains only marshalable fields; this is unreachable
		// but the key must still be deterministic.
		return "unfingerprintable"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
