package provider

import (
	"container/list"
	"sync"
	"time"
)

// gatewayCacheEntry represents a cached, initialized gateway
type gatewayCacheEntry struct {
	gateway      Gateway
	name         string
	createdAt    time.Time
	lastAccessed time.Time
	listElement  *list.Element // For LRU tracking
}

// CacheStats represents cache performance metrics
type CacheStats struct {
	Size        int           `json:"size"`
	MaxSize     int           `json:"max_size"`
	Hits        int64         `json:"hits"`
	Misses      int64         `json:"misses"`
	Evictions   int64         `json:"evictions"`
	TTLExpiries int64         `json:"ttl_expiries"`
	HitRatio    float64       `json:"hit_ratio"`
	TTL         time.Duration `json:"ttl"`
}

// GatewayCache keeps initialized gateways by name so credentials are read and
// validated once per TTL. Gateways are safe for concurrent use, so one
// instance is shared by all callers.
type GatewayCache struct {
	entries     map[string]*gatewayCacheEntry
	accessOrder *list.List // most recent at front
	maxSize     int
	ttl         time.Duration
	mu          sync.Mutex

	hits        int64
	misses      int64
	evictions   int64
	ttlExpiries int64
}

// NewGatewayCache creates a new in-memory gateway cache. A zero ttl never expires.
func NewGatewayCache(maxSize int, ttl time.Duration) *GatewayCache {
	if maxSize <= 0 {
		maxSize = 16
	}
	return &GatewayCache{
		entries:     make(map[string]*gatewayCacheEntry),
		accessOrder: list.New(),
		maxSize:     maxSize,
		ttl:         ttl,
	}
}

// Get retrieves a gateway from cache, returns nil if not found or expired
func (c *GatewayCache) Get(name string) Gateway {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[name]
	if !exists {
		c.misses++
		return nil
	}

	if c.ttl > 0 && time.Since(entry.createdAt) > c.ttl {
		c.deleteEntryUnsafe(entry)
		c.ttlExpiries++
		c.misses++
		return nil
	}

	entry.lastAccessed = time.Now()
	c.accessOrder.MoveToFront(entry.listElement)

	c.hits++
	return entry.gateway
}

// Set stores a gateway in cache
func (c *GatewayCache) Set(name string, gateway Gateway) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.entries[name]; exists {
		existing.gateway = gateway
		existing.createdAt = now
		existing.lastAccessed = now
		c.accessOrder.MoveToFront(existing.listElement)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictLRUUnsafe()
	}

	entry := &gatewayCacheEntry{
		gateway:      gateway,
		name:         name,
		createdAt:    now,
		lastAccessed: now,
	}
	entry.listElement = c.accessOrder.PushFront(entry)
	c.entries[name] = entry
}

// Delete removes a gateway from cache
func (c *GatewayCache) Delete(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[name]; exists {
		c.deleteEntryUnsafe(entry)
	}
}

// Clear removes all entries from cache
func (c *GatewayCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*gatewayCacheEntry)
	c.accessOrder = list.New()
}

// Size returns the current number of cached entries
func (c *GatewayCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics
func (c *GatewayCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	totalRequests := c.hits + c.misses
	hitRatio := 0.0
	if totalRequests > 0 {
		hitRatio = float64(c.hits) / float64(totalRequests)
	}

	return CacheStats{
		Size:        len(c.entries),
		MaxSize:     c.maxSize,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		TTLExpiries: c.ttlExpiries,
		HitRatio:    hitRatio,
		TTL:         c.ttl,
	}
}

// Cleanup removes expired entries
func (c *GatewayCache) Cleanup() {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, entry := range c.entries {
		if now.Sub(entry.createdAt) > c.ttl {
			c.deleteEntryUnsafe(entry)
			c.ttlExpiries++
		}
	}
}

// evictLRUUnsafe removes the least recently used entry (must be called with lock held)
func (c *GatewayCache) evictLRUUnsafe() {
	lruElement := c.accessOrder.Back()
	if lruElement == nil {
		return
	}

	c.deleteEntryUnsafe(lruElement.Value.(*gatewayCacheEntry))
	c.evictions++
}

// deleteEntryUnsafe removes an entry from both map and list (must be called with lock held)
func (c *GatewayCache) deleteEntryUnsafe(entry *gatewayCacheEntry) {
	delete(c.entries, entry.name)
	if entry.listElement != nil {
		c.accessOrder.Remove(entry.listElement)
	}
}
