package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGatewayCache_GetSet(t *testing.T) {
	cache := NewGatewayCache(4, time.Hour)
	g := &stubGateway{}

	assert.Nil(t, cache.Get("square"))
	cache.Set("square", g)
	assert.Same(t, g, cache.Get("square"))

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 0.5, stats.HitRatio)
}

func TestGatewayCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewGatewayCache(2, 0)
	cache.Set("a", &stubGateway{})
	cache.Set("b", &stubGateway{})

	// touch a so b becomes the eviction candidate
	assert.NotNil(t, cache.Get("a"))
	cache.Set("c", &stubGateway{})

	assert.Equal(t, 2, cache.Size())
	assert.NotNil(t, cache.Get("a"))
	assert.Nil(t, cache.Get("b"))
	assert.NotNil(t, cache.Get("c"))
	assert.Equal(t, int64(1), cache.Stats().Evictions)
}

func TestGatewayCache_TTL(t *testing.T) {
	cache := NewGatewayCache(4, 10*time.Millisecond)
	cache.Set("square", &stubGateway{})
	cache.Set("other", &stubGateway{})

	time.Sleep(20 * time.Millisecond)

	assert.Nil(t, cache.Get("square"))
	cache.Cleanup()
	assert.Equal(t, 0, cache.Size())
	assert.Equal(t, int64(2), cache.Stats().TTLExpiries)
}

func TestGatewayCache_DeleteAndClear(t *testing.T) {
	cache := NewGatewayCache(4, 0)
	cache.Set("a", &stubGateway{})
	cache.Set("b", &stubGateway{})

	cache.Delete("a")
	assert.Nil(t, cache.Get("a"))
	assert.Equal(t, 1, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}
