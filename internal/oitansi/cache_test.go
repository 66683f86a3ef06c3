package oitansi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_MissThenHit(t *testing.T) {
	c := NewCache(10)
	key := CacheKey{LogID: 1}

	first := c.GetOrParse(key, "\x1b[31mx\x1b[0m")
	second := c.GetOrParse(key, "\x1b[31mx\x1b[0m")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.misses)
	assert.Equal(t, 1, c.hits)
}

func TestCache_DifferentCompactModeIsDifferentEntry(t *testing.T) {
	c := NewCache(10)
	c.GetOrParse(CacheKey{LogID: 1, CompactMode: false}, "plain")
	c.GetOrParse(CacheKey{LogID: 1, CompactMode: true}, "plain")
	assert.Equal(t, 2, c.Len())
}

func TestCache_EvictsOldestHalfAtCapacity(t *testing.T) {
	c := NewCache(4)
	for i := uint64(1); i <= 4; i++ {
		c.GetOrParse(CacheKey{LogID: i}, "line")
	}
	assert.Equal(t, 4, c.Len())

	c.GetOrParse(CacheKey{LogID: 5}, "line")
	assert.Equal(t, 3, c.Len(), "half of 4 evicted, then one inserted")

	_, stillPresent := c.entries[CacheKey{LogID: 1}]
	assert.False(t, stillPresent, "oldest entry should have been evicted")
	_, recentPresent := c.entries[CacheKey{LogID: 4}]
	assert.True(t, recentPresent, "newest pre-eviction entry should survive")
}

func TestCache_InvalidateRemovesEntry(t *testing.T) {
	c := NewCache(10)
	key := CacheKey{LogID: 1}
	c.GetOrParse(key, "plain")
	c.Invalidate(key)
	assert.Equal(t, 0, c.Len())

	c.GetOrParse(key, "plain")
	assert.Equal(t, 2, c.misses, "re-parsing after invalidation is a miss again")
}

func TestCache_HitRate(t *testing.T) {
	c := NewCache(10)
	key := CacheKey{LogID: 1}
	assert.Equal(t, float64(0), c.HitRate())

	c.GetOrParse(key, "plain")
	c.GetOrParse(key, "plain")
	c.GetOrParse(key, "plain")
	assert.InDelta(t, 2.0/3.0, c.HitRate(), 0.001)
}
