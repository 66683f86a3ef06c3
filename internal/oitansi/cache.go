package oitansi

// CacheKey identifies one cached parse. Compact mode re-flows spans
// differently (narrower gutter), so it participates in the key rather
// than invalidating the whole cache on toggle.
type CacheKey struct {
	LogID       uint64
	CompactMode bool
}

const defaultMaxSize = 2000

// Cache memoizes Parse results per (log record, compact mode) so the
// render pipeline pays the SGR-decomposition cost once per record
// rather than once per frame.
type Cache struct {
	maxSize int
	entries map[CacheKey]CachedSpans
	order   []CacheKey
	hits    int
	misses  int
}

// NewCache builds a Cache capped at maxSize entries. A maxSize <= 0
// uses the spec's target cap of 2000.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	return &Cache{
		maxSize: maxSize,
		entries: make(map[CacheKey]CachedSpans),
	}
}

// GetOrParse returns the cached spans for key, parsing and storing text
// if absent. When the cache is at capacity, the oldest half of entries
// (by insertion order) is evicted before the new entry is inserted.
func (c *Cache) GetOrParse(key CacheKey, text string) CachedSpans {
	if cached, ok := c.entries[key]; ok {
		c.hits++
		return cached
	}
	c.misses++

	if len(c.entries) >= c.maxSize {
		c.evictOldestHalf()
	}

	parsed := Parse(text)
	c.entries[key] = parsed
	c.order = append(c.order, key)
	return parsed
}

func (c *Cache) evictOldestHalf() {
	n := len(c.order) / 2
	if n == 0 {
		n = 1
	}
	for _, k := range c.order[:n] {
		delete(c.entries, k)
	}
	c.order = c.order[n:]
}

// Invalidate drops a single cached entry, e.g. when a record's content
// is rewritten in place.
func (c *Cache) Invalidate(key CacheKey) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of currently cached entries.
func (c *Cache) Len() int { return len(c.entries) }

// HitRate returns the fraction of GetOrParse calls that were served
// from cache, or 0 if GetOrParse has never been called.
func (c *Cache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
