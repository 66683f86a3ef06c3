// Package oitbatch groups a filtered log sequence into contiguous
// "batches" by inter-arrival gap, and caches the result keyed on the
// inputs that could change it (spec §4.4).
//
// Grounded on original_source/src/operations/batch.rs (batch navigation)
// and src/ui/batch_cache.rs (cache key/equality, invalidation).
package oitbatch

import (
	"time"

	"github.com/overitall/overitall/internal/logrecord"
)

// Range is an inclusive index pair into a filtered sequence.
type Range struct {
	Start int
	End   int
}

// Detect walks records and starts a new batch whenever a record's arrival
// time is more than window past the START of the current batch — not the
// previous record — to avoid chaining slowly drifting logs into one
// unbounded batch (spec §4.4).
func Detect(records []logrecord.LogRecord, window time.Duration) []Range {
	if len(records) == 0 {
		return []Range{}
	}
	if len(records) == 1 {
		return []Range{{Start: 0, End: 0}}
	}

	var batches []Range
	batchStart := 0
	for i := 1; i < len(records); i++ {
		if records[i].ArrivalTimestamp.Sub(records[batchStart].ArrivalTimestamp) > window {
			batches = append(batches, Range{Start: batchStart, End: i - 1})
			batchStart = i
		}
	}
	batches = append(batches, Range{Start: batchStart, End: len(records) - 1})
	return batches
}

// Key is the cache-invalidation signature from spec §4.4: cheap enough to
// compare every frame, strong enough to catch every mutation that could
// change batching (append, prefix-evict, or any filter change).
type Key struct {
	FilteredLength     int
	FirstID            uint64
	HasFirstID         bool
	LastID             uint64
	HasLastID          bool
	BatchWindowMs       int64
	FilterCount        int
	SearchPattern      string
	HiddenCount        int
	TraceFilterActive  bool
	UsingSnapshot      bool
}

// KeyFor builds the cache key for the current filtered view.
func KeyFor(filtered []logrecord.LogRecord, windowMs int64, filterCount, hiddenCount int, searchPattern string, traceFilterActive, usingSnapshot bool) Key {
	k := Key{
		FilteredLength:    len(filtered),
		BatchWindowMs:     windowMs,
		FilterCount:       filterCount,
		SearchPattern:     searchPattern,
		HiddenCount:       hiddenCount,
		TraceFilterActive: traceFilterActive,
		UsingSnapshot:     usingSnapshot,
	}
	if len(filtered) > 0 {
		k.FirstID = filtered[0].ID
		k.HasFirstID = true
		k.LastID = filtered[len(filtered)-1].ID
		k.HasLastID = true
	}
	return k
}

// Cache memoizes the last Detect result keyed on Key equality.
type Cache struct {
	key     Key
	hasKey  bool
	result  []Range
	hits    int
	misses  int
}

// NewCache returns an empty batch cache.
func NewCache() *Cache {
	return &Cache{}
}

// GetOrCompute returns the cached batches if key matches the last
// computation, otherwise recomputes via Detect and stores the new result.
func (c *Cache) GetOrCompute(key Key, records []logrecord.LogRecord, window time.Duration) []Range {
	if c.hasKey && c.key == key {
		c.hits++
		return c.result
	}
	c.misses++
	c.key = key
	c.hasKey = true
	c.result = Detect(records, window)
	return c.result
}

// Invalidate forces the next GetOrCompute to recompute regardless of key.
func (c *Cache) Invalidate() {
	c.hasKey = false
}

// HitRate returns the fraction of GetOrCompute calls served from cache.
func (c *Cache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
