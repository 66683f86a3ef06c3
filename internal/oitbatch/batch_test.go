package oitbatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overitall/overitall/internal/logrecord"
)

func at(t time.Time) logrecord.LogRecord {
	return logrecord.NewAt(logrecord.Source{Name: "web"}, "line", t)
}

func TestDetect_ZeroRecords(t *testing.T) {
	assert.Equal(t, []Range{}, Detect(nil, time.Second))
}

func TestDetect_OneRecord(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []Range{{0, 0}}, Detect([]logrecord.LogRecord{at(base)}, time.Second))
}

// S1 — Batch chaining regression (spec §9 S1): a naive previous-vs-current
// comparison would chain 0,2s,4s,6s into one batch under a 3s window; the
// start-of-batch comparison must split it into (0,1) and (2,3).
func TestDetect_NoChainingAcrossDriftingGaps(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []logrecord.LogRecord{
		at(base),
		at(base.Add(2 * time.Second)),
		at(base.Add(4 * time.Second)),
		at(base.Add(6 * time.Second)),
	}
	batches := Detect(records, 3*time.Second)
	require.Equal(t, []Range{{0, 1}, {2, 3}}, batches)
}

func TestDetect_CoversFilteredSequenceExactlyOnce(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []logrecord.LogRecord{
		at(base),
		at(base.Add(1 * time.Second)),
		at(base.Add(2 * time.Second)),
		at(base.Add(10 * time.Second)),
		at(base.Add(11 * time.Second)),
	}
	batches := Detect(records, 3*time.Second)
	covered := 0
	for i, b := range batches {
		assert.LessOrEqual(t, b.Start, b.End)
		covered += b.End - b.Start + 1
		if i > 0 {
			assert.Equal(t, batches[i-1].End+1, b.Start, "batches must be contiguous")
		}
	}
	assert.Equal(t, len(records), covered)
}

func TestCache_HitOnUnchangedKey(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []logrecord.LogRecord{at(base), at(base.Add(time.Second))}
	key := KeyFor(records, 1000, 0, 0, "", false, false)

	c := NewCache()
	first := c.GetOrCompute(key, records, time.Second)
	second := c.GetOrCompute(key, records, time.Second)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.hits)
	assert.Equal(t, 1, c.misses)
}

func TestCache_MissOnKeyChange(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []logrecord.LogRecord{at(base), at(base.Add(time.Second))}
	key1 := KeyFor(records, 1000, 0, 0, "", false, false)
	key2 := KeyFor(records, 1000, 1, 0, "", false, false) // filter count changed

	c := NewCache()
	c.GetOrCompute(key1, records, time.Second)
	c.GetOrCompute(key2, records, time.Second)

	assert.Equal(t, 0, c.hits)
	assert.Equal(t, 2, c.misses)
}
