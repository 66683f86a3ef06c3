package oittrace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overitall/overitall/internal/logrecord"
)

func at(name, content string, t time.Time) logrecord.LogRecord {
	return logrecord.NewAt(logrecord.Source{Name: name}, content, t)
}

func TestDetect_UUIDTraceAcrossLines(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	uuid := "550e8400-e29b-41d4-a716-446655440000"
	records := []logrecord.LogRecord{
		at("web", "start request "+uuid, base),
		at("worker", "processing "+uuid, base.Add(10*time.Millisecond)),
		at("web", "finished "+uuid, base.Add(20*time.Millisecond)),
		at("web", "unrelated line with no token", base.Add(30*time.Millisecond)),
	}
	candidates := Detect(records)
	require.Len(t, candidates, 1)
	assert.Equal(t, uuid, candidates[0].Token)
	assert.Equal(t, 3, candidates[0].Count)
	assert.Equal(t, "start request "+uuid, candidates[0].Preview)
}

func TestDetect_RequiresMinimumThreeOccurrences(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	uuid := "550e8400-e29b-41d4-a716-446655440000"
	records := []logrecord.LogRecord{
		at("web", "start "+uuid, base),
		at("web", "end "+uuid, base.Add(time.Millisecond)),
	}
	assert.Empty(t, Detect(records))
}

func TestDetect_RejectsBurstyTokenSpanningWholeBuffer(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	buildID := "deadbeefcafefeed0123456789abcdef"
	records := []logrecord.LogRecord{
		at("web", "boot build="+buildID, base),
		at("web", "unrelated-filler-line-one", base.Add(time.Minute)),
		at("web", "unrelated-filler-line-two", base.Add(2*time.Minute)),
		at("web", "shutdown build="+buildID, base.Add(10*time.Minute)),
		at("web", "another build="+buildID, base.Add(9*time.Minute)),
	}
	assert.Empty(t, Detect(records))
}

func TestDetect_LongNumericToken(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	numeric := "123456789012345"
	records := []logrecord.LogRecord{
		at("web", "order "+numeric+" created", base),
		at("web", "order "+numeric+" paid", base.Add(time.Millisecond)),
		at("web", "order "+numeric+" shipped", base.Add(2*time.Millisecond)),
		at("web", "unrelated line with no token", base.Add(time.Second)),
	}
	candidates := Detect(records)
	require.Len(t, candidates, 1)
	assert.Equal(t, numeric, candidates[0].Token)
}

func TestDetect_SortedByFirstOccurrenceDescending(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	uuidOld := "550e8400-e29b-41d4-a716-446655440000"
	uuidNew := "660e8400-e29b-41d4-a716-446655440001"
	records := []logrecord.LogRecord{
		at("web", "a "+uuidOld, base),
		at("web", "b "+uuidOld, base.Add(time.Millisecond)),
		at("web", "c "+uuidOld, base.Add(2*time.Millisecond)),
		at("web", "a "+uuidNew, base.Add(time.Hour)),
		at("web", "b "+uuidNew, base.Add(time.Hour+time.Millisecond)),
		at("web", "c "+uuidNew, base.Add(time.Hour+2*time.Millisecond)),
	}
	candidates := Detect(records)
	require.Len(t, candidates, 2)
	assert.Equal(t, uuidNew, candidates[0].Token)
	assert.Equal(t, uuidOld, candidates[1].Token)
}
