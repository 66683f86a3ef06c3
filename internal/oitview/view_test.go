package oitview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overitall/overitall/internal/logrecord"
)

func recAt(id uint64, t time.Time) logrecord.LogRecord {
	r := logrecord.NewAt(logrecord.Source{Name: "web"}, "line", t)
	r.ID = id
	return r
}

// S2 — Snapshot survives eviction (spec §9 S2).
func TestPinView_SurvivesLaterChangesToLiveSlice(t *testing.T) {
	base := time.Now()
	live := make([]logrecord.LogRecord, 10)
	for i := range live {
		live[i] = recAt(uint64(i+1), base.Add(time.Duration(i)*time.Millisecond))
	}

	s := New()
	s.Select(3)
	s.PinView(live)
	require.True(t, s.HasSnapshot)

	// Simulate the ring buffer evicting the first 10 and admitting 20 more.
	newLive := make([]logrecord.LogRecord, 10)
	for i := range newLive {
		newLive[i] = recAt(uint64(21+i), base.Add(time.Duration(21+i)*time.Millisecond))
	}

	active := s.ActiveRecords(newLive)
	assert.Len(t, active, 10)
	assert.Equal(t, uint64(1), active[0].ID)
	assert.True(t, s.HasSelection)
	assert.Equal(t, uint64(3), s.SelectedID)

	HandleEscape(s)
	assert.False(t, s.HasSnapshot)
	active = s.ActiveRecords(newLive)
	assert.Equal(t, uint64(21), active[0].ID)
}

func TestFreeze_ExcludesNothingAtTheStateLayer(t *testing.T) {
	s := New()
	base := time.Now()
	live := []logrecord.LogRecord{recAt(1, base)}
	s.Freeze(base, live)
	assert.True(t, s.Frozen)
	assert.True(t, s.HasSnapshot)
}

func TestSelectNext_WrapsTopToBottom(t *testing.T) {
	s := New()
	view := []logrecord.LogRecord{recAt(1, time.Now()), recAt(2, time.Now()), recAt(3, time.Now())}
	s.Select(3)
	s.SelectNext(view)
	assert.Equal(t, uint64(1), s.SelectedID, "selection should wrap from last to first")
}

func TestSelectPrev_WrapsBottomToTop(t *testing.T) {
	s := New()
	view := []logrecord.LogRecord{recAt(1, time.Now()), recAt(2, time.Now()), recAt(3, time.Now())}
	s.Select(1)
	s.SelectPrev(view)
	assert.Equal(t, uint64(3), s.SelectedID, "selection should wrap from first to last")
}

func TestSelectNext_SelectsFirstWhenNothingSelected(t *testing.T) {
	s := New()
	view := []logrecord.LogRecord{recAt(5, time.Now()), recAt(6, time.Now())}
	s.SelectNext(view)
	assert.Equal(t, uint64(5), s.SelectedID)
}

func TestHandleEscape_PriorityOrder(t *testing.T) {
	t.Run("trace recording beats everything", func(t *testing.T) {
		s := New()
		s.TraceRecordingActive = true
		s.HelpOverlayOpen = true
		step := HandleEscape(s)
		assert.Equal(t, "cancel active trace recording", step)
		assert.False(t, s.TraceRecordingActive)
		assert.True(t, s.HelpOverlayOpen, "should not touch lower-priority state")
	})

	t.Run("help beats expanded line", func(t *testing.T) {
		s := New()
		s.HelpOverlayOpen = true
		s.ExpandedLineOpen = true
		step := HandleEscape(s)
		assert.Equal(t, "close help overlay", step)
	})

	t.Run("committed search with selection reopens search entry", func(t *testing.T) {
		s := New()
		s.SearchCommitted = true
		s.Select(42)
		step := HandleEscape(s)
		assert.Equal(t, "return to search-entry with the prior pattern", step)
		assert.True(t, s.SearchEntryOpen)
		assert.False(t, s.HasSelection)
	})

	t.Run("frozen with no overlays discards snapshot", func(t *testing.T) {
		s := New()
		s.Freeze(time.Now(), nil)
		step := HandleEscape(s)
		assert.Equal(t, "discard snapshot and resume tailing", step)
		assert.False(t, s.Frozen)
	})

	t.Run("default clears search and returns to live-tail", func(t *testing.T) {
		s := New()
		s.SearchPattern = "ERROR"
		s.SearchCommitted = true
		step := HandleEscape(s)
		assert.Equal(t, "default: clear search, return to live-tail", step)
		assert.Empty(t, s.SearchPattern)
		assert.False(t, s.Frozen)
	})
}

// S5 — Search-as-filter with freeze (spec §9 S5), at the state-machine
// layer: executing a search selects the latest match and freezes the view
// via Freeze(). With a committed search and a selection, the first Esc
// hits step vii: it reopens search-entry and drops the selection while the
// view stays frozen. The second Esc closes search-entry (step v), and the
// third, with no selection left, reaches step ix and returns the view to
// live-tail (unfrozen, snapshot discarded). The committed search pattern
// itself survives all three.
func TestSearchFreeze_EscapeLadderReturnsToLiveTail(t *testing.T) {
	s := New()
	base := time.Now()
	matches := []logrecord.LogRecord{recAt(10, base), recAt(20, base)}

	s.SearchPattern = "ERROR"
	s.SearchCommitted = true
	s.Select(20)
	s.Freeze(base, matches)

	assert.True(t, s.Frozen)
	assert.True(t, s.HasSnapshot)

	step := HandleEscape(s)
	assert.Equal(t, "return to search-entry with the prior pattern", step)
	assert.False(t, s.HasSelection)
	assert.True(t, s.SearchEntryOpen)
	assert.True(t, s.Frozen)
	assert.True(t, s.HasSnapshot)

	step = HandleEscape(s)
	assert.Equal(t, "exit search-entry", step)
	assert.False(t, s.SearchEntryOpen)

	step = HandleEscape(s)
	assert.Equal(t, "discard snapshot and resume tailing", step)
	assert.False(t, s.Frozen)
	assert.False(t, s.HasSnapshot)
	assert.True(t, s.SearchCommitted, "search pattern itself survives the ladder")
}
