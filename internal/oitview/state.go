// Package oitview implements the view-state machine (spec §4.5): the
// modal interaction of live-tail, frozen selection, search-as-filter,
// batch view, and trace filter, plus the snapshot discipline that lets a
// pinned view survive ring-buffer eviction, and the escape-ladder
// priority model for a single Esc keypress.
//
// Grounded on original_source/src/operations/{goto,search,filter,
// visibility,batch,batch_window,traces}.rs, which collectively define the
// operations that mutate this state.
package oitview

import (
	"time"

	"github.com/overitall/overitall/internal/logrecord"
)

// State holds every piece of view-state spec §4.5 names. Its modes are
// non-exclusive: Frozen, BatchViewActive, a non-empty SearchPattern, and
// TraceFilterActive can all be true at once.
type State struct {
	// Live-tail / freeze.
	Frozen   bool
	FrozenAt time.Time

	// Snapshot discipline: while HasSnapshot, all reads use Snapshot
	// instead of the live ring buffer, immunizing the pinned view against
	// eviction (spec §4.5 Snapshot rule, tested by spec §9 S2).
	HasSnapshot bool
	Snapshot    []logrecord.LogRecord

	// Selection is always by ID, never index (spec §4.5 Selection-by-ID).
	HasSelection bool
	SelectedID   uint64

	// Search-as-filter.
	SearchPattern    string
	SearchEntryOpen  bool
	SearchCommitted  bool

	// Batch view.
	BatchViewActive bool
	CurrentBatch    int

	// Trace filter / trace selection / trace recording.
	TraceFilterActive    bool
	TraceFilterToken     string
	TraceSelectionOpen   bool
	TraceRecordingActive bool

	// Overlays and transient entry modes.
	HelpOverlayOpen  bool
	ExpandedLineOpen bool
	CommandEntryOpen bool
}

// New returns a State in the default live-tail mode.
func New() *State {
	return &State{}
}

// PinView snapshots filtered (the currently filtered record list) so
// subsequent ring-buffer evictions cannot change what's displayed. Called
// on: first arrow key pressed while tailing, entering batch navigation,
// executing a search, entering trace-filter (spec §4.5 Snapshot rule).
func (s *State) PinView(filtered []logrecord.LogRecord) {
	if s.HasSnapshot {
		return
	}
	snap := make([]logrecord.LogRecord, len(filtered))
	copy(snap, filtered)
	s.Snapshot = snap
	s.HasSnapshot = true
}

// ClearSnapshot discards the pinned view, returning reads to the live
// ring buffer.
func (s *State) ClearSnapshot() {
	s.HasSnapshot = false
	s.Snapshot = nil
}

// Freeze pins the view and marks it frozen, excluding records with
// OriginTimestamp after now from the filtered slice (spec §4.5 Freeze
// semantics, enforced by oitfilter's freeze guard).
func (s *State) Freeze(now time.Time, filtered []logrecord.LogRecord) {
	s.Frozen = true
	s.FrozenAt = now
	s.PinView(filtered)
}

// Unfreeze resumes live-tail: clears Frozen and discards the snapshot.
func (s *State) Unfreeze() {
	s.Frozen = false
	s.ClearSnapshot()
}

// Select sets the selection to id.
func (s *State) Select(id uint64) {
	s.SelectedID = id
	s.HasSelection = true
}

// ClearSelection removes the current selection.
func (s *State) ClearSelection() {
	s.HasSelection = false
	s.SelectedID = 0
}

// SelectNext moves the selection to the record immediately after the
// currently selected one in view, wrapping top<->bottom. If nothing is
// currently selected, selects the first record.
func (s *State) SelectNext(view []logrecord.LogRecord) {
	s.selectRelative(view, 1)
}

// SelectPrev is SelectNext in the opposite direction.
func (s *State) SelectPrev(view []logrecord.LogRecord) {
	s.selectRelative(view, -1)
}

func (s *State) selectRelative(view []logrecord.LogRecord, delta int) {
	if len(view) == 0 {
		s.ClearSelection()
		return
	}
	if !s.HasSelection {
		s.Select(view[0].ID)
		return
	}
	idx := indexOfID(view, s.SelectedID)
	if idx < 0 {
		s.Select(view[0].ID)
		return
	}
	next := (idx+delta+len(view)) % len(view)
	s.Select(view[next].ID)
}

func indexOfID(view []logrecord.LogRecord, id uint64) int {
	for i, r := range view {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ActiveRecords returns Snapshot if pinned, otherwise live.
func (s *State) ActiveRecords(live []logrecord.LogRecord) []logrecord.LogRecord {
	if s.HasSnapshot {
		return s.Snapshot
	}
	return live
}
