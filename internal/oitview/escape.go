package oitview

// escapeStep is one row of the Esc priority table: if Applies, run Act and
// stop — no further rows are examined.
//
// Modeled as a literal table rather than a nested conditional per
// SPEC_FULL.md's design-notes guidance: the most error-prone surface in
// the UI should be diffable row by row.
type escapeStep struct {
	name    string
	applies func(*State) bool
	act     func(*State)
}

// escapeLadder is spec §4.5's eleven-step first-match priority list, in
// order.
var escapeLadder = []escapeStep{
	{
		name:    "cancel active trace recording",
		applies: func(s *State) bool { return s.TraceRecordingActive },
		act:     func(s *State) { s.TraceRecordingActive = false },
	},
	{
		name:    "close help overlay",
		applies: func(s *State) bool { return s.HelpOverlayOpen },
		act:     func(s *State) { s.HelpOverlayOpen = false },
	},
	{
		name:    "close expanded-line overlay",
		applies: func(s *State) bool { return s.ExpandedLineOpen },
		act:     func(s *State) { s.ExpandedLineOpen = false },
	},
	{
		name:    "exit command-entry",
		applies: func(s *State) bool { return s.CommandEntryOpen },
		act:     func(s *State) { s.CommandEntryOpen = false },
	},
	{
		name:    "exit search-entry",
		applies: func(s *State) bool { return s.SearchEntryOpen },
		act:     func(s *State) { s.SearchEntryOpen = false },
	},
	{
		name:    "cancel trace-selection list",
		applies: func(s *State) bool { return s.TraceSelectionOpen },
		act:     func(s *State) { s.TraceSelectionOpen = false },
	},
	{
		name: "return to search-entry with the prior pattern",
		applies: func(s *State) bool {
			return s.SearchCommitted && s.HasSelection
		},
		act: func(s *State) {
			s.ClearSelection()
			s.SearchEntryOpen = true
		},
	},
	{
		name:    "exit trace-filter mode",
		applies: func(s *State) bool { return s.TraceFilterActive },
		act: func(s *State) {
			s.TraceFilterActive = false
			s.TraceFilterToken = ""
		},
	},
	{
		name:    "discard snapshot and resume tailing",
		applies: func(s *State) bool { return s.Frozen },
		act:     func(s *State) { s.Unfreeze() },
	},
	{
		name:    "exit batch-view",
		applies: func(s *State) bool { return s.BatchViewActive },
		act: func(s *State) {
			s.BatchViewActive = false
			s.CurrentBatch = 0
		},
	},
	{
		name:    "default: clear search, return to live-tail",
		applies: func(*State) bool { return true },
		act: func(s *State) {
			s.SearchPattern = ""
			s.SearchCommitted = false
			s.Unfreeze()
		},
	},
}

// HandleEscape runs the Esc ladder against s, applying the first
// matching step's action, and returns that step's name for diagnostics.
func HandleEscape(s *State) string {
	for _, step := range escapeLadder {
		if step.applies(s) {
			step.act(s)
			return step.name
		}
	}
	// Unreachable: the last step always applies.
	return ""
}
