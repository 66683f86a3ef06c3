package oitui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/overitall/overitall/internal/logrecord"
	"github.com/overitall/overitall/internal/oitansi"
	"github.com/overitall/overitall/internal/oitbatch"
	"github.com/overitall/overitall/internal/oitfilter"
	"github.com/overitall/overitall/internal/oitproc"
	"github.com/overitall/overitall/internal/oitutil"
)

// render recomputes and writes both panels' content for the current
// frame, implementing spec §4.7's per-frame algorithm. It is idempotent
// and safe to call once per layout pass.
func (a *App) render() error {
	_ = a.setViewContent(a.Views.Processes, a.renderProcessPanel())

	filtered := a.filteredRecords()
	batches := a.currentBatches(filtered)
	window, narrowed, currentBatch := a.visibleWindow(filtered, batches)
	a.View.CurrentBatch = currentBatch

	a.Views.Main.Wrap = a.LineMode == lineModeWrap

	width, _ := a.Views.Main.Size()
	_ = a.setViewContent(a.Views.Main, a.renderLogLines(window, narrowed, width))

	if a.Views.Expanded.Visible {
		_ = a.setViewContent(a.Views.Expanded, a.renderExpandedLine())
	}
	if a.Views.Help.Visible {
		_ = a.setViewContent(a.Views.Help, renderHelp())
	}
	if a.Views.Menu.Visible {
		_ = a.setViewContent(a.Views.Menu, a.renderMenu())
	}
	if a.Views.TraceSelection.Visible {
		_ = a.setViewContent(a.Views.TraceSelection, a.renderTraceSelection())
	}

	return nil
}

// filteredRecords applies spec §4.7 step 1-2: choose snapshot vs live
// (further cut by frozen_at), then run it through the filter evaluator.
func (a *App) filteredRecords() []logrecord.LogRecord {
	var live []logrecord.LogRecord
	if a.View.HasSnapshot {
		live = a.View.Snapshot
	} else {
		live = a.Buffer.GetAll()
	}

	var frozenAt *time.Time
	if a.View.Frozen {
		at := a.View.FrozenAt
		frozenAt = &at
	}

	input := oitfilter.Input{
		Filters:         a.Filters,
		SearchPattern:   a.Search,
		HiddenProcesses: a.Hidden,
		FrozenAt:        frozenAt,
	}
	if a.View.TraceFilterActive {
		input.Trace = oitfilter.TraceFilter{Active: true, Token: a.View.TraceFilterToken}
	}

	return oitfilter.Apply(live, input)
}

// currentBatches computes batches via the cache (spec §4.4), keyed on the
// same sentinel tuple the cache package defines.
func (a *App) currentBatches(filtered []logrecord.LogRecord) []oitbatch.Range {
	windowMs := a.Config.EffectiveBatchWindowMs()
	key := oitbatch.KeyFor(filtered, windowMs, len(a.Filters), len(a.Hidden), a.Search, a.View.TraceFilterActive, a.View.HasSnapshot)
	return a.BatchCache.GetOrCompute(key, filtered, time.Duration(windowMs)*time.Millisecond)
}

// visibleWindow implements spec §4.7 steps 4-5: narrow to the selected
// batch if batch-view is active, then compute the slice of records that
// fits the main panel's height under auto-scroll, selection-centering, or
// manual scroll-offset. It returns the window, the full (possibly
// batch-narrowed) record slice the window was sliced from (for batch
// separator lookups), and the resolved current batch index.
func (a *App) visibleWindow(filtered []logrecord.LogRecord, batches []oitbatch.Range) (window, narrowed []logrecord.LogRecord, currentBatch int) {
	narrowed = filtered
	currentBatch = a.View.CurrentBatch

	if a.View.BatchViewActive && len(batches) > 0 {
		if currentBatch < 0 || currentBatch >= len(batches) {
			if a.View.HasSelection {
				currentBatch = len(batches) - 1
			} else {
				currentBatch = 0
			}
		}
		rng := batches[currentBatch]
		narrowed = filtered[rng.Start : rng.End+1]
	}

	_, height := a.Views.Main.Size()
	if height <= 0 {
		height = 1
	}

	window = sliceWindow(narrowed, height, a.View.HasSelection, a.View.SelectedID, a.AutoScroll, a.ScrollOffset)
	return window, narrowed, currentBatch
}

// sliceWindow is the pure windowing function behind step 5: auto-scroll
// walks back from the tail, selection mode centers the selected record at
// one-third height, manual scroll honors the given offset from the tail.
func sliceWindow(records []logrecord.LogRecord, height int, hasSelection bool, selectedID uint64, autoScroll bool, scrollOffset int) []logrecord.LogRecord {
	n := len(records)
	if n == 0 {
		return nil
	}
	if height >= n {
		return records
	}

	if hasSelection {
		idx := -1
		for i, r := range records {
			if r.ID == selectedID {
				idx = i
				break
			}
		}
		if idx < 0 {
			idx = n - 1
		}
		start := idx - height/3
		if start < 0 {
			start = 0
		}
		if start+height > n {
			start = n - height
		}
		return records[start : start+height]
	}

	if autoScroll {
		return records[n-height:]
	}

	start := n - height - scrollOffset
	if start < 0 {
		start = 0
	}
	if start > n-height {
		start = n - height
	}
	return records[start : start+height]
}

// renderLogLines implements step 6-7: per-record cached-span lookup with
// override highlighting, compact/full truncation, and dim batch-boundary
// separators between adjacent records whose batch index differs (when not
// in batch-view).
func (a *App) renderLogLines(window, narrowed []logrecord.LogRecord, width int) string {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder

	batchIndex := batchIndexLookup(narrowed, a.currentBatchesFor(narrowed))

	var prevBatch int
	havePrev := false
	for i, r := range window {
		if !a.View.BatchViewActive && havePrev {
			if bi, ok := batchIndex[r.ID]; ok && bi != prevBatch {
				b.WriteString(strings.Repeat("─", width))
				b.WriteString("\n")
			}
		}
		if bi, ok := batchIndex[r.ID]; ok {
			prevBatch = bi
			havePrev = true
		}

		b.WriteString(a.renderOneLine(r, width))
		if i < len(window)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// currentBatchesFor recomputes batches for an already-narrowed slice,
// used only to label separators; cheap relative to Detect's normal input
// size since batch-view narrowing already shrank it.
func (a *App) currentBatchesFor(records []logrecord.LogRecord) []oitbatch.Range {
	windowMs := a.Config.EffectiveBatchWindowMs()
	return oitbatch.Detect(records, time.Duration(windowMs)*time.Millisecond)
}

func batchIndexLookup(records []logrecord.LogRecord, batches []oitbatch.Range) map[uint64]int {
	out := make(map[uint64]int, len(records))
	for bi, rng := range batches {
		for i := rng.Start; i <= rng.End && i < len(records); i++ {
			out[records[i].ID] = bi
		}
	}
	return out
}

// renderOneLine formats a single record: timestamp, process name (not
// colored), and ANSI-cached content, truncated or wrapped per the line mode
// (spec §4.7 step 6: Compact truncates with a "… ↵" suffix, Full
// truncates without it, Wrap leaves the line whole for gocui's own
// View.Wrap to fold), with selection/search-match overrides applied via
// oitansi.ApplyOverrides.
func (a *App) renderOneLine(r logrecord.LogRecord, width int) string {
	ts := r.OriginTimestamp.Format("15:04:05")
	name := r.Source.ProcessName()
	prefix := fmt.Sprintf("%s %s: ", ts, name)

	cacheKey := oitansi.CacheKey{LogID: r.ID, CompactMode: a.LineMode == lineModeCompact}
	cached := a.AnsiCache.GetOrParse(cacheKey, r.Content)

	bg := ""
	if a.View.HasSelection && r.ID == a.View.SelectedID {
		bg = "blue"
	}
	spans := oitansi.ApplyOverrides(cached, bg, "")

	var content strings.Builder
	for _, sp := range spans {
		attr := oitutil.GetColorAttribute(sp.Style.Fg)
		content.WriteString(oitutil.ColoredString(sp.Text, attr))
	}

	line := prefix + content.String()

	switch a.LineMode {
	case lineModeCompact:
		avail := width - 2
		if avail < 10 {
			avail = 10
		}
		return oitutil.TruncateToWidth(line, avail, "… ↵")
	case lineModeWrap:
		return line
	default:
		avail := width - 2
		if avail < 10 {
			avail = 10
		}
		return oitutil.TruncateToWidth(line, avail, "")
	}
}

// renderExpandedLine shows the full content and metadata of the selected
// record (spec §4.7 Overlays), or a placeholder if the selection is no
// longer present (spec §7 Snapshot loss: "no error, the overlay refuses
// to open").
func (a *App) renderExpandedLine() string {
	if !a.View.HasSelection {
		return "no line selected"
	}
	for _, r := range a.Buffer.GetAll() {
		if r.ID == a.View.SelectedID {
			return fmt.Sprintf("id: %d\nprocess: %s\ntime: %s\n\n%s",
				r.ID, r.Source.ProcessName(), r.OriginTimestamp.Format(time.RFC3339), r.Content)
		}
	}
	return "selected line is no longer in the buffer"
}

// renderOptionsBar renders the bottom-left hint strip, in the spirit of
// lazydocker's renderGlobalOptions.
func (a *App) renderOptionsBar() string {
	hints := []string{
		"↑↓: navigate", "enter: expand", "/: search", "f: freeze",
		"b: batch", "t: trace", "h: hide", "x: menu", "q: quit",
	}
	return strings.Join(hints, "  ")
}

// renderProcessPanel implements spec §4.7's three process-panel display
// densities. Normal is the default; Summary/Minimal are reachable via the
// 'd' density-cycle keybinding (keybindings.go).
func (a *App) renderProcessPanel() string {
	names := make([]string, len(a.ProcessOrder))
	copy(names, a.ProcessOrder)
	sort.Strings(names)

	statuses := a.Supervisor.GetStatuses()

	switch a.ProcessPanelDensity {
	case densityMinimal:
		return fmt.Sprintf("Processes: %d", len(names))
	case densitySummary:
		return a.renderProcessSummary(names, statuses)
	default:
		return a.renderProcessNormal(names, statuses)
	}
}

func (a *App) renderProcessNormal(names []string, statuses map[string]oitproc.Status) string {
	var b strings.Builder
	for _, name := range names {
		st := statuses[name]
		label, color := statusDot(st)
		if dl, dc, ok := a.Supervisor.DisplayStatus(name); ok {
			label, color = dl, dc
		}
		_, hidden := a.Hidden[name]
		line := fmt.Sprintf("%s %s", oitutil.ColoredString("●", oitutil.GetColorAttribute(color)), name)
		if hidden {
			line += " (hidden)"
		}
		if label != "" && label != st.Kind.String() {
			line += " [" + label + "]"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderProcessSummary(names []string, statuses map[string]oitproc.Status) string {
	var noteworthy []string
	for _, name := range names {
		st := statuses[name]
		_, hidden := a.Hidden[name]
		_, hasCustom, _ := a.supervisorHasCustomStatus(name)
		if hidden || hasCustom || st.Kind != oitproc.Running {
			noteworthy = append(noteworthy, fmt.Sprintf("%s: %s", name, st.Kind.String()))
		}
	}
	header := fmt.Sprintf("Processes: %d", len(names))
	if len(noteworthy) == 0 {
		return header
	}
	return header + "\n" + strings.Join(noteworthy, "\n")
}

func (a *App) supervisorHasCustomStatus(name string) (string, bool, string) {
	label, color, ok := a.Supervisor.DisplayStatus(name)
	return label, ok && label != "", color
}

func statusDot(st oitproc.Status) (label, color string) {
	switch st.Kind {
	case oitproc.Running:
		return "Running", "green"
	case oitproc.Stopped:
		return "Stopped", "white"
	case oitproc.Restarting:
		return "Restarting", "yellow"
	case oitproc.Terminating:
		return "Terminating", "yellow"
	case oitproc.Failed:
		return "Failed: " + st.Reason, "red"
	default:
		return "Unknown", "white"
	}
}

func renderHelp() string {
	return strings.Join([]string{
		"↑/↓ or j/k   move selection",
		"enter        expand selected line",
		"/            search",
		"f            toggle freeze",
		"b            toggle batch view",
		"t            trace selection",
		"h            hide current process",
		"s            show all processes",
		"d            cycle process panel density",
		"c            toggle compact mode",
		"x            menu",
		"esc          back out one level",
		"q            quit",
	}, "\n")
}
