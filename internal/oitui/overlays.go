package oitui

import (
	"fmt"
	"strings"

	"github.com/overitall/overitall/internal/oittrace"
	"github.com/overitall/overitall/internal/oitutil"
)

// menuEntry is one row of the 'x' action menu, in lazydocker's
// menu_panel.go spirit of a small static list of bulk process actions.
type menuEntry struct {
	label string
	run   func(*App)
}

var menuEntries = []menuEntry{
	{"restart selected process", func(a *App) {
		if name, ok := a.selectedProcessName(); ok {
			_ = a.Supervisor.Restart(name)
		}
	}},
	{"kill selected process", func(a *App) {
		if name, ok := a.selectedProcessName(); ok {
			_ = a.Supervisor.Kill(name)
		}
	}},
	{"start selected process", func(a *App) {
		if name, ok := a.selectedProcessName(); ok {
			_ = a.Supervisor.Start(name)
		}
	}},
	{"restart all processes", func(a *App) {
		for _, name := range a.ProcessOrder {
			_ = a.Supervisor.Restart(name)
		}
	}},
	{"kill all processes", func(a *App) {
		for _, name := range a.ProcessOrder {
			_ = a.Supervisor.Kill(name)
		}
	}},
	{"clear filters", func(a *App) {
		a.Filters = nil
	}},
	{"toggle help", func(a *App) {
		a.View.HelpOverlayOpen = !a.View.HelpOverlayOpen
		a.syncOverlayVisibility()
	}},
}

// traceCandidates detects trace tokens over the full retained buffer,
// independent of the current filter/search view (spec §4.10: trace
// selection scans everything retained, not just what's on screen).
func (a *App) traceCandidates() []oittrace.Candidate {
	return oittrace.Detect(a.Buffer.GetAll())
}

// renderMenu lists every menu entry, highlighting the current selection
// with a caret in the same understated style lazydocker's popups use.
func (a *App) renderMenu() string {
	var b strings.Builder
	for i, e := range menuEntries {
		marker := "  "
		if i == a.menuIdx {
			marker = "> "
		}
		b.WriteString(marker)
		b.WriteString(e.label)
		if i < len(menuEntries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderTraceSelection lists detected trace candidates for the operator
// to pick from, newest-first as oittrace.Detect already orders them,
// with a preview of the first line each token was seen in (spec §4.10).
func (a *App) renderTraceSelection() string {
	candidates := a.traceCandidates()
	if len(candidates) == 0 {
		return "no trace candidates detected yet"
	}
	var b strings.Builder
	for i, c := range candidates {
		marker := "  "
		if i == a.traceMenuIdx {
			marker = "> "
		}
		preview := oitutil.SafeTruncate(c.Preview, 60)
		b.WriteString(fmt.Sprintf("%s%s  (%d occurrences)  %s", marker, c.Token, c.Count, preview))
		if i < len(candidates)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
