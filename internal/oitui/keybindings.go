package oitui

import (
	"sort"

	"github.com/jesseduffield/gocui"

	"github.com/overitall/overitall/internal/oitview"
)

// keybindings registers every key/mouse binding directly against the
// gocui handle. Unlike lazydocker's rebindable Binding/createBinding
// layer (driven by a configurable key-string table), there is no
// configurable-keybinding surface here, so each key is bound straight to
// its handler, grounded on the underlying gocui.SetKeybinding calls that
// layer itself bottoms out to.
func (a *App) keybindings(g *gocui.Gui) error {
	bindings := []struct {
		view     string
		key      interface{}
		mod      gocui.Modifier
		handler  func(*gocui.Gui, *gocui.View) error
	}{
		{"", gocui.KeyCtrlC, gocui.ModNone, a.handleQuit},
		{"", 'q', gocui.ModNone, a.handleQuit},
		{"", gocui.KeyEsc, gocui.ModNone, a.handleEscape},

		{"processes", gocui.KeyArrowUp, gocui.ModNone, a.handleProcessUp},
		{"processes", 'k', gocui.ModNone, a.handleProcessUp},
		{"processes", gocui.KeyArrowDown, gocui.ModNone, a.handleProcessDown},
		{"processes", 'j', gocui.ModNone, a.handleProcessDown},

		{"main", gocui.KeyArrowUp, gocui.ModNone, a.handleLineUp},
		{"main", 'k', gocui.ModNone, a.handleLineUp},
		{"main", gocui.KeyArrowDown, gocui.ModNone, a.handleLineDown},
		{"main", 'j', gocui.ModNone, a.handleLineDown},
		{"main", gocui.KeyEnter, gocui.ModNone, a.handleExpandSelected},

		{"", '/', gocui.ModNone, a.handleOpenSearch},
		{"search", gocui.KeyEnter, gocui.ModNone, a.handleCommitSearch},

		{"", 'f', gocui.ModNone, a.handleToggleFreeze},
		{"", 'b', gocui.ModNone, a.handleToggleBatchView},
		{"", 't', gocui.ModNone, a.handleOpenTraceSelection},
		{"traceSelection", gocui.KeyEnter, gocui.ModNone, a.handleConfirmTraceSelection},

		{"", 'h', gocui.ModNone, a.handleHideSelected},
		{"", 's', gocui.ModNone, a.handleShowAll},
		{"", 'r', gocui.ModNone, a.handleRestartSelected},
		{"", 'K', gocui.ModNone, a.handleKillSelected},

		{"", 'd', gocui.ModNone, a.handleCycleDensity},
		{"", 'c', gocui.ModNone, a.handleToggleCompact},
		{"", 'x', gocui.ModNone, a.handleOpenMenu},
		{"menu", gocui.KeyEnter, gocui.ModNone, a.handleConfirmMenu},
		{"menu", gocui.KeyArrowUp, gocui.ModNone, a.handleMenuUp},
		{"menu", gocui.KeyArrowDown, gocui.ModNone, a.handleMenuDown},

		{"", gocui.MouseWheelUp, gocui.ModNone, a.handleLineUp},
		{"", gocui.MouseWheelDown, gocui.ModNone, a.handleLineDown},
	}

	for _, b := range bindings {
		if err := g.SetKeybinding(b.view, b.key, b.mod, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) handleQuit(*gocui.Gui, *gocui.View) error {
	return a.requestQuit()
}

// handleEscape runs the priority ladder (spec §4.5), then closes
// whichever overlay view the resulting state no longer wants visible.
func (a *App) handleEscape(*gocui.Gui, *gocui.View) error {
	oitview.HandleEscape(a.View)
	a.syncOverlayVisibility()
	_, _ = a.g.SetCurrentView("main")
	return nil
}

func (a *App) syncOverlayVisibility() {
	a.Views.Help.Visible = a.View.HelpOverlayOpen
	a.Views.Expanded.Visible = a.View.ExpandedLineOpen
	a.Views.TraceSelection.Visible = a.View.TraceSelectionOpen
	a.Views.Search.Visible = a.View.SearchEntryOpen
	a.Views.SearchPrefix.Visible = a.View.SearchEntryOpen
}

func (a *App) sortedProcessNames() []string {
	names := make([]string, len(a.ProcessOrder))
	copy(names, a.ProcessOrder)
	sort.Strings(names)
	return names
}

func (a *App) selectedProcessName() (string, bool) {
	names := a.sortedProcessNames()
	if len(names) == 0 {
		return "", false
	}
	if a.ProcessSelectedIdx < 0 {
		a.ProcessSelectedIdx = 0
	}
	if a.ProcessSelectedIdx >= len(names) {
		a.ProcessSelectedIdx = len(names) - 1
	}
	return names[a.ProcessSelectedIdx], true
}

func (a *App) handleProcessUp(*gocui.Gui, *gocui.View) error {
	if a.ProcessSelectedIdx > 0 {
		a.ProcessSelectedIdx--
	}
	return nil
}

func (a *App) handleProcessDown(*gocui.Gui, *gocui.View) error {
	if a.ProcessSelectedIdx < len(a.ProcessOrder)-1 {
		a.ProcessSelectedIdx++
	}
	return nil
}

func (a *App) handleLineUp(*gocui.Gui, *gocui.View) error {
	a.View.SelectPrev(a.View.ActiveRecords(a.filteredRecords()))
	a.View.PinView(a.filteredRecords())
	a.AutoScroll = false
	return nil
}

func (a *App) handleLineDown(*gocui.Gui, *gocui.View) error {
	records := a.filteredRecords()
	view := a.View.ActiveRecords(records)
	a.View.SelectNext(view)
	a.View.PinView(records)
	if a.View.HasSelection && len(view) > 0 && a.View.SelectedID == view[len(view)-1].ID {
		a.AutoScroll = true
		a.View.ClearSnapshot()
		a.View.ClearSelection()
	}
	return nil
}

func (a *App) handleExpandSelected(*gocui.Gui, *gocui.View) error {
	if !a.View.HasSelection {
		return nil
	}
	a.View.ExpandedLineOpen = true
	a.Views.Expanded.Visible = true
	return nil
}

func (a *App) handleOpenSearch(*gocui.Gui, *gocui.View) error {
	a.View.SearchEntryOpen = true
	a.syncOverlayVisibility()
	_, err := a.g.SetCurrentView("search")
	return err
}

func (a *App) handleCommitSearch(g *gocui.Gui, v *gocui.View) error {
	a.Search = v.Buffer()
	a.View.SearchPattern = a.Search
	a.View.SearchCommitted = true
	a.View.SearchEntryOpen = false
	a.View.PinView(a.filteredRecords())
	a.syncOverlayVisibility()
	_, err := g.SetCurrentView("main")
	return err
}

func (a *App) handleToggleFreeze(*gocui.Gui, *gocui.View) error {
	a.applyFreeze("toggle")
	return nil
}

func (a *App) handleToggleBatchView(*gocui.Gui, *gocui.View) error {
	a.View.BatchViewActive = !a.View.BatchViewActive
	if a.View.BatchViewActive {
		a.View.PinView(a.filteredRecords())
	}
	return nil
}

func (a *App) handleOpenTraceSelection(*gocui.Gui, *gocui.View) error {
	a.View.TraceSelectionOpen = true
	a.traceMenuIdx = 0
	a.syncOverlayVisibility()
	_, err := a.g.SetCurrentView("traceSelection")
	return err
}

func (a *App) handleConfirmTraceSelection(*gocui.Gui, *gocui.View) error {
	candidates := a.traceCandidates()
	if a.traceMenuIdx >= 0 && a.traceMenuIdx < len(candidates) {
		a.View.TraceFilterActive = true
		a.View.TraceFilterToken = candidates[a.traceMenuIdx].Token
		a.View.PinView(a.filteredRecords())
	}
	a.View.TraceSelectionOpen = false
	a.syncOverlayVisibility()
	_, err := a.g.SetCurrentView("main")
	return err
}

func (a *App) handleHideSelected(*gocui.Gui, *gocui.View) error {
	if name, ok := a.selectedProcessName(); ok {
		a.Hidden[name] = struct{}{}
	}
	return nil
}

func (a *App) handleShowAll(*gocui.Gui, *gocui.View) error {
	a.Hidden = make(map[string]struct{})
	return nil
}

func (a *App) handleRestartSelected(*gocui.Gui, *gocui.View) error {
	if name, ok := a.selectedProcessName(); ok {
		if err := a.Supervisor.Restart(name); err != nil {
			a.setStatus("restart %s: %s", name, err)
		}
	}
	return nil
}

func (a *App) handleKillSelected(*gocui.Gui, *gocui.View) error {
	if name, ok := a.selectedProcessName(); ok {
		if err := a.Supervisor.Kill(name); err != nil {
			a.setStatus("kill %s: %s", name, err)
		}
	}
	return nil
}

func (a *App) handleCycleDensity(*gocui.Gui, *gocui.View) error {
	a.ProcessPanelDensity = (a.ProcessPanelDensity + 1) % 3
	return nil
}

// handleToggleCompact cycles the three per-line display modes spec §4.7
// step 6 names: Full, Compact, Wrap.
func (a *App) handleToggleCompact(*gocui.Gui, *gocui.View) error {
	a.LineMode = (a.LineMode + 1) % 3
	return nil
}

func (a *App) handleOpenMenu(*gocui.Gui, *gocui.View) error {
	a.Views.Menu.Visible = true
	a.menuIdx = 0
	_, err := a.g.SetCurrentView("menu")
	return err
}

func (a *App) handleMenuUp(*gocui.Gui, *gocui.View) error {
	if a.menuIdx > 0 {
		a.menuIdx--
	}
	return nil
}

func (a *App) handleMenuDown(*gocui.Gui, *gocui.View) error {
	if a.menuIdx < len(menuEntries)-1 {
		a.menuIdx++
	}
	return nil
}

func (a *App) handleConfirmMenu(*gocui.Gui, *gocui.View) error {
	if a.menuIdx >= 0 && a.menuIdx < len(menuEntries) {
		menuEntries[a.menuIdx].run(a)
	}
	a.Views.Menu.Visible = false
	_, err := a.g.SetCurrentView("main")
	return err
}
