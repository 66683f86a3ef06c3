package oitui

import (
	"github.com/jesseduffield/gocui"
)

const processesPanelWidth = 28

// layout positions every view and is invoked by gocui on every resize and
// after every Update, mirroring lazydocker's gui.layout consolidated from
// its five-panel sidebar down to one process panel plus the log view.
func (a *App) layout(g *gocui.Gui) error {
	width, height := g.Size()

	const minWidth, minHeight = 20, 6
	if width < minWidth || height < minHeight {
		if v, err := g.SetView("limit", 0, 0, max(width-1, 1), max(height-1, 1), 0); err == nil || err.Error() == "unknown view" {
			if v != nil {
				v.Visible = true
				_, _ = g.SetViewOnTop("limit")
			}
		}
		return nil
	}
	if a.Views.Limit != nil {
		a.Views.Limit.Visible = false
		_, _ = g.SetViewOnBottom("limit")
	}

	bottomRows := 2
	searchActive := a.View.SearchEntryOpen
	if searchActive {
		bottomRows = 3
	}

	mainHeight := height - bottomRows

	procWidth := processesPanelWidth
	if procWidth > width/3 {
		procWidth = width / 3
	}

	if _, err := g.SetView("processes", 0, 0, procWidth, mainHeight-1, gocui.RIGHT); err != nil && err.Error() != "unknown view" {
		return err
	}
	if _, err := g.SetView("main", procWidth+1, 0, width-1, mainHeight-1, gocui.LEFT); err != nil && err.Error() != "unknown view" {
		return err
	}

	row := mainHeight
	if searchActive {
		prefixWidth := 8
		if v, err := g.SetView("searchPrefix", 0, row, prefixWidth, row+1, 0); err != nil && err.Error() != "unknown view" {
			return err
		} else if v != nil {
			v.Visible = true
		}
		if v, err := g.SetView("search", prefixWidth+1, row, width-1, row+1, 0); err != nil && err.Error() != "unknown view" {
			return err
		} else if v != nil {
			v.Visible = true
			if g.CurrentView() != nil && g.CurrentView().Name() == "search" {
				g.Cursor = true
			}
		}
		row++
	} else {
		a.Views.SearchPrefix.Visible = false
		a.Views.Search.Visible = false
	}

	statusStr := a.StatusLine
	optionsEnd := width - 1
	if statusStr != "" {
		optionsEnd = width - len(statusStr) - 2
		if optionsEnd < 1 {
			optionsEnd = 1
		}
	}
	if v, err := g.SetView("options", -1, row, optionsEnd, row+1, 0); err != nil && err.Error() != "unknown view" {
		return err
	} else if v != nil {
		_ = a.setViewContent(v, a.renderOptionsBar())
	}
	if v, err := g.SetView("appStatus", optionsEnd, row, width, row+1, 0); err != nil && err.Error() != "unknown view" {
		return err
	} else if v != nil {
		_ = a.setViewContent(v, statusStr)
	}

	if err := a.layoutPopups(g, width, height); err != nil {
		return err
	}

	return a.render()
}

// layoutPopups centers any currently-visible overlay view, matching
// lazydocker's popup-panel sizing idiom (confirmation_panel.go /
// menu_panel.go), generalized to the three overlay kinds spec §4.7 names.
func (a *App) layoutPopups(g *gocui.Gui, width, height int) error {
	centered := func(name string, w, h int) error {
		x0 := (width - w) / 2
		y0 := (height - h) / 2
		if x0 < 0 {
			x0 = 0
		}
		if y0 < 0 {
			y0 = 0
		}
		_, err := g.SetView(name, x0, y0, x0+w, y0+h, 0)
		if err != nil && err.Error() != "unknown view" {
			return err
		}
		return nil
	}

	if a.Views.Help.Visible {
		if err := centered("help", min(width-4, 60), min(height-4, 20)); err != nil {
			return err
		}
		_, _ = g.SetViewOnTop("help")
	}
	if a.Views.Expanded.Visible {
		if err := centered("expanded", min(width-4, 90), min(height-4, 20)); err != nil {
			return err
		}
		_, _ = g.SetViewOnTop("expanded")
	}
	if a.Views.TraceSelection.Visible {
		if err := centered("traceSelection", min(width-4, 80), min(height-4, 16)); err != nil {
			return err
		}
		_, _ = g.SetViewOnTop("traceSelection")
	}
	if a.Views.Menu.Visible {
		if err := centered("menu", min(width-4, 40), min(height-4, 12)); err != nil {
			return err
		}
		_, _ = g.SetViewOnTop("menu")
	}
	if a.Views.Confirmation.Visible {
		if err := centered("confirmation", min(width-4, 50), 5); err != nil {
			return err
		}
		_, _ = g.SetViewOnTop("confirmation")
	}
	return nil
}
