package oitui

import (
	"github.com/jesseduffield/gocui"
)

type viewNameMapping struct {
	viewPtr **gocui.View
	name    string
}

func (a *App) orderedViewNameMappings() []viewNameMapping {
	return []viewNameMapping{
		{viewPtr: &a.Views.Processes, name: "processes"},
		{viewPtr: &a.Views.Main, name: "main"},

		{viewPtr: &a.Views.Options, name: "options"},
		{viewPtr: &a.Views.AppStatus, name: "appStatus"},
		{viewPtr: &a.Views.Information, name: "information"},
		{viewPtr: &a.Views.SearchPrefix, name: "searchPrefix"},
		{viewPtr: &a.Views.Search, name: "search"},

		{viewPtr: &a.Views.Menu, name: "menu"},
		{viewPtr: &a.Views.Confirmation, name: "confirmation"},
		{viewPtr: &a.Views.Help, name: "help"},
		{viewPtr: &a.Views.Expanded, name: "expanded"},
		{viewPtr: &a.Views.TraceSelection, name: "traceSelection"},

		{viewPtr: &a.Views.Limit, name: "limit"},
	}
}

// popupViewNames lists views whose bounds are computed as a centered
// overlay rather than by the controlled 2-region layout.
func (a *App) popupViewNames() []string {
	return []string{"menu", "confirmation", "help", "expanded", "traceSelection"}
}

func (a *App) createAllViews() error {
	for _, mapping := range a.orderedViewNameMappings() {
		v, err := a.prepareView(mapping.name)
		if err != nil {
			return err
		}
		*mapping.viewPtr = v
		v.FgColor = gocui.ColorDefault
	}

	a.Views.Processes.Highlight = true
	a.Views.Processes.Title = " Processes "
	a.Views.Processes.SelBgColor = gocui.ColorBlue

	a.Views.Main.Title = " Logs "
	a.Views.Main.Wrap = false
	a.Views.Main.Autoscroll = false

	a.Views.Options.Frame = false
	a.Views.Options.FgColor = gocui.ColorDefault

	a.Views.AppStatus.Frame = false
	a.Views.AppStatus.FgColor = gocui.ColorCyan

	a.Views.Information.Frame = false
	a.Views.Information.FgColor = gocui.ColorGreen
	_ = a.setViewContent(a.Views.Information, "overitall "+a.Version)

	a.Views.SearchPrefix.Frame = false
	a.Views.SearchPrefix.FgColor = gocui.ColorGreen
	_ = a.setViewContent(a.Views.SearchPrefix, "search: ")
	a.Views.SearchPrefix.Visible = false

	a.Views.Search.Frame = false
	a.Views.Search.Editable = true
	a.Views.Search.FgColor = gocui.ColorGreen
	a.Views.Search.Visible = false

	a.Views.Menu.Visible = false
	a.Views.Menu.Highlight = true
	a.Views.Menu.SelBgColor = gocui.ColorBlue
	a.Views.Menu.Title = " Menu "

	a.Views.Confirmation.Visible = false
	a.Views.Confirmation.Wrap = true

	a.Views.Help.Visible = false
	a.Views.Help.Title = " Help "
	a.Views.Help.Wrap = true

	a.Views.Expanded.Visible = false
	a.Views.Expanded.Title = " Line detail "
	a.Views.Expanded.Wrap = true

	a.Views.TraceSelection.Visible = false
	a.Views.TraceSelection.Title = " Traces "
	a.Views.TraceSelection.Highlight = true
	a.Views.TraceSelection.SelBgColor = gocui.ColorBlue

	a.Views.Limit.Visible = false
	a.Views.Limit.Title = " Not enough space "
	a.Views.Limit.Wrap = true

	return nil
}

func (a *App) setViewContent(v *gocui.View, s string) error {
	v.Clear()
	_, err := v.Write([]byte(s))
	return err
}
