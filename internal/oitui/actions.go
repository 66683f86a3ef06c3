package oitui

import (
	"strconv"
	"time"

	"github.com/overitall/overitall/internal/oitfilter"
	"github.com/overitall/overitall/internal/oitipc"
)

// applyAction performs one deferred IPC mutation against live ViewState
// and the supervisor, after its handler's response has already been
// flushed (spec §4.8 Handler semantics ordering guarantee).
func (a *App) applyAction(act oitipc.Action) {
	switch act.Kind {
	case oitipc.ActionSetSearch:
		a.Search = act.Pattern
		a.View.SearchCommitted = true
		a.View.PinView(a.filteredRecords())
	case oitipc.ActionClearSearch:
		a.Search = ""
		a.View.SearchCommitted = false
	case oitipc.ActionSetAutoScroll:
		a.AutoScroll = act.Enabled
		if act.Enabled {
			a.View.ClearSelection()
		}
	case oitipc.ActionSelectAndExpand:
		a.View.Select(act.ID)
		a.View.PinView(a.filteredRecords())
		a.View.ExpandedLineOpen = true
		a.Views.Expanded.Visible = true
	case oitipc.ActionGoto:
		a.applyGoto(act.TargetRaw)
	case oitipc.ActionScroll:
		a.applyScroll(act.Direction, act.Lines)
	case oitipc.ActionFreeze:
		a.applyFreeze(act.FreezeMode)
	case oitipc.ActionFilterAdd:
		a.addFilter(act.Pattern, act.Exclude)
	case oitipc.ActionFilterRemove:
		a.removeFilter(act.Pattern)
	case oitipc.ActionFilterClear:
		a.Filters = nil
	case oitipc.ActionHideProcess:
		for _, name := range a.Groups.Resolve(act.Name) {
			a.Hidden[name] = struct{}{}
		}
	case oitipc.ActionShowProcess:
		for _, name := range a.Groups.Resolve(act.Name) {
			delete(a.Hidden, name)
		}
	case oitipc.ActionRestartProcess:
		for _, name := range a.Groups.Resolve(act.Name) {
			_ = a.Supervisor.Restart(name)
		}
	case oitipc.ActionKillProcess:
		for _, name := range a.Groups.Resolve(act.Name) {
			_ = a.Supervisor.Kill(name)
		}
	case oitipc.ActionStartProcess:
		for _, name := range a.Groups.Resolve(act.Name) {
			_ = a.Supervisor.Start(name)
		}
	case oitipc.ActionBatchSelect:
		a.View.BatchViewActive = true
		a.View.CurrentBatch = act.BatchID
		a.View.PinView(a.filteredRecords())
	case oitipc.ActionSetTraceFilter:
		a.View.TraceFilterActive = true
		a.View.TraceFilterToken = act.Pattern
		a.View.PinView(a.filteredRecords())
	case oitipc.ActionClearTraceFilter:
		a.View.TraceFilterActive = false
		a.View.TraceFilterToken = ""
	}
}

func (a *App) addFilter(pattern string, exclude bool) {
	kind := oitfilter.Include
	if exclude {
		kind = oitfilter.Exclude
	}
	a.Filters = append(a.Filters, oitfilter.Filter{Pattern: pattern, Kind: kind})
}

func (a *App) removeFilter(pattern string) {
	out := a.Filters[:0]
	for _, f := range a.Filters {
		if f.Pattern != pattern {
			out = append(out, f)
		}
	}
	a.Filters = out
}

// applyGoto resolves a numeric target as a record ID selection; any other
// form (e.g. a time string) is left for a future time-based goto, since
// spec §6 only requires id|time be accepted, not that every form exists.
func (a *App) applyGoto(target string) {
	id, err := strconv.ParseUint(target, 10, 64)
	if err != nil {
		return
	}
	a.View.Select(id)
	a.View.PinView(a.filteredRecords())
}

func (a *App) applyScroll(direction string, lines int) {
	if lines <= 0 {
		lines = 1
	}
	a.AutoScroll = false
	a.View.PinView(a.filteredRecords())
	switch direction {
	case "up":
		a.ScrollOffset += lines
	case "down":
		a.ScrollOffset -= lines
		if a.ScrollOffset < 0 {
			a.ScrollOffset = 0
		}
	case "top":
		a.ScrollOffset = len(a.filteredRecords())
	case "bottom":
		a.ScrollOffset = 0
		a.AutoScroll = true
		a.View.ClearSnapshot()
	}
}

func (a *App) applyFreeze(mode string) {
	switch mode {
	case "on":
		a.View.Freeze(time.Now(), a.filteredRecords())
	case "off":
		a.View.Unfreeze()
	default: // "toggle"
		if a.View.Frozen {
			a.View.Unfreeze()
		} else {
			a.View.Freeze(time.Now(), a.filteredRecords())
		}
	}
}
