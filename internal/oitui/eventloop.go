package oitui

import (
	"time"

	"github.com/overitall/overitall/internal/oitfilter"
	"github.com/overitall/overitall/internal/oitipc"
	"github.com/overitall/overitall/internal/oitproc"
)

const recentLogWindow = 500

// tick runs one pass of the event loop sequence from spec §4.9: drain
// IPC requests, drain newly ingested records into the ring buffer, reap
// any process that exited since the last tick, then re-render. It
// always runs on the gocui main-loop goroutine (via g.Update), so it
// touches every App field without locking.
func (a *App) tick() {
	a.drainIPC()
	a.drainIngest()
	a.Supervisor.CheckAllStatus()
	a.Supervisor.ReapAll()
	_ = a.render()
}

// drainIPC answers every request that arrived since the last tick: build
// one fresh snapshot, hand each request to the pure Handler, flush its
// response immediately, then apply its deferred actions (spec §4.8's
// ordering guarantee: response before mutation).
func (a *App) drainIPC() {
	if a.IPC == nil {
		return
	}
	envelopes := a.IPC.PollRequests()
	if len(envelopes) == 0 {
		return
	}

	snap := a.snapshot()
	for _, env := range envelopes {
		result := a.Handler.Handle(env.Request, snap)
		_ = a.IPC.SendResponse(env.Conn, result.Response)
		for _, act := range result.Actions {
			a.applyAction(act)
		}
	}
}

// drainIngest moves every record buffered on the ingest channel into the
// ring buffer without blocking, so a burst of output from many processes
// in one tick is absorbed in a single pass.
func (a *App) drainIngest() {
	for {
		select {
		case r := <-a.Ingest:
			a.Buffer.Push(r)
		default:
			return
		}
	}
}

// snapshot builds the read-only StateSnapshot the IPC handler consults,
// from the live supervisor, buffer, and view state (spec §4.8).
func (a *App) snapshot() *oitipc.StateSnapshot {
	statuses := a.Supervisor.GetStatuses()
	names := a.Supervisor.ProcessNames()

	processes := make([]oitipc.ProcessInfo, 0, len(names))
	for _, name := range names {
		st := statuses[name]
		processes = append(processes, oitipc.ProcessInfo{
			Name:   name,
			Status: statusString(st.Kind),
			Error:  st.Reason,
		})
	}

	filters := make([]oitipc.FilterInfo, 0, len(a.Filters))
	for _, f := range a.Filters {
		filters = append(filters, oitipc.FilterInfo{
			Pattern:    f.Pattern,
			FilterType: filterTypeString(f.Kind),
		})
	}

	hidden := make([]string, 0, len(a.Hidden))
	for name := range a.Hidden {
		hidden = append(hidden, name)
	}

	recent := a.Buffer.GetLast(recentLogWindow)
	recentInfo := make([]oitipc.LogLineInfo, len(recent))
	for i, r := range recent {
		recentInfo[i] = oitipc.LogLineInfo{
			ID:        r.ID,
			Process:   r.Source.ProcessName(),
			Content:   r.Content,
			Timestamp: r.OriginTimestamp.Format(time.RFC3339),
		}
	}

	maxBytes := a.Config.EffectiveMaxLogBufferMB() * 1024 * 1024
	usage := 0.0
	if maxBytes > 0 {
		usage = float64(a.Buffer.ByteTotal()) / float64(maxBytes) * 100
	}

	return &oitipc.StateSnapshot{
		Processes:        processes,
		FilterCount:      len(a.Filters),
		ActiveFilters:     filters,
		SearchPattern:    a.Search,
		HasSearchPattern: a.Search != "",
		ViewMode: oitipc.ViewModeInfo{
			Frozen:         a.View.Frozen,
			BatchView:      a.View.BatchViewActive,
			TraceFilter:    a.View.TraceFilterActive,
			TraceSelection: a.View.TraceSelectionOpen,
			Compact:        a.LineMode == lineModeCompact,
		},
		AutoScroll:      a.AutoScroll,
		LogCount:        a.Buffer.RecordCount(),
		BufferStats: oitipc.BufferStats{
			BufferBytes:    a.Buffer.ByteTotal(),
			MaxBufferBytes: maxBytes,
			UsagePercent:   usage,
		},
		TraceRecording:  a.View.TraceRecordingActive,
		RecentLogs:      recentInfo,
		TotalLogLines:   a.Buffer.RecordCount(),
		HiddenProcesses: hidden,
		Groups:          a.Config.Groups,
	}
}

func statusString(kind oitproc.StatusKind) string {
	switch kind {
	case oitproc.Running:
		return "running"
	case oitproc.Stopped:
		return "stopped"
	case oitproc.Restarting:
		return "restarting"
	case oitproc.Terminating:
		return "terminating"
	case oitproc.Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func filterTypeString(k oitfilter.Kind) string {
	if k == oitfilter.Exclude {
		return "exclude"
	}
	return "include"
}
