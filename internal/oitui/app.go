// Package oitui implements the terminal UI: a two-region gocui layout
// (process panel + unified log view), its render pipeline, keybindings,
// and the event loop tick sequence (spec §4.7, §4.9).
//
// Grounded on lazydocker's pkg/gui package shape (a Gui struct wrapping
// *gocui.Gui plus a Views struct of named view pointers, a layout manager
// function, goEvery-style background refresh goroutines, a statusManager
// for the bottom status line) consolidated from its five side panels
// (project/services/containers/images/volumes) down to the one process
// panel this domain needs, and generalized from "one docker object per
// panel" to "one supervised process/log-file source feeding one unified
// log view."
package oitui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jesseduffield/gocui"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/overitall/overitall/internal/logrecord"
	"github.com/overitall/overitall/internal/oitansi"
	"github.com/overitall/overitall/internal/oitbatch"
	"github.com/overitall/overitall/internal/oitconfig"
	"github.com/overitall/overitall/internal/oitfilter"
	"github.com/overitall/overitall/internal/oitgroup"
	"github.com/overitall/overitall/internal/oitipc"
	"github.com/overitall/overitall/internal/oitproc"
	"github.com/overitall/overitall/internal/oittask"
	"github.com/overitall/overitall/internal/oitview"
)

// redrawInterval drives the periodic redraw that animates incoming logs
// while tailing (spec §4.9 step 5's "periodic redraw timer").
const redrawInterval = 100 * time.Millisecond

// App wraps the gocui handle together with every domain component the
// event loop coordinates. All of its fields are touched only from the
// gocui main-loop goroutine (via g.Update), matching spec §5's
// single-threaded-mutation rule: the ring buffer and ViewState need no
// lock of their own.
type App struct {
	g       *gocui.Gui
	Log     *logrus.Entry
	Version string

	Config     *oitconfig.Config
	Supervisor *oitproc.Supervisor
	Buffer     *logrecord.RingBuffer
	Ingest     chan logrecord.LogRecord
	Groups     *oitgroup.Resolver

	View       *oitview.State
	Filters    []oitfilter.Filter
	Hidden     map[string]struct{}
	Search     string
	AutoScroll bool
	LineMode   lineMode

	AnsiCache  *oitansi.Cache
	BatchCache *oitbatch.Cache

	IPC     *oitipc.Server
	Handler *oitipc.Handler

	Tasks *oittask.Group

	Views Views

	ProcessOrder        []string
	ProcessSelectedIdx  int
	ScrollOffset        int
	StatusLine          string
	ProcessPanelDensity density
	menuIdx             int
	traceMenuIdx        int

	quitRequested bool
}

// density selects one of spec §4.7's three process-panel display modes.
type density int

const (
	densityNormal density = iota
	densitySummary
	densityMinimal
)

// lineMode selects one of spec §4.7 step 6's three per-line display
// modes: Compact truncates with a "… ↵" suffix, Full truncates without
// it, and Wrap hands wrapping off to gocui's own View.Wrap instead of
// truncating at all.
type lineMode int

const (
	lineModeFull lineMode = iota
	lineModeCompact
	lineModeWrap
)

// Views holds every named gocui view, populated once at startup.
type Views struct {
	Processes      *gocui.View
	Main           *gocui.View
	Options        *gocui.View
	AppStatus      *gocui.View
	Information    *gocui.View
	SearchPrefix   *gocui.View
	Search         *gocui.View
	Confirmation   *gocui.View
	Menu           *gocui.View
	Help           *gocui.View
	Expanded       *gocui.View
	TraceSelection *gocui.View
	Limit          *gocui.View
}

// New builds an App around an already-loaded config and a supervisor
// whose processes have been registered (not necessarily started).
func New(log *logrus.Entry, version string, cfg *oitconfig.Config, supervisor *oitproc.Supervisor, ingest chan logrecord.LogRecord, groups *oitgroup.Resolver) *App {
	deadlock.Opts.Disable = true

	app := &App{
		Log:        log,
		Version:    version,
		Config:     cfg,
		Supervisor: supervisor,
		Buffer:     logrecord.NewRingBuffer(math.MaxInt, cfg.EffectiveMaxLogBufferMB()*1024*1024),
		Ingest:     ingest,
		Groups:     groups,
		View:       oitview.New(),
		Hidden:     make(map[string]struct{}),
		AutoScroll: true,
		LineMode:   lineModeFull,
		AnsiCache:  oitansi.NewCache(0),
		BatchCache: oitbatch.NewCache(),
		Handler:    oitipc.NewHandler(version),
		Tasks:      oittask.NewGroup(),
	}

	if cfg.CompactMode != nil && *cfg.CompactMode {
		app.LineMode = lineModeCompact
	}

	for _, name := range cfg.HiddenProcesses {
		app.Hidden[name] = struct{}{}
	}
	for _, pattern := range cfg.Filters.Include {
		app.Filters = append(app.Filters, oitfilter.Filter{Pattern: pattern, Kind: oitfilter.Include})
	}
	for _, pattern := range cfg.Filters.Exclude {
		app.Filters = append(app.Filters, oitfilter.Filter{Pattern: pattern, Kind: oitfilter.Exclude})
	}

	return app
}

// AttachIPC wires a running IPC server into the app so the event loop can
// poll it every tick. Called by cmd/oit once the server has bound its
// socket (spec §4.8 startup contention happens before this).
func (a *App) AttachIPC(server *oitipc.Server) {
	a.IPC = server
}

// Run builds the gocui handle, registers views and keybindings, starts
// the background goroutines, and blocks on the gocui main loop until quit
// (spec §4.9). Terminal teardown runs unconditionally via the deferred
// g.Close (spec §4.9 Cancellation).
func (a *App) Run() error {
	defer a.Tasks.StopAll()

	g, err := gocui.NewGui(gocui.OutputTrue, false, gocui.NORMAL, false, map[rune]string{})
	if err != nil {
		return err
	}
	defer g.Close()

	g.Mouse = true
	a.g = g

	if err := a.createAllViews(); err != nil {
		return err
	}

	if len(a.ProcessOrder) == 0 {
		a.ProcessOrder = a.Supervisor.ProcessNames()
	}

	g.SetManager(gocui.ManagerFunc(a.layout))

	if err := a.keybindings(g); err != nil {
		return err
	}

	if err := g.SetCurrentView("main"); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.Tasks.Go(ctx, "tick", func(ctx context.Context) {
		ticker := time.NewTicker(redrawInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.Update(func(*gocui.Gui) error {
					a.tick()
					return nil
				})
			}
		}
	})

	err = g.MainLoop()
	if err == gocui.ErrQuit {
		return nil
	}
	return err
}

// prepareView creates name with placeholder bounds if it doesn't exist
// yet, ignoring gocui's "unknown view" sentinel the way lazydocker's
// createAllViews does; layout() resizes every view on the next frame.
func (a *App) prepareView(name string) (*gocui.View, error) {
	v, err := a.g.SetView(name, 0, 0, 1, 1, 0)
	if err != nil && err.Error() != "unknown view" {
		return nil, err
	}
	return v, nil
}

// requestQuit starts the shutdown flow (spec §4.1 Shutdown flow, §4.9
// Cancellation): mark every process Terminating, signal them, then wait
// up to the grace period for the reap loop to observe they're all gone.
func (a *App) requestQuit() error {
	a.quitRequested = true
	a.Supervisor.SetAllTerminating()
	a.Supervisor.SendKillSignals()

	go func() {
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			a.Supervisor.CheckAllStatus()
			a.Supervisor.ReapAll()
			if allStopped(a.Supervisor.GetStatuses()) {
				break
			}
			time.Sleep(50 * time.Millisecond)
		}
		if a.IPC != nil {
			_ = a.IPC.Close()
		}
		a.g.Update(func(g *gocui.Gui) error {
			return gocui.ErrQuit
		})
	}()

	return nil
}

func allStopped(statuses map[string]oitproc.Status) bool {
	for _, st := range statuses {
		if st.Kind == oitproc.Running || st.Kind == oitproc.Terminating || st.Kind == oitproc.Restarting {
			return false
		}
	}
	return true
}

// setStatus sets the transient bottom-line status message.
func (a *App) setStatus(format string, args ...interface{}) {
	a.StatusLine = fmt.Sprintf(format, args...)
}
