package oitproc

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/overitall/overitall/internal/logrecord"
	"github.com/overitall/overitall/internal/oitstatus"
)

// killGrace is the wait between the terminal signal and the force signal
// in a two-phase group kill (spec §4.1).
const killGrace = 500 * time.Millisecond

// ProcessHandle tracks one supervised child across its whole lifecycle:
// spawn, output capture, status transitions, and group termination.
//
// Grounded on spec §3's ProcessHandle data model and shaped after
// kdlbs-kandev's process.Manager (atomic-ish status, piped stdout/stderr,
// reader goroutines) simplified to this domain's single-child-per-name
// invariant.
type ProcessHandle struct {
	Name       string
	Command    string
	WorkingDir string

	mu            sync.Mutex
	status        Status
	cmd           *exec.Cmd
	pgid          int
	statusMatcher *oitstatus.Matcher
	restartOnExit bool

	exitedCh chan struct{}
	exitErr  error
}

// NewProcessHandle constructs a handle in the Stopped state.
func NewProcessHandle(name, command, workingDir string, statusCfg *oitstatus.Config) *ProcessHandle {
	h := &ProcessHandle{
		Name:       name,
		Command:    command,
		WorkingDir: workingDir,
		status:     Status{Kind: Stopped},
	}
	if statusCfg != nil {
		h.statusMatcher = oitstatus.New(*statusCfg)
	}
	return h
}

// Status returns the handle's current status.
func (h *ProcessHandle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// DisplayStatus returns the StatusMatcher's current label/color override,
// if the handle has one configured and its current label is non-empty
// (before any transition matches, that is the configured default label).
func (h *ProcessHandle) DisplayStatus() (label, color string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.statusMatcher == nil {
		return "", "", false
	}
	label, color = h.statusMatcher.GetDisplayStatus()
	return label, color, label != ""
}

// spawn starts the child under a fresh process group and returns once the
// two reader goroutines and the waiter goroutine are running. lineFn is
// invoked for every captured line (both stdout and stderr).
func (h *ProcessHandle) spawn(lineFn func(logrecord.LogRecord)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status.Kind == Running {
		return nil
	}

	cmd := exec.Command("sh", "-c", h.Command)
	if h.WorkingDir != "" {
		cmd.Dir = h.WorkingDir
	}

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return err
	}
	cmd.Stdin = devNull

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		devNull.Close()
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		devNull.Close()
		return err
	}

	setProcGroup(cmd)

	if err := cmd.Start(); err != nil {
		devNull.Close()
		return err
	}

	h.cmd = cmd
	h.pgid = cmd.Process.Pid
	h.status = Status{Kind: Running}
	h.exitedCh = make(chan struct{})
	h.exitErr = nil
	if h.statusMatcher != nil {
		h.statusMatcher.Reset()
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go h.readLines(&readers, stdout, logrecord.SourceProcessStdout, lineFn)
	go h.readLines(&readers, stderr, logrecord.SourceProcessStderr, lineFn)
	go h.wait(&readers, devNull)

	return nil
}

// readLines drains r to EOF, which is how the reader tasks learn the
// child exited (spec §4.1 Output capture: "Reader tasks end when the
// pipe closes"). Waiting for both readers before calling cmd.Wait (see
// wait below) avoids the close-race the stdlib warns StdoutPipe/
// StderrPipe callers about.
func (h *ProcessHandle) readLines(wg *sync.WaitGroup, r io.ReadCloser, kind logrecord.SourceKind, lineFn func(logrecord.LogRecord)) {
	defer wg.Done()
	defer r.Close()
	source := logrecord.Source{Kind: kind, Name: h.Name}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		h.mu.Lock()
		if h.statusMatcher != nil {
			h.statusMatcher.CheckLine(line)
		}
		h.mu.Unlock()
		lineFn(logrecord.New(source, line))
	}
}

func (h *ProcessHandle) wait(readers *sync.WaitGroup, devNull *os.File) {
	defer devNull.Close()
	h.mu.Lock()
	cmd := h.cmd
	exitedCh := h.exitedCh
	h.mu.Unlock()

	readers.Wait()
	err := cmd.Wait()

	h.mu.Lock()
	h.exitErr = err
	h.mu.Unlock()
	close(exitedCh)
}

// killGroup sends the terminal signal immediately, marks the handle
// status per kind (Terminating for a plain kill, Restarting for a
// restart), and schedules the force signal after the grace period in the
// background. Non-Running handles are a no-op.
func (h *ProcessHandle) killGroup(asRestart bool) {
	h.mu.Lock()
	if h.status.Kind != Running {
		h.mu.Unlock()
		return
	}
	pgid := h.pgid
	if asRestart {
		h.status = Status{Kind: Restarting}
		h.restartOnExit = true
	} else {
		h.status = Status{Kind: Terminating}
		h.restartOnExit = false
	}
	h.mu.Unlock()

	_ = signalGroup(pgid, sigTerm)

	go func() {
		time.Sleep(killGrace)
		h.mu.Lock()
		stillPending := h.status.Kind == Terminating || h.status.Kind == Restarting
		h.mu.Unlock()
		if stillPending {
			_ = signalGroup(pgid, sigKill)
		}
	}()
}

// sendTerminalSignal sends only the terminal signal to the group, used by
// the bulk shutdown flow's "send group-termination to every process
// concurrently" step (spec §4.1 Shutdown flow step 2), without scheduling
// a follow-up force signal.
func (h *ProcessHandle) sendTerminalSignal() {
	h.mu.Lock()
	pgid := h.pgid
	kind := h.status.Kind
	h.mu.Unlock()
	if kind != Terminating && kind != Restarting {
		return
	}
	_ = signalGroup(pgid, sigTerm)
}

// setTerminatingIfRunning transitions Running -> Terminating without
// sending any signal, used by the shutdown flow's first step.
func (h *ProcessHandle) setTerminatingIfRunning() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status.Kind == Running {
		h.status = Status{Kind: Terminating}
	}
}

// pollExit returns whether the child has exited, and if so the exit error
// (nil on clean exit). Once the child has exited it keeps reporting so on
// every call until clearAfterExit runs. has is false when no child has
// been spawned since the last clearAfterExit.
func (h *ProcessHandle) pollExit() (exited bool, err error, has bool) {
	h.mu.Lock()
	ch := h.exitedCh
	h.mu.Unlock()
	if ch == nil {
		return false, nil, false
	}
	select {
	case <-ch:
		h.mu.Lock()
		exitErr := h.exitErr
		h.mu.Unlock()
		return true, exitErr, true
	default:
		return false, nil, true
	}
}

// clearAfterExit resets the handle's running-state fields once an exit
// has been observed and processed by the supervisor.
func (h *ProcessHandle) clearAfterExit(status Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
	h.cmd = nil
	h.pgid = 0
	h.exitedCh = nil
}

// wantsRestart reports and clears the restart-on-exit flag.
func (h *ProcessHandle) wantsRestart() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := h.restartOnExit
	h.restartOnExit = false
	return v
}
