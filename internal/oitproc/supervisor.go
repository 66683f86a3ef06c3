// Package oitproc implements the process supervisor (spec §4.1): spawning
// children in their own process group, two-phase group termination,
// status-machine tracking, and output capture into the shared ingest
// channel.
//
// Grounded on kdlbs-kandev's agentctl/server/process package for the
// shape of a process manager (status machine, piped stdout/stderr reader
// goroutines, non-blocking exit observation) and procattr_unix.go for the
// process-group spawn/kill mechanics, generalized from one agent process
// to N named supervised processes per spec §4.1's contract.
package oitproc

import (
	"fmt"
	"sync"

	"github.com/overitall/overitall/internal/logrecord"
	"github.com/overitall/overitall/internal/oitstatus"
)

// Supervisor owns every ProcessHandle by name and serializes the
// operations spec §4.1 lists: add, start, kill, restart, start_all,
// set_all_terminating, send_kill_signals, check_all_status, reap,
// get_statuses.
type Supervisor struct {
	mu      sync.RWMutex
	handles map[string]*ProcessHandle
	ingest  chan<- logrecord.LogRecord
}

// NewSupervisor returns an empty supervisor that forwards captured lines
// to ingest.
func NewSupervisor(ingest chan<- logrecord.LogRecord) *Supervisor {
	return &Supervisor{
		handles: make(map[string]*ProcessHandle),
		ingest:  ingest,
	}
}

// Add registers a new process definition in the Stopped state. Returns an
// error if name is already registered.
func (s *Supervisor) Add(name, command, workingDir string, statusCfg *oitstatus.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.handles[name]; exists {
		return fmt.Errorf("process '%s' already registered", name)
	}
	s.handles[name] = NewProcessHandle(name, command, workingDir, statusCfg)
	return nil
}

func (s *Supervisor) get(name string) (*ProcessHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handles[name]
	return h, ok
}

// Start spawns the named process if it isn't already Running. Spawn
// errors (command-not-found, cwd-missing) are propagated to the caller
// (spec §4.1 Failure semantics).
func (s *Supervisor) Start(name string) error {
	h, ok := s.get(name)
	if !ok {
		return fmt.Errorf("unknown process '%s'", name)
	}
	return h.spawn(func(r logrecord.LogRecord) {
		s.ingest <- r
	})
}

// StartAll starts every registered process, collecting (not short-
// circuiting on) individual spawn errors.
func (s *Supervisor) StartAll() map[string]error {
	s.mu.RLock()
	names := make([]string, 0, len(s.handles))
	for name := range s.handles {
		names = append(names, name)
	}
	s.mu.RUnlock()

	errs := make(map[string]error)
	for _, name := range names {
		if err := s.Start(name); err != nil {
			errs[name] = err
		}
	}
	return errs
}

// Kill sends a best-effort two-phase group termination to the named
// process: SIGTERM-equivalent immediately, SIGKILL-equivalent after a
// 500ms grace period if the process is still pending. Signal failures
// are swallowed (spec §4.1 Failure semantics); a no-op if not Running.
func (s *Supervisor) Kill(name string) error {
	h, ok := s.get(name)
	if !ok {
		return fmt.Errorf("unknown process '%s'", name)
	}
	h.killGroup(false)
	return nil
}

// Restart is Kill followed by an automatic Start once the exit is
// reaped, modeled as the Restarting status kind so the panel can
// distinguish it from an operator-initiated kill.
func (s *Supervisor) Restart(name string) error {
	h, ok := s.get(name)
	if !ok {
		return fmt.Errorf("unknown process '%s'", name)
	}
	h.killGroup(true)
	return nil
}

// SetAllTerminating transitions every currently Running process to
// Terminating without sending any signal (shutdown flow step 1: so the
// UI can reflect intent before any signal round-trip).
func (s *Supervisor) SetAllTerminating() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.handles {
		h.setTerminatingIfRunning()
	}
}

// SendKillSignals sends the terminal signal to every process currently
// Terminating, concurrently (shutdown flow step 2).
func (s *Supervisor) SendKillSignals() {
	s.mu.RLock()
	handles := make([]*ProcessHandle, 0, len(s.handles))
	for _, h := range s.handles {
		handles = append(handles, h)
	}
	s.mu.RUnlock()

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h *ProcessHandle) {
			defer wg.Done()
			h.sendTerminalSignal()
		}(h)
	}
	wg.Wait()
}

// CheckAllStatus observes children that exited without an explicit kill
// (crash or clean self-exit) and transitions them directly from Running
// to Stopped or Failed, per the status machine's check_status edges.
func (s *Supervisor) CheckAllStatus() {
	s.mu.RLock()
	handles := make([]*ProcessHandle, 0, len(s.handles))
	for _, h := range s.handles {
		handles = append(handles, h)
	}
	s.mu.RUnlock()

	for _, h := range handles {
		if h.Status().Kind != Running {
			continue
		}
		exited, err, has := h.pollExit()
		if !has || !exited {
			continue
		}
		if err != nil {
			h.clearAfterExit(Status{Kind: Failed, Reason: err.Error()})
		} else {
			h.clearAfterExit(Status{Kind: Stopped})
		}
	}
}

// Reap checks whether the named process, if Terminating or Restarting,
// has exited, finalizing its status (and auto-restarting it, if the
// termination was restart-initiated). Returns whether an exit was
// observed and processed this call.
func (s *Supervisor) Reap(name string) bool {
	h, ok := s.get(name)
	if !ok {
		return false
	}
	kind := h.Status().Kind
	if kind != Terminating && kind != Restarting {
		return false
	}

	exited, err, has := h.pollExit()
	if !has || !exited {
		return false
	}

	wantsRestart := h.wantsRestart()

	if err != nil {
		h.clearAfterExit(Status{Kind: Failed, Reason: err.Error()})
	} else {
		h.clearAfterExit(Status{Kind: Stopped})
	}

	if wantsRestart {
		_ = s.Start(name)
	}

	return true
}

// ReapAll calls Reap for every registered process name.
func (s *Supervisor) ReapAll() {
	s.mu.RLock()
	names := make([]string, 0, len(s.handles))
	for name := range s.handles {
		names = append(names, name)
	}
	s.mu.RUnlock()

	for _, name := range names {
		s.Reap(name)
	}
}

// GetStatuses returns a snapshot of every process's current status.
func (s *Supervisor) GetStatuses() map[string]Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Status, len(s.handles))
	for name, h := range s.handles {
		out[name] = h.Status()
	}
	return out
}

// ProcessNames returns every registered process name.
func (s *Supervisor) ProcessNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.handles))
	for name := range s.handles {
		names = append(names, name)
	}
	return names
}

// DisplayStatus returns the named process's StatusMatcher override, if
// any (spec §4.1 Custom status overlay).
func (s *Supervisor) DisplayStatus(name string) (label, color string, ok bool) {
	h, exists := s.get(name)
	if !exists {
		return "", "", false
	}
	return h.DisplayStatus()
}
