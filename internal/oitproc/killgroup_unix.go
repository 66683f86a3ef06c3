//go:build unix

package oitproc

import (
	"os/exec"
	"syscall"
)

// setProcGroup places cmd in a new process group so descendants spawned by
// shells (npm, pnpm, bundler) are captured and killable as one unit (spec
// §4.1).
//
// Grounded on kdlbs-kandev's procattr_unix.go.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalGroup sends sig to every process in the group led by pgid.
func signalGroup(pgid int, sig syscall.Signal) error {
	return syscall.Kill(-pgid, sig)
}

const (
	sigTerm = syscall.SIGTERM
	sigKill = syscall.SIGKILL
)
