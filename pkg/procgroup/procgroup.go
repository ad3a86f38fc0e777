// Package procgroup controls process groups, so that terminating a command
// also terminates every child process it spawned.
package procgroup

import (
	"errors"
	"os/exec"
	"syscall"
	"time"
)

var ErrKillFailed = errors.New("kill operation failed")

// Set configures the command to start in a new process group. Required for
// [Kill] and [KillGroup] to reap the whole tree.
func Set(cmd *exec.Cmd) {
	set(cmd)
}

// Kill signals the process group of the command. A process that has already
// exited is treated as success. The command must have been started with
// [Set].
func Kill(cmd *exec.Cmd, sig syscall.Signal) error {
	return kill(cmd, sig)
}

// KillGroup terminates an entire process group tree with a
// SIGTERM, grace period, SIGKILL lifecycle. The process must have been
// spawned with [Set].
func KillGroup(pid int, grace, timeout time.Duration) error {
	return killGroup(pid, grace, timeout)
}
