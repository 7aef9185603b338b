//go:build unix

package lib

import (
	"syscall"

	"golang.org/x/sys/unix"
)

const shellPath = "/bin/sh"

// processGroups reports whether this platform can signal a whole process
// group at once.
const processGroups = true

func shellArgs(exe string) []string {
	return []string{"-c", exe}
}

// sysProcAttr puts the child into its own process group so that signals reach
// shell-spawned subtrees, not just the immediate shell.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// signalProcess sends sig to the process, or to its whole group when group is
// set (negative pid addresses the group).
func signalProcess(pid int, group bool, sig unix.Signal) error {
	if group {
		pid = -pid
	}
	return unix.Kill(pid, sig)
}

func interruptProcess(pid int, group bool) error {
	return signalProcess(pid, group, unix.SIGINT)
}

func killProcess(pid int, group bool) error {
	return signalProcess(pid, group, unix.SIGKILL)
}
