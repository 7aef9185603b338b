//go:build windows

package lib

import (
	"os"
	"syscall"
)

const shellPath = "cmd"

// Windows has no process groups in the POSIX sense; signals always target a
// single process.
const processGroups = false

func shellArgs(exe string) []string {
	return []string{"/c", exe}
}

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

// interruptProcess terminates the process. Windows offers no portable way to
// deliver a cooperative interrupt to another process, so graceful and
// forceful stops collapse into termination here.
func interruptProcess(pid int, group bool) error {
	return killProcess(pid, group)
}

func killProcess(pid int, _ bool) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}
