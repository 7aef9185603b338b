package lib

import (
	"errors"
	"fmt"
)

// ExitKind discriminates the non-error terminal outcomes of a RunningProcess.
type ExitKind int

const (
	// ExitOutput means the process finished on its own with code 0.
	ExitOutput ExitKind = iota
	// ExitInterrupted means the process exited within the grace window after
	// an interrupt.
	ExitInterrupted
	// ExitKilled means the process outlived the grace window and was
	// force-killed.
	ExitKilled
)

// ExitResult is the terminal outcome of a RunningProcess that is not an
// error. Exactly one is produced per process.
type ExitResult struct {
	Kind ExitKind
	// Output holds captured stdout when the process was spawned with piped
	// stdio. Nil otherwise.
	Output []byte
	// PID is set for ExitKilled so operators can correlate log lines.
	PID int
}

// NonZeroExitError is raised when a process exits with a non-zero exit code.
type NonZeroExitError struct {
	// Code is the exit code. It is -1 on Unix when the process was
	// terminated by a signal.
	Code int
	// Output holds captured stdout when stdio was piped.
	Output []byte
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("process exited with non-zero code: %d", e.Code)
}

// ZombieError is raised when an attempt to kill a hanged process failed.
// There is a live process left behind that this supervisor cannot clean up,
// so the error carries the pid for manual operator intervention. It is never
// retried automatically.
type ZombieError struct {
	PID int
	Err error
}

func (e *ZombieError) Error() string {
	return fmt.Sprintf("process with pid %d hanged and we were unable to kill it: %v", e.PID, e.Err)
}

func (e *ZombieError) Unwrap() error { return e.Err }

// ErrProcessVanished is raised when a child process reports no OS identifier,
// which is unexpected in the context of this library and treated as an
// invariant violation.
var ErrProcessVanished = errors.New("process does not exist")
