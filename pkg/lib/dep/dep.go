// Package dep implements dependency probes for gating process starts: a
// process that needs, say, a database or a build artifact can wait until a
// TCP port accepts connections, an HTTP endpoint answers, or a filesystem
// path appears.
package dep

import (
	"context"
	"fmt"
	"time"
)

// pollGap is the fixed interval between probe attempts shared by all
// dependency kinds.
const pollGap = 250 * time.Millisecond

// Dependency is a thing that must become available before a dependent
// process starts.
type Dependency interface {
	// Tag identifies the dependency in pool output.
	Tag() string
	// Check probes the dependency once, without retrying.
	Check(ctx context.Context) error
	// Wait blocks until the dependency becomes available. It returns nil on
	// success or a terminal *WaitError; it never returns while the
	// dependency is still pending. Canceling ctx aborts the wait with the
	// context error.
	Wait(ctx context.Context) error
}

// WaitErrorKind discriminates terminal Wait failures.
type WaitErrorKind int

const (
	// Rejection means the dependency is reachable but answered negatively.
	// It is not retried: a broken dependency is a different condition than
	// one that is not up yet, and retrying would mask real failures.
	Rejection WaitErrorKind = iota
	// Timeout means the dependency did not become available within the
	// configured wait timeout.
	Timeout
	// InvalidTarget means the dependency target (address, URL, path) cannot
	// be probed at all.
	InvalidTarget
)

// WaitError is the terminal failure of a Dependency.Wait call.
type WaitError struct {
	Kind WaitErrorKind
	// Err carries the underlying cause for Rejection and InvalidTarget.
	Err error
}

func (e *WaitError) Error() string {
	switch e.Kind {
	case Rejection:
		return fmt.Sprintf("rejection: %v", e.Err)
	case Timeout:
		return "timeout"
	case InvalidTarget:
		return fmt.Sprintf("invalid target: %v", e.Err)
	default:
		return "unknown wait error"
	}
}

func (e *WaitError) Unwrap() error { return e.Err }

// deadlineFrom computes the wait deadline once at the start of a Wait call.
// A zero timeout means no deadline.
func deadlineFrom(timeout time.Duration) time.Time {
	if timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(timeout)
}

func expired(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}

// sleepGap waits one poll interval, aborting early when ctx is canceled.
func sleepGap(ctx context.Context) error {
	timer := time.NewTimer(pollGap)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
