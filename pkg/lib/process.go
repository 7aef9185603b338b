package lib

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/shakacode/steward/pkg/lib/outbuf"
)

var logger = log.New(io.Discard, "lib: ", log.LstdFlags)

// Process is a specification of a long running command supervised as part of
// a ProcessPool.
type Process struct {
	// Tag identifies the process in pool output.
	Tag string
	// Cmd runs the process.
	Cmd Cmd
	// Timeout is the grace window before a hanged process is killed.
	Timeout KillTimeout
}

// NewProcess constructs a Process with the default kill timeout.
func NewProcess(tag string, cmd Cmd) Process {
	return Process{Tag: tag, Cmd: cmd, Timeout: DefaultKillTimeout()}
}

// RunningProcess wraps one spawned OS child. It owns the wait/kill protocol:
// exactly one terminal outcome is produced per instance, either through Wait
// or through Stop.
type RunningProcess struct {
	cmd     *exec.Cmd
	timeout KillTimeout
	// group is set when the child runs in its own process group and signals
	// should target the whole group.
	group bool

	stdout *outbuf.Buffer // nil unless spawned with StdioPiped
	stderr *outbuf.Buffer

	done   chan error // receives the cmd.Wait result exactly once
	exited atomic.Bool
	killed atomic.Bool
}

// Spawn starts the command through the platform shell and returns a handle to
// the live child. This is the low-level entry point behind Run, Silent and
// Output.
func (cmd *Cmd) Spawn(opts SpawnOptions) (*RunningProcess, error) {
	child := exec.Command(shellPath, shellArgs(cmd.Exe)...)
	child.Env = append(os.Environ(), cmd.Env.Slice()...)
	if cmd.Pwd != nil {
		child.Dir = cmd.Pwd.Path()
	}
	child.SysProcAttr = sysProcAttr()

	process := &RunningProcess{
		cmd:     child,
		timeout: opts.Timeout,
		group:   processGroups,
		done:    make(chan error, 1),
	}

	switch opts.Stdout {
	case StdioInherit:
		child.Stdout = os.Stdout
	case StdioPiped:
		process.stdout = outbuf.RunNewBuffer()
		child.Stdout = process.stdout
	}
	switch opts.Stderr {
	case StdioInherit:
		child.Stderr = os.Stderr
	case StdioPiped:
		process.stderr = outbuf.RunNewBuffer()
		child.Stderr = process.stderr
	}
	// StdioNull leaves the stream nil; exec wires it to the null device.

	if err := child.Start(); err != nil {
		process.stdout.Stop()
		process.stderr.Stop()
		return nil, err
	}

	logger.Printf("spawned %q pid=%d", cmd.Exe, child.Process.Pid)

	go func() {
		err := child.Wait()
		process.stdout.Stop()
		process.stderr.Stop()
		process.exited.Store(true)
		process.done <- err
	}()

	return process, nil
}

// PID returns the OS identifier of the child, or 0 when the child never
// materialized.
func (p *RunningProcess) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Stdout returns the capture buffer of the child's stdout. Nil unless the
// process was spawned with a piped stdout.
func (p *RunningProcess) Stdout() *outbuf.Buffer { return p.stdout }

// Stderr returns the capture buffer of the child's stderr. Nil unless the
// process was spawned with a piped stderr.
func (p *RunningProcess) Stderr() *outbuf.Buffer { return p.stderr }

// Wait races the child's natural completion against the interrupt carried by
// ctx (pass InterruptContext() to observe Ctrl-C). When the interrupt fires
// first, the child gets the kill timeout to exit on its own before being
// force-killed.
//
// Terminal outcomes: ExitResult{ExitOutput} for a zero exit,
// *NonZeroExitError for any other exit code, ExitResult{ExitInterrupted} when
// the child exits within the grace window, ExitResult{ExitKilled} after a
// successful forced kill, *ZombieError when the kill itself failed, and
// ErrProcessVanished when the child has no pid to act on.
func (p *RunningProcess) Wait(ctx context.Context) (*ExitResult, error) {
	if p.cmd.Process == nil {
		return nil, ErrProcessVanished
	}
	pid := p.cmd.Process.Pid
	if ctx == nil {
		ctx = InterruptContext()
	}

	select {
	case err := <-p.done:
		return p.reap(err)
	case <-ctx.Done():
	}

	// Interrupt observed. The child sits in its own process group, so the
	// terminal's SIGINT never reaches it directly; forward it and give the
	// child the grace window to wind down.
	logger.Printf("interrupt observed for pid=%d, grace window %s", pid, p.timeout.Duration())
	if err := interruptProcess(pid, p.group); err != nil {
		logger.Printf("interrupt signal for pid=%d failed: %v", pid, err)
	}

	timer := time.NewTimer(p.timeout.Duration())
	defer timer.Stop()

	select {
	case <-p.done:
		return &ExitResult{Kind: ExitInterrupted}, nil
	case <-timer.C:
	}

	// Could have exited right at the wire.
	select {
	case <-p.done:
		return &ExitResult{Kind: ExitInterrupted}, nil
	default:
	}

	return p.forceKill(pid)
}

// Stop is the cooperative shutdown path, distinct from the interrupt race in
// Wait: it sends an interrupt-class signal to the child (the whole group when
// grouped), waits up to the kill timeout for it to exit, and escalates to a
// forced kill on timeout or signal failure. A failed kill is reported as
// *ZombieError.
func (p *RunningProcess) Stop() error {
	if p.cmd.Process == nil {
		return ErrProcessVanished
	}
	pid := p.cmd.Process.Pid

	if p.exited.Load() {
		return nil
	}

	if err := interruptProcess(pid, p.group); err != nil {
		if p.exited.Load() {
			return nil
		}
		logger.Printf("interrupt signal for pid=%d failed: %v", pid, err)
		_, err := p.forceKill(pid)
		return err
	}

	timer := time.NewTimer(p.timeout.Duration())
	defer timer.Stop()

	select {
	case <-p.done:
		return nil
	case <-timer.C:
		_, err := p.forceKill(pid)
		return err
	}
}

// forceKill delivers SIGKILL (or the platform equivalent) at most once and
// reaps the child. A signal failure means there is a live process we cannot
// clean up, which must surface as ZombieError, never be swallowed.
func (p *RunningProcess) forceKill(pid int) (*ExitResult, error) {
	if !p.killed.CompareAndSwap(false, true) {
		// Another caller owns the kill and drains done.
		return &ExitResult{Kind: ExitKilled, PID: pid}, nil
	}
	if err := killProcess(pid, p.group); err != nil {
		return nil, &ZombieError{PID: pid, Err: err}
	}
	<-p.done
	return &ExitResult{Kind: ExitKilled, PID: pid}, nil
}

// reap converts the cmd.Wait result into the terminal outcome.
func (p *RunningProcess) reap(waitErr error) (*ExitResult, error) {
	var captured []byte
	if p.stdout != nil {
		captured = p.stdout.Bytes()
	}

	if waitErr == nil {
		return &ExitResult{Kind: ExitOutput, Output: captured}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return nil, &NonZeroExitError{Code: exitErr.ExitCode(), Output: captured}
	}
	// Spawn-level or read-level failure.
	return nil, waitErr
}
