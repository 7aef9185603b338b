package lib

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"

	"github.com/shakacode/steward/pkg/lib/dep"
)

// PoolEntry is one unit submitted to a ProcessPool: a process, optionally
// gated by a dependency it must wait for before spawning.
type PoolEntry struct {
	Process Process
	// Dependency gates the process start; nil means start right away.
	Dependency dep.Dependency
}

// ProcessPool runs a set of long running processes, multiplexing their
// output with colored tag prefixes, until the process-wide interrupt fires;
// it then waits a bounded grace window for every child to wind down.
//
// All per-entry failures (dependency timeouts, non-zero exits, kills) are
// reported as log lines and never abort sibling entries: the pool is an
// interactive supervisor, not a batch job runner.
type ProcessPool struct {
	// Interrupt overrides the interrupt context observed by the pool and its
	// children. Nil means the process-wide InterruptContext.
	Interrupt context.Context
}

// Run runs a pool of processes with no dependencies.
func (pool ProcessPool) Run(processes []Process) error {
	entries := make([]PoolEntry, 0, len(processes))
	for _, process := range processes {
		entries = append(entries, PoolEntry{Process: process})
	}
	return pool.RunWithDeps(entries)
}

// RunWithDeps runs a pool of entries, waiting for each entry's dependency
// (when present) before spawning its process. It blocks until the interrupt
// fires and every entry reports completion, bounded by the largest kill
// timeout across the pool.
func (pool ProcessPool) RunWithDeps(entries []PoolEntry) error {
	if len(entries) == 0 {
		Print("Nothing to run. Exiting.")
		return nil
	}

	ctx := pool.Interrupt
	if ctx == nil {
		ctx = InterruptContext()
	}

	exited, grace := launchEntries(ctx, entries)

	<-ctx.Done()

	expire := time.Now().Add(grace)
	for exited.Load() < int64(len(entries)) {
		if time.Now().After(expire) {
			Print("⚠️  Timeout. Exiting.")
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	return nil
}

// launchEntries starts one supervising goroutine per entry and returns the
// shared exited counter together with the global grace window (the largest
// kill timeout across entries).
func launchEntries(ctx context.Context, entries []PoolEntry) (*atomic.Int64, time.Duration) {
	tagColumn := 0
	grace := time.Duration(0)
	for _, entry := range entries {
		if n := len(entry.Process.Tag); n > tagColumn {
			tagColumn = n
		}
		if t := entry.Process.Timeout.Duration(); t > grace {
			grace = t
		}
	}

	colors := tagColors(len(entries))

	summary := make([]string, 0, len(entries))
	for i, entry := range entries {
		summary = append(summary, colors[i].Sprint(entry.Process.Tag))
	}
	fmt.Fprintf(os.Stderr, "❯ %s %s\n", color.New(color.Bold).Sprint("Running:"), strings.Join(summary, ", "))

	exited := &atomic.Int64{}
	for i, entry := range entries {
		go supervise(ctx, entry, colors[i], tagColumn, exited)
	}
	return exited, grace
}

// supervise drives one entry to its terminal outcome: dependency wait, spawn,
// output streaming, and the exit race. It always bumps the exited counter,
// whatever the outcome.
func supervise(ctx context.Context, entry PoolEntry, tagColor *color.Color, tagColumn int, exited *atomic.Int64) {
	defer exited.Add(1)

	tag := entry.Process.Tag
	styledTag := tagColor.Sprint(tag)
	prefix := taggedPrefix(tag, tagColor, tagColumn)
	tagged := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "%s %s\n", prefix, fmt.Sprintf(format, args...))
	}

	if dependency := entry.Dependency; dependency != nil {
		tagged("Waiting for %s...", dependency.Tag())
		if err := dependency.Wait(ctx); err != nil {
			tagged("Failed to wait for %s: %v", dependency.Tag(), err)
			return
		}
	}

	process := entry.Process
	tagged("%s", Headline(&process.Cmd))

	running, err := process.Cmd.Spawn(SpawnOptions{
		Stdout:  StdioPiped,
		Stderr:  StdioPiped,
		Timeout: process.Timeout,
	})
	if err != nil {
		tagged("Failed to spawn %s process: %v", styledTag, err)
		return
	}

	go streamLines(running.Stdout().Subscribe(5), func(line string) { tagged("%s", line) })
	go streamLines(running.Stderr().Subscribe(5), func(line string) { tagged("%s", line) })

	res, err := running.Wait(ctx)

	var nonZero *NonZeroExitError
	var zombie *ZombieError
	switch {
	case err == nil && res.Kind == ExitOutput:
		tagged("Process %s exited with code 0.", styledTag)
	case err == nil && res.Kind == ExitInterrupted:
		tagged("Process %s successfully exited.", styledTag)
	case err == nil && res.Kind == ExitKilled:
		tagged("Process %s with pid %d was killed due to timeout.", styledTag, res.PID)
	case errors.As(err, &nonZero):
		tagged("Process %s exited with non-zero code: %d", styledTag, nonZero.Code)
	case errors.As(err, &zombie):
		tagged("⚠️  Process %s with pid %d hanged and we were unable to kill it. Error: %v", styledTag, zombie.PID, zombie.Err)
	default:
		tagged("Process %s exited with error: %v", styledTag, err)
	}
}

// taggedPrefix renders the column-aligned "tag  |" prefix every output line
// of an entry carries.
func taggedPrefix(tag string, tagColor *color.Color, tagColumn int) string {
	pad := 2
	if len(tag) < tagColumn {
		pad = tagColumn - len(tag) + 2
	}
	return tagColor.Sprint(tag) + strings.Repeat(" ", pad) + tagColor.Sprint("|")
}

// streamLines turns a subscription of raw output chunks into whole lines.
// Lines within one stream keep their order; a trailing unterminated line is
// flushed when the stream ends.
func streamLines(chunks <-chan []byte, emit func(line string)) {
	var pending []byte
	for chunk := range chunks {
		pending = append(pending, chunk...)
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			emit(strings.TrimRight(string(pending[:i]), "\r"))
			pending = pending[i+1:]
		}
	}
	if len(pending) > 0 {
		emit(string(pending))
	}
}
