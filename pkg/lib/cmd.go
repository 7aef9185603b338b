package lib

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Cmd holds a specification of a command. It can be used for running one-off
// commands, long running processes etc. A Cmd is stateless and can be run any
// number of times.
type Cmd struct {
	// Exe is the command to run. It is passed to the platform shell, so
	// pipes and redirections work.
	Exe string
	// Env is the environment of a process. It extends the environment of the
	// current process rather than replacing it.
	Env Env
	// Pwd is the working directory of a process.
	Pwd Location
	// Msg is an optional message displayed when running a command. Empty
	// means no message.
	Msg string
}

// KillTimeout is the amount of time a process gets to exit on its own after
// a stop or interrupt before it is force-killed.
type KillTimeout time.Duration

// Duration returns the underlying time.Duration.
func (t KillTimeout) Duration() time.Duration { return time.Duration(t) }

var (
	killTimeoutOnce  sync.Once
	killTimeoutValue time.Duration
)

// DefaultKillTimeout resolves the default grace window once per process run:
// 10 seconds, overridable with the PROCESS_TIMEOUT environment variable
// (integer seconds). A malformed value falls back to the default with a
// warning on stderr.
func DefaultKillTimeout() KillTimeout {
	killTimeoutOnce.Do(func() {
		killTimeoutValue = resolveKillTimeout(os.Getenv("PROCESS_TIMEOUT"))
	})
	return KillTimeout(killTimeoutValue)
}

func resolveKillTimeout(raw string) time.Duration {
	const fallback = 10 * time.Second
	if raw == "" {
		return fallback
	}
	secs, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  PROCESS_TIMEOUT variable is not a valid int: %s. Using default: %d\n",
			raw, fallback/time.Second)
		return fallback
	}
	return time.Duration(secs) * time.Second
}

// Stdio selects what happens to a stream of a spawned process.
type Stdio int

const (
	// StdioInherit attaches the stream to the corresponding stream of the
	// current process.
	StdioInherit Stdio = iota
	// StdioNull discards the stream.
	StdioNull
	// StdioPiped captures the stream into an outbuf.Buffer.
	StdioPiped
)

// SpawnOptions configure Cmd.Spawn.
type SpawnOptions struct {
	// Stdout stream destination.
	Stdout Stdio
	// Stderr stream destination.
	Stderr Stdio
	// Timeout is the grace window before a hanged process is killed.
	Timeout KillTimeout
}

// DefaultSpawnOptions inherit both streams and use the default kill timeout.
func DefaultSpawnOptions() SpawnOptions {
	return SpawnOptions{
		Stdout:  StdioInherit,
		Stderr:  StdioInherit,
		Timeout: DefaultKillTimeout(),
	}
}

// Output is returned from Cmd.Output.
type Output struct {
	data        []byte
	interrupted bool
}

// Interrupted reports whether the child was interrupted (e.g. the user
// pressed Ctrl-C) before producing a final exit. Callers that need the
// captured bytes must check this first and decide for themselves whether to
// terminate; the library never exits on the caller's behalf.
func (o Output) Interrupted() bool { return o.interrupted }

// Unwrap returns bytes collected from stdout. It returns nil when the run was
// interrupted; see Interrupted.
func (o Output) Unwrap() []byte {
	if o.interrupted {
		return nil
	}
	return o.data
}

// UnwrapString is Unwrap converted to a string.
func (o Output) UnwrapString() string {
	return string(o.Unwrap())
}

// Run executes a one-off command with inherited stdio, printing a headline
// (with Cmd.Msg, if provided) to stderr first.
func (cmd *Cmd) Run(ctx context.Context) error {
	fmt.Fprintln(os.Stderr, Headline(cmd))

	process, err := cmd.Spawn(DefaultSpawnOptions())
	if err != nil {
		return err
	}
	_, err = process.Wait(ctx)
	return err
}

// Silent executes a one-off command discarding its output. Doesn't print
// anything.
func (cmd *Cmd) Silent(ctx context.Context) error {
	opts := DefaultSpawnOptions()
	opts.Stdout = StdioNull
	opts.Stderr = StdioNull

	process, err := cmd.Spawn(opts)
	if err != nil {
		return err
	}
	_, err = process.Wait(ctx)
	return err
}

// Output executes a one-off command capturing its stdout and stderr. Doesn't
// print anything. When the run is interrupted or the process has to be
// killed, the returned Output carries the interruption marker instead of
// data.
func (cmd *Cmd) Output(ctx context.Context) (Output, error) {
	opts := DefaultSpawnOptions()
	opts.Stdout = StdioPiped
	opts.Stderr = StdioPiped

	process, err := cmd.Spawn(opts)
	if err != nil {
		return Output{}, err
	}
	res, err := process.Wait(ctx)
	if err != nil {
		return Output{}, err
	}

	switch res.Kind {
	case ExitOutput:
		return Output{data: res.Output}, nil
	default:
		return Output{interrupted: true}, nil
	}
}
