package lib

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shakacode/steward/pkg/lib/dep"
)

func TestTagColors_Distinct(t *testing.T) {
	cases := []int{1, 3, 5, 7, 8}
	for _, n := range cases {
		colors := tagColors(n)
		if len(colors) != n {
			t.Fatalf("tagColors(%d) returned %d colors", n, len(colors))
		}
		seen := map[any]bool{}
		for _, c := range colors {
			if seen[c] {
				t.Fatalf("tagColors(%d) returned a duplicate color", n)
			}
			seen[c] = true
		}
	}
}

func TestTagColors_LargePoolCycles(t *testing.T) {
	colors := tagColors(12)
	if len(colors) != 12 {
		t.Fatalf("expected 12 colors, got %d", len(colors))
	}
	// The palette holds 8 colors, so the first 8 are distinct and the rest
	// repeat from the start of the shuffled palette.
	seen := map[any]bool{}
	for _, c := range colors[:8] {
		if seen[c] {
			t.Fatalf("expected the first 8 colors to be distinct")
		}
		seen[c] = true
	}
	for _, c := range colors[8:] {
		if !seen[c] {
			t.Fatalf("expected overflow colors to repeat palette entries")
		}
	}
}

func TestLaunchEntries_AllEntriesReport(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "never-appears")
	entries := []PoolEntry{
		{Process: Process{Tag: "one", Cmd: Cmd{Exe: "echo one"}, Timeout: KillTimeout(time.Second)}},
		{Process: Process{Tag: "two", Cmd: Cmd{Exe: "echo two"}, Timeout: KillTimeout(time.Second)}},
		{
			Process:    Process{Tag: "gated", Cmd: Cmd{Exe: "echo gated"}, Timeout: KillTimeout(time.Second)},
			Dependency: dep.NewFile("artifact", missing, 300*time.Millisecond),
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exited, grace := launchEntries(ctx, entries)
	if grace != time.Second {
		t.Fatalf("expected grace window 1s, got %v", grace)
	}

	// Two entries run to completion, the third times out on its dependency
	// without ever spawning; all three must report.
	deadline := time.Now().Add(3 * time.Second)
	for exited.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("exited count stuck at %d", exited.Load())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestRunWithDeps_ReturnsAfterInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	pool := ProcessPool{Interrupt: ctx}
	processes := []Process{
		{Tag: "a", Cmd: Cmd{Exe: "sleep 5"}, Timeout: KillTimeout(500 * time.Millisecond)},
		{Tag: "b", Cmd: Cmd{Exe: "echo done"}, Timeout: KillTimeout(500 * time.Millisecond)},
	}

	done := make(chan error, 1)
	go func() { done <- pool.Run(processes) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("pool did not return after interrupt")
	}
}

func TestRunWithDeps_EmptyPool(t *testing.T) {
	pool := ProcessPool{Interrupt: context.Background()}
	if err := pool.RunWithDeps(nil); err != nil {
		t.Fatalf("empty pool: %v", err)
	}
}

func TestTaggedPrefix_Alignment(t *testing.T) {
	colors := tagColors(2)
	short := taggedPrefix("ab", colors[0], 6)
	long := taggedPrefix("onetwo", colors[1], 6)

	// Strip styling differences by measuring the visible padding: both
	// prefixes must place the pipe at the same column.
	if idxShort, idxLong := strings.LastIndex(short, "|"), strings.LastIndex(long, "|"); idxShort < 0 || idxLong < 0 {
		t.Fatalf("prefix missing pipe: %q %q", short, long)
	}
	if !strings.Contains(short, "      ") { // 6-2+2 spaces
		t.Fatalf("short tag not padded to column: %q", short)
	}
	if !strings.Contains(long, "  ") { // minimum gap
		t.Fatalf("long tag missing minimum gap: %q", long)
	}
}

func TestStreamLines(t *testing.T) {
	chunks := make(chan []byte, 8)
	chunks <- []byte("first li")
	chunks <- []byte("ne\nsecond line\ntail")
	close(chunks)

	var lines []string
	streamLines(chunks, func(line string) { lines = append(lines, line) })

	want := []string{"first line", "second line", "tail"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d mismatch: got %q want %q", i, lines[i], want[i])
		}
	}
}
