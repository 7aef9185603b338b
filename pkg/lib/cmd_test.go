package lib

import (
	"context"
	"testing"
	"time"
)

func TestCmdOutput_CapturesStdout(t *testing.T) {
	cmd := Cmd{Exe: "printf 'hello world'", Env: EmptyEnv()}

	out, err := cmd.Output(context.Background())
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if out.Interrupted() {
		t.Fatalf("unexpected interruption")
	}
	if got := out.UnwrapString(); got != "hello world" {
		t.Fatalf("captured output mismatch: %q", got)
	}
}

func TestCmdOutput_ShellFeaturesWork(t *testing.T) {
	// The executable string goes through the platform shell, so pipes must
	// work.
	cmd := Cmd{Exe: "printf 'a\nb\nc\n' | wc -l | tr -d ' '", Env: EmptyEnv()}

	out, err := cmd.Output(context.Background())
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if got := out.UnwrapString(); got != "3\n" {
		t.Fatalf("expected piped output %q, got %q", "3\n", got)
	}
}

func TestCmdOutput_EnvReachesChild(t *testing.T) {
	cmd := Cmd{Exe: "printf '%s' \"$STEWARD_TEST_VAR\"", Env: OneEnv("STEWARD_TEST_VAR", "42")}

	out, err := cmd.Output(context.Background())
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if got := out.UnwrapString(); got != "42" {
		t.Fatalf("expected env var to reach the child, got %q", got)
	}
}

func TestCmdSilent_Succeeds(t *testing.T) {
	cmd := Cmd{Exe: "echo discarded", Env: EmptyEnv()}
	if err := cmd.Silent(context.Background()); err != nil {
		t.Fatalf("Silent failed: %v", err)
	}
}

func TestCmdOutput_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	cmd := Cmd{Exe: "sleep 5", Env: EmptyEnv()}
	out, err := cmd.Output(ctx)
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if !out.Interrupted() {
		t.Fatalf("expected interruption marker")
	}
	if out.Unwrap() != nil {
		t.Fatalf("expected nil bytes from an interrupted output")
	}
}

func TestResolveKillTimeout(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 10 * time.Second},
		{"3", 3 * time.Second},
		{"0", 0},
		{"abc", 10 * time.Second},
		{"-5", 10 * time.Second},
	}
	for _, tc := range cases {
		if got := resolveKillTimeout(tc.raw); got != tc.want {
			t.Errorf("resolveKillTimeout(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
