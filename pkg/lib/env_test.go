package lib

import (
	"os"
	"strings"
	"testing"
)

func TestEnvExtend_LastWriteWins(t *testing.T) {
	first := NewEnv(map[string]string{"A": "1", "B": "2"})
	second := NewEnv(map[string]string{"B": "3", "C": "4"})

	merged := first.ExtendCloned(second)

	if v, _ := merged.Get("A"); v != "1" {
		t.Fatalf("expected A=1, got %q", v)
	}
	if v, _ := merged.Get("B"); v != "3" {
		t.Fatalf("expected second's value to win for B, got %q", v)
	}
	if v, _ := merged.Get("C"); v != "4" {
		t.Fatalf("expected C=4, got %q", v)
	}
	if len(merged) != 3 {
		t.Fatalf("expected all unique keys preserved, got %d entries", len(merged))
	}

	// ExtendCloned must not touch the receiver
	if v, _ := first.Get("B"); v != "2" {
		t.Fatalf("receiver mutated: B=%q", v)
	}
}

func TestEnvFromPairs_LastPairWins(t *testing.T) {
	env := EnvFromPairs([][2]string{{"A", "1"}, {"B", "2"}, {"A", "3"}})

	if len(env) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(env))
	}
	if v, _ := env.Get("A"); v != "3" {
		t.Fatalf("expected later pair to win for A, got %q", v)
	}
	if v, _ := env.Get("B"); v != "2" {
		t.Fatalf("expected B=2, got %q", v)
	}
}

func TestEnvInsertCloned_DoesNotMutateReceiver(t *testing.T) {
	env := OneEnv("K", "v")
	derived := env.InsertCloned("K2", "v2")

	if _, ok := env.Get("K2"); ok {
		t.Fatalf("receiver mutated by InsertCloned")
	}
	if v, _ := derived.Get("K2"); v != "v2" {
		t.Fatalf("expected derived to carry K2, got %q", v)
	}
}

func TestEnvInsert_MutatesAndChains(t *testing.T) {
	env := EmptyEnv().Insert("A", "1").Insert("B", "2")
	if len(env) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(env))
	}
}

func TestEnvSlice_Format(t *testing.T) {
	env := NewEnv(map[string]string{"B": "2", "A": "1"})
	got := env.Slice()
	if len(got) != 2 || got[0] != "A=1" || got[1] != "B=2" {
		t.Fatalf("unexpected slice: %v", got)
	}
}

func TestParentEnv_ContainsProcessVars(t *testing.T) {
	t.Setenv("STEWARD_ENV_TEST", "present")
	env := ParentEnv()
	if v, _ := env.Get("STEWARD_ENV_TEST"); v != "present" {
		t.Fatalf("expected parent env to include test var, got %q", v)
	}
}

func TestExtendPath(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	got := ExtendPath("/opt/tools/bin")
	want := "/usr/bin" + string(os.PathListSeparator) + "/opt/tools/bin"
	if got != want {
		t.Fatalf("ExtendPath: got %q want %q", got, want)
	}
	if !strings.Contains(got, string(os.PathListSeparator)) {
		t.Fatalf("expected platform list separator in %q", got)
	}
}
