package lib

import (
	"path/filepath"
	"testing"
)

type testLoc struct {
	root string
	path string
}

func (l testLoc) Apex() Location { return testLoc{root: l.root, path: l.root} }
func (l testLoc) Path() string   { return l.path }

func TestDisplay_RelativeToProjectRoot(t *testing.T) {
	root := filepath.Join("/home", "dev", "my-project")
	loc := testLoc{root: root, path: filepath.Join(root, "server")}

	if got, want := Display(loc), filepath.Join("my-project", "server"); got != want {
		t.Fatalf("Display: got %q want %q", got, want)
	}
}

func TestDisplay_ApexItself(t *testing.T) {
	root := filepath.Join("/home", "dev", "my-project")
	loc := testLoc{root: root, path: root}

	if got, want := Display(loc), "my-project"; got != want {
		t.Fatalf("Display: got %q want %q", got, want)
	}
}

func TestDisplay_OutsideProjectFallsBack(t *testing.T) {
	loc := testLoc{root: filepath.Join("/home", "dev", "my-project"), path: filepath.Join("/tmp", "elsewhere")}

	if got := Display(loc); got != loc.path {
		t.Fatalf("expected absolute fallback, got %q", got)
	}
}

func TestDisplay_Nil(t *testing.T) {
	if got := Display(nil); got != "" {
		t.Fatalf("expected empty string for nil location, got %q", got)
	}
}
