package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/shakacode/steward/pkg/lib"
)

// Loc holds an absolute path to a directory or file of the project. It walks
// up from the working directory looking for a go.mod marker; when none is
// found the working directory itself acts as the root.
type Loc struct {
	path string
}

const rootMarker = "go.mod"

var findRoot = sync.OnceValue(func() Loc {
	cwd, err := os.Getwd()
	if err != nil {
		return Loc{path: "."}
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, rootMarker)); err == nil {
			return Loc{path: dir}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Loc{path: cwd}
		}
		dir = parent
	}
})

// Root returns the project root location.
func Root() Loc {
	return findRoot()
}

// Join derives a location under the receiver.
func (l Loc) Join(parts ...string) Loc {
	return Loc{path: filepath.Join(append([]string{l.path}, parts...)...)}
}

// Apex implements lib.Location.
func (l Loc) Apex() lib.Location { return Root() }

// Path implements lib.Location.
func (l Loc) Path() string { return l.path }
