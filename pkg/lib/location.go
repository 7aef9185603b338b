package lib

import (
	"path/filepath"
	"strings"
)

// Location points at a file or directory of the host project. It is
// implemented by the application because path resolution is project specific:
// the library only needs an absolute path and a way to find the project root.
type Location interface {
	// Apex returns the location of the root directory of a project.
	Apex() Location
	// Path returns an absolute path the location points at.
	Path() string
}

// Display formats a location relative to the parent of its apex, which reads
// well in console output ("my-project/server" instead of a long absolute
// path). Falls back to the absolute path when the location is outside the
// project tree.
func Display(loc Location) string {
	if loc == nil {
		return ""
	}
	path := loc.Path()
	apex := loc.Apex()
	if apex == nil {
		return path
	}
	parent := filepath.Dir(apex.Path())
	rel, err := filepath.Rel(parent, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
