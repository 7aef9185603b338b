package dep

import (
	"context"
	"fmt"
	"os"
	"time"
)

// File waits for a filesystem path to exist. Useful for gating a process on
// a build artifact or a unix socket produced by a sibling.
type File struct {
	tag     string
	path    string
	timeout time.Duration
}

// NewFile constructs a File dependency for path. A zero timeout means wait
// forever.
func NewFile(tag, path string, timeout time.Duration) *File {
	return &File{tag: tag, path: path, timeout: timeout}
}

// Tag identifies the dependency in pool output.
func (f *File) Tag() string { return f.tag }

func (f *File) exists() (bool, error) {
	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Check reports whether the path exists right now.
func (f *File) Check(_ context.Context) error {
	ok, err := f.exists()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("path %q does not exist", f.path)
	}
	return nil
}

// Wait polls the path until it appears or the timeout expires.
func (f *File) Wait(ctx context.Context) error {
	if f.path == "" {
		return &WaitError{Kind: InvalidTarget, Err: fmt.Errorf("empty path")}
	}

	deadline := deadlineFrom(f.timeout)

	for {
		ok, err := f.exists()
		if err != nil {
			return &WaitError{Kind: InvalidTarget, Err: err}
		}
		if ok {
			return nil
		}
		if expired(deadline) {
			return &WaitError{Kind: Timeout}
		}
		if err := sleepGap(ctx); err != nil {
			return err
		}
		if expired(deadline) {
			return &WaitError{Kind: Timeout}
		}
	}
}
