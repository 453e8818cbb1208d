package domain

import (
	"errors"
	"fmt"
)

// ErrSubjectNotFound is returned when the subject executable cannot be resolved.
var ErrSubjectNotFound = errors.New("subject executable not found")

// DirectoryUnavailableError reports a corpus directory that could not be listed.
type DirectoryUnavailableError struct {
	Dir   string
	Cause error
}

func (e *DirectoryUnavailableError) Error() string {
	return fmt.Sprintf("directory unavailable: %s: %v", e.Dir, e.Cause)
}

func (e *DirectoryUnavailableError) Unwrap() error {
	return e.Cause
}

// DumpWriteError reports a failure to persist the unexpected-failure list.
type DumpWriteError struct {
	Path  string
	Cause error
}

func (e *DumpWriteError) Error() string {
	return fmt.Sprintf("write dump file %s: %v", e.Path, e.Cause)
}

func (e *DumpWriteError) Unwrap() error {
	return e.Cause
}
