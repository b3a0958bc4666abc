package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by the engine and every RemoteStore adapter.
// Adapters wrap them with %w so callers can test with errors.Is.
var (
	ErrInvalidPath       = errors.New("invalid path")
	ErrInvalidParent     = errors.New("invalid parent")
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrVersionConflict   = errors.New("version conflict")
	ErrAuthFailure       = errors.New("authentication failed")
	ErrRemoteUnavailable = errors.New("remote unavailable")
)

// PathError describes a path rejected by the path codec
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

func (e *PathError) Is(target error) bool {
	return target == ErrInvalidPath
}

func invalidPath(path, reason string) error {
	return &PathError{Path: path, Reason: reason}
}
