package application

import (
	"errors"
	"fmt"

	"confluenz/internal/domain"
)

// Error kinds re-exported for adapters
var (
	ErrInvalidPath       = domain.ErrInvalidPath
	ErrInvalidParent     = domain.ErrInvalidParent
	ErrAlreadyExists     = domain.ErrAlreadyExists
	ErrNotFound          = domain.ErrNotFound
	ErrVersionConflict   = domain.ErrVersionConflict
	ErrAuthFailure       = domain.ErrAuthFailure
	ErrRemoteUnavailable = domain.ErrRemoteUnavailable
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
	Kind    error // error kind this failure belongs to, if any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// RenameError reports a rename that stopped part way. Pages listed in Moved
// already exist under the new name; the rest were left in place.
type RenameError struct {
	From  string
	To    string
	Moved []string
	Err   error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("cannot rename %s to %s (%d moved): %v", e.From, e.To, len(e.Moved), e.Err)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// Describe returns a message telling the user what to do about err
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrVersionConflict):
		return "This page changed since you opened it. Reload it before saving again."
	case errors.Is(err, ErrAlreadyExists):
		return "A page or folder with that name already exists."
	case errors.Is(err, ErrNotFound):
		return "That page no longer exists. Reload the tree."
	case errors.Is(err, ErrAuthFailure):
		return "The repository rejected the credentials. Check your token or run login."
	case errors.Is(err, ErrRemoteUnavailable):
		return "The repository could not be reached. Try again later."
	case errors.Is(err, ErrInvalidParent):
		return "Subpages can only be created under an existing page."
	case errors.Is(err, ErrInvalidPath):
		return "That name is not a valid page path."
	default:
		return err.Error()
	}
}
