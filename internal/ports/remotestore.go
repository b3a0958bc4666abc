package ports

import (
	"context"

	"confluenz/internal/domain"
)

// RemoteStore is the version-controlled file store that holds the wiki.
// Every method reports failures with the domain error kinds.
type RemoteStore interface {
	// List returns every entry of the repository tree
	List(ctx context.Context) ([]domain.FileDescriptor, error)

	// Read returns a file's content and its current version stamp
	Read(ctx context.Context, path string) (*domain.Blob, error)

	// Write stores content at path. An empty expectedStamp means create only
	// (ErrAlreadyExists if present); otherwise the write only succeeds when
	// the current stamp equals expectedStamp (ErrVersionConflict if not).
	// It returns the new version stamp.
	Write(ctx context.Context, path string, content []byte, expectedStamp string) (string, error)

	// Delete removes path if its current stamp equals stamp
	Delete(ctx context.Context, path, stamp string) error
}
