package ports

import (
	"context"

	"confluenz/internal/domain"
)

// DocumentReader is the read side of a RemoteStore
type DocumentReader interface {
	Read(ctx context.Context, path string) (*domain.Blob, error)
}

// PageIndex provides cached full-text access to the pages of a wiki
type PageIndex interface {
	// Lifecycle
	Open(repoKey string) error
	Close() error

	// Sync brings the index in line with tree, reading only pages whose
	// version stamp changed since the last sync
	Sync(ctx context.Context, tree *domain.PageTree, reader DocumentReader) (*domain.SyncStats, error)

	// Search returns pages whose title or content contains query
	Search(query string) ([]domain.SearchResult, error)
}
