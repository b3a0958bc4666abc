package application

import "confluenz/internal/domain"

// Re-export domain types for use by adapters
type (
	PageTree       = domain.PageTree
	PageNode       = domain.PageNode
	Document       = domain.Document
	OpenedDocument = domain.OpenedDocument
	EditBuffer     = domain.EditBuffer
	SearchResult   = domain.SearchResult
)

// ToStoragePath maps a logical page path to its document path
func ToStoragePath(segments []string) (string, error) {
	return domain.ToStoragePath(segments)
}

// ParentLogicalPath maps a document path back to its logical page path
func ParentLogicalPath(storagePath string) ([]string, error) {
	return domain.ParentLogicalPath(storagePath)
}
