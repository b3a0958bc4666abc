package domain

import "time"

// IndexedPage is a page as cached by the search index
type IndexedPage struct {
	StoragePath  string // primary key
	Title        string
	Content      string
	VersionStamp string // re-read only when this changes
}

// SearchResult represents a search match
type SearchResult struct {
	StoragePath string
	Title       string
	MatchedText string // excerpt around the first match
}

// SyncStats holds statistics from an index sync
type SyncStats struct {
	PagesAdded   int
	PagesUpdated int
	PagesDeleted int
	PagesScanned int
	Duration     time.Duration
}
