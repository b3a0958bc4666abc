package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"confluenz/internal/domain"
	"confluenz/internal/ports"

	_ "modernc.org/sqlite"
)

const (
	schemaVersion = "2"
	searchLimit   = 50
	excerptRadius = 40
)

// Index implements ports.PageIndex using SQLite
type Index struct {
	db      *sql.DB
	repoKey string
	dbPath  string
	titler  func(markdown string) string
}

// Ensure Index implements PageIndex
var _ ports.PageIndex = (*Index)(nil)

// Option configures an Index
type Option func(*Index)

// WithTitler sets how a page title is extracted from its Markdown. Pages
// without a title are named after their last path segment.
func WithTitler(fn func(markdown string) string) Option {
	return func(idx *Index) { idx.titler = fn }
}

// WithDatabasePath stores the index at path instead of the data directory
func WithDatabasePath(path string) Option {
	return func(idx *Index) { idx.dbPath = path }
}

// NewIndex creates a new SQLite index
func NewIndex(opts ...Option) *Index {
	idx := &Index{}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Open initializes the index for the wiki identified by repoKey, such as
// "owner/name@branch" or a directory
func (idx *Index) Open(repoKey string) error {
	idx.repoKey = repoKey
	if idx.dbPath == "" {
		idx.dbPath = databasePath(repoKey)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS pages (
			path TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			stamp TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if idx.NeedsFullRebuild() {
		if _, err := db.Exec(`DELETE FROM pages`); err != nil {
			db.Close()
			return fmt.Errorf("failed to reset index: %w", err)
		}
	}

	// Update metadata
	if err := idx.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Path returns the database file
func (idx *Index) Path() string {
	return idx.dbPath
}

// NeedsFullRebuild returns true if the cached pages belong to another
// schema or wiki
func (idx *Index) NeedsFullRebuild() bool {
	var version, repoHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'repo_key_hash'").Scan(&repoHash)

	return version != schemaVersion || repoHash != hashRepoKey(idx.repoKey)
}

// databasePath returns the path for the SQLite database
func databasePath(repoKey string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "confluenz", hashRepoKey(repoKey)+".db")
}

// hashRepoKey returns a short hash of the repository key
func hashRepoKey(repoKey string) string {
	h := sha256.Sum256([]byte(repoKey))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta updates the schema version and repository hash
func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('repo_key_hash', ?);
	`, schemaVersion, hashRepoKey(idx.repoKey))
	return err
}

// GetPage retrieves a cached page, or nil if it is not indexed
func (idx *Index) GetPage(path string) (*domain.IndexedPage, error) {
	var page domain.IndexedPage

	err := idx.db.QueryRow(`
		SELECT path, title, content, stamp
		FROM pages WHERE path = ?
	`, path).Scan(&page.StoragePath, &page.Title, &page.Content, &page.VersionStamp)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Search returns pages whose title or content contains query, ignoring case
func (idx *Index) Search(query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	rows, err := idx.db.Query(`
		SELECT path, title, content
		FROM pages
		WHERE lower(title) LIKE ? ESCAPE '\' OR lower(content) LIKE ? ESCAPE '\'
		ORDER BY path
		LIMIT ?
	`, pattern, pattern, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var path, title, content string
		if err := rows.Scan(&path, &title, &content); err != nil {
			return nil, err
		}
		matched := excerpt(content, query)
		if matched == "" {
			matched = title
		}
		results = append(results, domain.SearchResult{
			StoragePath: path,
			Title:       title,
			MatchedText: matched,
		})
	}

	return results, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// excerpt returns the line around the first case-insensitive match of query
func excerpt(content, query string) string {
	lower := strings.ToLower(content)
	i := strings.Index(lower, strings.ToLower(query))
	if i < 0 || len(lower) != len(content) {
		return ""
	}

	start := max(0, i-excerptRadius)
	end := min(len(content), i+len(query)+excerptRadius)
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}

	out := strings.Join(strings.Fields(content[start:end]), " ")
	if start > 0 {
		out = "…" + out
	}
	if end < len(content) {
		out += "…"
	}
	return out
}
