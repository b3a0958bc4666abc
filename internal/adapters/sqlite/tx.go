package sqlite

import (
	"database/sql"

	"confluenz/internal/domain"
)

// pageTx groups the writes of one sync
type pageTx struct {
	tx *sql.Tx
}

func (idx *Index) beginTx() (*pageTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &pageTx{tx: tx}, nil
}

// upsertPage inserts or updates a page
func (t *pageTx) upsertPage(page *domain.IndexedPage) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO pages (path, title, content, stamp)
		VALUES (?, ?, ?, ?)
	`, page.StoragePath, page.Title, page.Content, page.VersionStamp)
	return err
}

// deletePage removes a page by path
func (t *pageTx) deletePage(path string) error {
	_, err := t.tx.Exec(`DELETE FROM pages WHERE path = ?`, path)
	return err
}

func (t *pageTx) setMeta(key, value string) error {
	_, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

func (t *pageTx) commit() error {
	return t.tx.Commit()
}

func (t *pageTx) rollback() error {
	return t.tx.Rollback()
}
