package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"confluenz/internal/domain"
	"confluenz/internal/ports"
)

// Sync brings the index in line with tree. Only pages whose version stamp
// differs from the cached one are read; pages missing from tree are
// dropped. A page that disappears between listing and reading is skipped.
func (idx *Index) Sync(ctx context.Context, tree *domain.PageTree, reader ports.DocumentReader) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	existing, err := idx.stamps()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var changed []*domain.IndexedPage
	for _, doc := range tree.Documents() {
		stats.PagesScanned++
		seen[doc.StoragePath] = true

		if stamp, ok := existing[doc.StoragePath]; ok && stamp == doc.VersionStamp {
			continue
		}

		blob, err := reader.Read(ctx, doc.StoragePath)
		if errors.Is(err, domain.ErrNotFound) {
			delete(seen, doc.StoragePath)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("failed to index %s: %w", doc.StoragePath, err)
		}

		text := string(blob.Content)
		changed = append(changed, &domain.IndexedPage{
			StoragePath:  doc.StoragePath,
			Title:        idx.title(doc.StoragePath, text),
			Content:      text,
			VersionStamp: blob.VersionStamp,
		})
	}

	tx, err := idx.beginTx()
	if err != nil {
		return stats, err
	}
	defer tx.rollback()

	for _, page := range changed {
		if err := tx.upsertPage(page); err != nil {
			return stats, err
		}
		if _, ok := existing[page.StoragePath]; ok {
			stats.PagesUpdated++
		} else {
			stats.PagesAdded++
		}
	}

	// Delete pages that no longer exist
	for path := range existing {
		if !seen[path] {
			if err := tx.deletePage(path); err != nil {
				return stats, err
			}
			stats.PagesDeleted++
		}
	}

	// Update last sync time
	if err := tx.setMeta("last_sync_time", strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
		return stats, err
	}
	if err := tx.commit(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

func (idx *Index) stamps() (map[string]string, error) {
	rows, err := idx.db.Query(`SELECT path, stamp FROM pages`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, stamp string
		if err := rows.Scan(&path, &stamp); err != nil {
			return nil, err
		}
		out[path] = stamp
	}
	return out, rows.Err()
}

func (idx *Index) title(storagePath, text string) string {
	if idx.titler != nil {
		if t := strings.TrimSpace(idx.titler(text)); t != "" {
			return t
		}
	}
	segments, err := domain.ParentLogicalPath(storagePath)
	if err != nil || len(segments) == 0 {
		return "Home"
	}
	return domain.TitleFromSegment(segments[len(segments)-1])
}
