package filesystem

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"confluenz/internal/domain"
)

// Store implements ports.RemoteStore over a local directory, typically a
// git checkout of the wiki. Version stamps are git blob hashes, so a stamp
// read here matches the one GitHub reports for the same content.
type Store struct {
	root string
	mu   sync.Mutex // serializes compare-and-swap on writes and deletes
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~") {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, dir[1:])
	}
	return &Store{root: dir}
}

// Root returns the directory the store serves
func (s *Store) Root() string {
	return s.root
}

// BlobStamp returns the git blob hash of content
func BlobStamp(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// List returns every file and directory below the root. Hidden entries are
// skipped except folder markers.
func (s *Store) List(ctx context.Context) ([]domain.FileDescriptor, error) {
	var out []domain.FileDescriptor

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == s.root {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") && name != domain.FolderMarkerName {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			out = append(out, domain.FileDescriptor{Path: rel, Kind: domain.KindTree})
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out = append(out, domain.FileDescriptor{
			Path:         rel,
			Kind:         domain.KindBlob,
			VersionStamp: BlobStamp(content),
		})
		return nil
	})
	if err != nil {
		return nil, storeError("list", s.root, err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Read returns the content of the file at p
func (s *Store) Read(ctx context.Context, p string) (*domain.Blob, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, storeError("read", p, err)
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return nil, storeError("read", p, err)
	}
	return &domain.Blob{Content: content, VersionStamp: BlobStamp(content)}, nil
}

// Write stores content at p. An empty expectedStamp creates the file and
// fails if it exists; otherwise the file must still have expectedStamp.
func (s *Store) Write(ctx context.Context, p string, content []byte, expectedStamp string) (string, error) {
	full, err := s.resolve(p)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", storeError("write", p, err)
	}
	if err := s.checkStamp("write", full, p, expectedStamp); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", storeError("write", p, err)
	}
	if err := atomic.WriteFile(full, bytes.NewReader(content)); err != nil {
		return "", storeError("write", p, err)
	}
	if expectedStamp == "" {
		// new files come out of a 0600 temp file
		if err := os.Chmod(full, 0644); err != nil {
			return "", storeError("write", p, err)
		}
	}
	return BlobStamp(content), nil
}

// Delete removes the file at p if it still has stamp, then removes any
// directories left empty by it
func (s *Store) Delete(ctx context.Context, p, stamp string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return storeError("delete", p, err)
	}
	if stamp == "" {
		return fmt.Errorf("delete %s: %w", p, domain.ErrVersionConflict)
	}
	if err := s.checkStamp("delete", full, p, stamp); err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		return storeError("delete", p, err)
	}
	s.pruneEmptyParents(filepath.Dir(full))
	return nil
}

func (s *Store) checkStamp(op, full, p, expected string) error {
	current, err := os.ReadFile(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if expected != "" {
			return fmt.Errorf("%s %s: %w", op, p, domain.ErrNotFound)
		}
		return nil
	case err != nil:
		return storeError(op, p, err)
	case expected == "":
		return fmt.Errorf("%s %s: %w", op, p, domain.ErrAlreadyExists)
	case BlobStamp(current) != expected:
		return fmt.Errorf("%s %s: %w", op, p, domain.ErrVersionConflict)
	}
	return nil
}

func (s *Store) pruneEmptyParents(dir string) {
	root := filepath.Clean(s.root)
	for dir = filepath.Clean(dir); dir != root && strings.HasPrefix(dir, root); dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
	}
}

// resolve maps a slash separated store path to a file below the root
func (s *Store) resolve(p string) (string, error) {
	if p == "" || path.IsAbs(p) || !filepath.IsLocal(filepath.FromSlash(p)) {
		return "", fmt.Errorf("%w: %q is outside the wiki", domain.ErrInvalidPath, p)
	}
	return filepath.Join(s.root, filepath.FromSlash(p)), nil
}

func storeError(op, p string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, p, domain.ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s %s: %w: %v", op, p, domain.ErrAuthFailure, err)
	default:
		return fmt.Errorf("%s %s: %w: %v", op, p, domain.ErrRemoteUnavailable, err)
	}
}
