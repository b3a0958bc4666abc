package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"confluenz/internal/domain"
)

func setupTestWiki(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for p, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
	return dir
}

func TestBlobStamp_MatchesGit(t *testing.T) {
	// git hash-object of an empty file and of "hello\n"
	if got := BlobStamp(nil); got != "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391" {
		t.Errorf("empty blob stamp = %s", got)
	}
	if got := BlobStamp([]byte("hello\n")); got != "ce013625030ba8dba906f756967f9e9ca394464a" {
		t.Errorf("hello blob stamp = %s", got)
	}
}

func TestStore_List(t *testing.T) {
	dir := setupTestWiki(t, map[string]string{
		"index.md":               "# Home",
		"guide/index.md":         "# Guide",
		"guide/install/index.md": "# Install",
		"drafts/.gitkeep":        "",
		".git/config":            "[core]",
		".hidden":                "x",
		"assets/logo.png":        "png",
	})

	store := NewStore(dir)
	got, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var paths []string
	for _, d := range got {
		paths = append(paths, d.Path+":"+d.Kind.String())
		if d.Kind == domain.KindBlob && d.VersionStamp == "" {
			t.Errorf("blob %s has no stamp", d.Path)
		}
	}

	want := []string{
		"assets:tree",
		"assets/logo.png:blob",
		"drafts:tree",
		"drafts/.gitkeep:blob",
		"guide:tree",
		"guide/index.md:blob",
		"guide/install:tree",
		"guide/install/index.md:blob",
		"index.md:blob",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ListMissingRoot(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))
	if _, err := store.List(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestWiki(t, map[string]string{"index.md": "# Home"}))

	stamp, err := store.Write(ctx, "guide/index.md", []byte("# Guide"), "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	blob, err := store.Read(ctx, "guide/index.md")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(blob.Content) != "# Guide" || blob.VersionStamp != stamp {
		t.Errorf("unexpected blob: %q %s", blob.Content, blob.VersionStamp)
	}

	if _, err := store.Write(ctx, "guide/index.md", []byte("again"), ""); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	newStamp, err := store.Write(ctx, "guide/index.md", []byte("# Guide v2"), stamp)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if newStamp == stamp {
		t.Error("stamp should change with content")
	}

	if _, err := store.Write(ctx, "guide/index.md", []byte("stale"), stamp); !errors.Is(err, domain.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}

	if _, err := store.Write(ctx, "nope/index.md", []byte("x"), "abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := store.Read(ctx, "nope/index.md"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	dir := setupTestWiki(t, map[string]string{
		"index.md":            "# Home",
		"a/b/index.md":        "# B",
		"keep/index.md":       "# Keep",
		"keep/child/index.md": "# Child",
	})
	store := NewStore(dir)

	blob, err := store.Read(ctx, "a/b/index.md")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if err := store.Delete(ctx, "a/b/index.md", "stale"); !errors.Is(err, domain.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}

	if err := store.Delete(ctx, "a/b/index.md", blob.VersionStamp); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a")); !os.IsNotExist(err) {
		t.Error("empty parent directories should be pruned")
	}

	keep, _ := store.Read(ctx, "keep/index.md")
	if err := store.Delete(ctx, "keep/index.md", keep.VersionStamp); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep", "child", "index.md")); err != nil {
		t.Error("subpages must survive deleting their parent page")
	}

	if err := store.Delete(ctx, "a/b/index.md", blob.VersionStamp); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	store := NewStore(t.TempDir())

	for _, p := range []string{"", "/etc/passwd", "../x/index.md", "a/../../index.md"} {
		if _, err := store.Read(ctx, p); !errors.Is(err, domain.ErrInvalidPath) {
			t.Errorf("Read(%q): expected ErrInvalidPath, got %v", p, err)
		}
		if _, err := store.Write(ctx, p, nil, ""); !errors.Is(err, domain.ErrInvalidPath) {
			t.Errorf("Write(%q): expected ErrInvalidPath, got %v", p, err)
		}
	}
}

func TestNewStore_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	store := NewStore("~/wiki")
	if store.Root() != filepath.Join(home, "wiki") {
		t.Errorf("expected %s, got %s", filepath.Join(home, "wiki"), store.Root())
	}
}
