package domain

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func blob(path, stamp string) FileDescriptor {
	return FileDescriptor{Path: path, Kind: KindBlob, VersionStamp: stamp}
}

func sampleListing() []FileDescriptor {
	return []FileDescriptor{
		{Path: "docs", Kind: KindTree},
		blob("docs/index.md", "s1"),
		{Path: "docs/guide", Kind: KindTree},
		blob("docs/guide/index.md", "s2"),
		blob("docs/guide/logo.png", "s3"),
		blob("docs/api/v1/index.md", "s4"),
		blob("drafts/.gitkeep", "s5"),
		blob("README.md", "s6"),
		blob("index.md", "s7"),
	}
}

func TestBuild_Confluence(t *testing.T) {
	descriptors := sampleListing()
	want := Build(descriptors)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]FileDescriptor(nil), descriptors...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Build(shuffled)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("permutation %d produced a different tree (-want +got):\n%s", i, diff)
		}
	}
}

func TestBuild_SubpageCoexistence(t *testing.T) {
	tree := Build([]FileDescriptor{
		blob("docs/index.md", "a"),
		blob("docs/guide/index.md", "b"),
	})

	docs := tree.Root.Children["docs"]
	if docs == nil {
		t.Fatal("expected docs node")
	}
	if docs.Document == nil || docs.Document.StoragePath != "docs/index.md" {
		t.Errorf("expected docs to carry its own document, got %+v", docs.Document)
	}

	guide := docs.Children["guide"]
	if guide == nil || guide.Document == nil {
		t.Fatal("expected docs/guide page")
	}
	if guide.Document.StoragePath != "docs/guide/index.md" || guide.Document.VersionStamp != "b" {
		t.Errorf("unexpected guide document %+v", guide.Document)
	}
}

func TestBuild_DuplicateDescriptors(t *testing.T) {
	tree := Build([]FileDescriptor{
		blob("a/b/index.md", "old"),
		blob("a/b/index.md", "new"),
	})

	a := tree.Root.Children["a"]
	if len(tree.Root.Children) != 1 || a == nil {
		t.Fatalf("expected a single root child, got %d", len(tree.Root.Children))
	}
	if len(a.Children) != 1 {
		t.Fatalf("expected a single child under a, got %d", len(a.Children))
	}
	if got := a.Children["b"].Document.VersionStamp; got != "new" {
		t.Errorf("expected last seen stamp to win, got %q", got)
	}
}

func TestBuild_IntermediateFolders(t *testing.T) {
	tree := Build([]FileDescriptor{blob("docs/api/v1/index.md", "x")})

	docs := tree.Find([]string{"docs"})
	api := tree.Find([]string{"docs", "api"})
	v1 := tree.Find([]string{"docs", "api", "v1"})

	if docs == nil || api == nil || v1 == nil {
		t.Fatal("expected every segment to have a node")
	}
	if docs.IsPage() || api.IsPage() {
		t.Error("intermediate folders must not carry documents")
	}
	if !v1.IsPage() {
		t.Error("expected v1 to be a page")
	}
}

func TestBuild_NonDocumentsExcluded(t *testing.T) {
	tree := Build([]FileDescriptor{
		blob("README.md", "1"),
		blob("assets/logo.png", "2"),
		blob("docs/notes.md", "3"),
		{Path: "docs/index.md", Kind: KindTree},
	})

	if tree.Root.HasChildren() {
		t.Errorf("expected no nodes, got %v", tree.Root.Children)
	}
	if tree.Len() != 0 {
		t.Errorf("expected no pages, got %d", tree.Len())
	}
}

func TestBuild_PlaceholderInvisible(t *testing.T) {
	tree := Build([]FileDescriptor{blob("drafts/.gitkeep", "m")})

	drafts := tree.Find([]string{"drafts"})
	if drafts == nil {
		t.Fatal("expected the folder to be materialized")
	}
	if drafts.IsPage() {
		t.Error("placeholder folder must not have a document")
	}
	if drafts.HasChildren() {
		t.Errorf("placeholder must not appear as a child, got %v", drafts.Children)
	}
	if drafts.Marker == nil || drafts.Marker.StoragePath != "drafts/.gitkeep" {
		t.Errorf("expected marker to be recorded, got %+v", drafts.Marker)
	}

	tree = Build([]FileDescriptor{
		blob("drafts/.gitkeep", "m"),
		blob("drafts/idea/index.md", "p"),
	})
	drafts = tree.Find([]string{"drafts"})
	if len(drafts.Children) != 1 || drafts.Children["idea"] == nil {
		t.Errorf("expected the real page to show up, got %v", drafts.Children)
	}
}

func TestBuild_HomeAndRejected(t *testing.T) {
	tree := Build([]FileDescriptor{
		blob("index.md", "home"),
		blob("a//index.md", "bad"),
		blob("a/index.md/index.md", "bad"),
		blob("ok/index.md", "good"),
	})

	if tree.Root.Document != nil {
		t.Error("root node must never carry a document")
	}
	if tree.Home == nil || tree.Home.VersionStamp != "home" {
		t.Errorf("expected home document, got %+v", tree.Home)
	}
	want := []string{"a//index.md", "a/index.md/index.md"}
	if diff := cmp.Diff(want, tree.Rejected); diff != "" {
		t.Errorf("rejected mismatch (-want +got):\n%s", diff)
	}
	if tree.FindByStoragePath("ok/index.md") == nil {
		t.Error("valid pages must still be built")
	}
}

func TestPageTree_StoragePathInvariant(t *testing.T) {
	tree := Build(sampleListing())

	tree.Walk(func(segments []string, n *PageNode) bool {
		if n.Document == nil {
			return true
		}
		want, err := ToStoragePath(segments)
		if err != nil {
			t.Fatalf("ToStoragePath(%v): %v", segments, err)
		}
		if n.Document.StoragePath != want {
			t.Errorf("node %v has storage path %q, want %q", segments, n.Document.StoragePath, want)
		}
		return true
	})
}

func TestPageTree_Documents(t *testing.T) {
	tree := Build(sampleListing())

	var paths []string
	for _, d := range tree.Documents() {
		paths = append(paths, d.StoragePath)
	}
	want := []string{"index.md", "docs/api/v1/index.md", "docs/guide/index.md", "docs/index.md"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("documents mismatch (-want +got):\n%s", diff)
	}
}

func TestPageTree_WithVersionStamp(t *testing.T) {
	original := Build(sampleListing())

	updated, ok := original.WithVersionStamp("docs/guide/index.md", "s2-new")
	if !ok {
		t.Fatal("expected page to be found")
	}

	if got := updated.FindByStoragePath("docs/guide/index.md").Document.VersionStamp; got != "s2-new" {
		t.Errorf("expected updated stamp, got %q", got)
	}
	if got := original.FindByStoragePath("docs/guide/index.md").Document.VersionStamp; got != "s2" {
		t.Errorf("original snapshot must not change, got %q", got)
	}
	if updated.Find([]string{"docs", "api"}) != original.Find([]string{"docs", "api"}) {
		t.Error("untouched subtrees should be shared")
	}

	if _, ok := original.WithVersionStamp("missing/index.md", "x"); ok {
		t.Error("expected missing page to report false")
	}
	if _, ok := original.WithVersionStamp("drafts/index.md", "x"); ok {
		t.Error("folders without documents must report false")
	}

	home, ok := original.WithVersionStamp("index.md", "home-new")
	if !ok || home.Home.VersionStamp != "home-new" {
		t.Errorf("expected home stamp update, got %+v", home.Home)
	}
}
