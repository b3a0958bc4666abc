package domain

import (
	"slices"
	"sort"
	"time"
)

// PageNode is a node of the page hierarchy. A node is a page when it has a
// Document; otherwise it is a folder that only exists because something
// below it does.
type PageNode struct {
	Segment  string
	Children map[string]*PageNode
	Document *Document
	Marker   *Document // placeholder blob keeping an empty folder alive
}

// IsPage reports whether the node has a backing index.md
func (n *PageNode) IsPage() bool {
	return n.Document != nil
}

// HasChildren reports whether the node has any child nodes
func (n *PageNode) HasChildren() bool {
	return len(n.Children) > 0
}

// SortedChildren returns the children ordered by segment name
func (n *PageNode) SortedChildren() []*PageNode {
	children := make([]*PageNode, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, c)
	}
	slices.SortFunc(children, func(a, b *PageNode) int {
		if a.Segment < b.Segment {
			return -1
		}
		if a.Segment > b.Segment {
			return 1
		}
		return 0
	})
	return children
}

func (n *PageNode) child(segment string) *PageNode {
	if n.Children == nil {
		n.Children = make(map[string]*PageNode)
	}
	c, ok := n.Children[segment]
	if !ok {
		c = &PageNode{Segment: segment}
		n.Children[segment] = c
	}
	return c
}

// shallowCopy copies the node and its children map, sharing the children
func (n *PageNode) shallowCopy() *PageNode {
	cp := *n
	if n.Children != nil {
		cp.Children = make(map[string]*PageNode, len(n.Children))
		for k, v := range n.Children {
			cp.Children[k] = v
		}
	}
	if n.Document != nil {
		doc := *n.Document
		cp.Document = &doc
	}
	return &cp
}

// PageTree is an immutable snapshot of the page hierarchy built from one
// remote listing. Updates produce a new tree.
type PageTree struct {
	Root     *PageNode
	Home     *Document // repository-root index.md, if any
	LoadedAt time.Time
	Rejected []string // document-like paths that failed validation
}

// EmptyTree returns a tree with only the root node
func EmptyTree() *PageTree {
	return &PageTree{Root: &PageNode{}}
}

// Build turns a flat listing into a page tree. Only index.md blobs become
// pages; .gitkeep markers materialize their folder; every other blob is
// ignored. The result does not depend on the order of descriptors.
func Build(descriptors []FileDescriptor) *PageTree {
	tree := EmptyTree()

	for _, d := range descriptors {
		if d.Kind != KindBlob {
			continue
		}

		switch {
		case IsDocument(d.Path):
			segments, err := ParentLogicalPath(d.Path)
			if err != nil {
				tree.Rejected = append(tree.Rejected, d.Path)
				continue
			}
			doc := &Document{StoragePath: d.Path, VersionStamp: d.VersionStamp}
			if len(segments) == 0 {
				tree.Home = doc
				continue
			}
			tree.walkCreate(segments).Document = doc

		case IsFolderMarker(d.Path):
			segments, err := FolderOfMarker(d.Path)
			if err != nil {
				tree.Rejected = append(tree.Rejected, d.Path)
				continue
			}
			tree.walkCreate(segments).Marker = &Document{StoragePath: d.Path, VersionStamp: d.VersionStamp}
		}
	}

	sort.Strings(tree.Rejected)
	tree.Rejected = slices.Compact(tree.Rejected)
	return tree
}

func (t *PageTree) walkCreate(segments []string) *PageNode {
	node := t.Root
	for _, s := range segments {
		node = node.child(s)
	}
	return node
}

// Find returns the node at a logical path, or nil
func (t *PageTree) Find(segments []string) *PageNode {
	node := t.Root
	for _, s := range segments {
		next, ok := node.Children[s]
		if !ok {
			return nil
		}
		node = next
	}
	return node
}

// FindByStoragePath returns the page whose document lives at storagePath
func (t *PageTree) FindByStoragePath(storagePath string) *PageNode {
	segments, err := ParentLogicalPath(storagePath)
	if err != nil || len(segments) == 0 {
		return nil
	}
	node := t.Find(segments)
	if node == nil || node.Document == nil {
		return nil
	}
	return node
}

// Walk visits every node below the root depth-first in name order.
// Returning false from fn skips the node's subtree.
func (t *PageTree) Walk(fn func(segments []string, node *PageNode) bool) {
	var walk func(prefix []string, n *PageNode)
	walk = func(prefix []string, n *PageNode) {
		for _, c := range n.SortedChildren() {
			segments := append(slices.Clone(prefix), c.Segment)
			if fn(segments, c) {
				walk(segments, c)
			}
		}
	}
	walk(nil, t.Root)
}

// Documents returns every page document, home first, then by storage path
func (t *PageTree) Documents() []Document {
	var docs []Document
	t.Walk(func(_ []string, n *PageNode) bool {
		if n.Document != nil {
			docs = append(docs, *n.Document)
		}
		return true
	})
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].StoragePath < docs[j].StoragePath
	})
	if t.Home != nil {
		docs = append([]Document{*t.Home}, docs...)
	}
	return docs
}

// Len returns the number of pages in the tree
func (t *PageTree) Len() int {
	return len(t.Documents())
}

// WithVersionStamp returns a copy of the tree where the page at storagePath
// carries stamp. Only the nodes on the path from the root are copied. The
// second result is false when no such page exists.
func (t *PageTree) WithVersionStamp(storagePath, stamp string) (*PageTree, bool) {
	segments, err := ParentLogicalPath(storagePath)
	if err != nil {
		return t, false
	}

	cp := *t
	if len(segments) == 0 {
		if t.Home == nil || t.Home.StoragePath != storagePath {
			return t, false
		}
		cp.Home = &Document{StoragePath: storagePath, VersionStamp: stamp}
		return &cp, true
	}

	if n := t.Find(segments); n == nil || n.Document == nil {
		return t, false
	}

	cp.Root = t.Root.shallowCopy()
	node := cp.Root
	for _, s := range segments {
		next := node.Children[s].shallowCopy()
		node.Children[s] = next
		node = next
	}
	node.Document.VersionStamp = stamp
	return &cp, true
}
