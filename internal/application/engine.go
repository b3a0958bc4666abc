package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"confluenz/internal/domain"
	"confluenz/internal/ports"
)

// Engine owns the current page tree of one wiki and performs every page
// operation against the remote store. It holds no locks around remote
// calls; the store's version stamps are the only serialization.
type Engine struct {
	store  ports.RemoteStore
	logger *slog.Logger
	now    func() time.Time

	current atomic.Pointer[domain.PageTree]

	subMu       sync.Mutex
	subscribers map[int]func(*domain.PageTree)
	nextSubID   int
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLogger sets the logger used for sync and mutation events
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the clock used to stamp loaded trees
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine over store with an empty tree
func NewEngine(store ports.RemoteStore, opts ...EngineOption) *Engine {
	e := &Engine{
		store:       store,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		subscribers: make(map[int]func(*domain.PageTree)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.current.Store(domain.EmptyTree())
	return e
}

// Tree returns the most recently resolved snapshot
func (e *Engine) Tree() *domain.PageTree {
	return e.current.Load()
}

// Subscribe registers fn to be called with every new current tree.
// The returned function removes the subscription.
func (e *Engine) Subscribe(fn func(*domain.PageTree)) (unsubscribe func()) {
	e.subMu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subscribers, id)
		e.subMu.Unlock()
	}
}

func (e *Engine) publish(tree *domain.PageTree) {
	e.subMu.Lock()
	ids := make([]int, 0, len(e.subscribers))
	for id := range e.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(*domain.PageTree), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.subscribers[id])
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(tree)
	}
}

// Load lists the remote store and replaces the current tree. On failure the
// previous tree stays current.
func (e *Engine) Load(ctx context.Context) (*domain.PageTree, error) {
	descriptors, err := e.store.List(ctx)
	if err != nil {
		err = remoteError("list pages", err)
		e.logger.Warn("load failed, keeping previous tree", "err", err)
		return nil, err
	}

	tree := domain.Build(descriptors)
	tree.LoadedAt = e.now()
	for _, p := range tree.Rejected {
		e.logger.Warn("ignoring invalid page path", "path", p)
	}

	e.current.Store(tree)
	e.logger.Debug("tree loaded", "entries", len(descriptors), "pages", tree.Len())
	e.publish(tree)
	return tree, nil
}

// refresh reloads after a successful mutation. A failed reload is logged
// and does not fail the mutation.
func (e *Engine) refresh(ctx context.Context) {
	if _, err := e.Load(ctx); err != nil {
		e.logger.Warn("refresh after mutation failed", "err", err)
	}
}

// OpenDocument reads a page fresh from the remote store
func (e *Engine) OpenDocument(ctx context.Context, storagePath string) (*domain.OpenedDocument, error) {
	if _, err := domain.ParentLogicalPath(storagePath); err != nil {
		return nil, err
	}

	blob, err := e.store.Read(ctx, storagePath)
	if err != nil {
		return nil, remoteError("open "+storagePath, err, ErrNotFound)
	}

	return &domain.OpenedDocument{
		StoragePath:  storagePath,
		Text:         string(blob.Content),
		VersionStamp: blob.VersionStamp,
	}, nil
}

// RenderDocument opens a page and renders its Markdown
func (e *Engine) RenderDocument(ctx context.Context, storagePath string, renderer ports.Renderer) (string, error) {
	doc, err := e.OpenDocument(ctx, storagePath)
	if err != nil {
		return "", err
	}
	return renderer.Render(doc.Text), nil
}

// CreatePage creates the page at segments with initialText
func (e *Engine) CreatePage(ctx context.Context, segments []string, initialText string) error {
	storagePath, err := domain.ToStoragePath(segments)
	if err != nil {
		return err
	}

	if _, err := e.store.Write(ctx, storagePath, []byte(initialText), ""); err != nil {
		return remoteError("create "+storagePath, err, ErrAlreadyExists)
	}

	e.logger.Info("page created", "path", storagePath)
	e.refresh(ctx)
	return nil
}

// CreateSubpage creates childSegment beneath the page at parentStoragePath
func (e *Engine) CreateSubpage(ctx context.Context, parentStoragePath, childSegment, initialText string) error {
	if !domain.IsDocument(parentStoragePath) {
		return fmt.Errorf("%w: %s is not a page", ErrInvalidParent, parentStoragePath)
	}
	parent, err := domain.ParentLogicalPath(parentStoragePath)
	if err != nil {
		return err
	}
	if err := domain.ValidateSegment(childSegment); err != nil {
		return err
	}

	return e.CreatePage(ctx, append(slices.Clone(parent), childSegment), initialText)
}

// CreateFolder writes the placeholder marker that keeps an empty folder alive
func (e *Engine) CreateFolder(ctx context.Context, segments []string) error {
	markerPath, err := domain.FolderMarkerPath(segments)
	if err != nil {
		return err
	}

	if _, err := e.store.Write(ctx, markerPath, nil, ""); err != nil {
		return remoteError("create folder "+domain.JoinLogicalPath(segments), err, ErrAlreadyExists)
	}

	e.logger.Info("folder created", "path", markerPath)
	e.refresh(ctx)
	return nil
}

// SaveDocument writes buf if the page still has buf.BaseVersionStamp. A
// conflict is returned as is and never retried. On success only the saved
// page's stamp is refreshed in the current tree.
func (e *Engine) SaveDocument(ctx context.Context, buf *domain.EditBuffer) (string, error) {
	if _, err := domain.ParentLogicalPath(buf.StoragePath); err != nil {
		return "", err
	}
	if buf.BaseVersionStamp == "" {
		return "", fmt.Errorf("%w: save of %s has no base version stamp", ErrVersionConflict, buf.StoragePath)
	}

	stamp, err := e.store.Write(ctx, buf.StoragePath, []byte(buf.Text), buf.BaseVersionStamp)
	if err != nil {
		return "", remoteError("save "+buf.StoragePath, err, ErrVersionConflict, ErrNotFound)
	}

	e.logger.Info("page saved", "path", buf.StoragePath, "stamp", stamp)
	e.updateStamp(buf.StoragePath, stamp)
	return stamp, nil
}

func (e *Engine) updateStamp(storagePath, stamp string) {
	for {
		cur := e.current.Load()
		next, ok := cur.WithVersionStamp(storagePath, stamp)
		if !ok {
			return
		}
		if e.current.CompareAndSwap(cur, next) {
			e.publish(next)
			return
		}
	}
}

// DeleteDocument deletes a page using a freshly read stamp. Deleting a page
// that is already gone succeeds.
func (e *Engine) DeleteDocument(ctx context.Context, storagePath string) error {
	if _, err := domain.ParentLogicalPath(storagePath); err != nil {
		return err
	}

	blob, err := e.store.Read(ctx, storagePath)
	switch {
	case errors.Is(err, ErrNotFound):
		e.logger.Info("page already deleted", "path", storagePath)
		e.refresh(ctx)
		return nil
	case err != nil:
		return remoteError("delete "+storagePath, err)
	}

	err = e.store.Delete(ctx, storagePath, blob.VersionStamp)
	switch {
	case errors.Is(err, ErrNotFound):
		e.logger.Info("page already deleted", "path", storagePath)
	case err != nil:
		return remoteError("delete "+storagePath, err, ErrVersionConflict)
	default:
		e.logger.Info("page deleted", "path", storagePath)
	}

	e.refresh(ctx)
	return nil
}

// RenamePage moves a page and everything beneath it to newSegments by
// recreating each file under the new path and deleting the original with
// the stamp it was copied at.
func (e *Engine) RenamePage(ctx context.Context, storagePath string, newSegments []string) error {
	from, err := domain.ParentLogicalPath(storagePath)
	if err != nil {
		return err
	}
	if len(from) == 0 {
		return fmt.Errorf("%w: the home page cannot be renamed", ErrInvalidPath)
	}
	if _, err := domain.ToStoragePath(newSegments); err != nil {
		return err
	}
	if hasPrefix(newSegments, from) {
		return fmt.Errorf("%w: cannot move %s into itself", ErrInvalidPath, domain.JoinLogicalPath(from))
	}

	node := e.Tree().Find(from)
	if node == nil || node.Document == nil {
		return fmt.Errorf("rename %s: %w", storagePath, ErrNotFound)
	}

	moves := collectMoves(from, newSegments, node)
	rename := &RenameError{From: domain.JoinLogicalPath(from), To: domain.JoinLogicalPath(newSegments)}

	// Copy everything first so a taken target leaves the source untouched.
	type copied struct {
		move        fileMove
		sourceStamp string
		targetStamp string
	}
	var done []copied
	for _, m := range moves {
		blob, err := e.store.Read(ctx, m.from)
		if err == nil {
			var stamp string
			stamp, err = e.store.Write(ctx, m.to, blob.Content, "")
			if err == nil {
				done = append(done, copied{move: m, sourceStamp: blob.VersionStamp, targetStamp: stamp})
				continue
			}
		}

		for _, c := range done {
			if derr := e.store.Delete(ctx, c.move.to, c.targetStamp); derr != nil {
				e.logger.Warn("rename rollback failed", "path", c.move.to, "err", derr)
			}
		}
		rename.Err = remoteError("copy "+m.from, err, ErrAlreadyExists, ErrNotFound)
		e.refresh(ctx)
		return rename
	}

	for _, c := range done {
		err := e.store.Delete(ctx, c.move.from, c.sourceStamp)
		if err != nil && !errors.Is(err, ErrNotFound) {
			rename.Err = remoteError("remove "+c.move.from, err, ErrVersionConflict)
			e.refresh(ctx)
			return rename
		}
		rename.Moved = append(rename.Moved, c.move.to)
	}

	e.logger.Info("page renamed", "from", rename.From, "to", rename.To, "files", len(done))
	e.refresh(ctx)
	return nil
}

type fileMove struct {
	from string
	to   string
}

func collectMoves(from, to []string, node *domain.PageNode) []fileMove {
	var moves []fileMove
	add := func(rel []string, doc *domain.Document, name string) {
		if doc == nil {
			return
		}
		target := append(slices.Clone(to), rel...)
		moves = append(moves, fileMove{
			from: doc.StoragePath,
			to:   domain.JoinLogicalPath(target) + "/" + name,
		})
	}

	var walk func(rel []string, n *domain.PageNode)
	walk = func(rel []string, n *domain.PageNode) {
		add(rel, n.Document, domain.DocumentName)
		add(rel, n.Marker, domain.FolderMarkerName)
		for _, c := range n.SortedChildren() {
			walk(append(slices.Clone(rel), c.Segment), c)
		}
	}
	walk(nil, node)
	return moves
}

func hasPrefix(segments, prefix []string) bool {
	return len(segments) >= len(prefix) && slices.Equal(segments[:len(prefix)], prefix)
}

// remoteError annotates err with op. Errors of the listed expected kinds and
// auth failures keep their kind; anything else from the store is reported as
// ErrRemoteUnavailable.
func remoteError(op string, err error, expected ...error) error {
	if err == nil {
		return nil
	}
	kinds := append([]error{ErrAuthFailure, ErrRemoteUnavailable, ErrInvalidPath}, expected...)
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, ErrRemoteUnavailable, err)
}
