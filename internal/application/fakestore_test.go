package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"confluenz/internal/domain"
)

type fakeFile struct {
	content []byte
	stamp   string
}

// fakeStore is an in-memory RemoteStore with compare-and-swap semantics
type fakeStore struct {
	mu      sync.Mutex
	files   map[string]fakeFile
	counter int

	listErr error
	readErr error
	calls   []string
}

func newFakeStore(files map[string]string) *fakeStore {
	s := &fakeStore{files: make(map[string]fakeFile)}
	for p, c := range files {
		s.files[p] = fakeFile{content: []byte(c), stamp: s.nextStamp()}
	}
	return s
}

func (s *fakeStore) nextStamp() string {
	s.counter++
	return fmt.Sprintf("v%d", s.counter)
}

func (s *fakeStore) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *fakeStore) List(_ context.Context) ([]domain.FileDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("list")

	if s.listErr != nil {
		return nil, s.listErr
	}

	dirs := map[string]bool{}
	var out []domain.FileDescriptor
	for p, f := range s.files {
		out = append(out, domain.FileDescriptor{Path: p, Kind: domain.KindBlob, VersionStamp: f.stamp})
		parts := strings.Split(p, "/")
		for i := 1; i < len(parts); i++ {
			dirs[strings.Join(parts[:i], "/")] = true
		}
	}
	for d := range dirs {
		out = append(out, domain.FileDescriptor{Path: d, Kind: domain.KindTree})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (s *fakeStore) Read(_ context.Context, path string) (*domain.Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("read " + path)

	if s.readErr != nil {
		return nil, s.readErr
	}
	f, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, domain.ErrNotFound)
	}
	return &domain.Blob{Content: append([]byte(nil), f.content...), VersionStamp: f.stamp}, nil
}

func (s *fakeStore) Write(_ context.Context, path string, content []byte, expected string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("write " + path)

	f, exists := s.files[path]
	switch {
	case expected == "" && exists:
		return "", fmt.Errorf("write %s: %w", path, domain.ErrAlreadyExists)
	case expected != "" && !exists:
		return "", fmt.Errorf("write %s: %w", path, domain.ErrNotFound)
	case expected != "" && f.stamp != expected:
		return "", fmt.Errorf("write %s: %w", path, domain.ErrVersionConflict)
	}

	stamp := s.nextStamp()
	s.files[path] = fakeFile{content: append([]byte(nil), content...), stamp: stamp}
	return stamp, nil
}

func (s *fakeStore) Delete(_ context.Context, path, stamp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("delete " + path)

	f, ok := s.files[path]
	if !ok {
		return fmt.Errorf("delete %s: %w", path, domain.ErrNotFound)
	}
	if f.stamp != stamp {
		return fmt.Errorf("delete %s: %w", path, domain.ErrVersionConflict)
	}
	delete(s.files, path)
	return nil
}

func (s *fakeStore) content(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[path]
	return string(f.content), ok
}

func (s *fakeStore) stamp(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[path].stamp
}

// bump simulates another client editing path
func (s *fakeStore) bump(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = fakeFile{content: []byte(content), stamp: s.nextStamp()}
}
